package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/pge-app/incidents-api/internal/models"
)

// GormReferenceRepository is a GORM implementation of ReferenceRepository
type GormReferenceRepository struct {
	db *gorm.DB
}

// NewReferenceRepository creates a new ReferenceRepository
func NewReferenceRepository(db *gorm.DB) ReferenceRepository {
	return &GormReferenceRepository{db: db}
}

// ListRoles lists all roles ordered by id
func (r *GormReferenceRepository) ListRoles() ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.Order("id").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// ListStates lists all incident states ordered by id
func (r *GormReferenceRepository) ListStates() ([]models.IncidentState, error) {
	var states []models.IncidentState
	if err := r.db.Order("id").Find(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}

// FindRoleByName finds a role by case-insensitive name
func (r *GormReferenceRepository) FindRoleByName(name string) (*models.Role, error) {
	var role models.Role
	name = strings.ToLower(strings.TrimSpace(name))
	if err := r.db.Where("LOWER(nombre) = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// RoleExists reports whether a role id exists
func (r *GormReferenceRepository) RoleExists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Role{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// StateExists reports whether a state id exists
func (r *GormReferenceRepository) StateExists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.IncidentState{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
