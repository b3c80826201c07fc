package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/pge-app/incidents-api/internal/models"
)

// GormCategoryRepository is a GORM implementation of CategoryRepository
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &GormCategoryRepository{db: db}
}

// List lists all categories ordered by id
func (r *GormCategoryRepository) List() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// UpdateIconURLs points every category icon at <baseURL>/<nombre>.png.
func (r *GormCategoryRepository) UpdateIconURLs(baseURL string) (int, error) {
	baseURL = strings.TrimSuffix(baseURL, "/")

	var categories []models.Category
	if err := r.db.Find(&categories).Error; err != nil {
		return 0, err
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		for i := range categories {
			iconURL := fmt.Sprintf("%s/%s.png", baseURL, strings.ToLower(categories[i].Name))
			categories[i].IconURL = &iconURL
			if err := tx.Save(&categories[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(categories), nil
}
