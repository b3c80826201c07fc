package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pge-app/incidents-api/internal/database"
	"github.com/pge-app/incidents-api/internal/geom"
	"github.com/pge-app/incidents-api/internal/models"
	"github.com/pge-app/incidents-api/internal/utils"
)

// GormIncidentRepository is a GORM implementation of IncidentRepository
type GormIncidentRepository struct {
	db *gorm.DB
}

// NewIncidentRepository creates a new IncidentRepository
func NewIncidentRepository(db *gorm.DB) IncidentRepository {
	return &GormIncidentRepository{db: db}
}

// Create creates a new incident
func (r *GormIncidentRepository) Create(incident *models.Incident) error {
	return r.db.Create(incident).Error
}

// FindByID finds an incident by ID with optional preloading
func (r *GormIncidentRepository) FindByID(id uint, preload ...string) (*models.Incident, error) {
	var incident models.Incident
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&incident, id).Error; err != nil {
		return nil, err
	}

	return &incident, nil
}

// List retrieves incidents matching the filter, newest first.
//
// Each present filter field contributes exactly one AND clause, so clause
// order never changes the result set. Spatial predicates are delegated to
// PostGIS; rows with a NULL location are excluded from every spatial mode.
func (r *GormIncidentRepository) List(filter IncidentFilter) ([]models.Incident, int64, error) {
	query := r.db.Model(&models.Incident{})

	if filter.CategoryID != nil {
		query = query.Where("incidencias.categoria_id = ?", *filter.CategoryID)
	}
	if filter.From != nil {
		query = query.Where("incidencias.timestamp >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("incidencias.timestamp <= ?", *filter.To)
	}
	if filter.BBox != nil {
		box := filter.BBox
		query = query.Where(
			fmt.Sprintf("incidencias.ubicacion IS NOT NULL AND ST_Intersects(incidencias.ubicacion, ST_MakeEnvelope(?, ?, ?, ?, %d))", geom.SRID),
			box.MinLon, box.MinLat, box.MaxLon, box.MaxLat,
		)
	}
	if filter.Near != nil {
		near := filter.Near
		query = query.Where(
			fmt.Sprintf("incidencias.ubicacion IS NOT NULL AND ST_DWithin(incidencias.ubicacion, ST_SetSRID(ST_MakePoint(?, ?), %d), ?)", geom.SRID),
			near.Lon, near.Lat, near.Radius,
		)
	}

	var total int64
	if filter.Paged() {
		if err := query.Count(&total).Error; err != nil {
			return nil, 0, err
		}
	}

	// Most recent first, always.
	listQuery := query.Order("incidencias.timestamp DESC")

	if filter.Paged() {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Offset:   (filter.Page - 1) * filter.PageSize,
		}))
	} else if filter.Limit > 0 {
		listQuery = listQuery.Limit(filter.Limit)
	}

	var incidents []models.Incident
	if err := listQuery.Preload("State").Preload("Category").Find(&incidents).Error; err != nil {
		return nil, 0, err
	}

	if !filter.Paged() {
		total = int64(len(incidents))
	}

	return incidents, total, nil
}

// Update updates an incident
func (r *GormIncidentRepository) Update(incident *models.Incident) error {
	return r.db.Save(incident).Error
}

// Delete hard-deletes an incident
func (r *GormIncidentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Incident{}, id).Error
}
