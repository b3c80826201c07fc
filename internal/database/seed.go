package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/pge-app/incidents-api/internal/models"
)

// Seed inserts the reference rows the application depends on. Role and state
// ids are stable: default-value logic assumes vecino=1 and nueva=1.
func Seed(db *gorm.DB) error {
	roles := []models.Role{
		{ID: 1, Name: "vecino"},
		{ID: 2, Name: "administrador"},
	}
	for _, role := range roles {
		if err := db.FirstOrCreate(&models.Role{}, role).Error; err != nil {
			return fmt.Errorf("seed role %q: %w", role.Name, err)
		}
	}

	states := []models.IncidentState{
		{ID: 1, Name: "nueva"},
		{ID: 2, Name: "en_proceso"},
		{ID: 3, Name: "resuelta"},
		{ID: 4, Name: "cerrada"},
	}
	for _, state := range states {
		if err := db.FirstOrCreate(&models.IncidentState{}, state).Error; err != nil {
			return fmt.Errorf("seed state %q: %w", state.Name, err)
		}
	}

	categories := []models.Category{
		{ID: 1, Name: "alumbrado"},
		{ID: 2, Name: "baches"},
		{ID: 3, Name: "residuos"},
		{ID: 4, Name: "arbolado"},
		{ID: 5, Name: "seguridad"},
		{ID: 6, Name: "otros"},
	}
	for _, category := range categories {
		cond := models.Category{ID: category.ID, Name: category.Name}
		if err := db.FirstOrCreate(&models.Category{}, cond).Error; err != nil {
			return fmt.Errorf("seed category %q: %w", category.Name, err)
		}
	}

	return nil
}
