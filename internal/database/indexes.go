package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table      string
		name       string
		definition string
	}{
		// GIST index backing ST_Intersects / ST_DWithin lookups
		{"incidencias", "idx_incidencias_ubicacion", "USING GIST (ubicacion)"},

		// Filter and ordering columns
		{"incidencias", "idx_incidencias_timestamp", "(timestamp)"},
		{"incidencias", "idx_incidencias_categoria_id", "(categoria_id)"},
		{"incidencias", "idx_incidencias_estado_id", "(estado_id)"},
		{"incidencias", "idx_incidencias_user_id", "(user_id)"},

		// Users lookup columns
		{"usuarios", "idx_usuarios_rol_id", "(rol_id)"},
	}

	for _, idx := range indexes {
		// Check if index already exists
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s %s", idx.name, idx.table, idx.definition)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("created index", zap.String("index", idx.name), zap.String("table", idx.table))
	}

	return nil
}
