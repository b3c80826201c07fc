package database

import (
	"gorm.io/gorm"

	"github.com/pge-app/incidents-api/internal/utils"
)

// Paginate applies page-based pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.PageSize)
	}
}
