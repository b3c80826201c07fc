package models

// Role is static reference data seeded at startup ("vecino", "administrador").
// Rows are looked up by id or name at runtime, never assumed as a compiled
// enum beyond the seed defaults.
type Role struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"column:nombre;type:varchar(50);uniqueIndex;not null" json:"nombre"`
}

func (Role) TableName() string {
	return "roles"
}
