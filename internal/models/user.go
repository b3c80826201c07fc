package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	FirstName    string    `gorm:"column:nombre;type:varchar(100);not null" json:"nombre"`
	LastName     string    `gorm:"column:apellido;type:varchar(100);not null" json:"apellido"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"column:password;type:varchar(255);not null" json:"-"`
	RoleID       uint      `gorm:"column:rol_id;not null" json:"rolId"`
	CreatedAt    time.Time `gorm:"column:fecha_alta" json:"fechaAlta"`

	// Relations
	Role      Role       `gorm:"foreignKey:RoleID" json:"-"`
	Incidents []Incident `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "usuarios"
}
