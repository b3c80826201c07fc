package models

import (
	"time"

	"github.com/pge-app/incidents-api/internal/geom"
)

// Incident is a citizen report. Location is a nullable geographic point;
// incidents without one are excluded from every spatial query.
type Incident struct {
	ID          uint        `gorm:"primarykey" json:"id"`
	UserID      uint        `gorm:"column:user_id;not null" json:"userId"`
	CategoryID  uint        `gorm:"column:categoria_id;not null" json:"categoriaId"`
	Description *string     `gorm:"column:descripcion;type:text" json:"descripcion"`
	Location    *geom.Point `gorm:"column:ubicacion" json:"-"`
	PhotoURL    *string     `gorm:"column:foto_url;type:text" json:"fotoUrl"`
	StateID     uint        `gorm:"column:estado_id;not null;default:1" json:"estadoId"`
	CreatedAt   time.Time   `gorm:"column:timestamp" json:"timestamp"`

	// Relations
	User     User          `gorm:"foreignKey:UserID" json:"-"`
	Category Category      `gorm:"foreignKey:CategoryID" json:"-"`
	State    IncidentState `gorm:"foreignKey:StateID" json:"-"`
}

func (Incident) TableName() string {
	return "incidencias"
}
