package models

type Category struct {
	ID      uint    `gorm:"primarykey" json:"id"`
	Name    string  `gorm:"column:nombre;type:varchar(100);not null" json:"nombre"`
	IconURL *string `gorm:"column:icono_url;type:text" json:"iconoUrl"`
}

func (Category) TableName() string {
	return "categorias"
}
