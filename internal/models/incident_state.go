package models

// IncidentState is the lifecycle label of an incident (nueva, en_proceso,
// resuelta, cerrada). Reference data: transitions are unconstrained, the only
// rule is that a target state id must exist in this table.
type IncidentState struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"column:nombre;type:varchar(50);uniqueIndex;not null" json:"nombre"`
}

func (IncidentState) TableName() string {
	return "estado_incidencias"
}
