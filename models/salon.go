package models

import "time"

// Salon groups tables into a dining room.
type Salon struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Name               string    `gorm:"column:nombre;type:varchar(100);not null" json:"nombre"`
	Capacity           int       `gorm:"column:capacidad;not null;default:0" json:"capacidad"`
	SpecialCondition   bool      `gorm:"column:es_condicion_especial;not null;default:false" json:"es_condicion_especial"`
	Active             bool      `gorm:"column:esta_activo;not null;default:true" json:"esta_activo"`
	CreatedAt          time.Time `gorm:"not null" json:"-"`
	UpdatedAt          time.Time `gorm:"not null" json:"-"`
}

func (Salon) TableName() string {
	return "salones"
}
