package models

import "time"

// TimeSlot is a catalog entry defining a bookable interval. The catalog
// is global, not per table. Times are "HH:MM" 24h strings so they order
// and compare lexicographically.
type TimeSlot struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	StartTime       string    `gorm:"column:hora_inicio;type:varchar(5);not null" json:"hora_inicio"`
	EndTime         string    `gorm:"column:hora_fin;type:varchar(5);not null" json:"hora_fin"`
	Active          bool      `gorm:"column:esta_activo;not null;default:true" json:"esta_activo"`
	DurationMinutes int       `gorm:"column:duracion_minutos;not null;default:0" json:"duracion_minutos"`
	CreatedAt       time.Time `gorm:"not null" json:"-"`
	UpdatedAt       time.Time `gorm:"not null" json:"-"`
}

func (TimeSlot) TableName() string {
	return "horarios_disponibles"
}
