package models

import (
	"time"

	"gorm.io/datatypes"
)

// WaitingEntry queues a party that has no table or slot yet. Promotion
// to a real reservation is a manual staff action, not automated matching.
type WaitingEntry struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Date            string         `gorm:"column:fecha_reserva;type:date;not null;index" json:"fecha_reserva"`
	Guests          int            `gorm:"column:invitados;not null" json:"invitados"`
	FirstName       string         `gorm:"column:nombre;type:varchar(100);not null" json:"nombre"`
	LastName        string         `gorm:"column:apellido;type:varchar(100);not null" json:"apellido"`
	Phone           *string        `gorm:"column:telefono;type:varchar(50)" json:"telefono"`
	Email           *string        `gorm:"column:email;type:varchar(255)" json:"email"`
	ClientTags      datatypes.JSON `gorm:"column:client_tags" json:"client_tags"`
	ReservationTags datatypes.JSON `gorm:"column:reservation_tags" json:"reservation_tags"`
	Notes           *string        `gorm:"column:notas;type:text" json:"notas"`
	Status          string         `gorm:"column:estado;type:varchar(20);not null;default:'pendiente'" json:"estado"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
}

func (WaitingEntry) TableName() string {
	return "lista_espera"
}
