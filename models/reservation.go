package models

import "time"

// Reservation is the central entity. ClientID nil means walk-in. TableID
// and SlotID may both be nil while the party waits for a table; they are
// assigned later through the assign endpoint.
//
// SlotLock backs the exclusivity invariant: it is true while the
// reservation is non-cancelled and has both table and slot assigned, and
// NULL otherwise. A NULL member exempts the row from the composite
// unique index on both MySQL and SQLite, so the index fires exactly for
// two live reservations on the same (mesa, fecha, horario).
type Reservation struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ClientID   *uint      `gorm:"column:cliente_id;index" json:"cliente_id"`
	Client     *Client    `gorm:"foreignKey:ClientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"cliente,omitempty"`
	TableID    *uint      `gorm:"column:mesa_id;uniqueIndex:idx_reservas_slot" json:"mesa_id"`
	Table      *Table     `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"mesa,omitempty"`
	SlotID     *uint      `gorm:"column:horario_id;uniqueIndex:idx_reservas_slot" json:"horario_id"`
	Slot       *TimeSlot  `gorm:"foreignKey:SlotID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"horario,omitempty"`
	Date       string     `gorm:"column:fecha_reserva;type:date;not null;index;uniqueIndex:idx_reservas_slot" json:"fecha_reserva"`
	PartySize  int        `gorm:"column:cantidad_personas;not null" json:"cantidad_personas"`
	Notes      *string    `gorm:"column:notas;type:text" json:"notas"`
	Status     string     `gorm:"column:estado;type:varchar(20);not null;default:'pendiente'" json:"estado"`
	CreatedBy  *uint      `gorm:"column:creado_por" json:"creado_por,omitempty"`
	SlotLock   *bool      `gorm:"column:slot_lock;uniqueIndex:idx_reservas_slot" json:"-"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updated_at"`
}

func (Reservation) TableName() string {
	return "reservas"
}
