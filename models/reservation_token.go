package models

import "time"

// ReservationToken is a single-use link credential letting a guest
// confirm or cancel their own reservation without logging in. ConsumedAt
// marks the token spent; consuming it again is a no-op that must not
// re-send staff notifications.
type ReservationToken struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ReservationID uint       `gorm:"column:reserva_id;index;not null" json:"reserva_id"`
	Token         string     `gorm:"column:token;type:varchar(64);uniqueIndex;not null" json:"-"`
	Action        string     `gorm:"column:accion;type:varchar(20);not null" json:"accion"`
	ConsumedAt    *time.Time `gorm:"column:consumed_at" json:"consumed_at"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
}

func (ReservationToken) TableName() string {
	return "reserva_tokens"
}
