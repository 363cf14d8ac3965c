package models

import "time"

// Table is a physical table in a salon. TableNumber is a numeric string
// ("1", "10"); listings must order it numerically, not lexicographically.
// PosX/PosY are floor-editor metadata and play no part in availability.
type Table struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SalonID     uint      `gorm:"column:salon_id;index;not null;uniqueIndex:idx_mesas_salon_numero" json:"salon_id"`
	Salon       Salon     `gorm:"foreignKey:SalonID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	TableNumber string    `gorm:"column:numero_mesa;type:varchar(20);not null;uniqueIndex:idx_mesas_salon_numero" json:"numero_mesa"`
	TableType   string    `gorm:"column:tipo_mesa;type:varchar(50)" json:"tipo_mesa"`
	Size        string    `gorm:"column:tamanio;type:varchar(50)" json:"tamanio"`
	Capacity    int       `gorm:"column:capacidad;not null;default:0" json:"capacidad"`
	Active      bool      `gorm:"column:esta_activa;not null;default:true" json:"esta_activa"`
	PosX        float64   `gorm:"column:posx;not null;default:0" json:"posX"`
	PosY        float64   `gorm:"column:posy;not null;default:0" json:"posY"`
	CreatedAt   time.Time `gorm:"not null" json:"-"`
	UpdatedAt   time.Time `gorm:"not null" json:"-"`
}

func (Table) TableName() string {
	return "mesas"
}
