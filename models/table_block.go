package models

import "time"

// TableBlock removes a table from service for an arbitrary time range on
// one date. Blocks are independent of the slot catalog and can be finer
// grained than it. They are never expired automatically; past blocks
// simply stop mattering.
type TableBlock struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TableID   uint      `gorm:"column:mesa_id;index;not null" json:"mesa_id"`
	Table     Table     `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Date      string    `gorm:"column:fecha;type:date;not null;index" json:"fecha"`
	StartTime string    `gorm:"column:hora_inicio;type:varchar(5);not null" json:"hora_inicio"`
	EndTime   string    `gorm:"column:hora_fin;type:varchar(5);not null" json:"hora_fin"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (TableBlock) TableName() string {
	return "mesa_bloqueos"
}
