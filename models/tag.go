package models

import "time"

// Tag is a label staff attach to clients and reservations, grouped by
// categoria/subcategoria. Keys are uuids minted at creation.
type Tag struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string    `gorm:"column:nombre;type:varchar(100);not null" json:"nombre"`
	Category    string    `gorm:"column:categoria;type:varchar(100);not null" json:"categoria"`
	Subcategory string    `gorm:"column:subcategoria;type:varchar(100);not null" json:"subcategoria"`
	CreatedAt   time.Time `gorm:"not null" json:"-"`
}

func (Tag) TableName() string {
	return "tags"
}
