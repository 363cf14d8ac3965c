package models

import (
	"time"

	"gorm.io/datatypes"
)

// Client is the guest registry entry. The blacklist and frequent-guest
// flags are owned by the registry itself and must never be overwritten
// by the reservation upsert path.
type Client struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	FirstName     string         `gorm:"column:nombre;type:varchar(100);not null" json:"nombre"`
	LastName      string         `gorm:"column:apellido;type:varchar(100);not null" json:"apellido"`
	Email         string         `gorm:"column:correo_electronico;type:varchar(255);uniqueIndex;not null" json:"correo_electronico"`
	Phone         string         `gorm:"column:telefono;type:varchar(50)" json:"telefono"`
	IsFrequent    bool           `gorm:"column:es_frecuente;not null;default:false" json:"es_frecuente"`
	IsBlacklisted bool           `gorm:"column:en_lista_negra;not null;default:false" json:"en_lista_negra"`
	Notes         *string        `gorm:"column:notas;type:text" json:"notas"`
	Tags          datatypes.JSON `gorm:"column:tags" json:"tags"`
	Visits        int            `gorm:"column:visitas;not null;default:0" json:"visitas"`
	LastVisit     *time.Time     `gorm:"column:ultima_visita" json:"ultima_visita"`
	TotalSpend    float64        `gorm:"column:gasto_total;type:decimal(12,2);not null;default:0" json:"gasto_total"`
	SpendPerVisit float64        `gorm:"column:gasto_por_visita;type:decimal(12,2);not null;default:0" json:"gasto_por_visita"`
	CreatedAt     time.Time      `gorm:"column:fecha_creacion;not null" json:"fecha_creacion"`
	UpdatedAt     time.Time      `gorm:"column:fecha_actualizacion;not null" json:"fecha_actualizacion"`
}

func (Client) TableName() string {
	return "clientes"
}
