package models

import "time"

// User is a staff account. Roles: administrador, jefe, anfitrion.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"column:nombre_usuario;type:varchar(100);not null" json:"nombre_usuario"`
	LastName  string    `gorm:"column:apellido_usuario;type:varchar(100);not null" json:"apellido_usuario"`
	Email     string    `gorm:"column:correo_electronico;type:varchar(255);uniqueIndex;not null" json:"correo_electronico"`
	Password  string    `gorm:"column:contrasena_hash;type:varchar(255);not null" json:"-"`
	Role      string    `gorm:"column:rol;type:varchar(30);not null" json:"rol"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"-"`
}

func (User) TableName() string {
	return "usuarios"
}
