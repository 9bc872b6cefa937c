package models

import "gorm.io/gorm"

// Staff es un miembro del personal de la clínica. El rol "cajero" es el que
// puede tomar custodia de una caja; la validación de identidad vive en el
// middleware de autenticación, no aquí.
type Staff struct {
	gorm.Model
	FullName string `json:"fullName"`
	Login    string `json:"login" gorm:"uniqueIndex;not null"`
	Password string `json:"-"`
	Role     string `json:"role"` // admin, veterinario, cajero, recepcion
	Status   string `json:"status" gorm:"default:ACTIVO"`
}
