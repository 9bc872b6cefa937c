package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DrawerOpen   = "OPEN"
	DrawerClosed = "CLOSED"
)

// Drawer representa una sesión física de caja registradora, abierta una vez
// por jornada. Los turnos (Shift) se encadenan sobre ella.
type Drawer struct {
	gorm.Model
	Status        string          `json:"status" gorm:"not null;default:OPEN;index"`
	OpenedAt      time.Time       `json:"openedAt"`
	ClosedAt      *time.Time      `json:"closedAt"`
	InitialAmount decimal.Decimal `json:"initialAmount" gorm:"type:numeric(12,2);not null"`
	OpenedByID    *uint           `json:"openedById"`
	OpenedBy      *Staff          `json:"openedBy,omitempty" gorm:"foreignKey:OpenedByID"`
	Shifts        []Shift         `json:"shifts,omitempty" gorm:"foreignKey:DrawerID"`
}
