package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ShiftActive    = "ACTIVE"
	ShiftEnded     = "ENDED"
	ShiftHandedOff = "HANDED_OFF"
)

// Shift es el intervalo de custodia de un cajero sobre una caja.
//
// Los índices parciales sobre drawer_id y cashier_id garantizan a nivel de
// base de datos que nunca exista más de un turno ACTIVE por caja ni por
// cajero, incluso con varios procesos del servidor corriendo a la vez.
type Shift struct {
	gorm.Model
	// ReferenceID es el folio del turno que aparece en el comprobante de arqueo.
	ReferenceID     string           `json:"referenceId" gorm:"size:36;uniqueIndex"`
	DrawerID        uint             `json:"drawerId" gorm:"not null;index:idx_shifts_drawer_active,unique,where:status = 'ACTIVE'"`
	Drawer          Drawer           `json:"-" gorm:"foreignKey:DrawerID"`
	CashierID       uint             `json:"cashierId" gorm:"not null;index:idx_shifts_cashier_active,unique,where:status = 'ACTIVE'"`
	Cashier         Staff            `json:"cashier,omitempty" gorm:"foreignKey:CashierID"`
	Status          string           `json:"status" gorm:"not null;default:ACTIVE"`
	StartedAt       time.Time        `json:"startedAt"`
	EndedAt         *time.Time       `json:"endedAt"`
	StartingBalance decimal.Decimal  `json:"startingBalance" gorm:"type:numeric(12,2);not null"`
	EndingBalance   *decimal.Decimal `json:"endingBalance" gorm:"type:numeric(12,2)"`
	// Difference = conteo físico - saldo esperado. Negativo significa faltante.
	Difference    *decimal.Decimal  `json:"difference" gorm:"type:numeric(12,2)"`
	Notes         string            `json:"notes"`
	HandedOffToID *uint             `json:"handedOffToId"`
	Transactions  []CashTransaction `json:"transactions,omitempty" gorm:"foreignKey:ShiftID"`
}
