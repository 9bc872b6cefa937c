package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionIncome  = "INCOME"
	TransactionExpense = "EXPENSE"
)

// CashTransaction es un movimiento de efectivo registrado contra un turno
// ACTIVE (venta cobrada en caja, gasto menor, etc.). El motor de arqueo solo
// lee agregados sobre estos registros; nunca los modifica.
type CashTransaction struct {
	gorm.Model
	ShiftID     uint            `json:"shiftId" gorm:"not null;index"`
	Type        string          `json:"type" gorm:"not null"` // INCOME | EXPENSE
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	CreatedByID *uint           `json:"createdById"`
}
