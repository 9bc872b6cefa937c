package caja

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"vetify-crm/models"
)

type RecordTransactionInput struct {
	ShiftID     uint
	Type        string
	Amount      decimal.Decimal
	Category    string
	Description string
	CreatedByID *uint
}

// RecordTransaction registra un movimiento de efectivo contra un turno
// ACTIVE. Un turno ENDED o HANDED_OFF es inmutable: ningún movimiento puede
// adjuntarse después del cierre.
func (s *Service) RecordTransaction(in RecordTransactionInput) (*models.CashTransaction, error) {
	if in.Type != models.TransactionIncome && in.Type != models.TransactionExpense {
		return nil, &ValidationError{Message: "el tipo de movimiento debe ser INCOME o EXPENSE"}
	}
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}
	if in.Amount.IsZero() {
		return nil, &ValidationError{Message: "el monto debe ser mayor que cero"}
	}

	var movement models.CashTransaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var shift models.Shift
		if err := tx.First(&shift, in.ShiftID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "turno", ID: in.ShiftID}
			}
			return err
		}
		if shift.Status != models.ShiftActive {
			return &StateError{Message: "no se pueden registrar movimientos en un turno cerrado"}
		}

		movement = models.CashTransaction{
			ShiftID:     in.ShiftID,
			Type:        in.Type,
			Amount:      in.Amount,
			Category:    in.Category,
			Description: in.Description,
			CreatedByID: in.CreatedByID,
		}
		return tx.Create(&movement).Error
	})
	if err != nil {
		return nil, err
	}
	return &movement, nil
}
