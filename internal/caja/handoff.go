package caja

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"vetify-crm/models"
)

type HandoffInput struct {
	ShiftID        uint
	NewCashierID   uint
	CountedBalance decimal.Decimal
	Notes          string
}

// HandoffResult agrupa el turno saliente (HANDED_OFF), el entrante (ACTIVE)
// y el arqueo con el que se verificó el efectivo entregado.
type HandoffResult struct {
	Outgoing *models.Shift `json:"outgoing"`
	Incoming *models.Shift `json:"incoming"`
	Summary  Summary       `json:"summary"`
}

// HandoffShift transfiere la custodia de una caja en una sola transacción:
// cierra el turno saliente, crea el sucesor y los enlaza. O se confirma todo
// o no se confirma nada — la caja nunca queda sin custodio ni con dos turnos
// activos. El saldo inicial del sucesor es exactamente el conteo físico del
// predecesor: el efectivo se conserva; solo la diferencia registrada puede
// ser distinta de cero.
func (s *Service) HandoffShift(in HandoffInput) (*HandoffResult, error) {
	if err := validateAmount(in.CountedBalance); err != nil {
		return nil, err
	}

	var result HandoffResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var outgoing models.Shift
		if err := tx.Preload("Transactions").First(&outgoing, in.ShiftID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "turno", ID: in.ShiftID}
			}
			return err
		}
		if outgoing.Status != models.ShiftActive {
			return &StateError{Message: "el turno no está activo"}
		}
		if in.NewCashierID == outgoing.CashierID {
			return &ValidationError{Message: "el cajero entrante debe ser distinto al saliente"}
		}

		var cashier models.Staff
		if err := tx.First(&cashier, in.NewCashierID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "cajero", ID: in.NewCashierID}
			}
			return err
		}

		var busy int64
		if err := tx.Model(&models.Shift{}).
			Where("cashier_id = ? AND status = ?", in.NewCashierID, models.ShiftActive).
			Count(&busy).Error; err != nil {
			return err
		}
		if busy > 0 {
			return &ConflictError{Resource: "cashier", Message: "el cajero entrante ya tiene un turno activo"}
		}

		summary := Reconcile(outgoing.StartingBalance, outgoing.Transactions)
		difference := in.CountedBalance.Sub(summary.ExpectedBalance)
		now := time.Now()

		updates := map[string]interface{}{
			"status":         models.ShiftHandedOff,
			"ended_at":       now,
			"ending_balance": in.CountedBalance,
			"difference":     difference,
		}
		if in.Notes != "" {
			updates["notes"] = in.Notes
		}

		res := tx.Model(&models.Shift{}).
			Where("id = ? AND status = ?", outgoing.ID, models.ShiftActive).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &StateError{Message: "el turno no está activo"}
		}

		incoming := models.Shift{
			ReferenceID:     uuid.NewString(),
			DrawerID:        outgoing.DrawerID,
			CashierID:       in.NewCashierID,
			Status:          models.ShiftActive,
			StartedAt:       now,
			StartingBalance: in.CountedBalance,
		}
		if err := tx.Create(&incoming).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &ConflictError{Resource: "cashier", Message: "el cajero entrante ya tiene un turno activo"}
			}
			return err
		}

		if err := tx.Model(&models.Shift{}).
			Where("id = ?", outgoing.ID).
			Update("handed_off_to_id", incoming.ID).Error; err != nil {
			return err
		}

		outgoing.Status = models.ShiftHandedOff
		outgoing.EndedAt = &now
		counted := in.CountedBalance
		outgoing.EndingBalance = &counted
		outgoing.Difference = &difference
		if in.Notes != "" {
			outgoing.Notes = in.Notes
		}
		outgoing.HandedOffToID = &incoming.ID

		result = HandoffResult{Outgoing: &outgoing, Incoming: &incoming, Summary: summary}
		return nil
	})
	if err != nil {
		// Los errores del dominio pasan tal cual; cualquier otra falla del
		// commit se reporta como falla de atomicidad: el rollback de GORM
		// garantiza que el predecesor sigue ACTIVE y no existe sucesor.
		var ve *ValidationError
		var ce *ConflictError
		var se *StateError
		var ne *NotFoundError
		if errors.As(err, &ve) || errors.As(err, &ce) || errors.As(err, &se) || errors.As(err, &ne) {
			return nil, err
		}
		return nil, &AtomicityError{Op: "entrega de turno", Err: err}
	}
	return &result, nil
}
