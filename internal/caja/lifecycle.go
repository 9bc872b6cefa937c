package caja

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"vetify-crm/models"
)

// Service es el único componente autorizado a mutar el estado de cajas y
// turnos. Los handlers HTTP y los reportes lo consumen; nadie más escribe
// sobre estas tablas.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// validateAmount rechaza montos negativos o con más de dos decimales. El tipo
// decimal no admite NaN ni infinitos, así que no hay nada más que verificar.
func validateAmount(v decimal.Decimal) error {
	if v.IsNegative() {
		return &ValidationError{Message: "el monto no puede ser negativo"}
	}
	if !v.Equal(v.Round(2)) {
		return &ValidationError{Message: "el monto admite máximo dos decimales"}
	}
	return nil
}

type StartShiftInput struct {
	DrawerID        uint
	CashierID       uint
	StartingBalance decimal.Decimal
}

// StartShift abre un turno ACTIVE sobre una caja abierta. La unicidad
// "una caja, un turno activo" y "un cajero, un turno activo" se verifica
// dentro de la transacción para reportar el conflicto con precisión, y los
// índices parciales únicos actúan como respaldo ante dos arranques
// concurrentes: el perdedor recibe gorm.ErrDuplicatedKey.
func (s *Service) StartShift(in StartShiftInput) (*models.Shift, error) {
	if err := validateAmount(in.StartingBalance); err != nil {
		return nil, err
	}

	var shift models.Shift
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var drawer models.Drawer
		if err := tx.First(&drawer, in.DrawerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "caja", ID: in.DrawerID}
			}
			return err
		}
		if drawer.Status != models.DrawerOpen {
			return &StateError{Message: "la caja está cerrada; ábrela antes de iniciar un turno"}
		}

		var cashier models.Staff
		if err := tx.First(&cashier, in.CashierID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "cajero", ID: in.CashierID}
			}
			return err
		}

		var busy int64
		if err := tx.Model(&models.Shift{}).
			Where("drawer_id = ? AND status = ?", in.DrawerID, models.ShiftActive).
			Count(&busy).Error; err != nil {
			return err
		}
		if busy > 0 {
			return &ConflictError{Resource: "drawer", Message: "la caja ya tiene un turno activo"}
		}

		if err := tx.Model(&models.Shift{}).
			Where("cashier_id = ? AND status = ?", in.CashierID, models.ShiftActive).
			Count(&busy).Error; err != nil {
			return err
		}
		if busy > 0 {
			return &ConflictError{Resource: "cashier", Message: "el cajero ya tiene un turno activo en otra caja"}
		}

		shift = models.Shift{
			ReferenceID:     uuid.NewString(),
			DrawerID:        in.DrawerID,
			CashierID:       in.CashierID,
			Status:          models.ShiftActive,
			StartedAt:       time.Now(),
			StartingBalance: in.StartingBalance,
		}
		if err := tx.Create(&shift).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Carrera perdida contra otro StartShift simultáneo.
				return &ConflictError{Resource: "drawer", Message: "la caja o el cajero ya tienen un turno activo"}
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &shift, nil
}

// EndShift cierra un turno ACTIVE con el conteo físico de efectivo. El saldo
// esperado se recalcula en el momento del cierre, nunca se lee de un caché.
// Repetir la llamada sobre un turno ya cerrado devuelve StateError: cerrar es
// una transición de una sola vez.
func (s *Service) EndShift(shiftID uint, endingBalance decimal.Decimal, notes string) (*models.Shift, *Summary, error) {
	if err := validateAmount(endingBalance); err != nil {
		return nil, nil, err
	}

	var shift models.Shift
	var summary Summary
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Transactions").First(&shift, shiftID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "turno", ID: shiftID}
			}
			return err
		}
		if shift.Status != models.ShiftActive {
			return &StateError{Message: "el turno no está activo"}
		}

		summary = Reconcile(shift.StartingBalance, shift.Transactions)
		difference := endingBalance.Sub(summary.ExpectedBalance)
		now := time.Now()

		updates := map[string]interface{}{
			"status":         models.ShiftEnded,
			"ended_at":       now,
			"ending_balance": endingBalance,
			"difference":     difference,
		}
		if notes != "" {
			updates["notes"] = notes
		}

		// La condición status = ACTIVE hace la actualización segura ante una
		// carrera con otro cierre: solo uno puede ganar.
		res := tx.Model(&models.Shift{}).
			Where("id = ? AND status = ?", shiftID, models.ShiftActive).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &StateError{Message: "el turno no está activo"}
		}

		shift.Status = models.ShiftEnded
		shift.EndedAt = &now
		shift.EndingBalance = &endingBalance
		shift.Difference = &difference
		if notes != "" {
			shift.Notes = notes
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &shift, &summary, nil
}
