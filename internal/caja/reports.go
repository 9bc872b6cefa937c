package caja

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"vetify-crm/models"
)

// La fachada de consulta no impone invariantes: solo lee el libro y compone
// el motor de arqueo. Toda mutación pasa por el ciclo de vida de turnos.

// GetShift devuelve un turno con su arqueo recalculado al momento de la
// lectura. Para un turno ACTIVE la ventana termina "ahora"; para uno cerrado,
// en endedAt — el cálculo es el mismo porque los movimientos solo pudieron
// adjuntarse mientras el turno estaba activo.
func (s *Service) GetShift(shiftID uint) (*models.Shift, *Summary, error) {
	var shift models.Shift
	err := s.db.Preload("Transactions").Preload("Cashier").First(&shift, shiftID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, &NotFoundError{Entity: "turno", ID: shiftID}
		}
		return nil, nil, err
	}

	summary := Reconcile(shift.StartingBalance, shift.Transactions)
	return &shift, &summary, nil
}

type ShiftFilter struct {
	Status    string
	DrawerID  uint
	CashierID uint
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// ListShifts devuelve una página de turnos, más recientes primero.
func (s *Service) ListShifts(f ShiftFilter) ([]models.Shift, int64, error) {
	query := s.db.Model(&models.Shift{})

	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.DrawerID != 0 {
		query = query.Where("drawer_id = ?", f.DrawerID)
	}
	if f.CashierID != 0 {
		query = query.Where("cashier_id = ?", f.CashierID)
	}
	if f.From != nil {
		query = query.Where("started_at >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("started_at < ?", *f.To)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		return nil, 0, err
	}

	var shifts []models.Shift
	err := query.Preload("Cashier").
		Order("started_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&shifts).Error
	if err != nil {
		return nil, 0, err
	}
	return shifts, totalRows, nil
}

// DrawerDayStats es el resumen diario de una caja para el tablero.
type DrawerDayStats struct {
	DrawerID       uint            `json:"drawerId"`
	Date           string          `json:"date"`
	TotalIncome    decimal.Decimal `json:"totalIncome"`
	TotalExpenses  decimal.Decimal `json:"totalExpenses"`
	NetTotal       decimal.Decimal `json:"netTotal"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	IsDrawerOpen   bool            `json:"isDrawerOpen"`
}

// DayStats agrega los movimientos de una caja para un día. Una caja sin
// turnos devuelve totales en cero (no es un error): el saldo actual es el
// fondo inicial de la caja. Las sumas se hacen en Go con decimal exacto, no
// con SUM de SQL, para que el resultado no dependa del motor de base de datos.
func (s *Service) DayStats(drawerID uint, day time.Time) (*DrawerDayStats, error) {
	var drawer models.Drawer
	if err := s.db.First(&drawer, drawerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "caja", ID: drawerID}
		}
		return nil, err
	}

	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var movements []models.CashTransaction
	err := s.db.
		Joins("JOIN shifts ON shifts.id = cash_transactions.shift_id").
		Where("shifts.drawer_id = ?", drawerID).
		Where("cash_transactions.created_at >= ? AND cash_transactions.created_at < ?", dayStart, dayEnd).
		Find(&movements).Error
	if err != nil {
		return nil, err
	}

	daily := Reconcile(decimal.Zero, movements)

	stats := &DrawerDayStats{
		DrawerID:      drawerID,
		Date:          dayStart.Format("2006-01-02"),
		TotalIncome:   daily.TotalIncome,
		TotalExpenses: daily.TotalExpenses,
		NetTotal:      daily.NetTotal,
		IsDrawerOpen:  drawer.Status == models.DrawerOpen,
	}

	// Saldo actual: el esperado del turno ACTIVE si lo hay; si no, el conteo
	// del último turno cerrado; si la caja nunca tuvo turnos, su fondo inicial.
	var active models.Shift
	err = s.db.Preload("Transactions").
		Where("drawer_id = ? AND status = ?", drawerID, models.ShiftActive).
		First(&active).Error
	switch {
	case err == nil:
		stats.CurrentBalance = Reconcile(active.StartingBalance, active.Transactions).ExpectedBalance
	case errors.Is(err, gorm.ErrRecordNotFound):
		var last models.Shift
		err = s.db.
			Where("drawer_id = ? AND status <> ?", drawerID, models.ShiftActive).
			Order("ended_at DESC").
			First(&last).Error
		if err == nil && last.EndingBalance != nil {
			stats.CurrentBalance = *last.EndingBalance
		} else if errors.Is(err, gorm.ErrRecordNotFound) {
			stats.CurrentBalance = drawer.InitialAmount
		} else if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return stats, nil
}

// AvailableCashiers lista el personal sin turno ACTIVE, para el selector de
// "entregar turno a".
func (s *Service) AvailableCashiers() ([]models.Staff, error) {
	subquery := s.db.Model(&models.Shift{}).
		Select("cashier_id").
		Where("status = ?", models.ShiftActive)

	var staff []models.Staff
	err := s.db.
		Where("status = ?", "ACTIVO").
		Where("id NOT IN (?)", subquery).
		Order("full_name asc").
		Find(&staff).Error
	if err != nil {
		return nil, err
	}
	return staff, nil
}
