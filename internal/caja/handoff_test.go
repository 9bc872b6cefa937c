package caja

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetify-crm/models"
)

func TestHandoffShift(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ana := seedStaff(t, db, "Ana Pérez", "ana")
	luis := seedStaff(t, db, "Luis Gómez", "luis")
	drawer := seedDrawer(t, db, svc, "200.00")

	shift, err := svc.StartShift(StartShiftInput{DrawerID: drawer.ID, CashierID: ana.ID, StartingBalance: dec(t, "200.00")})
	require.NoError(t, err)
	_, err = svc.RecordTransaction(RecordTransactionInput{ShiftID: shift.ID, Type: models.TransactionIncome, Amount: dec(t, "300.00")})
	require.NoError(t, err)

	result, err := svc.HandoffShift(HandoffInput{
		ShiftID:        shift.ID,
		NewCashierID:   luis.ID,
		CountedBalance: dec(t, "500.00"),
		Notes:          "cambio de turno de la tarde",
	})
	require.NoError(t, err)

	assert.Equal(t, models.ShiftHandedOff, result.Outgoing.Status)
	assert.Equal(t, models.ShiftActive, result.Incoming.Status)
	assert.Equal(t, luis.ID, result.Incoming.CashierID)
	assert.Equal(t, drawer.ID, result.Incoming.DrawerID)

	// El efectivo se conserva: el sucesor arranca con el conteo del saliente.
	require.NotNil(t, result.Outgoing.EndingBalance)
	assert.True(t, result.Incoming.StartingBalance.Equal(*result.Outgoing.EndingBalance))
	assert.True(t, result.Summary.ExpectedBalance.Equal(dec(t, "500.00")))
	require.NotNil(t, result.Outgoing.Difference)
	assert.True(t, result.Outgoing.Difference.IsZero())

	// Enlace de auditoría saliente -> entrante.
	require.NotNil(t, result.Outgoing.HandedOffToID)
	assert.Equal(t, result.Incoming.ID, *result.Outgoing.HandedOffToID)

	var stored models.Shift
	require.NoError(t, db.First(&stored, shift.ID).Error)
	require.NotNil(t, stored.HandedOffToID)
	assert.Equal(t, result.Incoming.ID, *stored.HandedOffToID)
}

func TestHandoffWithShortage(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ana := seedStaff(t, db, "Ana Pérez", "ana")
	luis := seedStaff(t, db, "Luis Gómez", "luis")
	drawer := seedDrawer(t, db, svc, "1000.00")

	shift, err := svc.StartShift(StartShiftInput{DrawerID: drawer.ID, CashierID: ana.ID, StartingBalance: dec(t, "1000.00")})
	require.NoError(t, err)

	result, err := svc.HandoffShift(HandoffInput{ShiftID: shift.ID, NewCashierID: luis.ID, CountedBalance: dec(t, "980.00")})
	require.NoError(t, err)

	// El faltante queda en el turno saliente; el entrante arranca con lo que
	// de verdad hay en el cajón, no con el esperado.
	require.NotNil(t, result.Outgoing.Difference)
	assert.True(t, result.Outgoing.Difference.Equal(dec(t, "-20.00")))
	assert.True(t, result.Incoming.StartingBalance.Equal(dec(t, "980.00")))
}

func TestHandoffToSameCashier(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ana := seedStaff(t, db, "Ana Pérez", "ana")
	drawer := seedDrawer(t, db, svc, "100.00")

	shift, err := svc.StartShift(StartShiftInput{DrawerID: drawer.ID, CashierID: ana.ID, StartingBalance: dec(t, "100.00")})
	require.NoError(t, err)

	_, err = svc.HandoffShift(HandoffInput{ShiftID: shift.ID, NewCashierID: ana.ID, CountedBalance: dec(t, "100.00")})
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)

	// El turno original sigue activo.
	var stored models.Shift
	require.NoError(t, db.First(&stored, shift.ID).Error)
	assert.Equal(t, models.ShiftActive, stored.Status)
}

func TestHandoffToBusyCashier(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ana := seedStaff(t, db, "Ana Pérez", "ana")
	luis := seedStaff(t, db, "Luis Gómez", "luis")
	drawerA := seedDrawer(t, db, svc, "100.00")
	drawerB := seedDrawer(t, db, svc, "100.00")

	shiftA, err := svc.StartShift(StartShiftInput{DrawerID: drawerA.ID, CashierID: ana.ID, StartingBalance: dec(t, "100.00")})
	require.NoError(t, err)
	_, err = svc.StartShift(StartShiftInput{DrawerID: drawerB.ID, CashierID: luis.ID, StartingBalance: dec(t, "100.00")})
	require.NoError(t, err)

	_, err = svc.HandoffShift(HandoffInput{ShiftID: shiftA.ID, NewCashierID: luis.ID, CountedBalance: dec(t, "100.00")})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "cashier", conflict.Resource)

	// Nada cambió: el saliente sigue ACTIVE y no se creó sucesor.
	var stored models.Shift
	require.NoError(t, db.First(&stored, shiftA.ID).Error)
	assert.Equal(t, models.ShiftActive, stored.Status)

	var count int64
	require.NoError(t, db.Model(&models.Shift{}).Where("drawer_id = ?", drawerA.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestHandoffTwiceFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ana := seedStaff(t, db, "Ana Pérez", "ana")
	luis := seedStaff(t, db, "Luis Gómez", "luis")
	maria := seedStaff(t, db, "María Ruiz", "maria")
	drawer := seedDrawer(t, db, svc, "100.00")

	shift, err := svc.StartShift(StartShiftInput{DrawerID: drawer.ID, CashierID: ana.ID, StartingBalance: dec(t, "100.00")})
	require.NoError(t, err)

	_, err = svc.HandoffShift(HandoffInput{ShiftID: shift.ID, NewCashierID: luis.ID, CountedBalance: dec(t, "100.00")})
	require.NoError(t, err)

	_, err = svc.HandoffShift(HandoffInput{ShiftID: shift.ID, NewCashierID: maria.ID, CountedBalance: dec(t, "100.00")})
	var state *StateError
	assert.ErrorAs(t, err, &state)
}

func TestHandoffChain(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ana := seedStaff(t, db, "Ana Pérez", "ana")
	luis := seedStaff(t, db, "Luis Gómez", "luis")
	maria := seedStaff(t, db, "María Ruiz", "maria")
	drawer := seedDrawer(t, db, svc, "100.00")

	shift, err := svc.StartShift(StartShiftInput{DrawerID: drawer.ID, CashierID: ana.ID, StartingBalance: dec(t, "100.00")})
	require.NoError(t, err)

	first, err := svc.HandoffShift(HandoffInput{ShiftID: shift.ID, NewCashierID: luis.ID, CountedBalance: dec(t, "100.00")})
	require.NoError(t, err)
	second, err := svc.HandoffShift(HandoffInput{ShiftID: first.Incoming.ID, NewCashierID: maria.ID, CountedBalance: dec(t, "100.00")})
	require.NoError(t, err)

	// En todo momento hay exactamente un turno ACTIVE sobre la caja.
	var active int64
	require.NoError(t, db.Model(&models.Shift{}).
		Where("drawer_id = ? AND status = ?", drawer.ID, models.ShiftActive).
		Count(&active).Error)
	assert.EqualValues(t, 1, active)
	assert.Equal(t, maria.ID, second.Incoming.CashierID)
}
