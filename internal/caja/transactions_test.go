package caja

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetify-crm/models"
)

func TestRecordTransaction(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ana := seedStaff(t, db, "Ana Pérez", "ana")
	drawer := seedDrawer(t, db, svc, "100.00")

	shift, err := svc.StartShift(StartShiftInput{DrawerID: drawer.ID, CashierID: ana.ID, StartingBalance: dec(t, "100.00")})
	require.NoError(t, err)

	movement, err := svc.RecordTransaction(RecordTransactionInput{
		ShiftID:     shift.ID,
		Type:        models.TransactionIncome,
		Amount:      dec(t, "250.00"),
		Category:    "consulta",
		Description: "Consulta general",
		CreatedByID: &ana.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, shift.ID, movement.ShiftID)
	assert.True(t, movement.Amount.Equal(dec(t, "250.00")))
	assert.Equal(t, "consulta", movement.Category)
}

func TestRecordTransactionValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ana := seedStaff(t, db, "Ana Pérez", "ana")
	drawer := seedDrawer(t, db, svc, "100.00")

	shift, err := svc.StartShift(StartShiftInput{DrawerID: drawer.ID, CashierID: ana.ID, StartingBalance: dec(t, "100.00")})
	require.NoError(t, err)

	var validation *ValidationError

	_, err = svc.RecordTransaction(RecordTransactionInput{ShiftID: shift.ID, Type: "TRANSFERENCIA", Amount: dec(t, "10.00")})
	assert.ErrorAs(t, err, &validation)

	_, err = svc.RecordTransaction(RecordTransactionInput{ShiftID: shift.ID, Type: models.TransactionIncome, Amount: dec(t, "0.00")})
	assert.ErrorAs(t, err, &validation)

	_, err = svc.RecordTransaction(RecordTransactionInput{ShiftID: shift.ID, Type: models.TransactionExpense, Amount: dec(t, "-5.00")})
	assert.ErrorAs(t, err, &validation)
}

func TestRecordTransactionOnClosedShift(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ana := seedStaff(t, db, "Ana Pérez", "ana")
	drawer := seedDrawer(t, db, svc, "100.00")

	shift, err := svc.StartShift(StartShiftInput{DrawerID: drawer.ID, CashierID: ana.ID, StartingBalance: dec(t, "100.00")})
	require.NoError(t, err)
	_, _, err = svc.EndShift(shift.ID, dec(t, "100.00"), "")
	require.NoError(t, err)

	_, err = svc.RecordTransaction(RecordTransactionInput{ShiftID: shift.ID, Type: models.TransactionIncome, Amount: dec(t, "10.00")})
	var state *StateError
	assert.ErrorAs(t, err, &state)

	// El arqueo del turno cerrado no se movió.
	_, summary, err := svc.GetShift(shift.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TransactionCount)
}

func TestRecordTransactionShiftNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	_, err := svc.RecordTransaction(RecordTransactionInput{ShiftID: 777, Type: models.TransactionIncome, Amount: dec(t, "10.00")})
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
