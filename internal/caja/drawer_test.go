package caja

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vetify-crm/models"
)

func TestOpenDrawer(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	gerente := seedStaff(t, db, "Gerente", "gerente")

	drawer, err := svc.OpenDrawer(OpenDrawerInput{
		InitialAmount: dec(t, "1500.00"),
		OpenedByID:    &gerente.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, models.DrawerOpen, drawer.Status)
	assert.True(t, drawer.InitialAmount.Equal(dec(t, "1500.00")))
	assert.Nil(t, drawer.ClosedAt)
}

func TestOpenDrawerRejectsBadAmounts(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	var validation *ValidationError

	_, err := svc.OpenDrawer(OpenDrawerInput{InitialAmount: dec(t, "-10.00")})
	assert.ErrorAs(t, err, &validation)

	_, err = svc.OpenDrawer(OpenDrawerInput{InitialAmount: dec(t, "10.001")})
	assert.ErrorAs(t, err, &validation)
}

func TestCloseDrawer(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	drawer := seedDrawer(t, db, svc, "500.00")

	closed, err := svc.CloseDrawer(drawer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DrawerClosed, closed.Status)
	assert.NotNil(t, closed.ClosedAt)

	_, err = svc.CloseDrawer(drawer.ID)
	var state *StateError
	assert.ErrorAs(t, err, &state)
}

func TestCloseDrawerBlockedByActiveShift(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ana := seedStaff(t, db, "Ana Pérez", "ana")
	drawer := seedDrawer(t, db, svc, "500.00")

	shift, err := svc.StartShift(StartShiftInput{DrawerID: drawer.ID, CashierID: ana.ID, StartingBalance: dec(t, "500.00")})
	require.NoError(t, err)

	_, err = svc.CloseDrawer(drawer.ID)
	var state *StateError
	require.ErrorAs(t, err, &state)

	// Con el turno cerrado, la caja sí se puede cerrar.
	_, _, err = svc.EndShift(shift.ID, dec(t, "500.00"), "")
	require.NoError(t, err)
	_, err = svc.CloseDrawer(drawer.ID)
	assert.NoError(t, err)
}

func TestGetDrawer(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ana := seedStaff(t, db, "Ana Pérez", "ana")
	drawer := seedDrawer(t, db, svc, "500.00")

	got, active, err := svc.GetDrawer(drawer.ID)
	require.NoError(t, err)
	assert.Equal(t, drawer.ID, got.ID)
	assert.Nil(t, active)

	shift, err := svc.StartShift(StartShiftInput{DrawerID: drawer.ID, CashierID: ana.ID, StartingBalance: dec(t, "500.00")})
	require.NoError(t, err)

	_, active, err = svc.GetDrawer(drawer.ID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, shift.ID, active.ID)

	_, _, err = svc.GetDrawer(999)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
