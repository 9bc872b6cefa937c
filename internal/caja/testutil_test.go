package caja

import (
	"database/sql"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vetify-crm/models"
)

// newTestDB abre una base SQLite en memoria con el esquema completo. Una sola
// conexión: con más, cada goroutine vería una base vacía distinta.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	var sqlDB *sql.DB
	sqlDB, err = db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&models.Staff{}, &models.Drawer{}, &models.Shift{}, &models.CashTransaction{})
	require.NoError(t, err)

	return db
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return v
}

func seedStaff(t *testing.T, db *gorm.DB, fullName, login string) *models.Staff {
	t.Helper()
	staff := models.Staff{
		FullName: fullName,
		Login:    login,
		Password: "x",
		Role:     "cajero",
		Status:   "ACTIVO",
	}
	require.NoError(t, db.Create(&staff).Error)
	return &staff
}

func seedDrawer(t *testing.T, db *gorm.DB, svc *Service, initial string) *models.Drawer {
	t.Helper()
	drawer, err := svc.OpenDrawer(OpenDrawerInput{InitialAmount: dec(t, initial)})
	require.NoError(t, err)
	return drawer
}
