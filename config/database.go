// vetify-crm/config/database.go

package config

import (
	"log/slog"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"vetify-crm/models"
)

var DB *gorm.DB

func ConnectDB() {
	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		slog.Error("Error crítico: la variable de entorno DB_URL no está definida.")
		os.Exit(1)
	}

	// TranslateError nos deja detectar violaciones de índice único como
	// gorm.ErrDuplicatedKey (el respaldo de concurrencia de la caja).
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		slog.Error("Error de conexión a la base de datos", "error", err)
		os.Exit(1)
	}

	if err := db.AutoMigrate(
		&models.Staff{},
		&models.Drawer{},
		&models.Shift{},
		&models.CashTransaction{},
	); err != nil {
		slog.Error("Error en la migración automática", "error", err)
		os.Exit(1)
	}

	DB = db
	slog.Info("¡Conexión exitosa a la base de datos!")
}
