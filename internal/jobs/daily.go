package jobs

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"vetify-crm/config"
	"vetify-crm/models"
)

// La auditoría nocturna no cierra nada por su cuenta: solo deja constancia de
// las cajas y turnos que se quedaron abiertos para que el gerente los revise.

const staleShiftAge = 16 * time.Hour

// StartScheduler arranca las tareas programadas y devuelve el scheduler para
// poder detenerlo en el apagado.
func StartScheduler() *gocron.Scheduler {
	s := gocron.NewScheduler(time.Local)

	if _, err := s.Every(1).Day().At("23:55").Do(auditStaleDrawers); err != nil {
		slog.Error("No se pudo programar la auditoría nocturna", "error", err)
	}

	s.StartAsync()
	slog.Info("Scheduler de tareas iniciado")
	return s
}

func auditStaleDrawers() {
	var openDrawers []models.Drawer
	if err := config.DB.Where("status = ?", models.DrawerOpen).Find(&openDrawers).Error; err != nil {
		slog.Error("Auditoría nocturna: no se pudieron leer las cajas", "error", err)
		return
	}
	for _, d := range openDrawers {
		slog.Warn("Caja abierta al cierre del día",
			"drawer_id", d.ID,
			"opened_at", d.OpenedAt.Format(time.RFC3339))
	}

	cutoff := time.Now().Add(-staleShiftAge)
	var staleShifts []models.Shift
	if err := config.DB.Where("status = ? AND started_at < ?", models.ShiftActive, cutoff).Find(&staleShifts).Error; err != nil {
		slog.Error("Auditoría nocturna: no se pudieron leer los turnos", "error", err)
		return
	}
	for _, sh := range staleShifts {
		slog.Warn("Turno activo con antigüedad sospechosa",
			"shift_id", sh.ID,
			"drawer_id", sh.DrawerID,
			"cashier_id", sh.CashierID,
			"started_at", sh.StartedAt.Format(time.RFC3339))
	}

	slog.Info("Auditoría nocturna de cajas completada",
		"open_drawers", len(openDrawers),
		"stale_shifts", len(staleShifts))
}
