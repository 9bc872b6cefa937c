package routes

import (
	"github.com/gin-gonic/gin"

	"vetify-crm/internal/handlers"
	"vetify-crm/internal/middleware"
)

// RegisterCajaRoutes agrupa la API de cajas, turnos y movimientos.
func RegisterCajaRoutes(rg *gin.RouterGroup) {
	caja := rg.Group("/api/caja")
	{
		caja.POST("/drawers", middleware.RequireRole("gerente"), handlers.OpenDrawerHandler)
		caja.GET("/drawers/:id", handlers.GetDrawerHandler)
		caja.POST("/drawers/:id/close", middleware.RequireRole("gerente"), handlers.CloseDrawerHandler)
		caja.GET("/drawers/:id/stats", handlers.DrawerStatsHandler)

		caja.POST("/shifts", handlers.StartShiftHandler)
		caja.GET("/shifts", handlers.ListShiftsHandler)
		caja.GET("/shifts/export", handlers.ExportShiftsHandler)
		caja.GET("/shifts/:id", handlers.GetShiftHandler)
		caja.GET("/shifts/:id/summary", handlers.ShiftSummaryHandler)
		caja.POST("/shifts/:id/end", handlers.EndShiftHandler)
		caja.POST("/shifts/:id/handoff", handlers.HandoffShiftHandler)

		caja.POST("/transactions", handlers.CreateTransactionHandler)

		caja.GET("/cashiers/available", handlers.AvailableCashiersHandler)

		caja.GET("/ws", handlers.CajaWSEndpoint)
	}
}
