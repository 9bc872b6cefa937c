package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vetify-crm/models"
)

// AvailableCashiersHandler lista el personal sin turno activo, para el
// selector de inicio de turno y de entrega de caja.
func AvailableCashiersHandler(c *gin.Context) {
	staff, err := cajaService().AvailableCashiers()
	if err != nil {
		respondCajaError(c, err)
		return
	}

	if staff == nil {
		staff = make([]models.Staff, 0)
	}
	c.JSON(http.StatusOK, staff)
}
