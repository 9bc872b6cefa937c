package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"vetify-crm/config"
	"vetify-crm/internal/caja"
)

// cajaService arma el servicio de caja sobre la conexión global.
func cajaService() *caja.Service {
	return caja.NewService(config.DB)
}

// respondCajaError traduce los errores tipados del núcleo de caja a HTTP.
// El campo "code" permite al frontend distinguir el tipo sin parsear el texto.
func respondCajaError(c *gin.Context, err error) {
	var ve *caja.ValidationError
	var ne *caja.NotFoundError
	var ce *caja.ConflictError
	var se *caja.StateError
	var ae *caja.AtomicityError

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message, "code": "VALIDATION"})
	case errors.As(err, &ne):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "NOT_FOUND"})
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, gin.H{"error": ce.Message, "code": "CONFLICT", "resource": ce.Resource})
	case errors.As(err, &se):
		c.JSON(http.StatusConflict, gin.H{"error": se.Message, "code": "STATE"})
	case errors.As(err, &ae):
		slog.Error("Falla de atomicidad en caja", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "La operación no pudo confirmarse; el turno sigue activo",
			"code":  "ATOMICITY",
		})
	default:
		slog.Error("Error inesperado en caja", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno del servidor"})
	}
}

// currentStaffID devuelve el ID del usuario autenticado, si el middleware lo dejó.
func currentStaffID(c *gin.Context) *uint {
	if v, ok := c.Get("staff_id"); ok {
		if id, ok := v.(uint); ok {
			return &id
		}
	}
	return nil
}
