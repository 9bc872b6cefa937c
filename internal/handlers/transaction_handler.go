package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"vetify-crm/internal/caja"
)

type CreateTransactionRequest struct {
	ShiftID     uint             `json:"shiftId" binding:"required"`
	Type        string           `json:"type" binding:"required"`
	Amount      *decimal.Decimal `json:"amount"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
}

// CreateTransactionHandler registra un movimiento de efectivo (venta cobrada,
// gasto menor) contra el turno ACTIVE indicado.
func CreateTransactionHandler(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos: " + err.Error(), "code": "VALIDATION"})
		return
	}
	if req.Amount == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Falta el monto del movimiento", "code": "VALIDATION"})
		return
	}

	movement, err := cajaService().RecordTransaction(caja.RecordTransactionInput{
		ShiftID:     req.ShiftID,
		Type:        req.Type,
		Amount:      *req.Amount,
		Category:    req.Category,
		Description: req.Description,
		CreatedByID: currentStaffID(c),
	})
	if err != nil {
		respondCajaError(c, err)
		return
	}

	c.JSON(http.StatusCreated, movement)
}
