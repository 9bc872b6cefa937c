package handlers

import (
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"vetify-crm/internal/caja"
)

// StartShiftRequest define la estructura para iniciar un turno. Los montos
// viajan como *decimal para distinguir "ausente" de "0.00".
type StartShiftRequest struct {
	DrawerID        uint             `json:"drawerId" binding:"required"`
	CashierID       uint             `json:"cashierId" binding:"required"`
	StartingBalance *decimal.Decimal `json:"startingBalance"`
}

// StartShiftHandler abre un turno ACTIVE sobre una caja.
func StartShiftHandler(c *gin.Context) {
	var req StartShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos: " + err.Error(), "code": "VALIDATION"})
		return
	}
	if req.StartingBalance == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Falta el saldo inicial", "code": "VALIDATION"})
		return
	}

	shift, err := cajaService().StartShift(caja.StartShiftInput{
		DrawerID:        req.DrawerID,
		CashierID:       req.CashierID,
		StartingBalance: *req.StartingBalance,
	})
	if err != nil {
		respondCajaError(c, err)
		return
	}

	GlobalCajaHub.Broadcast("shift_started", shift)
	c.JSON(http.StatusCreated, shift)
}

type EndShiftRequest struct {
	EndingBalance *decimal.Decimal `json:"endingBalance"`
	Notes         string           `json:"notes"`
}

// EndShiftHandler cierra un turno con el conteo físico y devuelve el arqueo.
func EndShiftHandler(c *gin.Context) {
	shiftID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de turno inválido", "code": "VALIDATION"})
		return
	}

	var req EndShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos: " + err.Error(), "code": "VALIDATION"})
		return
	}
	if req.EndingBalance == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Falta el conteo de cierre", "code": "VALIDATION"})
		return
	}

	shift, summary, err := cajaService().EndShift(uint(shiftID), *req.EndingBalance, req.Notes)
	if err != nil {
		respondCajaError(c, err)
		return
	}

	flagged := evaluateVarianceAlert(*summary, *req.EndingBalance, *shift.Difference, shift.ID)

	GlobalCajaHub.Broadcast("shift_ended", shift)
	c.JSON(http.StatusOK, gin.H{
		"shift":   shift,
		"summary": summary,
		"alerta":  flagged,
	})
}

type HandoffRequest struct {
	NewCashierID   uint             `json:"newCashierId" binding:"required"`
	CountedBalance *decimal.Decimal `json:"countedBalance"`
	Notes          string           `json:"notes"`
}

// HandoffShiftHandler entrega la custodia de la caja a otro cajero en una
// sola operación atómica del lado del servidor. Nunca se expone como dos
// llamadas independientes (cerrar y luego abrir): un fallo a mitad de camino
// dejaría la caja sin custodio.
func HandoffShiftHandler(c *gin.Context) {
	shiftID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de turno inválido", "code": "VALIDATION"})
		return
	}

	var req HandoffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos: " + err.Error(), "code": "VALIDATION"})
		return
	}
	if req.CountedBalance == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Falta el conteo de entrega", "code": "VALIDATION"})
		return
	}

	result, err := cajaService().HandoffShift(caja.HandoffInput{
		ShiftID:        uint(shiftID),
		NewCashierID:   req.NewCashierID,
		CountedBalance: *req.CountedBalance,
		Notes:          req.Notes,
	})
	if err != nil {
		respondCajaError(c, err)
		return
	}

	flagged := evaluateVarianceAlert(result.Summary, *req.CountedBalance, *result.Outgoing.Difference, result.Outgoing.ID)

	GlobalCajaHub.Broadcast("shift_handed_off", result)
	c.JSON(http.StatusOK, gin.H{
		"outgoing": result.Outgoing,
		"incoming": result.Incoming,
		"summary":  result.Summary,
		"alerta":   flagged,
	})
}

// GetShiftHandler devuelve un turno con su arqueo recalculado.
func GetShiftHandler(c *gin.Context) {
	shiftID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de turno inválido", "code": "VALIDATION"})
		return
	}

	shift, summary, err := cajaService().GetShift(uint(shiftID))
	if err != nil {
		respondCajaError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shift": shift, "summary": summary})
}

// ShiftSummaryHandler devuelve solo el arqueo de un turno: la vista previa en
// vivo que el cajero consulta antes de contar el efectivo.
func ShiftSummaryHandler(c *gin.Context) {
	shiftID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de turno inválido", "code": "VALIDATION"})
		return
	}

	_, summary, err := cajaService().GetShift(uint(shiftID))
	if err != nil {
		respondCajaError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ListShiftsHandler lista turnos con filtros de estado, caja, cajero y fecha.
func ListShiftsHandler(c *gin.Context) {
	filter, err := shiftFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION"})
		return
	}

	page, pageSize := pageParams(c)
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	shifts, totalRows, err := cajaService().ListShifts(filter)
	if err != nil {
		respondCajaError(c, err)
		return
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, shifts, totalRows))
}

// shiftFilterFromQuery arma el filtro compartido entre el listado y el export.
func shiftFilterFromQuery(c *gin.Context) (caja.ShiftFilter, error) {
	var filter caja.ShiftFilter

	filter.Status = c.Query("status")
	if v := c.Query("drawerId"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return filter, &caja.ValidationError{Message: "drawerId inválido"}
		}
		filter.DrawerID = uint(id)
	}
	if v := c.Query("cashierId"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return filter, &caja.ValidationError{Message: "cashierId inválido"}
		}
		filter.CashierID = uint(id)
	}
	if v := c.Query("date"); v != "" {
		day, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			return filter, &caja.ValidationError{Message: "Formato de fecha inválido. Usa YYYY-MM-DD."}
		}
		dayEnd := day.Add(24 * time.Hour)
		filter.From = &day
		filter.To = &dayEnd
	}
	return filter, nil
}

// evaluateVarianceAlert aplica la regla CAJA_ALERT_RULE si está configurada.
// Un error en la regla solo se registra; jamás bloquea el cierre.
func evaluateVarianceAlert(summary caja.Summary, counted, difference decimal.Decimal, shiftID uint) bool {
	rule := os.Getenv("CAJA_ALERT_RULE")
	flagged, err := caja.EvaluateAlertRule(rule, summary, counted, difference)
	if err != nil {
		slog.Warn("Regla de alerta de caja inválida", "rule", rule, "error", err)
		return false
	}
	if flagged {
		slog.Warn("Descuadre de caja marcado para revisión",
			"shift_id", shiftID,
			"difference", difference.String(),
			"expected", summary.ExpectedBalance.String())
	}
	return flagged
}
