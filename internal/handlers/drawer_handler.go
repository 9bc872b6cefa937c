package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"vetify-crm/config"
	"vetify-crm/internal/caja"
)

type OpenDrawerRequest struct {
	InitialAmount *decimal.Decimal `json:"initialAmount"`
}

// OpenDrawerHandler abre la sesión de caja de la jornada.
func OpenDrawerHandler(c *gin.Context) {
	var req OpenDrawerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datos inválidos: " + err.Error(), "code": "VALIDATION"})
		return
	}
	if req.InitialAmount == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Falta el fondo inicial", "code": "VALIDATION"})
		return
	}

	drawer, err := cajaService().OpenDrawer(caja.OpenDrawerInput{
		InitialAmount: *req.InitialAmount,
		OpenedByID:    currentStaffID(c),
	})
	if err != nil {
		respondCajaError(c, err)
		return
	}

	GlobalCajaHub.Broadcast("drawer_opened", drawer)
	c.JSON(http.StatusCreated, drawer)
}

// CloseDrawerHandler cierra la sesión de caja. Se bloquea mientras exista un
// turno ACTIVE sobre ella.
func CloseDrawerHandler(c *gin.Context) {
	drawerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de caja inválido", "code": "VALIDATION"})
		return
	}

	drawer, err := cajaService().CloseDrawer(uint(drawerID))
	if err != nil {
		respondCajaError(c, err)
		return
	}

	GlobalCajaHub.Broadcast("drawer_closed", drawer)
	c.JSON(http.StatusOK, drawer)
}

// GetDrawerHandler devuelve la caja con su turno activo, si lo hay.
func GetDrawerHandler(c *gin.Context) {
	drawerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de caja inválido", "code": "VALIDATION"})
		return
	}

	drawer, active, err := cajaService().GetDrawer(uint(drawerID))
	if err != nil {
		respondCajaError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"drawer": drawer, "activeShift": active})
}

// DrawerStatsHandler devuelve el resumen diario de una caja. Los días ya
// cerrados se cachean en Redis (son inmutables); el día en curso siempre se
// calcula en vivo.
func DrawerStatsHandler(c *gin.Context) {
	drawerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de caja inválido", "code": "VALIDATION"})
		return
	}

	day := time.Now()
	if v := c.Query("date"); v != "" {
		day, err = time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Formato de fecha inválido. Usa YYYY-MM-DD.", "code": "VALIDATION"})
			return
		}
	}

	isPastDay := day.Format("2006-01-02") < time.Now().Format("2006-01-02")
	cacheKey := fmt.Sprintf("caja:stats:%d:%s", drawerID, day.Format("2006-01-02"))

	if isPastDay && config.RDB != nil {
		cached, err := config.RDB.Get(config.Ctx, cacheKey).Result()
		if err == nil {
			var stats caja.DrawerDayStats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				c.JSON(http.StatusOK, stats)
				return
			}
		} else if err != redis.Nil {
			slog.Error("Fallo al leer el caché de estadísticas de caja", "error", err)
		}
	}

	stats, err := cajaService().DayStats(uint(drawerID), day)
	if err != nil {
		respondCajaError(c, err)
		return
	}

	if isPastDay && config.RDB != nil {
		if data, err := json.Marshal(stats); err == nil {
			if err := config.RDB.Set(config.Ctx, cacheKey, data, 10*time.Minute).Err(); err != nil {
				slog.Error("Fallo al guardar el caché de estadísticas de caja", "error", err)
			}
		}
	}

	c.JSON(http.StatusOK, stats)
}
