package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// exportPageSize limita el export para no cargar un histórico sin fin en memoria.
const exportPageSize = 10000

// ExportShiftsHandler genera un Excel con el histórico de turnos, usando los
// mismos filtros que el listado.
func ExportShiftsHandler(c *gin.Context) {
	filter, err := shiftFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION"})
		return
	}
	filter.Limit = exportPageSize

	shifts, _, err := cajaService().ListShifts(filter)
	if err != nil {
		respondCajaError(c, err)
		return
	}

	f := excelize.NewFile()
	sheetName := "Turnos de caja"
	index, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Folio", "Caja", "Cajero", "Estado", "Inicio", "Fin", "Saldo inicial", "Conteo final", "Diferencia", "Notas"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	for i, s := range shifts {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), s.ReferenceID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), s.DrawerID)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), s.Cashier.FullName)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), s.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), s.StartedAt.Format("02.01.2006 15:04"))
		if s.EndedAt != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), s.EndedAt.Format("02.01.2006 15:04"))
		}
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), s.StartingBalance.String())
		if s.EndingBalance != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), s.EndingBalance.String())
		}
		if s.Difference != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), s.Difference.String())
		}
		f.SetCellValue(sheetName, fmt.Sprintf("J%d", row), s.Notes)
	}

	fileName := fmt.Sprintf("turnos_caja_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No se pudo generar el archivo Excel"})
	}
}
