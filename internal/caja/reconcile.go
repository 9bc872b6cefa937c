package caja

import (
	"github.com/shopspring/decimal"

	"vetify-crm/models"
)

// Summary es el resultado del arqueo de un turno. ExpectedBalance nunca se
// persiste como verdad absoluta: se recalcula en cada lectura a partir de los
// movimientos registrados.
type Summary struct {
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	NetTotal         decimal.Decimal `json:"netTotal"`
	ExpectedBalance  decimal.Decimal `json:"expectedBalance"`
	TransactionCount int             `json:"transactionCount"`
}

// Reconcile calcula el saldo esperado de un turno: saldo inicial más ingresos
// menos egresos, con aritmética decimal exacta. Es una función pura — sirve
// igual para la vista previa de un turno ACTIVE que para la auditoría de un
// turno cerrado.
func Reconcile(startingBalance decimal.Decimal, movements []models.CashTransaction) Summary {
	totalIncome := decimal.Zero
	totalExpenses := decimal.Zero

	for _, m := range movements {
		switch m.Type {
		case models.TransactionIncome:
			totalIncome = totalIncome.Add(m.Amount)
		case models.TransactionExpense:
			totalExpenses = totalExpenses.Add(m.Amount)
		}
	}

	netTotal := totalIncome.Sub(totalExpenses)

	return Summary{
		TotalIncome:      totalIncome,
		TotalExpenses:    totalExpenses,
		NetTotal:         netTotal,
		ExpectedBalance:  startingBalance.Add(netTotal),
		TransactionCount: len(movements),
	}
}
