package caja

import (
	"github.com/Knetic/govaluate"
	"github.com/shopspring/decimal"
)

// EvaluateAlertRule evalúa la regla configurable de alerta de descuadre
// (variable de entorno CAJA_ALERT_RULE), por ejemplo:
//
//	abs(difference) >= 50.0
//
// Variables disponibles: difference, expectedBalance, endingBalance,
// totalIncome, totalExpenses. La regla solo marca el cierre para revisión;
// nunca bloquea la transición, y por eso la evaluación en float64 es
// suficiente aquí.
func EvaluateAlertRule(rule string, summary Summary, endingBalance, difference decimal.Decimal) (bool, error) {
	if rule == "" {
		return false, nil
	}

	expr, err := govaluate.NewEvaluableExpressionWithFunctions(rule, map[string]govaluate.ExpressionFunction{
		"abs": func(args ...interface{}) (interface{}, error) {
			v := args[0].(float64)
			if v < 0 {
				return -v, nil
			}
			return v, nil
		},
	})
	if err != nil {
		return false, err
	}

	parameters := map[string]interface{}{
		"difference":      difference.InexactFloat64(),
		"expectedBalance": summary.ExpectedBalance.InexactFloat64(),
		"endingBalance":   endingBalance.InexactFloat64(),
		"totalIncome":     summary.TotalIncome.InexactFloat64(),
		"totalExpenses":   summary.TotalExpenses.InexactFloat64(),
	}

	result, err := expr.Evaluate(parameters)
	if err != nil {
		return false, err
	}
	flagged, ok := result.(bool)
	if !ok {
		return false, nil
	}
	return flagged, nil
}
