package report

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var copPrinter = message.NewPrinter(language.MustParse("es-CO"))

// FormatCOP renders whole pesos the way the dashboard shows them, e.g. "$ 12.500.000".
func FormatCOP(v int64) string {
	if v < 0 {
		return "-$ " + copPrinter.Sprint(number.Decimal(-v))
	}
	return "$ " + copPrinter.Sprint(number.Decimal(v))
}

// Card is one KPI tile of the dashboard.
type Card struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Cards renders the dashboard tiles for a KPI summary.
func Cards(k KPI) []Card {
	return []Card{
		{Label: "Oportunidades", Value: strconv.Itoa(k.Count)},
		{Label: "Valor Total Propuestas", Value: FormatCOP(k.TotalProposed)},
		{Label: "Ahorro Mensual Total", Value: FormatCOP(k.TotalSavings)},
		{Label: "Ticket Promedio", Value: FormatCOP(k.AverageTicket.Round(0).IntPart())},
		{Label: "Paneles Totales", Value: strconv.FormatInt(k.TotalPanels, 10)},
	}
}

// SummaryCards are the tiles of the reports page, which add total benefits.
func SummaryCards(k KPI) []Card {
	return []Card{
		{Label: "Valor Total", Value: FormatCOP(k.TotalProposed)},
		{Label: "Ahorro Total Mensual", Value: FormatCOP(k.TotalSavings)},
		{Label: "Beneficios Totales", Value: FormatCOP(k.TotalBenefits)},
		{Label: "Paneles Totales", Value: strconv.FormatInt(k.TotalPanels, 10)},
	}
}
