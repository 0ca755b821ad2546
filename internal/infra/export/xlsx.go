// Package export renders the lead list and its report as an Excel workbook.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/solarcrm/pipeline-crm/internal/entity"
	"github.com/solarcrm/pipeline-crm/internal/report"
)

const (
	leadsSheet   = "Leads"
	summarySheet = "Resumen"
)

var leadHeaders = []string{
	"Fila", "Fecha", "Nombre", "Teléfono", "Ubicación", "Etapa", "Valor Propuesta",
	"Ahorro Mensual", "Beneficios", "Paneles", "Potencia", "Producción Anual",
	"Embajador", "Motivo", "Tipo Alerta", "Notas",
}

// WriteXLSX writes a workbook with one row per lead and a summary sheet.
func WriteXLSX(w io.Writer, leads []entity.Lead, rep report.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", leadsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	if err := writeRow(f, leadsSheet, 1, toCells(leadHeaders)); err != nil {
		return err
	}
	if err := f.SetCellStyle(leadsSheet, "A1", cell(len(leadHeaders), 1), headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, l := range leads {
		var row interface{} = ""
		if l.Row != nil {
			row = *l.Row
		}
		values := []interface{}{
			row, l.Date, l.Name, NormalizePhone(l.Phone), l.City, l.Stage.Info().Label,
			int64(l.ProposedValue), int64(l.Savings), int64(l.Benefits), int(l.Panels),
			l.Power, l.AnnualProduction, l.Ambassador, l.Reason, l.AlertType,
			strings.Join(l.Notes, "\n"),
		}
		if err := writeRow(f, leadsSheet, i+2, values); err != nil {
			return err
		}
	}
	if len(leads) > 0 {
		if err := f.SetCellStyle(leadsSheet, "G2", cell(9, len(leads)+1), moneyStyle); err != nil {
			return fmt.Errorf("failed to style amounts: %w", err)
		}
	}
	_ = f.SetColWidth(leadsSheet, "A", "P", 16)

	if err := writeSummary(f, rep, headerStyle); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, rep report.Report, headerStyle int) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	r := 1
	title := func(text string) error {
		if err := f.SetCellValue(summarySheet, cell(1, r), text); err != nil {
			return err
		}
		if err := f.SetCellStyle(summarySheet, cell(1, r), cell(4, r), headerStyle); err != nil {
			return err
		}
		r++
		return nil
	}
	line := func(values ...interface{}) error {
		err := writeRow(f, summarySheet, r, values)
		r++
		return err
	}

	if err := title("Indicadores"); err != nil {
		return err
	}
	for _, c := range report.SummaryCards(rep.KPI) {
		if err := line(c.Label, c.Value); err != nil {
			return err
		}
	}
	if err := line("Ticket Promedio", report.FormatCOP(rep.KPI.AverageTicket.Round(0).IntPart())); err != nil {
		return err
	}
	r++

	if err := title("Distribución por Etapa"); err != nil {
		return err
	}
	for _, s := range rep.Stages {
		if err := line(s.Label, s.Count, report.FormatCOP(s.Total), fmt.Sprintf("%.1f%%", s.Percent)); err != nil {
			return err
		}
	}
	if rep.Unclassified > 0 {
		if err := line("Sin etapa", rep.Unclassified); err != nil {
			return err
		}
	}
	r++

	if err := title("Por Ciudad"); err != nil {
		return err
	}
	for _, c := range rep.Cities {
		if err := line(c.City, c.Count, report.FormatCOP(c.Total)); err != nil {
			return err
		}
	}
	r++

	if err := title("Por Mes"); err != nil {
		return err
	}
	for _, m := range rep.Months {
		if err := line(m.Month, m.Count, report.FormatCOP(m.Total)); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(summarySheet, "A", "D", 24)
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	if err := f.SetSheetRow(sheet, cell(1, row), &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func toCells(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
