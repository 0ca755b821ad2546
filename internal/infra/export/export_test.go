package export_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/solarcrm/pipeline-crm/internal/entity"
	"github.com/solarcrm/pipeline-crm/internal/infra/export"
	"github.com/solarcrm/pipeline-crm/internal/report"
	"github.com/solarcrm/pipeline-crm/internal/testdata"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"300 123 4567":    "+573001234567",
		"+57 300 1234567": "+573001234567",
		" 3001234567 ":    "+573001234567",
		"123":             "123",
		"sin teléfono":    "sin teléfono",
		"":                "",
	}
	for in, want := range cases {
		assert.Equal(t, want, export.NormalizePhone(in), in)
	}
}

func TestWriteXLSX(t *testing.T) {
	leads := testdata.Leads(3, 12)
	leads = append(leads, entity.Lead{Name: "Antigua", Stage: "cierre"})
	leads = append(leads, entity.Lead{Name: "Sin fila", Stage: entity.StageLost, Notes: entity.Notes{"uno", "dos"}})

	var buf bytes.Buffer
	require.NoError(t, export.WriteXLSX(&buf, leads, report.Build(leads)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Leads", "Resumen"}, f.GetSheetList())

	rows, err := f.GetRows("Leads")
	require.NoError(t, err)
	require.Len(t, rows, len(leads)+1)
	assert.Equal(t, "Fila", rows[0][0])
	assert.Equal(t, "Nombre", rows[0][2])
	assert.Equal(t, leads[0].Name, rows[1][2])

	last := rows[len(rows)-1]
	assert.Equal(t, "", last[0])
	assert.Equal(t, "Sin fila", last[2])
	assert.Equal(t, "Cierre Perdido", last[5])
	assert.Equal(t, "uno\ndos", last[15])

	summary, err := f.GetRows("Resumen")
	require.NoError(t, err)
	assert.Equal(t, "Indicadores", summary[0][0])
	found, unclassified := false, ""
	for _, r := range summary {
		if len(r) > 0 && r[0] == "Distribución por Etapa" {
			found = true
		}
		if len(r) > 1 && r[0] == "Sin etapa" {
			unclassified = r[1]
		}
	}
	assert.True(t, found)
	assert.Equal(t, "1", unclassified)
}

func TestWriteXLSXEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteXLSX(&buf, nil, report.Build(nil)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Leads")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
