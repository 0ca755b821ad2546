// Package testdata generates realistic lead collections for tests.
package testdata

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/solarcrm/pipeline-crm/internal/entity"
)

var cities = []string{"Pasto", "Cali", "Popayán", "Ipiales", "Tumaco", "pasto"}

// Leads returns n leads with rows 2..n+1, deterministic for a given seed.
func Leads(seed int64, n int) []entity.Lead {
	f := gofakeit.New(seed)
	stages := entity.Stages()
	out := make([]entity.Lead, 0, n)
	for i := 0; i < n; i++ {
		row := i + 2
		l := entity.Lead{
			Date:             f.DateRange(date(2023, time.January, 1), date(2025, time.December, 31)).Format("2006-01-02"),
			Name:             f.Name(),
			Phone:            fmt.Sprintf("3%09d", f.Number(0, 999999999)),
			City:             cities[f.Number(0, len(cities)-1)],
			Reason:           "Cliente Potencial detectado (>300 kWh)",
			AlertType:        "OPORTUNIDAD VENTA",
			ProposedValue:    entity.Amount(f.Number(0, 80) * 500000),
			Savings:          entity.Amount(f.Number(0, 60) * 10000),
			Benefits:         entity.Amount(f.Number(0, 40) * 100000),
			Panels:           entity.Count(f.Number(0, 40)),
			AnnualProduction: fmt.Sprintf("%d kWh", f.Number(1000, 20000)),
			Stage:            stages[f.Number(0, len(stages)-1)],
			Row:              &row,
		}
		if f.Bool() {
			l.Ambassador = f.RandomString([]string{"Ana", "Luis", "Marta"})
		}
		l.AssignID()
		out = append(out, l)
	}
	return out
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
