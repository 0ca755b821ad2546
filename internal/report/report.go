// Package report derives dashboard and report views from a lead snapshot.
// Every function is pure: it reads the slice it is given and never mutates it.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/solarcrm/pipeline-crm/internal/entity"
)

type KPI struct {
	Count         int             `json:"oportunidades"`
	TotalProposed int64           `json:"valorTotal"`
	TotalSavings  int64           `json:"ahorroTotal"`
	TotalBenefits int64           `json:"beneficiosTotales"`
	TotalPanels   int64           `json:"panelesTotales"`
	AverageTicket decimal.Decimal `json:"ticketPromedio"`
}

type StageBucket struct {
	entity.StageInfo
	Count   int     `json:"count"`
	Total   int64   `json:"valor"`
	Percent float64 `json:"porcentaje"`
}

type CityBucket struct {
	City  string `json:"ubicacion"`
	Count int    `json:"count"`
	Total int64  `json:"valor"`
}

type MonthBucket struct {
	Month string `json:"mes"` // YYYY-MM
	Count int    `json:"count"`
	Total int64  `json:"valor"`
}

type Report struct {
	KPI    KPI           `json:"kpi"`
	Stages []StageBucket `json:"etapas"`
	// Unclassified counts leads whose stage is not on the board, such as
	// rows still carrying the retired "cierre" key.
	Unclassified int           `json:"sinEtapa"`
	Cities       []CityBucket  `json:"ciudades"`
	Months       []MonthBucket `json:"meses"`
}

// Build computes every aggregate over one snapshot.
func Build(leads []entity.Lead) Report {
	return Report{
		KPI:          Summarize(leads),
		Stages:       ByStage(leads),
		Unclassified: Unclassified(leads),
		Cities:       ByCity(leads),
		Months:       ByMonth(leads),
	}
}

// Unclassified counts the leads no stage bucket or board column holds.
func Unclassified(leads []entity.Lead) int {
	n := 0
	for _, l := range leads {
		if !l.Stage.Valid() {
			n++
		}
	}
	return n
}

// Summarize returns the KPI figures. The average ticket is zero for an empty list.
func Summarize(leads []entity.Lead) KPI {
	k := KPI{Count: len(leads), AverageTicket: decimal.Zero}
	for _, l := range leads {
		k.TotalProposed += int64(l.ProposedValue)
		k.TotalSavings += int64(l.Savings)
		k.TotalBenefits += int64(l.Benefits)
		k.TotalPanels += int64(l.Panels)
	}
	if k.Count > 0 {
		k.AverageTicket = decimal.NewFromInt(k.TotalProposed).
			DivRound(decimal.NewFromInt(int64(k.Count)), 2)
	}
	return k
}

// ByStage returns one bucket per pipeline stage in board order. Leads whose
// stage is unknown count toward the percentage base but land in no bucket;
// Unclassified reports how many.
func ByStage(leads []entity.Lead) []StageBucket {
	buckets := make([]StageBucket, 0, len(entity.Stages()))
	index := make(map[entity.Stage]int)
	for i, info := range entity.StageInfos() {
		buckets = append(buckets, StageBucket{StageInfo: info})
		index[info.Key] = i
	}
	for _, l := range leads {
		i, ok := index[l.Stage]
		if !ok {
			continue
		}
		buckets[i].Count++
		buckets[i].Total += int64(l.ProposedValue)
	}
	if total := len(leads); total > 0 {
		for i := range buckets {
			buckets[i].Percent = float64(buckets[i].Count) / float64(total) * 100
		}
	}
	return buckets
}

// ByCity groups by exact city text in order of first appearance.
func ByCity(leads []entity.Lead) []CityBucket {
	var out []CityBucket
	index := make(map[string]int)
	for _, l := range leads {
		i, ok := index[l.City]
		if !ok {
			i = len(out)
			index[l.City] = i
			out = append(out, CityBucket{City: l.City})
		}
		out[i].Count++
		out[i].Total += int64(l.ProposedValue)
	}
	if out == nil {
		out = []CityBucket{}
	}
	return out
}
