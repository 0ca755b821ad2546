package report

import (
	"strings"

	"github.com/solarcrm/pipeline-crm/internal/entity"
)

// Criteria narrows the lead table. Empty fields match everything.
type Criteria struct {
	City       string
	Stage      entity.Stage
	Ambassador string
	Search     string // case-insensitive substring of the name
}

func (c Criteria) Match(l entity.Lead) bool {
	if c.City != "" && l.City != c.City {
		return false
	}
	if c.Stage != "" && l.Stage != c.Stage {
		return false
	}
	if c.Ambassador != "" && l.Ambassador != c.Ambassador {
		return false
	}
	if c.Search != "" && !strings.Contains(strings.ToLower(l.Name), strings.ToLower(c.Search)) {
		return false
	}
	return true
}

func Filter(leads []entity.Lead, c Criteria) []entity.Lead {
	out := make([]entity.Lead, 0, len(leads))
	for _, l := range leads {
		if c.Match(l) {
			out = append(out, l)
		}
	}
	return out
}

// Recent returns the last n leads, newest first.
func Recent(leads []entity.Lead, n int) []entity.Lead {
	if n > len(leads) {
		n = len(leads)
	}
	if n < 0 {
		n = 0
	}
	out := make([]entity.Lead, 0, n)
	for i := len(leads) - 1; i >= len(leads)-n; i-- {
		out = append(out, leads[i])
	}
	return out
}

// Cities lists distinct cities in order of first appearance.
func Cities(leads []entity.Lead) []string {
	return distinct(leads, func(l entity.Lead) string { return l.City }, false)
}

// Ambassadors lists distinct ambassador names, skipping unassigned leads.
func Ambassadors(leads []entity.Lead) []string {
	return distinct(leads, func(l entity.Lead) string { return l.Ambassador }, true)
}

func distinct(leads []entity.Lead, key func(entity.Lead) string, skipBlank bool) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, l := range leads {
		k := key(l)
		if skipBlank && k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Column is one lane of the pipeline board.
type Column struct {
	entity.StageInfo
	Count int           `json:"count"`
	Total int64         `json:"valor"`
	Leads []entity.Lead `json:"leads"`
}

func Columns(leads []entity.Lead) []Column {
	infos := entity.StageInfos()
	cols := make([]Column, len(infos))
	index := make(map[entity.Stage]int, len(infos))
	for i, info := range infos {
		cols[i] = Column{StageInfo: info, Leads: []entity.Lead{}}
		index[info.Key] = i
	}
	for _, l := range leads {
		i, ok := index[l.Stage]
		if !ok {
			continue
		}
		cols[i].Leads = append(cols[i].Leads, l)
		cols[i].Count++
		cols[i].Total += int64(l.ProposedValue)
	}
	return cols
}
