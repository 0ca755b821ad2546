package report

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/solarcrm/pipeline-crm/internal/entity"
)

var (
	isoDate   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
	slashDate = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{1,4})`)
)

// looseLayouts are tried for dates that are neither ISO nor day-first slashes.
var looseLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	time.UnixDate,
	time.ANSIC,
	"Mon Jan 2 2006 15:04:05 GMT-0700",
	"Mon Jan 2 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"2006/01/02",
	"2006-01",
}

// ByMonth sums proposed value per calendar month in ascending YYYY-MM order.
// Leads whose date cannot be read are left out.
func ByMonth(leads []entity.Lead) []MonthBucket {
	index := make(map[string]int)
	out := []MonthBucket{}
	for _, l := range leads {
		key, ok := MonthKey(l.Date)
		if !ok {
			continue
		}
		i, seen := index[key]
		if !seen {
			i = len(out)
			index[key] = i
			out = append(out, MonthBucket{Month: key})
		}
		out[i].Count++
		out[i].Total += int64(l.ProposedValue)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// MonthKey returns the YYYY-MM bucket of a sheet date. It understands
// "YYYY-MM-DD[ HH:MM]", "DD/MM/YYYY" (two-digit years are 20xx) and a handful
// of textual layouts.
func MonthKey(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	if m := isoDate.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 {
			return "", false
		}
		return m[1] + "-" + m[2], true
	}

	if m := slashDate.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return "", false
		}
		return fmt.Sprintf("%04d-%02d", year, month), true
	}

	for _, layout := range looseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01"), true
		}
	}
	return "", false
}
