package entity

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is a currency value in whole pesos. Sheet cells arrive as numbers,
// numeric strings or empty strings, so decoding accepts all three.
type Amount int64

func (a *Amount) UnmarshalJSON(b []byte) error {
	f, err := parseCell(b)
	if err != nil {
		return fmt.Errorf("valor monetario inválido %s: %w", b, err)
	}
	*a = Amount(math.Round(f))
	return nil
}

// Count is an integer quantity such as the number of panels.
type Count int

func (c *Count) UnmarshalJSON(b []byte) error {
	f, err := parseCell(b)
	if err != nil {
		return fmt.Errorf("cantidad inválida %s: %w", b, err)
	}
	*c = Count(math.Round(f))
	return nil
}

func parseCell(b []byte) (float64, error) {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return 0, nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return 0, err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			return 0, nil
		}
	}
	return strconv.ParseFloat(raw, 64)
}

// Notes is the ordered list of free-text notes of a lead. The sheet may hold
// them as a JSON array, as a JSON-encoded array inside a string cell, or as a
// single plain-text note.
type Notes []string

func (n *Notes) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*n = nil
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		*n = list
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("notas inválidas %s: %w", b, err)
	}
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		*n = nil
	case strings.HasPrefix(s, "["):
		var list []string
		if err := json.Unmarshal([]byte(s), &list); err != nil {
			*n = Notes{s}
			return nil
		}
		*n = list
	default:
		*n = Notes{s}
	}
	return nil
}
