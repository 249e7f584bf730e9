package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultPriority = "medium"
	DefaultStatus   = "not_started"
)

var priorityAliases = map[string]string{
	"high":   "high",
	"alta":   "high",
	"medium": "medium",
	"media":  "medium",
	"low":    "low",
	"baja":   "low",
}

var statusAliases = map[string]string{
	"not_started": "not_started",
	"not started": "not_started",
	"no iniciado": "not_started",
	"no iniciada": "not_started",
	"in_progress": "in_progress",
	"in progress": "in_progress",
	"en progreso": "in_progress",
	"en curso":    "in_progress",
	"completed":   "completed",
	"completado":  "completed",
	"completada":  "completed",
	"done":        "completed",
	"on_hold":     "on_hold",
	"on hold":     "on_hold",
	"en pausa":    "on_hold",
	"pausado":     "on_hold",
	"pausada":     "on_hold",
}

var truthyStrings = map[string]bool{
	"true": true,
	"yes":  true,
	"1":    true,
	"sí":   true,
	"si":   true,
}

// dateLayouts is tried in order. The first layout that parses wins.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"02/01/2006",
	"2006/01/02",
	"02-01-2006",
}

// CoercePriority maps a raw cell to the priority enum, defaulting on absent
// or unrecognized values.
func CoercePriority(raw string) string {
	if p, ok := priorityAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return p
	}
	return DefaultPriority
}

// CoerceStatus maps a raw cell to the shared status enum, defaulting on
// absent or unrecognized values.
func CoerceStatus(raw string) string {
	if s, ok := statusAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return DefaultStatus
}

// CoerceBool accepts recognized truthy strings and nonzero numbers.
// Everything else is false.
func CoerceBool(raw string) bool {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return false
	}
	if truthyStrings[v] {
		return true
	}
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		return n != 0
	}
	return false
}

// CoerceProgress parses a percentage cell into a decimal clamped to [0, 100].
// Absent or unparsable values become zero.
func CoerceProgress(raw string) decimal.Decimal {
	v := strings.TrimSpace(raw)
	v = strings.TrimSuffix(v, "%")
	v = strings.ReplaceAll(v, ",", ".")
	v = strings.TrimSpace(v)
	if v == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero
	}
	if d.IsNegative() {
		return decimal.Zero
	}
	if hundred := decimal.NewFromInt(100); d.GreaterThan(hundred) {
		return hundred
	}
	return d
}

// CoerceDate parses a date cell through the layered layout chain and reduces
// it to calendar-date precision in UTC. Unparsable values become absent.
func CoerceDate(raw string) *time.Time {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, v)
		if err != nil {
			continue
		}
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return &day
	}
	return nil
}
