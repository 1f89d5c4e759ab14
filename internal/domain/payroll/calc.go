package payroll

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Line is one named, numeric component of a breakdown.
type Line struct {
	Name   string
	Amount float64
}

// Lines returns the numeric components of b sorted by name. Values that
// are not numbers (or numeric strings) are skipped.
func (b Breakdown) Lines() []Line {
	lines := make([]Line, 0, len(b))
	for name, raw := range b {
		if amount, ok := numeric(raw); ok {
			lines = append(lines, Line{Name: name, Amount: amount})
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Name < lines[j].Name })
	return lines
}

func (b Breakdown) Total() float64 {
	total := 0.0
	for _, line := range b.Lines() {
		total += line.Amount
	}
	return total
}

// ComputeNet is amount plus earnings minus deductions.
func ComputeNet(amount float64, earnings, deductions Breakdown) float64 {
	return amount + earnings.Total() - deductions.Total()
}

func numeric(value any) (float64, bool) {
	f, ok := parseNumber(value)
	if !ok || !finite(f) {
		return 0, false
	}
	return f, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// invalidNumber returns the first component (by name) that reads as a
// number but is NaN or infinite.
func (b Breakdown) invalidNumber() (string, bool) {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if f, ok := parseNumber(b[name]); ok && !finite(f) {
			return name, true
		}
	}
	return "", false
}

func parseNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}
