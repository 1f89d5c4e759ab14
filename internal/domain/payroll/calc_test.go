package payroll

import (
	"encoding/json"
	"testing"
)

func TestComputeNet(t *testing.T) {
	earnings := Breakdown{"hra": 200.0, "bonus": json.Number("50")}
	deductions := Breakdown{"tax": "100", "note": "n/a"}

	if net := ComputeNet(1000, earnings, deductions); net != 1150 {
		t.Fatalf("expected net 1150, got %v", net)
	}
}

func TestBreakdownLinesSkipsNonNumeric(t *testing.T) {
	b := Breakdown{"transport": 30, "meal": "12.5", "remarks": map[string]any{"x": 1}, "flag": true}

	lines := b.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 numeric lines, got %+v", lines)
	}
	if lines[0].Name != "meal" || lines[0].Amount != 12.5 || lines[1].Name != "transport" {
		t.Fatalf("unexpected order or values: %+v", lines)
	}
	if total := b.Total(); total != 42.5 {
		t.Fatalf("expected total 42.5, got %v", total)
	}
}

func TestEmptyBreakdowns(t *testing.T) {
	var b Breakdown
	if b.Total() != 0 || len(b.Lines()) != 0 {
		t.Fatal("expected nil breakdown to be empty")
	}
	if net := ComputeNet(500, nil, nil); net != 500 {
		t.Fatalf("expected 500, got %v", net)
	}
}

func TestNonFiniteComponentsAreNotCounted(t *testing.T) {
	b := Breakdown{"bonus": "Inf", "hra": 100.0, "tax": "NaN"}
	if total := b.Total(); total != 100 {
		t.Fatalf("expected total 100, got %v", total)
	}
	name, bad := b.invalidNumber()
	if !bad || name != "bonus" {
		t.Fatalf("expected bonus flagged first, got %q %v", name, bad)
	}
	if _, bad := (Breakdown{"note": "n/a", "hra": "12"}).invalidNumber(); bad {
		t.Fatal("non numeric notes are not invalid numbers")
	}
}
