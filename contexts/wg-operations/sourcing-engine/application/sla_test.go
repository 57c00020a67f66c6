package application

import (
	"testing"
	"time"
)

func TestEvaluateSLABands(t *testing.T) {
	opened := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	target := opened.Add(60 * time.Minute)

	if status := EvaluateSLA(opened.Add(30*time.Minute), opened, target); status.Band != BandOK {
		t.Fatalf("expected ok at 50%% of target, got %s", status.Band)
	}
	// 48 minutes is exactly 80% of the 60 minute target.
	if status := EvaluateSLA(opened.Add(48*time.Minute), opened, target); status.Band != BandCritical {
		t.Fatalf("expected critical at 80%% of target, got %s", status.Band)
	}
	status := EvaluateSLA(opened.Add(72*time.Minute), opened, target)
	if status.Band != BandBreach {
		t.Fatalf("expected breach past target, got %s", status.Band)
	}
	if status.Overage != 12*time.Minute {
		t.Fatalf("expected 12m overage, got %s", status.Overage)
	}
	if status.Label() != "12m BREACH" {
		t.Fatalf("unexpected breach label %q", status.Label())
	}
}

func TestEvaluateSLADegenerateTarget(t *testing.T) {
	opened := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	status := EvaluateSLA(opened.Add(5*time.Minute), opened, opened)
	if status.Band != BandBreach {
		t.Fatalf("expected breach for non-positive target, got %s", status.Band)
	}
}

func TestSLALabels(t *testing.T) {
	if (SLAStatus{Band: BandOK}).Label() != "OK" {
		t.Fatalf("unexpected ok label")
	}
	if (SLAStatus{Band: BandCritical}).Label() != "CRITICAL" {
		t.Fatalf("unexpected critical label")
	}
}
