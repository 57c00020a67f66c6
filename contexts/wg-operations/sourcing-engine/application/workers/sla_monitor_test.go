package workers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"aucta/contexts/wg-operations/sourcing-engine/adapters/memory"
	"aucta/contexts/wg-operations/sourcing-engine/application"
	"aucta/contexts/wg-operations/sourcing-engine/ports"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type seqIDs struct {
	n int
}

func (g *seqIDs) NewID(context.Context) (string, error) {
	g.n++
	return fmt.Sprintf("id-%d", g.n), nil
}

func TestSLAMonitorAutoEscalatesBreachedEpisodes(t *testing.T) {
	opened := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	service := application.Service{
		Repo:   store,
		Outbox: store,
		Clock:  fixedClock{now: opened},
		IDGen:  &seqIDs{},
	}

	breached, err := service.OpenEpisode(context.Background(), ports.OpenEpisodeInput{
		ShipmentID:     "ship-breached",
		RequestedBy:    "ops-lead",
		SLATargetAt:    opened.Add(30 * time.Minute),
		RequiredCities: []string{"Paris"},
	})
	if err != nil {
		t.Fatalf("open breached episode failed: %v", err)
	}
	healthy, err := service.OpenEpisode(context.Background(), ports.OpenEpisodeInput{
		ShipmentID:     "ship-healthy",
		RequestedBy:    "ops-lead",
		SLATargetAt:    opened.Add(6 * time.Hour),
		RequiredCities: []string{"Paris"},
	})
	if err != nil {
		t.Fatalf("open healthy episode failed: %v", err)
	}

	sweepAt := opened.Add(45 * time.Minute)
	monitor := SLAMonitor{
		Service: application.Service{
			Repo:   store,
			Outbox: store,
			Clock:  fixedClock{now: sweepAt},
			IDGen:  &seqIDs{n: 100},
		},
		Repo:  store,
		Clock: fixedClock{now: sweepAt},
	}
	if err := monitor.RunOnce(context.Background()); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	escalated, err := store.GetRequest(context.Background(), breached.RequestID)
	if err != nil {
		t.Fatalf("get breached request failed: %v", err)
	}
	if !escalated.Escalated || escalated.EscalationReason != "sla_breach" {
		t.Fatalf("expected sla_breach escalation, got %+v", escalated)
	}
	if escalated.EscalationChannel != "ops_alerts" {
		t.Fatalf("expected ops_alerts channel, got %q", escalated.EscalationChannel)
	}

	untouched, err := store.GetRequest(context.Background(), healthy.RequestID)
	if err != nil {
		t.Fatalf("get healthy request failed: %v", err)
	}
	if untouched.Escalated {
		t.Fatalf("expected healthy episode untouched")
	}

	// A second sweep is a no-op: escalation is sticky.
	if err := monitor.RunOnce(context.Background()); err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	again, err := store.GetRequest(context.Background(), breached.RequestID)
	if err != nil {
		t.Fatalf("get breached request failed: %v", err)
	}
	if again.EscalatedAt == nil || !again.EscalatedAt.Equal(*escalated.EscalatedAt) {
		t.Fatalf("expected escalated_at unchanged on resweep")
	}
}

func TestSLAMonitorEscalatesAtCriticalThreshold(t *testing.T) {
	opened := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	service := application.Service{
		Repo:   store,
		Outbox: store,
		Clock:  fixedClock{now: opened},
		IDGen:  &seqIDs{},
	}
	request, err := service.OpenEpisode(context.Background(), ports.OpenEpisodeInput{
		ShipmentID:     "ship-critical",
		RequestedBy:    "ops-lead",
		SLATargetAt:    opened.Add(60 * time.Minute),
		RequiredCities: []string{"Paris"},
	})
	if err != nil {
		t.Fatalf("open episode failed: %v", err)
	}

	sweepAt := opened.Add(50 * time.Minute) // past 80%, before breach
	monitor := SLAMonitor{
		Service: application.Service{
			Repo:   store,
			Outbox: store,
			Clock:  fixedClock{now: sweepAt},
			IDGen:  &seqIDs{n: 100},
		},
		Repo:  store,
		Clock: fixedClock{now: sweepAt},
	}
	if err := monitor.RunOnce(context.Background()); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	escalated, err := store.GetRequest(context.Background(), request.RequestID)
	if err != nil {
		t.Fatalf("get request failed: %v", err)
	}
	if !escalated.Escalated || escalated.EscalationReason != "sla_threshold_80" {
		t.Fatalf("expected sla_threshold_80 escalation, got %q", escalated.EscalationReason)
	}
}
