package unit

import (
	"context"
	"testing"
	"time"

	contractsv1 "aucta/contracts/gen/events/v1"
	performanceanalytics "aucta/contexts/internal-ops/performance-analytics"
	sourcingengine "aucta/contexts/wg-operations/sourcing-engine"
	"aucta/contexts/wg-operations/sourcing-engine/application/workers"
	sourcingtransport "aucta/contexts/wg-operations/sourcing-engine/transport/http"
)

type capturePublisher struct {
	envelopes []contractsv1.Envelope
}

func (p *capturePublisher) Publish(_ context.Context, _ string, event contractsv1.Envelope) error {
	p.envelopes = append(p.envelopes, event)
	return nil
}

// Runs the sourcing lifecycle end to end, drains its outbox through the relay
// and folds the published events into the analytics read model.
func TestAnalyticsFoldsSourcingEvents(t *testing.T) {
	sourcingModule := sourcingengine.NewInMemoryModule(nil)
	analyticsModule := performanceanalytics.NewInMemoryModule(nil)

	// ship-1 is assigned an hour past its target, so it counts as late.
	lateTarget := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	request, err := sourcingModule.Handler.OpenEpisodeHandler(context.Background(), sourcingtransport.OpenSourcingRequest{
		ShipmentID:     "ship-1",
		RequestedBy:    "ops-lead",
		SLATargetAt:    lateTarget,
		RequiredCities: []string{"Paris"},
	})
	if err != nil {
		t.Fatalf("open episode failed: %v", err)
	}
	candidate, err := sourcingModule.Handler.RecordCandidateReplyHandler(context.Background(), request.RequestID, sourcingtransport.CandidateReplyRequest{
		OperatorID:        "op-1",
		MaxValueClearance: 100000,
	})
	if err != nil {
		t.Fatalf("candidate reply failed: %v", err)
	}
	if _, err := sourcingModule.Handler.ValidateCandidateHandler(context.Background(), request.RequestID, candidate.CandidateID, "ops-lead", sourcingtransport.ValidateCandidateRequest{
		Checks: sourcingtransport.CandidateChecksDTO{
			Insurance: "valid",
			Clearance: "sufficient",
			Documents: "complete",
		},
	}); err != nil {
		t.Fatalf("validate candidate failed: %v", err)
	}
	if err := sourcingModule.Service.CompleteEpisode(context.Background(), "ship-1", "op-1", time.Now().UTC()); err != nil {
		t.Fatalf("complete episode failed: %v", err)
	}

	// ship-2 stalls and gets escalated instead.
	stalled, err := sourcingModule.Handler.OpenEpisodeHandler(context.Background(), sourcingtransport.OpenSourcingRequest{
		ShipmentID:     "ship-2",
		RequestedBy:    "ops-lead",
		SLATargetAt:    time.Now().UTC().Add(2 * time.Hour).Format(time.RFC3339),
		RequiredCities: []string{"Geneva"},
	})
	if err != nil {
		t.Fatalf("open episode failed: %v", err)
	}
	if _, err := sourcingModule.Handler.EscalateHandler(context.Background(), stalled.RequestID, "ops-lead", sourcingtransport.EscalateRequest{
		Reason:  "no candidate replies",
		Channel: "phone",
	}); err != nil {
		t.Fatalf("escalate failed: %v", err)
	}

	publisher := &capturePublisher{}
	relay := workers.OutboxRelay{
		Outbox:    sourcingModule.Store,
		Publisher: publisher,
		Clock:     sourcingModule.Store,
		Topic:     "wg.sourcing.events",
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay run failed: %v", err)
	}
	// Two opens, one assignment, one escalation.
	if len(publisher.envelopes) != 4 {
		t.Fatalf("expected 4 published events, got %d", len(publisher.envelopes))
	}

	for _, envelope := range publisher.envelopes {
		if err := analyticsModule.Service.HandleEvent(context.Background(), envelope); err != nil {
			t.Fatalf("handle event %s failed: %v", envelope.EventType, err)
		}
	}

	fromDay := publisher.envelopes[0].OccurredAt.UTC().Format("2006-01-02")
	toDay := fromDay
	for _, envelope := range publisher.envelopes {
		day := envelope.OccurredAt.UTC().Format("2006-01-02")
		if day < fromDay {
			fromDay = day
		}
		if day > toDay {
			toDay = day
		}
	}

	stats, err := analyticsModule.Handler.DailyStatsHandler(context.Background(), fromDay, toDay)
	if err != nil {
		t.Fatalf("daily stats failed: %v", err)
	}
	var assignments, late, escalations int
	for _, day := range stats {
		assignments += day.Assignments
		late += day.LateAssignments
		escalations += day.Escalations
	}
	if assignments != 1 || late != 1 || escalations != 1 {
		t.Fatalf("unexpected rollup: assignments=%d late=%d escalations=%d", assignments, late, escalations)
	}

	// The relay marked every row published, so a second pass is a no-op.
	publisher.envelopes = nil
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("second relay run failed: %v", err)
	}
	if len(publisher.envelopes) != 0 {
		t.Fatalf("expected drained outbox, got %d events", len(publisher.envelopes))
	}
}
