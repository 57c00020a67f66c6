package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	sourcingengine "aucta/contexts/wg-operations/sourcing-engine"
	domainerrors "aucta/contexts/wg-operations/sourcing-engine/domain/errors"
	httptransport "aucta/contexts/wg-operations/sourcing-engine/transport/http"
)

func TestSourcingEpisodePipeline(t *testing.T) {
	module := sourcingengine.NewInMemoryModule(nil)
	slaTarget := time.Now().UTC().Add(4 * time.Hour).Format(time.RFC3339)

	request, err := module.Handler.OpenEpisodeHandler(context.Background(), httptransport.OpenSourcingRequest{
		ShipmentID:        "ship-1",
		RequestedBy:       "ops-lead",
		SLATargetAt:       slaTarget,
		RequiredCities:    []string{"Paris"},
		MinValueClearance: 60000,
		DeclaredValue:     75000,
		RequiredLanguage:  "fr",
		PickupCity:        "Paris",
	})
	if err != nil {
		t.Fatalf("open episode failed: %v", err)
	}
	if request.PipelineState != "broadcast_sent" || request.SLABand != "ok" {
		t.Fatalf("unexpected fresh episode %+v", request)
	}

	if _, err := module.Handler.OpenEpisodeHandler(context.Background(), httptransport.OpenSourcingRequest{
		ShipmentID:     "ship-1",
		RequestedBy:    "ops-lead",
		SLATargetAt:    slaTarget,
		RequiredCities: []string{"Paris"},
	}); !errors.Is(err, domainerrors.ErrEpisodeActive) {
		t.Fatalf("expected ErrEpisodeActive on second broadcast, got %v", err)
	}

	candidate, err := module.Handler.RecordCandidateReplyHandler(context.Background(), request.RequestID, httptransport.CandidateReplyRequest{
		OperatorID:        "op-1",
		MaxValueClearance: 100000,
		Languages:         []string{"fr", "en"},
		AreaCoverage:      []string{"Paris"},
		Rating:            4.8,
		SpecialSkills:     []string{"high_value_handling"},
		DistanceKM:        4.2,
		ETAMinutes:        25,
	})
	if err != nil {
		t.Fatalf("candidate reply failed: %v", err)
	}
	if candidate.Score != 100 {
		t.Fatalf("expected full compatibility score, got %d", candidate.Score)
	}
	if candidate.Checks.Insurance != "pending" {
		t.Fatalf("expected pending checks on reply, got %+v", candidate.Checks)
	}

	validated, err := module.Handler.ValidateCandidateHandler(context.Background(), request.RequestID, candidate.CandidateID, "ops-lead", httptransport.ValidateCandidateRequest{
		Checks: httptransport.CandidateChecksDTO{
			Insurance: "valid",
			Clearance: "sufficient",
			Documents: "complete",
		},
	})
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if validated.Status != "validated" {
		t.Fatalf("expected validated candidate, got %s", validated.Status)
	}

	after, err := module.Handler.GetRequestHandler(context.Background(), request.RequestID)
	if err != nil {
		t.Fatalf("get request failed: %v", err)
	}
	if after.PipelineState != "validating" {
		t.Fatalf("expected validating pipeline, got %s", after.PipelineState)
	}
}

func TestSourcingEscalationFlow(t *testing.T) {
	module := sourcingengine.NewInMemoryModule(nil)
	slaTarget := time.Now().UTC().Add(2 * time.Hour).Format(time.RFC3339)

	request, err := module.Handler.OpenEpisodeHandler(context.Background(), httptransport.OpenSourcingRequest{
		ShipmentID:     "ship-2",
		RequestedBy:    "ops-lead",
		SLATargetAt:    slaTarget,
		RequiredCities: []string{"Geneva"},
	})
	if err != nil {
		t.Fatalf("open episode failed: %v", err)
	}

	if _, err := module.Handler.EscalateHandler(context.Background(), request.RequestID, "ops-lead", httptransport.EscalateRequest{
		Reason: "no candidate replies",
	}); !errors.Is(err, domainerrors.ErrEscalationIncomplete) {
		t.Fatalf("expected ErrEscalationIncomplete without channel, got %v", err)
	}

	escalated, err := module.Handler.EscalateHandler(context.Background(), request.RequestID, "ops-lead", httptransport.EscalateRequest{
		Reason:  "no candidate replies",
		Channel: "phone",
	})
	if err != nil {
		t.Fatalf("escalate failed: %v", err)
	}
	if !escalated.Escalated || escalated.Status != "escalated" || escalated.EscalatedAt == "" {
		t.Fatalf("unexpected escalated request %+v", escalated)
	}

	// Candidate intake continues after escalation.
	if _, err := module.Handler.RecordCandidateReplyHandler(context.Background(), request.RequestID, httptransport.CandidateReplyRequest{
		OperatorID: "op-9",
	}); err != nil {
		t.Fatalf("reply after escalation failed: %v", err)
	}
}
