package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	assignmentdesk "aucta/contexts/wg-operations/assignment-desk"
	deskerrors "aucta/contexts/wg-operations/assignment-desk/domain/errors"
	deskports "aucta/contexts/wg-operations/assignment-desk/ports"
	desktransport "aucta/contexts/wg-operations/assignment-desk/transport/http"
	hubcapacity "aucta/contexts/wg-operations/hub-capacity"
	hubtransport "aucta/contexts/wg-operations/hub-capacity/transport/http"
	sourcingengine "aucta/contexts/wg-operations/sourcing-engine"
	sourcingtransport "aucta/contexts/wg-operations/sourcing-engine/transport/http"
)

// Wires the three wg-operations modules together the way the composition root
// does: sourcing gates ordering, hub capacity answers feasibility, the desk
// owns the commit.
func buildDeskFixture(t *testing.T) (sourcingengine.Module, hubcapacity.Module, assignmentdesk.Module) {
	t.Helper()
	sourcingModule := sourcingengine.NewInMemoryModule(nil)
	hubModule := hubcapacity.NewInMemoryModule(nil)
	deskModule := assignmentdesk.NewInMemoryModule(sourcingModule.Service, hubModule.Service, nil)
	return sourcingModule, hubModule, deskModule
}

func validateCandidateThroughPipeline(t *testing.T, sourcingModule sourcingengine.Module, shipmentID string, operatorID string, declaredValue float64) string {
	t.Helper()
	request, err := sourcingModule.Handler.OpenEpisodeHandler(context.Background(), sourcingtransport.OpenSourcingRequest{
		ShipmentID:     shipmentID,
		RequestedBy:    "ops-lead",
		SLATargetAt:    time.Now().UTC().Add(4 * time.Hour).Format(time.RFC3339),
		RequiredCities: []string{"Paris"},
		DeclaredValue:  declaredValue,
	})
	if err != nil {
		t.Fatalf("open episode failed: %v", err)
	}
	candidate, err := sourcingModule.Handler.RecordCandidateReplyHandler(context.Background(), request.RequestID, sourcingtransport.CandidateReplyRequest{
		OperatorID:        operatorID,
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
	return request.RequestID
}

func seedDeskShipment(deskModule assignmentdesk.Module, shipmentID string, declaredValue float64, tierLevel int) {
	deskModule.Store.SeedShipment(deskports.ShipmentFacts{
		ShipmentID:        shipmentID,
		DeclaredValue:     declaredValue,
		TierLevel:         tierLevel,
		SLADeadline:       time.Date(2026, 3, 13, 18, 0, 0, 0, time.UTC),
		Status:            "pending_assignment",
		HubLocation:       "paris-hub",
		SenderWindowStart: time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC),
		SenderWindowEnd:   time.Date(2026, 3, 12, 12, 0, 0, 0, time.UTC),
		SenderTimezone:    "Europe/Paris",
		BuyerWindowStart:  time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC),
		BuyerWindowEnd:    time.Date(2026, 3, 12, 20, 0, 0, 0, time.UTC),
		BuyerTimezone:     "Europe/Paris",
	})
	deskModule.Store.SeedOperator(deskports.OperatorFacts{
		OperatorID:        "op-1",
		MaxValueClearance: 100000,
	})
}

func deskSchedule(slotID string) desktransport.ScheduleDTO {
	return desktransport.ScheduleDTO{
		PickupAt:    "2026-03-12T09:00:00Z",
		HubIntakeAt: "2026-03-12T11:00:00Z",
		DeliveryAt:  "2026-03-12T15:00:00Z",
		HubDate:     "2026-03-12",
		HubWindow:   "09:00-13:00",
		HubSlotID:   slotID,
	}
}

func TestAssignmentRequiresValidatedCandidate(t *testing.T) {
	sourcingModule, _, deskModule := buildDeskFixture(t)
	seedDeskShipment(deskModule, "ship-1", 45000, 1)

	// Episode open, candidate replied but never validated.
	request, err := sourcingModule.Handler.OpenEpisodeHandler(context.Background(), sourcingtransport.OpenSourcingRequest{
		ShipmentID:     "ship-1",
		RequestedBy:    "ops-lead",
		SLATargetAt:    time.Now().UTC().Add(4 * time.Hour).Format(time.RFC3339),
		RequiredCities: []string{"Paris"},
	})
	if err != nil {
		t.Fatalf("open episode failed: %v", err)
	}
	if _, err := sourcingModule.Handler.RecordCandidateReplyHandler(context.Background(), request.RequestID, sourcingtransport.CandidateReplyRequest{
		OperatorID: "op-1",
	}); err != nil {
		t.Fatalf("candidate reply failed: %v", err)
	}

	_, err = deskModule.Handler.FinalizeAssignmentHandler(context.Background(), desktransport.FinalizeAssignmentRequest{
		ShipmentID: "ship-1",
		OperatorID: "op-1",
		AssignedBy: "desk-lead",
		Schedule:   deskSchedule(""),
	})
	if !errors.Is(err, deskerrors.ErrCandidateNotValidated) {
		t.Fatalf("expected ErrCandidateNotValidated, got %v", err)
	}
}

func TestAssignmentOverrideFlowForHighValueShipment(t *testing.T) {
	sourcingModule, hubModule, deskModule := buildDeskFixture(t)

	// Declared value exceeds the operator's clearance by 25k.
	seedDeskShipment(deskModule, "ship-1", 125000, 2)
	requestID := validateCandidateThroughPipeline(t, sourcingModule, "ship-1", "op-1", 125000)

	slot, err := hubModule.Handler.CreateSlotHandler(context.Background(), hubtransport.CreateSlotRequest{
		HubLocation: "paris-hub",
		Date:        "2026-03-12",
		TierLevel:   2,
		TimeWindow:  "09:00-13:00",
		MaxCapacity: 1,
	})
	if err != nil {
		t.Fatalf("create slot failed: %v", err)
	}
	if _, err := hubModule.Handler.HoldSlotHandler(context.Background(), slot.SlotID, hubtransport.HoldSlotRequest{
		ShipmentID:          "ship-1",
		HoldDurationMinutes: 60,
	}); err != nil {
		t.Fatalf("hold failed: %v", err)
	}
	deskModule.Store.SeedSlotHold(slot.SlotID, "ship-1")

	finalize := desktransport.FinalizeAssignmentRequest{
		ShipmentID: "ship-1",
		OperatorID: "op-1",
		AssignedBy: "desk-lead",
		Schedule:   deskSchedule(slot.SlotID),
	}

	// First attempt without an override is rejected with the violation list.
	resp, err := deskModule.Handler.FinalizeAssignmentHandler(context.Background(), finalize)
	if !errors.Is(err, deskerrors.ErrConstraintsViolated) {
		t.Fatalf("expected ErrConstraintsViolated, got %v", err)
	}
	if len(resp.Violations) != 1 || resp.Violations[0].ConstraintType != "value_clearance" {
		t.Fatalf("expected value_clearance violation, got %+v", resp.Violations)
	}

	// Override without a reason is refused.
	finalize.Override = true
	if _, err := deskModule.Handler.FinalizeAssignmentHandler(context.Background(), finalize); !errors.Is(err, deskerrors.ErrOverrideReasonRequired) {
		t.Fatalf("expected ErrOverrideReasonRequired, got %v", err)
	}

	// With authority and a recorded reason the commit lands.
	finalize.OverrideReason = "director approval AK-2231"
	committed, err := deskModule.Handler.FinalizeAssignmentHandler(context.Background(), finalize)
	if err != nil {
		t.Fatalf("override finalize failed: %v", err)
	}
	if committed.Assignment.Status != "scheduled" || committed.Assignment.SealID == "" {
		t.Fatalf("expected scheduled tier 2 assignment with seal, got %+v", committed.Assignment)
	}
	if len(committed.Violations) != 1 || !committed.Violations[0].IsOverride {
		t.Fatalf("expected override-marked violation, got %+v", committed.Violations)
	}
	if deskModule.Store.ShipmentStatus("ship-1") != "assigned" {
		t.Fatalf("expected assigned shipment")
	}
	if deskModule.Store.SlotHeldBy(slot.SlotID) != "" {
		t.Fatalf("expected hold converted on commit")
	}

	// The sourcing episode closed behind the commit.
	request, err := sourcingModule.Handler.GetRequestHandler(context.Background(), requestID)
	if err != nil {
		t.Fatalf("get request failed: %v", err)
	}
	if request.Status != "assigned" || request.PipelineState != "assigned" {
		t.Fatalf("expected closed episode, got %s/%s", request.Status, request.PipelineState)
	}

	// The override stays on the audit record.
	violations, err := deskModule.Handler.ListViolationsHandler(context.Background(), "ship-1")
	if err != nil {
		t.Fatalf("list violations failed: %v", err)
	}
	overrides := 0
	for _, violation := range violations {
		if violation.IsOverride && violation.OverriddenBy == "desk-lead" {
			overrides++
		}
	}
	if overrides != 1 {
		t.Fatalf("expected one override on record, got %d in %+v", overrides, violations)
	}

	// A second commit for the same shipment is refused.
	if _, err := deskModule.Handler.FinalizeAssignmentHandler(context.Background(), finalize); !errors.Is(err, deskerrors.ErrShipmentNotAssignable) {
		t.Fatalf("expected ErrShipmentNotAssignable after commit, got %v", err)
	}
}

func TestAssignmentDryRunValidationDoesNotPersist(t *testing.T) {
	_, _, deskModule := buildDeskFixture(t)
	seedDeskShipment(deskModule, "ship-1", 125000, 1)

	result, err := deskModule.Handler.ValidateScheduleHandler(context.Background(), desktransport.ValidateScheduleRequest{
		ShipmentID: "ship-1",
		OperatorID: "op-1",
		Schedule:   deskSchedule(""),
	})
	if err != nil {
		t.Fatalf("dry-run failed: %v", err)
	}
	if result.IsValid || len(result.Violations) != 1 {
		t.Fatalf("expected blocking dry-run result, got %+v", result)
	}

	violations, err := deskModule.Handler.ListViolationsHandler(context.Background(), "ship-1")
	if err != nil {
		t.Fatalf("list violations failed: %v", err)
	}
	if len(violations) != 0 {
		t.Fatalf("dry-run must not persist violations, got %+v", violations)
	}
}

func TestAssignmentStatusProgressionOverHTTP(t *testing.T) {
	_, _, deskModule := buildDeskFixture(t)
	seedDeskShipment(deskModule, "ship-1", 45000, 1)

	committed, err := deskModule.Handler.FinalizeAssignmentHandler(context.Background(), desktransport.FinalizeAssignmentRequest{
		ShipmentID: "ship-1",
		OperatorID: "op-1",
		AssignedBy: "desk-lead",
		Schedule:   deskSchedule(""),
	})
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	assignmentID := committed.Assignment.AssignmentID
	for _, status := range []string{"picked_up", "at_hub", "in_transit", "delivered"} {
		updated, err := deskModule.Handler.UpdateAssignmentStatusHandler(context.Background(), assignmentID, desktransport.UpdateAssignmentStatusRequest{
			Status:  status,
			ActorID: "op-1",
		})
		if err != nil {
			t.Fatalf("advance to %s failed: %v", status, err)
		}
		if updated.Status != status {
			t.Fatalf("expected %s, got %s", status, updated.Status)
		}
	}

	final, err := deskModule.Handler.GetAssignmentHandler(context.Background(), assignmentID)
	if err != nil {
		t.Fatalf("get assignment failed: %v", err)
	}
	if final.ActualPickupAt == "" || final.ActualHubIntakeAt == "" || final.ActualDeliveryAt == "" {
		t.Fatalf("expected actual timestamps stamped, got %+v", final)
	}

	// Operator stats catch up through the queue worker.
	applied, err := deskModule.Stats.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("stats run failed: %v", err)
	}
	if applied != 2 {
		t.Fatalf("expected commit and delivery stats applied, got %d", applied)
	}
	if stats := deskModule.Store.StatsFor("op-1"); stats.CompletedDeliveries != 1 || stats.ActiveAssignments != 0 {
		t.Fatalf("unexpected operator stats %+v", stats)
	}
}
