package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	domainerrors "aucta/contexts/wg-operations/assignment-desk/domain/errors"
	"aucta/contexts/wg-operations/assignment-desk/ports"
)

func TestCommitAssignmentRejectsSecondActive(t *testing.T) {
	store := NewStore()
	store.SeedShipment(ports.ShipmentFacts{ShipmentID: "ship-1", Status: "pending_assignment"})

	now := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)
	first := ports.Assignment{
		AssignmentID: "assign-1",
		ShipmentID:   "ship-1",
		OperatorID:   "op-1",
		Status:       ports.AssignmentStatusScheduled,
		CreatedAt:    now,
	}
	if err := store.CommitAssignment(context.Background(), first); err != nil {
		t.Fatalf("first commit failed: %v", err)
	}

	second := first
	second.AssignmentID = "assign-2"
	second.OperatorID = "op-2"
	if err := store.CommitAssignment(context.Background(), second); !errors.Is(err, domainerrors.ErrDuplicateActiveAssignment) {
		t.Fatalf("expected ErrDuplicateActiveAssignment, got %v", err)
	}
}

func TestCommitAssignmentAllowedAfterCancellation(t *testing.T) {
	store := NewStore()
	store.SeedShipment(ports.ShipmentFacts{ShipmentID: "ship-1", Status: "pending_assignment"})

	now := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)
	if err := store.CommitAssignment(context.Background(), ports.Assignment{
		AssignmentID: "assign-1",
		ShipmentID:   "ship-1",
		OperatorID:   "op-1",
		Status:       ports.AssignmentStatusScheduled,
		CreatedAt:    now,
	}); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if _, err := store.UpdateAssignmentStatus(context.Background(), "assign-1", ports.AssignmentStatusCancelled, nil); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	// The shipment must be reopened before a new commit can land.
	store.SeedShipment(ports.ShipmentFacts{ShipmentID: "ship-1", Status: "pending_assignment"})
	if err := store.CommitAssignment(context.Background(), ports.Assignment{
		AssignmentID: "assign-2",
		ShipmentID:   "ship-1",
		OperatorID:   "op-2",
		Status:       ports.AssignmentStatusScheduled,
		CreatedAt:    now.Add(time.Hour),
	}); err != nil {
		t.Fatalf("commit after cancellation failed: %v", err)
	}
}

func TestDequeueStatsUpdatesBatches(t *testing.T) {
	store := NewStore()
	now := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := store.EnqueueStatsUpdate(context.Background(), ports.StatsUpdate{OperatorID: "op-1", EnqueuedAt: now}); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}

	batch, err := store.DequeueStatsUpdates(context.Background(), 2)
	if err != nil {
		t.Fatalf("dequeue failed: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("expected batch of 2, got %d", len(batch))
	}
	rest, err := store.DequeueStatsUpdates(context.Background(), 10)
	if err != nil {
		t.Fatalf("dequeue failed: %v", err)
	}
	if len(rest) != 1 {
		t.Fatalf("expected remaining 1, got %d", len(rest))
	}
}
