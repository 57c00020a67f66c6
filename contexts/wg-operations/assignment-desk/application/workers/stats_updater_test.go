package workers

import (
	"context"
	"testing"
	"time"

	"aucta/contexts/wg-operations/assignment-desk/adapters/memory"
	"aucta/contexts/wg-operations/assignment-desk/ports"
)

func TestStatsUpdaterAppliesQueuedDeltas(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)

	updates := []ports.StatsUpdate{
		{OperatorID: "op-1", AssignmentID: "assign-1", EnqueuedAt: now},
		{OperatorID: "op-1", AssignmentID: "assign-2", EnqueuedAt: now},
		{OperatorID: "op-1", AssignmentID: "assign-1", Delivered: true, EnqueuedAt: now},
		{OperatorID: "op-2", AssignmentID: "assign-3", EnqueuedAt: now},
	}
	for _, update := range updates {
		if err := store.EnqueueStatsUpdate(context.Background(), update); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}

	updater := StatsUpdater{Repo: store}
	applied, err := updater.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if applied != 4 {
		t.Fatalf("expected 4 applied updates, got %d", applied)
	}

	first := store.StatsFor("op-1")
	if first.ActiveAssignments != 1 || first.CompletedDeliveries != 1 {
		t.Fatalf("unexpected op-1 stats %+v", first)
	}
	second := store.StatsFor("op-2")
	if second.ActiveAssignments != 1 || second.CompletedDeliveries != 0 {
		t.Fatalf("unexpected op-2 stats %+v", second)
	}

	// Queue drained: nothing left for the next tick.
	applied, err = updater.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if applied != 0 {
		t.Fatalf("expected empty queue, applied %d", applied)
	}
}

func TestStatsUpdaterHonorsBatchSize(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if err := store.EnqueueStatsUpdate(context.Background(), ports.StatsUpdate{
			OperatorID: "op-1",
			EnqueuedAt: now,
		}); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}

	updater := StatsUpdater{Repo: store, BatchSize: 2}
	applied, err := updater.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if applied != 2 {
		t.Fatalf("expected batch of 2, got %d", applied)
	}
	if stats := store.StatsFor("op-1"); stats.ActiveAssignments != 2 {
		t.Fatalf("expected 2 active after first batch, got %d", stats.ActiveAssignments)
	}
}
