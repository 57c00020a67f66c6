package workers

import (
	"context"
	"log/slog"

	"aucta/contexts/wg-operations/assignment-desk/application"
	"aucta/contexts/wg-operations/assignment-desk/ports"
)

const defaultStatsBatchSize = 50

// StatsUpdater drains the queued operator stat deltas produced by assignment
// commits and deliveries. Stats are eventually consistent on purpose: the
// finalizer never waits on them.
type StatsUpdater struct {
	Repo      ports.Repository
	BatchSize int
	Logger    *slog.Logger
}

func (w StatsUpdater) RunOnce(ctx context.Context) (int, error) {
	batch := w.BatchSize
	if batch <= 0 {
		batch = defaultStatsBatchSize
	}
	updates, err := w.Repo.DequeueStatsUpdates(ctx, batch)
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, update := range updates {
		if err := w.Repo.ApplyOperatorStats(ctx, update); err != nil {
			application.ResolveLogger(w.Logger).Warn("operator stats update failed",
				"event", "assignment_stats_apply_failed",
				"module", "wg-operations/assignment-desk",
				"layer", "worker",
				"operator_id", update.OperatorID,
				"assignment_id", update.AssignmentID,
				"error", err.Error(),
			)
			continue
		}
		applied++
	}
	if applied > 0 {
		application.ResolveLogger(w.Logger).Info("operator stats updated",
			"event", "assignment_stats_applied",
			"module", "wg-operations/assignment-desk",
			"layer", "worker",
			"applied", applied,
		)
	}
	return applied, nil
}
