package workers

import (
	"context"
	"log/slog"
	"time"

	application "aucta/contexts/wg-operations/hub-capacity/application"
	"aucta/contexts/wg-operations/hub-capacity/ports"
)

// HoldReaper sweeps slots whose hold crossed held_until without a release.
// Reads already treat expired holds as free; the sweep keeps counters honest.
type HoldReaper struct {
	Slots  ports.Repository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (r HoldReaper) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	reaped, err := r.Slots.ReapExpiredHolds(ctx, now)
	if err != nil {
		logger.Error("hold reap sweep failed",
			"event", "hub_capacity_reap_failed",
			"module", "wg-operations/hub-capacity",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if reaped > 0 {
		logger.Info("hold reap sweep completed",
			"event", "hub_capacity_reap_completed",
			"module", "wg-operations/hub-capacity",
			"layer", "worker",
			"reaped_count", reaped,
		)
	}
	return nil
}
