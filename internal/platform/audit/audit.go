package audit

import (
	"context"
	"log/slog"
)

// Recorder is the best-effort audit sink shared by all modules.
// Audit failures must never fail the primary operation, so Record always
// returns nil; a future postgres-backed sink keeps the same contract.
type Recorder struct {
	Logger *slog.Logger
}

func (r Recorder) Record(_ context.Context, actionType string, actorID string, targetResource string, details map[string]any) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	attrs := []any{
		"event", "audit_trail",
		"module", "internal/platform/audit",
		"layer", "platform",
		"action_type", actionType,
		"actor_id", actorID,
		"target_resource", targetResource,
	}
	for key, value := range details {
		attrs = append(attrs, "detail_"+key, value)
	}
	logger.Info("audit record", attrs...)
	return nil
}
