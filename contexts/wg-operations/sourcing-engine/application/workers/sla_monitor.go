package workers

import (
	"context"
	"log/slog"
	"time"

	application "aucta/contexts/wg-operations/sourcing-engine/application"
	"aucta/contexts/wg-operations/sourcing-engine/ports"
)

// SLAMonitor sweeps open episodes and auto-escalates any that crossed 80% of
// the SLA target. Breach is advisory: nothing in flight is cancelled, and the
// escalated flag stays set once raised.
type SLAMonitor struct {
	Service application.Service
	Repo    ports.Repository
	Clock   ports.Clock
	Logger  *slog.Logger
}

const escalationChannel = "ops_alerts"

func (m SLAMonitor) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(m.Logger)
	now := time.Now().UTC()
	if m.Clock != nil {
		now = m.Clock.Now().UTC()
	}

	requests, err := m.Repo.ListOpenRequests(ctx)
	if err != nil {
		logger.Error("sla sweep failed",
			"event", "sourcing_sla_sweep_failed",
			"module", "wg-operations/sourcing-engine",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	for _, request := range requests {
		if request.Escalated {
			continue
		}
		status := application.EvaluateSLA(now, request.OpenedAt, request.SLATargetAt)
		if status.Band == application.BandOK {
			continue
		}

		reason := "sla_threshold_80"
		if status.Band == application.BandBreach {
			reason = "sla_breach"
		}
		if _, err := m.Service.Escalate(ctx, request.RequestID, ports.EscalateInput{
			Reason:  reason,
			Channel: escalationChannel,
			ActorID: "sla-monitor",
		}); err != nil {
			logger.Error("auto escalation failed",
				"event", "sourcing_auto_escalation_failed",
				"module", "wg-operations/sourcing-engine",
				"layer", "worker",
				"request_id", request.RequestID,
				"error", err.Error(),
			)
			continue
		}
		logger.Warn("episode auto escalated",
			"event", "sourcing_auto_escalated",
			"module", "wg-operations/sourcing-engine",
			"layer", "worker",
			"request_id", request.RequestID,
			"band", string(status.Band),
			"sla_label", status.Label(),
		)
	}
	return nil
}
