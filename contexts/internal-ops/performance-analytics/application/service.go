package application

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	contractsv1 "aucta/contracts/gen/events/v1"
	domainerrors "aucta/contexts/internal-ops/performance-analytics/domain/errors"
	"aucta/contexts/internal-ops/performance-analytics/ports"
)

const (
	EventEpisodeAssigned  = "sourcing.episode.assigned"
	EventEpisodeEscalated = "sourcing.episode.escalated"
)

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	Logger *slog.Logger
}

type assignedPayload struct {
	ShipmentID     string `json:"shipment_id"`
	SLATargetAt    string `json:"sla_target_at"`
	TimeToAssignMS int64  `json:"time_to_assign_ms"`
}

// HandleEvent folds sourcing lifecycle events into the daily buckets. It is
// wired as a bus consumer, so unknown event types are skipped, not failed.
func (s Service) HandleEvent(ctx context.Context, event contractsv1.Envelope) error {
	day := event.OccurredAt.UTC().Format(ports.DayFormat)
	switch event.EventType {
	case EventEpisodeAssigned:
		var payload assignedPayload
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return err
		}
		late := false
		if target, err := time.Parse(time.RFC3339, payload.SLATargetAt); err == nil {
			late = event.OccurredAt.After(target)
		}
		if err := s.Repo.AddAssignmentSample(ctx, ports.AssignmentSample{
			Day:            day,
			ShipmentID:     payload.ShipmentID,
			TimeToAssignMS: payload.TimeToAssignMS,
			Late:           late,
			RecordedAt:     event.OccurredAt.UTC(),
		}); err != nil {
			return err
		}
	case EventEpisodeEscalated:
		if err := s.Repo.IncrementEscalations(ctx, day); err != nil {
			return err
		}
	default:
		return nil
	}

	resolveLogger(s.Logger).Debug("analytics event folded",
		"event", "analytics_event_folded",
		"module", "internal-ops/performance-analytics",
		"layer", "application",
		"event_type", event.EventType,
		"day", day,
	)
	return nil
}

// DailyStats returns per-day aggregates over the inclusive range.
func (s Service) DailyStats(ctx context.Context, fromDay string, toDay string) ([]ports.DailyStat, error) {
	from, err := time.Parse(ports.DayFormat, fromDay)
	if err != nil {
		return nil, domainerrors.ErrInvalidRange
	}
	to, err := time.Parse(ports.DayFormat, toDay)
	if err != nil {
		return nil, domainerrors.ErrInvalidRange
	}
	if from.After(to) {
		return nil, domainerrors.ErrInvalidRange
	}
	return s.Repo.ListDailyStats(ctx, fromDay, toDay)
}

// AverageMS is the integer mean of the samples, zero when empty.
func AverageMS(samples []int64) int64 {
	if len(samples) == 0 {
		return 0
	}
	var sum int64
	for _, sample := range samples {
		sum += sample
	}
	return sum / int64(len(samples))
}

// PercentileMS computes the nearest-rank percentile over a sorted slice.
func PercentileMS(sorted []int64, percentile int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	if percentile <= 0 {
		return sorted[0]
	}
	if percentile >= 100 {
		return sorted[len(sorted)-1]
	}
	rank := (percentile*len(sorted) + 99) / 100
	return sorted[rank-1]
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
