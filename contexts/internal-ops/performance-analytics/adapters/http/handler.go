package httpadapter

import (
	"context"
	"log/slog"

	"aucta/contexts/internal-ops/performance-analytics/application"
	httptransport "aucta/contexts/internal-ops/performance-analytics/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) DailyStatsHandler(ctx context.Context, fromDay string, toDay string) ([]httptransport.DailyStatDTO, error) {
	stats, err := h.Service.DailyStats(ctx, fromDay, toDay)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.DailyStatDTO, 0, len(stats))
	for _, stat := range stats {
		items = append(items, httptransport.DailyStatDTO{
			Day:               stat.Day,
			Assignments:       stat.Assignments,
			LateAssignments:   stat.LateAssignments,
			Escalations:       stat.Escalations,
			Violations:        stat.Violations,
			Overrides:         stat.Overrides,
			AvgTimeToAssignMS: stat.AvgTimeToAssignMS,
			P95TimeToAssignMS: stat.P95TimeToAssignMS,
		})
	}
	return items, nil
}
