package httpserver

import (
	"errors"
	"net/http"

	analyticserrors "aucta/contexts/internal-ops/performance-analytics/domain/errors"
)

func (s *Server) registerAnalyticsRoutes() {
	s.mux.HandleFunc("GET /analytics/performance", s.handleAnalyticsPerformance)
}

func (s *Server) handleAnalyticsPerformance(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	startDate := query.Get("start_date")
	endDate := query.Get("end_date")
	if startDate == "" || endDate == "" {
		writeError(w, http.StatusBadRequest, "missing_range", "start_date and end_date query parameters are required (YYYY-MM-DD)")
		return
	}
	resp, err := s.analytics.Handler.DailyStatsHandler(r.Context(), startDate, endDate)
	if err != nil {
		switch {
		case errors.Is(err, analyticserrors.ErrInvalidInput), errors.Is(err, analyticserrors.ErrInvalidRange):
			writeError(w, http.StatusBadRequest, "invalid_range", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		}
		return
	}
	writeList(w, http.StatusOK, resp)
}
