package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	huberrors "aucta/contexts/wg-operations/hub-capacity/domain/errors"
	hubhttp "aucta/contexts/wg-operations/hub-capacity/transport/http"
)

func (s *Server) registerHubRoutes() {
	s.mux.HandleFunc("GET /hub/capacity", s.handleListCapacitySlots)
	s.mux.HandleFunc("POST /hub/capacity", s.handleCreateCapacitySlot)
	s.mux.HandleFunc("POST /hub/capacity/{slot_id}/hold", s.handleHoldCapacitySlot)
	s.mux.HandleFunc("DELETE /hub/capacity/{slot_id}/hold", s.handleReleaseCapacitySlot)
	s.mux.HandleFunc("POST /hub/capacity/{slot_id}/confirm", s.handleConfirmCapacityHold)
}

func (s *Server) handleListCapacitySlots(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := hubhttp.ListSlotsRequest{
		HubLocation: query.Get("hub_location"),
		Date:        query.Get("date"),
	}
	if raw := query.Get("tier_level"); raw != "" {
		tier, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_tier_level", "tier_level must be an integer")
			return
		}
		req.TierLevel = tier
	}
	resp, err := s.hub.Handler.ListSlotsHandler(r.Context(), req)
	if err != nil {
		writeHubDomainError(w, err)
		return
	}
	writeList(w, http.StatusOK, resp)
}

func (s *Server) handleCreateCapacitySlot(w http.ResponseWriter, r *http.Request) {
	var req hubhttp.CreateSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.hub.Handler.CreateSlotHandler(r.Context(), req)
	if err != nil {
		writeHubDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, resp)
}

func (s *Server) handleHoldCapacitySlot(w http.ResponseWriter, r *http.Request) {
	var req hubhttp.HoldSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.hub.Handler.HoldSlotHandler(r.Context(), r.PathValue("slot_id"), req)
	if err != nil {
		writeHubDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, resp)
}

func (s *Server) handleReleaseCapacitySlot(w http.ResponseWriter, r *http.Request) {
	if err := s.hub.Handler.ReleaseSlotHandler(r.Context(), r.PathValue("slot_id")); err != nil {
		writeHubDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"slot_id": r.PathValue("slot_id"), "released": "true"})
}

func (s *Server) handleConfirmCapacityHold(w http.ResponseWriter, r *http.Request) {
	var req hubhttp.ConfirmHoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.hub.Handler.ConfirmHoldHandler(r.Context(), r.PathValue("slot_id"), req); err != nil {
		writeHubDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"slot_id": r.PathValue("slot_id"), "confirmed": "true"})
}

func writeHubDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, huberrors.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, huberrors.ErrSlotNotFound):
		writeError(w, http.StatusNotFound, "slot_not_found", err.Error())
	case errors.Is(err, huberrors.ErrSlotUnavailable):
		writeError(w, http.StatusConflict, "slot_unavailable", err.Error())
	case errors.Is(err, huberrors.ErrHoldNotFound):
		writeError(w, http.StatusConflict, "hold_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
