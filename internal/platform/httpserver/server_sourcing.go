package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	sourcingerrors "aucta/contexts/wg-operations/sourcing-engine/domain/errors"
	sourcinghttp "aucta/contexts/wg-operations/sourcing-engine/transport/http"
)

func (s *Server) registerSourcingRoutes() {
	s.mux.HandleFunc("POST /sourcing/requests", s.handleOpenSourcingRequest)
	s.mux.HandleFunc("GET /sourcing/requests/{request_id}", s.handleGetSourcingRequest)
	s.mux.HandleFunc("PUT /sourcing/requests/{request_id}/escalate", s.handleEscalateSourcingRequest)
	s.mux.HandleFunc("POST /sourcing/requests/{request_id}/candidates", s.handleRecordCandidateReply)
	s.mux.HandleFunc("GET /sourcing/requests/{request_id}/candidates", s.handleListCandidates)
	s.mux.HandleFunc("POST /sourcing/requests/{request_id}/candidates/{candidate_id}/validate", s.handleValidateCandidate)
}

func (s *Server) handleOpenSourcingRequest(w http.ResponseWriter, r *http.Request) {
	var req sourcinghttp.OpenSourcingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.sourcing.Handler.OpenEpisodeHandler(r.Context(), req)
	if err != nil {
		writeSourcingDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, resp)
}

func (s *Server) handleGetSourcingRequest(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sourcing.Handler.GetRequestHandler(r.Context(), r.PathValue("request_id"))
	if err != nil {
		writeSourcingDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, resp)
}

func (s *Server) handleEscalateSourcingRequest(w http.ResponseWriter, r *http.Request) {
	var req sourcinghttp.EscalateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.sourcing.Handler.EscalateHandler(r.Context(), r.PathValue("request_id"), actorID(r), req)
	if err != nil {
		writeSourcingDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, resp)
}

func (s *Server) handleRecordCandidateReply(w http.ResponseWriter, r *http.Request) {
	var req sourcinghttp.CandidateReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.sourcing.Handler.RecordCandidateReplyHandler(r.Context(), r.PathValue("request_id"), req)
	if err != nil {
		writeSourcingDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, resp)
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sourcing.Handler.ListCandidatesHandler(r.Context(), r.PathValue("request_id"))
	if err != nil {
		writeSourcingDomainError(w, err)
		return
	}
	writeList(w, http.StatusOK, resp)
}

func (s *Server) handleValidateCandidate(w http.ResponseWriter, r *http.Request) {
	var req sourcinghttp.ValidateCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.sourcing.Handler.ValidateCandidateHandler(
		r.Context(),
		r.PathValue("request_id"),
		r.PathValue("candidate_id"),
		actorID(r),
		req,
	)
	if err != nil {
		writeSourcingDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, resp)
}

func writeSourcingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sourcingerrors.ErrInvalidInput),
		errors.Is(err, sourcingerrors.ErrEscalationIncomplete):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, sourcingerrors.ErrRequestNotFound),
		errors.Is(err, sourcingerrors.ErrCandidateNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, sourcingerrors.ErrEpisodeActive):
		writeError(w, http.StatusConflict, "episode_active", err.Error())
	case errors.Is(err, sourcingerrors.ErrEpisodeClosed):
		writeError(w, http.StatusConflict, "episode_closed", err.Error())
	case errors.Is(err, sourcingerrors.ErrCandidateNotValidated):
		writeError(w, http.StatusConflict, "candidate_not_validated", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
