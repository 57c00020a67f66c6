package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	deskerrors "aucta/contexts/wg-operations/assignment-desk/domain/errors"
	deskhttp "aucta/contexts/wg-operations/assignment-desk/transport/http"
)

func (s *Server) registerAssignmentRoutes() {
	s.mux.HandleFunc("POST /assignments", s.handleFinalizeAssignment)
	s.mux.HandleFunc("POST /assignments/validate", s.handleValidateAssignment)
	s.mux.HandleFunc("GET /assignments/{assignment_id}", s.handleGetAssignment)
	s.mux.HandleFunc("PUT /assignments/{assignment_id}/status", s.handleUpdateAssignmentStatus)
	s.mux.HandleFunc("POST /constraints/violations", s.handleRecordViolation)
	s.mux.HandleFunc("GET /constraints/violations", s.handleListViolations)
}

func (s *Server) handleFinalizeAssignment(w http.ResponseWriter, r *http.Request) {
	var req deskhttp.FinalizeAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if req.AssignedBy == "" {
		req.AssignedBy = actorID(r)
	}
	resp, err := s.desk.Handler.FinalizeAssignmentHandler(r.Context(), req)
	if err != nil {
		// A constraint rejection still returns the violation list so the
		// desk operator sees what blocked the commit.
		if errors.Is(err, deskerrors.ErrConstraintsViolated) {
			writeJSON(w, http.StatusUnprocessableEntity, struct {
				Success bool                  `json:"success"`
				Error   string                `json:"error"`
				Message string                `json:"message"`
				Data    []deskhttp.ViolationDTO `json:"data"`
			}{false, "constraints_violated", err.Error(), resp.Violations})
			return
		}
		writeDeskDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, resp)
}

func (s *Server) handleValidateAssignment(w http.ResponseWriter, r *http.Request) {
	var req deskhttp.ValidateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.desk.Handler.ValidateScheduleHandler(r.Context(), req)
	if err != nil {
		writeDeskDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, resp)
}

func (s *Server) handleGetAssignment(w http.ResponseWriter, r *http.Request) {
	resp, err := s.desk.Handler.GetAssignmentHandler(r.Context(), r.PathValue("assignment_id"))
	if err != nil {
		writeDeskDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateAssignmentStatus(w http.ResponseWriter, r *http.Request) {
	var req deskhttp.UpdateAssignmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if req.ActorID == "" {
		req.ActorID = actorID(r)
	}
	resp, err := s.desk.Handler.UpdateAssignmentStatusHandler(r.Context(), r.PathValue("assignment_id"), req)
	if err != nil {
		writeDeskDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, resp)
}

func (s *Server) handleRecordViolation(w http.ResponseWriter, r *http.Request) {
	var req deskhttp.RecordViolationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if req.IsOverride && req.OverriddenBy == "" {
		req.OverriddenBy = actorID(r)
	}
	resp, err := s.desk.Handler.RecordViolationHandler(r.Context(), req)
	if err != nil {
		writeDeskDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, resp)
}

func (s *Server) handleListViolations(w http.ResponseWriter, r *http.Request) {
	shipmentID := r.URL.Query().Get("shipment_id")
	if shipmentID == "" {
		writeError(w, http.StatusBadRequest, "missing_shipment_id", "shipment_id query parameter is required")
		return
	}
	resp, err := s.desk.Handler.ListViolationsHandler(r.Context(), shipmentID)
	if err != nil {
		writeDeskDomainError(w, err)
		return
	}
	writeList(w, http.StatusOK, resp)
}

func writeDeskDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, deskerrors.ErrInvalidInput),
		errors.Is(err, deskerrors.ErrOverrideReasonRequired),
		errors.Is(err, deskerrors.ErrInvalidStatusTransition):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, deskerrors.ErrShipmentNotFound),
		errors.Is(err, deskerrors.ErrOperatorNotFound),
		errors.Is(err, deskerrors.ErrAssignmentNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, deskerrors.ErrDuplicateActiveAssignment):
		writeError(w, http.StatusConflict, "duplicate_active_assignment", err.Error())
	case errors.Is(err, deskerrors.ErrShipmentNotAssignable):
		writeError(w, http.StatusConflict, "shipment_not_assignable", err.Error())
	case errors.Is(err, deskerrors.ErrCandidateNotValidated):
		writeError(w, http.StatusConflict, "candidate_not_validated", err.Error())
	case errors.Is(err, deskerrors.ErrViolationNotOverridable):
		writeError(w, http.StatusConflict, "violation_not_overridable", err.Error())
	case errors.Is(err, deskerrors.ErrCommitFailed):
		writeError(w, http.StatusConflict, "commit_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
