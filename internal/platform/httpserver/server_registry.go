package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	registryerrors "aucta/contexts/logistics-core/shipment-registry/domain/errors"
	registryports "aucta/contexts/logistics-core/shipment-registry/ports"
	registryhttp "aucta/contexts/logistics-core/shipment-registry/transport/http"
)

func (s *Server) registerRegistryRoutes() {
	s.mux.HandleFunc("POST /shipments", s.handleCreateShipment)
	s.mux.HandleFunc("GET /shipments", s.handleListShipments)
	s.mux.HandleFunc("GET /shipments/{shipment_id}", s.handleGetShipment)
	s.mux.HandleFunc("POST /operators", s.handleCreateOperator)
	s.mux.HandleFunc("GET /operators", s.handleListOperators)
	s.mux.HandleFunc("GET /operators/{operator_id}", s.handleGetOperator)
}

func (s *Server) handleCreateShipment(w http.ResponseWriter, r *http.Request) {
	var req registryhttp.CreateShipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if req.CreatedBy == "" {
		req.CreatedBy = actorID(r)
	}
	resp, err := s.registry.Handler.CreateShipmentHandler(r.Context(), req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, resp)
}

func (s *Server) handleListShipments(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.ListShipmentsHandler(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeList(w, http.StatusOK, resp)
}

func (s *Server) handleGetShipment(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.GetShipmentHandler(r.Context(), r.PathValue("shipment_id"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, resp)
}

func (s *Server) handleCreateOperator(w http.ResponseWriter, r *http.Request) {
	var req registryhttp.CreateOperatorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if req.CreatedBy == "" {
		req.CreatedBy = actorID(r)
	}
	resp, err := s.registry.Handler.CreateOperatorHandler(r.Context(), req)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeData(w, http.StatusCreated, resp)
}

func (s *Server) handleListOperators(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := registryports.OperatorFilter{
		Cities:     splitCities(query.Get("cities")),
		Language:   query.Get("language"),
		ActiveOnly: query.Get("available") == "true",
	}
	if raw := query.Get("minValue"); raw != "" {
		clearance, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_min_value", "minValue must be a number")
			return
		}
		filter.MinValueClearance = clearance
	}
	resp, err := s.registry.Handler.ListOperatorsHandler(r.Context(), filter)
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeList(w, http.StatusOK, resp)
}

func (s *Server) handleGetOperator(w http.ResponseWriter, r *http.Request) {
	resp, err := s.registry.Handler.GetOperatorHandler(r.Context(), r.PathValue("operator_id"))
	if err != nil {
		writeRegistryDomainError(w, err)
		return
	}
	writeData(w, http.StatusOK, resp)
}

func writeRegistryDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registryerrors.ErrInvalidInput),
		errors.Is(err, registryerrors.ErrInvalidWindow),
		errors.Is(err, registryerrors.ErrInvalidTimezone):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, registryerrors.ErrShipmentNotFound),
		errors.Is(err, registryerrors.ErrOperatorNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, registryerrors.ErrDuplicateShipment):
		writeError(w, http.StatusConflict, "duplicate_shipment_code", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// splitCities parses the comma-separated cities query parameter.
func splitCities(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	cities := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			cities = append(cities, part)
		}
	}
	return cities
}
