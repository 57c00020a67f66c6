package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	performanceanalytics "aucta/contexts/internal-ops/performance-analytics"
	shipmentregistry "aucta/contexts/logistics-core/shipment-registry"
	assignmentdesk "aucta/contexts/wg-operations/assignment-desk"
	hubcapacity "aucta/contexts/wg-operations/hub-capacity"
	sourcingengine "aucta/contexts/wg-operations/sourcing-engine"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "aucta/internal/platform/httpserver/docs"
)

// Pinger reports backing-store health for the readiness endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	addr      string
	registry  shipmentregistry.Module
	sourcing  sourcingengine.Module
	hub       hubcapacity.Module
	desk      assignmentdesk.Module
	analytics performanceanalytics.Module
	pinger    Pinger
}

func New(
	registry shipmentregistry.Module,
	sourcing sourcingengine.Module,
	hub hubcapacity.Module,
	desk assignmentdesk.Module,
	analytics performanceanalytics.Module,
	pinger Pinger,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		registry:  registry,
		sourcing:  sourcing,
		hub:       hub,
		desk:      desk,
		analytics: analytics,
		pinger:    pinger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.registerRegistryRoutes()
	s.registerSourcingRoutes()
	s.registerHubRoutes()
	s.registerAssignmentRoutes()
	s.registerAnalyticsRoutes()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "store_unavailable", "backing store is unreachable")
			return
		}
	}
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Count   *int `json:"count,omitempty"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, successEnvelope{Success: true, Data: data})
}

// writeList wraps collection responses and carries the item count alongside.
func writeList[T any](w http.ResponseWriter, status int, items []T) {
	count := len(items)
	writeJSON(w, status, successEnvelope{Success: true, Data: items, Count: &count})
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, errorEnvelope{Success: false, Error: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func actorID(r *http.Request) string {
	return r.Header.Get("X-User-Id")
}
