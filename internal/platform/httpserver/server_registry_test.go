package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	performanceanalytics "aucta/contexts/internal-ops/performance-analytics"
	shipmentregistry "aucta/contexts/logistics-core/shipment-registry"
	assignmentdesk "aucta/contexts/wg-operations/assignment-desk"
	hubcapacity "aucta/contexts/wg-operations/hub-capacity"
	sourcingengine "aucta/contexts/wg-operations/sourcing-engine"
)

func newTestServer() *Server {
	sourcing := sourcingengine.NewInMemoryModule(slog.Default())
	hub := hubcapacity.NewInMemoryModule(slog.Default())
	return New(
		shipmentregistry.NewInMemoryModule(slog.Default()),
		sourcing,
		hub,
		assignmentdesk.NewInMemoryModule(sourcing.Service, hub.Service, slog.Default()),
		performanceanalytics.NewInMemoryModule(slog.Default()),
		nil,
		slog.Default(),
		":0",
	)
}

func shipmentBody(shipmentCode, productName string) []byte {
	return []byte(fmt.Sprintf(`{
		"shipment_code": %q,
		"product_name": %q,
		"declared_value": 45000,
		"tier_level": 2,
		"hub_location": "paris-hub",
		"sla_deadline": "2026-03-13T18:00:00Z",
		"sender": {"name": "Galerie Marchand", "city": "Paris", "window_start": "2026-03-12T08:00:00Z", "window_end": "2026-03-12T12:00:00Z", "timezone": "Europe/Paris"},
		"buyer": {"name": "A. Keller", "city": "Zurich", "window_start": "2026-03-12T14:00:00Z", "window_end": "2026-03-12T20:00:00Z", "timezone": "Europe/Zurich"},
		"created_by": "ops-lead"
	}`, shipmentCode, productName))
}

func TestShipmentIntakeRequiresShipmentCode(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/shipments", bytes.NewReader(shipmentBody("", "Baroque console table")))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without shipment_code, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestShipmentIntakeRequiresProductName(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/shipments", bytes.NewReader(shipmentBody("WG-2026-020", "")))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without product_name, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestShipmentIntakeAccepted(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/shipments", bytes.NewReader(shipmentBody("WG-2026-021", "Baroque console table")))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			ShipmentCode string `json:"shipment_code"`
			ProductName  string `json:"product_name"`
			Status       string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ShipmentCode != "WG-2026-021" || envelope.Data.ProductName != "Baroque console table" {
		t.Fatalf("shipment fields lost on round trip: %+v", envelope.Data)
	}
	if envelope.Data.Status != "pending_assignment" {
		t.Fatalf("expected pending_assignment, got %s", envelope.Data.Status)
	}
}

func TestOperatorListQueryParams(t *testing.T) {
	server := newTestServer()

	seed := [][]byte{
		[]byte(`{"full_name": "Marie Dubois", "city": "Paris", "max_value_clearance": 150000, "languages": ["fr", "en"], "rating": 4.8}`),
		[]byte(`{"full_name": "Jonas Weber", "city": "Zurich", "max_value_clearance": 80000, "languages": ["de"], "rating": 4.5}`),
	}
	for _, body := range seed {
		req := httptest.NewRequest(http.MethodPost, "/operators", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		server.mux.ServeHTTP(rr, req)
		if rr.Code != http.StatusCreated {
			t.Fatalf("seed operator failed: %d body=%s", rr.Code, rr.Body.String())
		}
	}

	listCount := func(t *testing.T, target string) int {
		t.Helper()
		rr := httptest.NewRecorder()
		server.mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("list %s failed: %d body=%s", target, rr.Code, rr.Body.String())
		}
		var envelope struct {
			Count int `json:"count"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		return envelope.Count
	}

	if got := listCount(t, "/operators?minValue=100000"); got != 1 {
		t.Fatalf("expected 1 operator above minValue, got %d", got)
	}
	if got := listCount(t, "/operators?cities=paris"); got != 1 {
		t.Fatalf("expected 1 paris operator, got %d", got)
	}
	if got := listCount(t, "/operators?cities=paris,ZURICH&available=true"); got != 2 {
		t.Fatalf("expected both operators for multi-city filter, got %d", got)
	}

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/operators?minValue=lots", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric minValue, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAnalyticsPerformanceRequiresDateRange(t *testing.T) {
	server := newTestServer()

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/analytics/performance", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without date range, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/analytics/performance?start_date=2026-03-01", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without end_date, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/analytics/performance?start_date=2026-03-01&end_date=2026-03-07", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for valid range, got %d body=%s", rr.Code, rr.Body.String())
	}
}
