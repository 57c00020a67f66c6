package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"aucta/contexts/logistics-core/shipment-registry/adapters/memory"
	domainerrors "aucta/contexts/logistics-core/shipment-registry/domain/errors"
	"aucta/contexts/logistics-core/shipment-registry/ports"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type seqIDs struct {
	n int
}

func (g *seqIDs) NewID(context.Context) (string, error) {
	g.n++
	return fmt.Sprintf("id-%d", g.n), nil
}

func newTestService(store *memory.Store) Service {
	return Service{
		Repo:  store,
		Clock: fixedClock{now: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)},
		IDGen: &seqIDs{},
	}
}

func shipmentInput() ports.CreateShipmentInput {
	return ports.CreateShipmentInput{
		ShipmentCode:      "WG-2026-001",
		ProductName:       "Baroque console table",
		DeclaredValue:     45000,
		TierLevel:         2,
		HubLocation:       "paris-hub",
		SLADeadline:       time.Date(2026, 3, 13, 18, 0, 0, 0, time.UTC),
		SenderName:        "Galerie Marchand",
		SenderCity:        "Paris",
		SenderWindowStart: time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC),
		SenderWindowEnd:   time.Date(2026, 3, 12, 12, 0, 0, 0, time.UTC),
		SenderTimezone:    "Europe/Paris",
		BuyerName:         "A. Keller",
		BuyerCity:         "Zurich",
		BuyerWindowStart:  time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC),
		BuyerWindowEnd:    time.Date(2026, 3, 12, 20, 0, 0, 0, time.UTC),
		BuyerTimezone:     "Europe/Zurich",
	}
}

func TestCreateShipmentOpensForSourcing(t *testing.T) {
	service := newTestService(memory.NewStore())

	shipment, err := service.CreateShipment(context.Background(), shipmentInput(), "ops-lead")
	if err != nil {
		t.Fatalf("create shipment failed: %v", err)
	}
	if shipment.Status != ports.ShipmentStatusPendingAssignment {
		t.Fatalf("expected pending_assignment, got %s", shipment.Status)
	}
	if shipment.Currency != "EUR" {
		t.Fatalf("expected EUR default currency, got %s", shipment.Currency)
	}
	if shipment.ShipmentID == "" || shipment.CreatedAt.IsZero() {
		t.Fatalf("expected persisted shipment, got %+v", shipment)
	}
}

func TestCreateShipmentValidation(t *testing.T) {
	service := newTestService(memory.NewStore())

	zeroValue := shipmentInput()
	zeroValue.DeclaredValue = 0
	if _, err := service.CreateShipment(context.Background(), zeroValue, "ops"); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for zero value, got %v", err)
	}

	noCode := shipmentInput()
	noCode.ShipmentCode = ""
	if _, err := service.CreateShipment(context.Background(), noCode, "ops"); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing shipment code, got %v", err)
	}

	noProduct := shipmentInput()
	noProduct.ProductName = " "
	if _, err := service.CreateShipment(context.Background(), noProduct, "ops"); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing product name, got %v", err)
	}

	noHub := shipmentInput()
	noHub.HubLocation = ""
	if _, err := service.CreateShipment(context.Background(), noHub, "ops"); !errors.Is(err, domainerrors.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for tier 2 without hub, got %v", err)
	}

	tierOneNoHub := shipmentInput()
	tierOneNoHub.TierLevel = 1
	tierOneNoHub.HubLocation = ""
	if _, err := service.CreateShipment(context.Background(), tierOneNoHub, "ops"); err != nil {
		t.Fatalf("tier 1 must not require a hub, got %v", err)
	}

	inverted := shipmentInput()
	inverted.SenderWindowStart, inverted.SenderWindowEnd = inverted.SenderWindowEnd, inverted.SenderWindowStart
	if _, err := service.CreateShipment(context.Background(), inverted, "ops"); !errors.Is(err, domainerrors.ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}

	badTZ := shipmentInput()
	badTZ.BuyerTimezone = "Mars/Olympus"
	if _, err := service.CreateShipment(context.Background(), badTZ, "ops"); !errors.Is(err, domainerrors.ErrInvalidTimezone) {
		t.Fatalf("expected ErrInvalidTimezone, got %v", err)
	}
}

func TestCreateShipmentRejectsDuplicateShipmentCode(t *testing.T) {
	service := newTestService(memory.NewStore())

	if _, err := service.CreateShipment(context.Background(), shipmentInput(), "ops"); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := service.CreateShipment(context.Background(), shipmentInput(), "ops"); !errors.Is(err, domainerrors.ErrDuplicateShipment) {
		t.Fatalf("expected ErrDuplicateShipment, got %v", err)
	}
}

func TestCreateOperatorDefaultsActive(t *testing.T) {
	service := newTestService(memory.NewStore())

	operator, err := service.CreateOperator(context.Background(), ports.CreateOperatorInput{
		FullName:          "Marie Dubois",
		City:              "Paris",
		MaxValueClearance: 100000,
		Languages:         []string{"fr", "en"},
		Rating:            4.8,
	}, "ops")
	if err != nil {
		t.Fatalf("create operator failed: %v", err)
	}
	if !operator.Active {
		t.Fatalf("expected new operators active by default")
	}
}

func TestListOperatorsFilters(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	seed := []ports.CreateOperatorInput{
		{FullName: "Marie Dubois", City: "Paris", MaxValueClearance: 150000, Languages: []string{"FR", "en"}},
		{FullName: "Jonas Weber", City: "Zurich", MaxValueClearance: 80000, Languages: []string{"de"}},
		{FullName: "Li Chen", City: "Paris", MaxValueClearance: 50000, Languages: []string{"zh", "fr"}},
	}
	for _, input := range seed {
		if _, err := service.CreateOperator(context.Background(), input, "ops"); err != nil {
			t.Fatalf("seed operator failed: %v", err)
		}
	}

	parisians, err := service.ListOperators(context.Background(), ports.OperatorFilter{Cities: []string{"paris"}})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(parisians) != 2 {
		t.Fatalf("expected 2 paris operators, got %d", len(parisians))
	}

	both, err := service.ListOperators(context.Background(), ports.OperatorFilter{Cities: []string{"paris", "ZURICH"}})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(both) != 3 {
		t.Fatalf("expected multi-city filter to match all 3, got %d", len(both))
	}

	cleared, err := service.ListOperators(context.Background(), ports.OperatorFilter{MinValueClearance: 100000})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(cleared) != 1 || cleared[0].FullName != "Marie Dubois" {
		t.Fatalf("expected only the high-clearance operator, got %+v", cleared)
	}

	french, err := service.ListOperators(context.Background(), ports.OperatorFilter{Language: "fr"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(french) != 2 {
		t.Fatalf("expected case-insensitive language match on 2 operators, got %d", len(french))
	}
}

func TestListShipmentsByStatus(t *testing.T) {
	store := memory.NewStore()
	service := newTestService(store)

	first, err := service.CreateShipment(context.Background(), shipmentInput(), "ops")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	other := shipmentInput()
	other.ShipmentCode = "WG-2026-002"
	if _, err := service.CreateShipment(context.Background(), other, "ops"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	store.SetShipmentStatus(first.ShipmentID, ports.ShipmentStatusAssigned)

	pending, err := service.ListShipments(context.Background(), ports.ShipmentStatusPendingAssignment)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pending) != 1 || pending[0].ShipmentCode != "WG-2026-002" {
		t.Fatalf("expected one pending shipment, got %+v", pending)
	}
}
