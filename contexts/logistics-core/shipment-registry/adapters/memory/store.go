package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "aucta/contexts/logistics-core/shipment-registry/domain/errors"
	"aucta/contexts/logistics-core/shipment-registry/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu        sync.Mutex
	shipments map[string]ports.Shipment
	operators map[string]ports.Operator
}

func NewStore() *Store {
	return &Store{
		shipments: make(map[string]ports.Shipment),
		operators: make(map[string]ports.Operator),
	}
}

func (s *Store) CreateShipment(_ context.Context, shipment ports.Shipment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.shipments {
		if existing.ShipmentCode == shipment.ShipmentCode {
			return domainerrors.ErrDuplicateShipment
		}
	}
	s.shipments[shipment.ShipmentID] = shipment
	return nil
}

func (s *Store) GetShipment(_ context.Context, shipmentID string) (ports.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shipment, ok := s.shipments[strings.TrimSpace(shipmentID)]
	if !ok {
		return ports.Shipment{}, domainerrors.ErrShipmentNotFound
	}
	return shipment, nil
}

func (s *Store) ListShipments(_ context.Context, status string) ([]ports.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]ports.Shipment, 0, len(s.shipments))
	for _, shipment := range s.shipments {
		if status != "" && shipment.Status != status {
			continue
		}
		items = append(items, shipment)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (s *Store) CreateOperator(_ context.Context, operator ports.Operator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.operators[operator.OperatorID] = operator
	return nil
}

func (s *Store) GetOperator(_ context.Context, operatorID string) (ports.Operator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	operator, ok := s.operators[strings.TrimSpace(operatorID)]
	if !ok {
		return ports.Operator{}, domainerrors.ErrOperatorNotFound
	}
	return operator, nil
}

func (s *Store) ListOperators(_ context.Context, filter ports.OperatorFilter) ([]ports.Operator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]ports.Operator, 0)
	for _, operator := range s.operators {
		if filter.ActiveOnly && !operator.Active {
			continue
		}
		if len(filter.Cities) > 0 && !containsFold(filter.Cities, operator.City) {
			continue
		}
		if filter.MinValueClearance > 0 && operator.MaxValueClearance < filter.MinValueClearance {
			continue
		}
		if filter.Language != "" && !containsFold(operator.Languages, filter.Language) {
			continue
		}
		items = append(items, operator)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].OperatorID < items[j].OperatorID })
	return items, nil
}

func containsFold(values []string, needle string) bool {
	for _, value := range values {
		if strings.EqualFold(value, needle) {
			return true
		}
	}
	return false
}

// SetShipmentStatus is a seeding helper for cross-module tests.
func (s *Store) SetShipmentStatus(shipmentID string, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shipment, ok := s.shipments[shipmentID]
	if !ok {
		return
	}
	shipment.Status = status
	s.shipments[shipmentID] = shipment
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
