package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "aucta/contexts/wg-operations/assignment-desk/domain/errors"
	"aucta/contexts/wg-operations/assignment-desk/ports"

	"github.com/google/uuid"
)

// OperatorStats is the in-memory read model the stats updater maintains.
type OperatorStats struct {
	ActiveAssignments   int
	CompletedDeliveries int
}

// Store keeps every commit effect under one mutex so the finalizer's
// all-or-nothing guarantee holds the same way the postgres transaction does.
// FailBeforeShipmentUpdate injects a mid-commit failure for rollback tests.
type Store struct {
	mu          sync.Mutex
	shipments   map[string]ports.ShipmentFacts
	operators   map[string]ports.OperatorFacts
	stats       map[string]OperatorStats
	assignments map[string]ports.Assignment
	violations  []ports.Violation
	statsQueue  []ports.StatsUpdate
	heldSlots   map[string]string // slot id -> shipment id holding it

	FailBeforeShipmentUpdate bool
}

func NewStore() *Store {
	return &Store{
		shipments:   make(map[string]ports.ShipmentFacts),
		operators:   make(map[string]ports.OperatorFacts),
		stats:       make(map[string]OperatorStats),
		assignments: make(map[string]ports.Assignment),
		heldSlots:   make(map[string]string),
	}
}

func (s *Store) SeedShipment(facts ports.ShipmentFacts) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shipments[facts.ShipmentID] = facts
}

func (s *Store) SeedOperator(facts ports.OperatorFacts) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.operators[facts.OperatorID] = facts
}

// SeedSlotHold registers a capacity hold the commit is expected to convert.
func (s *Store) SeedSlotHold(slotID string, shipmentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heldSlots[slotID] = shipmentID
}

func (s *Store) ShipmentStatus(shipmentID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shipments[shipmentID].Status
}

func (s *Store) SlotHeldBy(slotID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heldSlots[slotID]
}

func (s *Store) StatsFor(operatorID string) OperatorStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats[operatorID]
}

func (s *Store) GetShipmentFacts(_ context.Context, shipmentID string) (ports.ShipmentFacts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	facts, ok := s.shipments[strings.TrimSpace(shipmentID)]
	if !ok {
		return ports.ShipmentFacts{}, domainerrors.ErrShipmentNotFound
	}
	return facts, nil
}

func (s *Store) GetOperatorFacts(_ context.Context, operatorID string) (ports.OperatorFacts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	facts, ok := s.operators[strings.TrimSpace(operatorID)]
	if !ok {
		return ports.OperatorFacts{}, domainerrors.ErrOperatorNotFound
	}
	return facts, nil
}

func (s *Store) CommitAssignment(_ context.Context, assignment ports.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.assignments {
		if existing.ShipmentID == assignment.ShipmentID && existing.Status != ports.AssignmentStatusCancelled {
			return domainerrors.ErrDuplicateActiveAssignment
		}
	}
	shipment, ok := s.shipments[assignment.ShipmentID]
	if !ok {
		return domainerrors.ErrShipmentNotFound
	}
	if shipment.Status != "pending_assignment" {
		return domainerrors.ErrShipmentNotAssignable
	}

	s.assignments[assignment.AssignmentID] = assignment

	if s.FailBeforeShipmentUpdate {
		delete(s.assignments, assignment.AssignmentID)
		return domainerrors.ErrCommitFailed
	}

	shipment.Status = "assigned"
	s.shipments[assignment.ShipmentID] = shipment

	if assignment.HubSlotID != "" {
		if holder, held := s.heldSlots[assignment.HubSlotID]; held && holder == assignment.ShipmentID {
			delete(s.heldSlots, assignment.HubSlotID)
		}
	}
	return nil
}

func (s *Store) GetAssignment(_ context.Context, assignmentID string) (ports.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assignment, ok := s.assignments[strings.TrimSpace(assignmentID)]
	if !ok {
		return ports.Assignment{}, domainerrors.ErrAssignmentNotFound
	}
	return assignment, nil
}

func (s *Store) GetActiveAssignmentByShipment(_ context.Context, shipmentID string) (ports.Assignment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, assignment := range s.assignments {
		if assignment.ShipmentID == strings.TrimSpace(shipmentID) && assignment.Status != ports.AssignmentStatusCancelled {
			return assignment, true, nil
		}
	}
	return ports.Assignment{}, false, nil
}

func (s *Store) UpdateAssignmentStatus(_ context.Context, assignmentID string, status string, actualAt *time.Time) (ports.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(assignmentID)
	assignment, ok := s.assignments[id]
	if !ok {
		return ports.Assignment{}, domainerrors.ErrAssignmentNotFound
	}
	assignment.Status = status
	if actualAt != nil {
		at := actualAt.UTC()
		switch status {
		case ports.AssignmentStatusPickedUp:
			assignment.ActualPickupAt = &at
		case ports.AssignmentStatusAtHub:
			assignment.ActualHubIntakeAt = &at
		case ports.AssignmentStatusDelivered:
			assignment.ActualDeliveryAt = &at
		}
	}
	s.assignments[id] = assignment
	return assignment, nil
}

func (s *Store) CreateViolation(_ context.Context, violation ports.Violation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.violations = append(s.violations, violation)
	return nil
}

func (s *Store) ListViolationsByShipment(_ context.Context, shipmentID string) ([]ports.Violation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]ports.Violation, 0)
	for _, violation := range s.violations {
		if violation.ShipmentID == strings.TrimSpace(shipmentID) {
			items = append(items, violation)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (s *Store) EnqueueStatsUpdate(_ context.Context, update ports.StatsUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statsQueue = append(s.statsQueue, update)
	return nil
}

func (s *Store) DequeueStatsUpdates(_ context.Context, limit int) ([]ports.StatsUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > len(s.statsQueue) {
		limit = len(s.statsQueue)
	}
	batch := make([]ports.StatsUpdate, limit)
	copy(batch, s.statsQueue[:limit])
	s.statsQueue = s.statsQueue[limit:]
	return batch, nil
}

func (s *Store) ApplyOperatorStats(_ context.Context, update ports.StatsUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.stats[update.OperatorID]
	if update.Delivered {
		stats.CompletedDeliveries++
		if stats.ActiveAssignments > 0 {
			stats.ActiveAssignments--
		}
	} else {
		stats.ActiveAssignments++
	}
	s.stats[update.OperatorID] = stats
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
