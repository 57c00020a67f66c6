package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "aucta/contexts/wg-operations/hub-capacity/domain/errors"
	"aucta/contexts/wg-operations/hub-capacity/ports"

	"github.com/google/uuid"
)

// Store mirrors the postgres adapter's semantics under one mutex so the
// hold check-and-increment stays atomic across concurrent sourcing episodes.
type Store struct {
	mu    sync.Mutex
	slots map[string]ports.CapacitySlot
}

func NewStore() *Store {
	return &Store{slots: make(map[string]ports.CapacitySlot)}
}

func (s *Store) CreateSlot(_ context.Context, slot ports.CapacitySlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(slot.SlotID)
	if id == "" || slot.MaxCapacity <= 0 {
		return domainerrors.ErrInvalidInput
	}
	if _, exists := s.slots[id]; exists {
		return domainerrors.ErrInvalidInput
	}
	s.slots[id] = slot
	return nil
}

func (s *Store) GetSlot(_ context.Context, slotID string) (ports.CapacitySlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[strings.TrimSpace(slotID)]
	if !ok {
		return ports.CapacitySlot{}, domainerrors.ErrSlotNotFound
	}
	return slot, nil
}

func (s *Store) ListAvailableSlots(_ context.Context, filter ports.SlotFilter, now time.Time) ([]ports.CapacitySlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]ports.CapacitySlot, 0)
	for id, slot := range s.slots {
		if slot.HubLocation != filter.HubLocation || slot.Date != filter.Date {
			continue
		}
		if filter.TierLevel > 0 && slot.TierLevel != filter.TierLevel {
			continue
		}
		slot = s.expireStaleHoldLocked(id, slot, now)
		if slot.HoldActive(now) || slot.CurrentBookings >= slot.MaxCapacity {
			continue
		}
		items = append(items, slot)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].TimeWindow == items[j].TimeWindow {
			return items[i].SlotID < items[j].SlotID
		}
		return items[i].TimeWindow < items[j].TimeWindow
	})
	return items, nil
}

func (s *Store) FindSlot(_ context.Context, hubLocation string, date string, tierLevel int, timeWindow string) (ports.CapacitySlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, slot := range s.slots {
		if slot.HubLocation == hubLocation && slot.Date == date &&
			slot.TierLevel == tierLevel && slot.TimeWindow == timeWindow {
			return slot, nil
		}
	}
	return ports.CapacitySlot{}, domainerrors.ErrSlotNotFound
}

func (s *Store) Hold(_ context.Context, slotID string, shipmentID string, heldUntil time.Time, now time.Time) (ports.CapacitySlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(slotID)
	slot, ok := s.slots[id]
	if !ok {
		return ports.CapacitySlot{}, domainerrors.ErrSlotNotFound
	}
	slot = s.expireStaleHoldLocked(id, slot, now)

	if slot.HoldActive(now) {
		if slot.HeldForShipmentID == shipmentID {
			// Refreshing our own hold extends the lease without a second unit.
			until := heldUntil.UTC()
			slot.HeldUntil = &until
			s.slots[id] = slot
			return slot, nil
		}
		return ports.CapacitySlot{}, domainerrors.ErrSlotUnavailable
	}
	if slot.CurrentBookings >= slot.MaxCapacity {
		return ports.CapacitySlot{}, domainerrors.ErrSlotUnavailable
	}

	until := heldUntil.UTC()
	slot.CurrentBookings++
	slot.HeldUntil = &until
	slot.HeldForShipmentID = shipmentID
	s.slots[id] = slot
	return slot, nil
}

func (s *Store) Release(_ context.Context, slotID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(slotID)
	slot, ok := s.slots[id]
	if !ok {
		return domainerrors.ErrSlotNotFound
	}
	if slot.HeldUntil == nil {
		return nil
	}
	if slot.CurrentBookings > 0 {
		slot.CurrentBookings--
	}
	slot.HeldUntil = nil
	slot.HeldForShipmentID = ""
	s.slots[id] = slot
	return nil
}

func (s *Store) ConfirmHold(_ context.Context, slotID string, shipmentID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(slotID)
	slot, ok := s.slots[id]
	if !ok {
		return domainerrors.ErrSlotNotFound
	}
	if !slot.HoldActive(now) || slot.HeldForShipmentID != shipmentID {
		return domainerrors.ErrHoldNotFound
	}
	slot.HeldUntil = nil
	slot.HeldForShipmentID = ""
	s.slots[id] = slot
	return nil
}

func (s *Store) ReapExpiredHolds(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reaped := 0
	for id, slot := range s.slots {
		if slot.HeldUntil != nil && !slot.HeldUntil.After(now) {
			s.expireStaleHoldLocked(id, slot, now)
			reaped++
		}
	}
	return reaped, nil
}

func (s *Store) expireStaleHoldLocked(id string, slot ports.CapacitySlot, now time.Time) ports.CapacitySlot {
	if slot.HeldUntil == nil || slot.HeldUntil.After(now) {
		return slot
	}
	if slot.CurrentBookings > 0 {
		slot.CurrentBookings--
	}
	slot.HeldUntil = nil
	slot.HeldForShipmentID = ""
	s.slots[id] = slot
	return slot
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
