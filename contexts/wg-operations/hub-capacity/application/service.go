package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "aucta/contexts/wg-operations/hub-capacity/domain/errors"
	"aucta/contexts/wg-operations/hub-capacity/ports"
)

const DefaultHoldTTL = 120 * time.Minute

type Service struct {
	Repo    ports.Repository
	Clock   ports.Clock
	IDGen   ports.IDGenerator
	Audit   ports.AuditSink
	HoldTTL time.Duration
	Logger  *slog.Logger
}

func (s Service) CreateSlot(ctx context.Context, input ports.CreateSlotInput) (ports.CapacitySlot, error) {
	if strings.TrimSpace(input.HubLocation) == "" ||
		strings.TrimSpace(input.Date) == "" ||
		strings.TrimSpace(input.TimeWindow) == "" ||
		input.TierLevel < 1 || input.TierLevel > 3 ||
		input.MaxCapacity <= 0 {
		return ports.CapacitySlot{}, domainerrors.ErrInvalidInput
	}
	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		return ports.CapacitySlot{}, domainerrors.ErrInvalidInput
	}

	slotID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.CapacitySlot{}, err
	}
	slot := ports.CapacitySlot{
		SlotID:      strings.TrimSpace(slotID),
		HubLocation: strings.TrimSpace(input.HubLocation),
		Date:        strings.TrimSpace(input.Date),
		TierLevel:   input.TierLevel,
		TimeWindow:  strings.TrimSpace(input.TimeWindow),
		MaxCapacity: input.MaxCapacity,
		CreatedAt:   s.now(),
	}
	if err := s.Repo.CreateSlot(ctx, slot); err != nil {
		return ports.CapacitySlot{}, err
	}
	return slot, nil
}

func (s Service) ListAvailableSlots(ctx context.Context, filter ports.SlotFilter) ([]ports.CapacitySlot, error) {
	if strings.TrimSpace(filter.HubLocation) == "" || strings.TrimSpace(filter.Date) == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	return s.Repo.ListAvailableSlots(ctx, ports.SlotFilter{
		HubLocation: strings.TrimSpace(filter.HubLocation),
		Date:        strings.TrimSpace(filter.Date),
		TierLevel:   filter.TierLevel,
	}, s.now())
}

// Hold places a TTL-bounded soft reservation. The repository performs the
// check-and-increment atomically; racing holds for the last unit serialize there.
func (s Service) Hold(ctx context.Context, slotID string, shipmentID string, ttl time.Duration) (ports.CapacitySlot, error) {
	slotID = strings.TrimSpace(slotID)
	shipmentID = strings.TrimSpace(shipmentID)
	if slotID == "" || shipmentID == "" {
		return ports.CapacitySlot{}, domainerrors.ErrInvalidInput
	}
	if ttl <= 0 {
		ttl = s.holdTTL()
	}

	now := s.now()
	slot, err := s.Repo.Hold(ctx, slotID, shipmentID, now.Add(ttl), now)
	if err != nil {
		return ports.CapacitySlot{}, err
	}

	s.audit(ctx, "hub_capacity_hold", shipmentID, "hub_capacity_slot:"+slotID, map[string]any{
		"held_until": slot.HeldUntil,
		"bookings":   slot.CurrentBookings,
	})
	ResolveLogger(s.Logger).Info("capacity slot held",
		"event", "hub_capacity_held",
		"module", "wg-operations/hub-capacity",
		"layer", "application",
		"slot_id", slot.SlotID,
		"shipment_id", shipmentID,
		"current_bookings", slot.CurrentBookings,
		"max_capacity", slot.MaxCapacity,
	)
	return slot, nil
}

// Release is idempotent: releasing a slot with no hold is a no-op.
func (s Service) Release(ctx context.Context, slotID string) error {
	slotID = strings.TrimSpace(slotID)
	if slotID == "" {
		return domainerrors.ErrInvalidInput
	}
	if err := s.Repo.Release(ctx, slotID, s.now()); err != nil {
		return err
	}
	s.audit(ctx, "hub_capacity_release", "", "hub_capacity_slot:"+slotID, nil)
	return nil
}

// ConfirmHold converts a live hold into a durable booking. Called by the
// assignment desk inside its commit path; satisfies its HoldConverter port.
func (s Service) ConfirmHold(ctx context.Context, slotID string, shipmentID string) error {
	slotID = strings.TrimSpace(slotID)
	shipmentID = strings.TrimSpace(shipmentID)
	if slotID == "" || shipmentID == "" {
		return domainerrors.ErrInvalidInput
	}
	if err := s.Repo.ConfirmHold(ctx, slotID, shipmentID, s.now()); err != nil {
		return err
	}
	ResolveLogger(s.Logger).Info("capacity hold confirmed",
		"event", "hub_capacity_confirmed",
		"module", "wg-operations/hub-capacity",
		"layer", "application",
		"slot_id", slotID,
		"shipment_id", shipmentID,
	)
	return nil
}

// HasOpenCapacity answers the constraint validator's tier>=2 feasibility check:
// a matching slot exists with spare capacity and no unexpired foreign hold.
func (s Service) HasOpenCapacity(ctx context.Context, hubLocation string, date string, tierLevel int, timeWindow string, shipmentID string) (bool, error) {
	slot, err := s.Repo.FindSlot(ctx, strings.TrimSpace(hubLocation), strings.TrimSpace(date), tierLevel, strings.TrimSpace(timeWindow))
	if err != nil {
		if errors.Is(err, domainerrors.ErrSlotNotFound) {
			return false, nil
		}
		return false, err
	}
	return slot.Available(strings.TrimSpace(shipmentID), s.now()), nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) holdTTL() time.Duration {
	if s.HoldTTL <= 0 {
		return DefaultHoldTTL
	}
	return s.HoldTTL
}

func (s Service) audit(ctx context.Context, actionType string, actorID string, target string, details map[string]any) {
	if s.Audit == nil {
		return
	}
	if err := s.Audit.Record(ctx, actionType, actorID, target, details); err != nil {
		ResolveLogger(s.Logger).Warn("audit write failed",
			"event", "hub_capacity_audit_failed",
			"module", "wg-operations/hub-capacity",
			"layer", "application",
			"action_type", actionType,
			"error", err.Error(),
		)
	}
}
