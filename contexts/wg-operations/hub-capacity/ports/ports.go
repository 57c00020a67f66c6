package ports

import (
	"context"
	"time"
)

// CapacitySlot is a bounded processing bucket at a hub, keyed by
// (hub location, date, tier level, time window). A hold is a soft lease on one
// unit of capacity: the increment is durable only once the assignment desk
// confirms it.
type CapacitySlot struct {
	SlotID            string
	HubLocation       string
	Date              string // 2006-01-02
	TierLevel         int
	TimeWindow        string // e.g. "09:00-13:00"
	MaxCapacity       int
	CurrentBookings   int
	HeldUntil         *time.Time
	HeldForShipmentID string
	CreatedAt         time.Time
}

// Available reports whether the slot can accept a hold from shipmentID at now.
// Expired holds do not block; an unexpired hold by another shipment does.
func (s CapacitySlot) Available(shipmentID string, now time.Time) bool {
	if s.HoldActive(now) && s.HeldForShipmentID != shipmentID {
		return false
	}
	bookings := s.CurrentBookings
	if s.HoldActive(now) && s.HeldForShipmentID == shipmentID {
		return true
	}
	if !s.HoldActive(now) && s.HeldUntil != nil {
		// Stale hold still counted in bookings; reclaiming frees one unit.
		bookings--
	}
	return bookings < s.MaxCapacity
}

func (s CapacitySlot) HoldActive(now time.Time) bool {
	return s.HeldUntil != nil && s.HeldUntil.After(now)
}

type SlotFilter struct {
	HubLocation string
	Date        string
	TierLevel   int
}

type CreateSlotInput struct {
	HubLocation string
	Date        string
	TierLevel   int
	TimeWindow  string
	MaxCapacity int
}

// Repository owns slot state. Hold must be an atomic check-and-increment:
// two concurrent holds racing for the last unit must not both succeed.
type Repository interface {
	CreateSlot(ctx context.Context, slot CapacitySlot) error
	GetSlot(ctx context.Context, slotID string) (CapacitySlot, error)
	ListAvailableSlots(ctx context.Context, filter SlotFilter, now time.Time) ([]CapacitySlot, error)
	FindSlot(ctx context.Context, hubLocation string, date string, tierLevel int, timeWindow string) (CapacitySlot, error)
	Hold(ctx context.Context, slotID string, shipmentID string, heldUntil time.Time, now time.Time) (CapacitySlot, error)
	Release(ctx context.Context, slotID string, now time.Time) error
	ConfirmHold(ctx context.Context, slotID string, shipmentID string, now time.Time) error
	ReapExpiredHolds(ctx context.Context, now time.Time) (int, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// AuditSink records state changes best-effort; errors are swallowed upstream.
type AuditSink interface {
	Record(ctx context.Context, actionType string, actorID string, targetResource string, details map[string]any) error
}
