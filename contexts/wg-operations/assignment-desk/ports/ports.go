package ports

import (
	"context"
	"time"
)

const (
	AssignmentStatusScheduled = "scheduled"
	AssignmentStatusPickedUp  = "picked_up"
	AssignmentStatusAtHub     = "at_hub"
	AssignmentStatusInTransit = "in_transit"
	AssignmentStatusDelivered = "delivered"
	AssignmentStatusCancelled = "cancelled"
)

const (
	ViolationValueClearance       = "value_clearance"
	ViolationTimeWindow           = "time_window"
	ViolationOperatorAvailability = "operator_availability"
	ViolationSLAFeasibility       = "sla_feasibility"
	ViolationHubCapacity          = "hub_capacity"

	SeverityBlocking = "blocking"
	SeverityWarning  = "warning"
)

// Assignment is 1:1 with a shipment while active: at most one non-cancelled
// assignment may exist per shipment at any time.
type Assignment struct {
	AssignmentID string
	ShipmentID   string
	OperatorID   string
	AssignedBy   string
	Status       string

	PickupAt    time.Time
	HubIntakeAt time.Time
	DeliveryAt  time.Time

	ActualPickupAt    *time.Time
	ActualHubIntakeAt *time.Time
	ActualDeliveryAt  *time.Time

	PickupOTP    string
	HubIntakeOTP string
	DeliveryOTP  string
	SealID       string

	HubSlotID string
	CreatedAt time.Time
}

// Schedule is the concrete proposal a candidate is validated against.
type Schedule struct {
	PickupAt    time.Time
	HubIntakeAt time.Time
	DeliveryAt  time.Time
	HubDate     string // 2006-01-02, hub local
	HubWindow   string // e.g. "09:00-13:00"
	HubSlotID   string
}

// ShipmentFacts is the validator's read model of a shipment.
type ShipmentFacts struct {
	ShipmentID    string
	DeclaredValue float64
	TierLevel     int
	SLADeadline   time.Time
	Status        string
	HubLocation   string

	SenderWindowStart time.Time
	SenderWindowEnd   time.Time
	SenderTimezone    string

	BuyerWindowStart time.Time
	BuyerWindowEnd   time.Time
	BuyerTimezone    string
}

// Interval is half-open: [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// OperatorFacts is the validator's read model of an operator, including the
// calendar intervals the proposed schedule must not overlap.
type OperatorFacts struct {
	OperatorID        string
	MaxValueClearance float64
	CalendarConflicts []Interval
}

type Violation struct {
	ViolationID    string
	ShipmentID     string
	OperatorID     string
	ConstraintType string
	Description    string
	Severity       string
	ResolutionAction string
	IsOverride     bool
	OverrideReason string
	OverriddenBy   string
	CreatedAt      time.Time
}

type ValidationResult struct {
	IsValid    bool
	Violations []Violation
}

type StatsUpdate struct {
	OperatorID   string
	AssignmentID string
	Delivered    bool
	EnqueuedAt   time.Time
}

type Repository interface {
	GetShipmentFacts(ctx context.Context, shipmentID string) (ShipmentFacts, error)
	GetOperatorFacts(ctx context.Context, operatorID string) (OperatorFacts, error)

	// CommitAssignment atomically inserts the assignment row, moves the
	// shipment to assigned and (when hubSlotID is set) converts the capacity
	// hold into a durable booking. Partial effects must not survive failure.
	CommitAssignment(ctx context.Context, assignment Assignment) error

	GetAssignment(ctx context.Context, assignmentID string) (Assignment, error)
	GetActiveAssignmentByShipment(ctx context.Context, shipmentID string) (Assignment, bool, error)
	UpdateAssignmentStatus(ctx context.Context, assignmentID string, status string, actualAt *time.Time) (Assignment, error)

	CreateViolation(ctx context.Context, violation Violation) error
	ListViolationsByShipment(ctx context.Context, shipmentID string) ([]Violation, error)

	EnqueueStatsUpdate(ctx context.Context, update StatsUpdate) error
	DequeueStatsUpdates(ctx context.Context, limit int) ([]StatsUpdate, error)
	ApplyOperatorStats(ctx context.Context, update StatsUpdate) error
}

// CapacityChecker is the hub feasibility probe used for tier >= 2 shipments.
// The hub-capacity application service satisfies it.
type CapacityChecker interface {
	HasOpenCapacity(ctx context.Context, hubLocation string, date string, tierLevel int, timeWindow string, shipmentID string) (bool, error)
}

// SourcingGateway enforces validate-before-commit ordering and closes the
// episode after commit. The sourcing-engine application service satisfies it.
type SourcingGateway interface {
	CandidateValidated(ctx context.Context, shipmentID string, operatorID string) (bool, error)
	CompleteEpisode(ctx context.Context, shipmentID string, operatorID string, assignedAt time.Time) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type AuditSink interface {
	Record(ctx context.Context, actionType string, actorID string, targetResource string, details map[string]any) error
}
