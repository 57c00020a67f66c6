package ports

import (
	"context"
	"time"
)

const (
	ShipmentStatusPendingAssignment = "pending_assignment"
	ShipmentStatusAssigned          = "assigned"
	ShipmentStatusInTransit         = "in_transit"
	ShipmentStatusDelivered         = "delivered"
	ShipmentStatusCancelled         = "cancelled"
)

// Shipment is the registry's record of one white-glove consignment. The
// sender and buyer windows are stored as absolute instants together with the
// IANA timezone they were entered in.
type Shipment struct {
	ShipmentID    string
	ShipmentCode  string
	ProductName   string
	DeclaredValue float64
	Currency      string
	TierLevel     int
	Status        string
	HubLocation   string
	SLADeadline   time.Time

	SenderName        string
	SenderCity        string
	SenderWindowStart time.Time
	SenderWindowEnd   time.Time
	SenderTimezone    string

	BuyerName        string
	BuyerCity        string
	BuyerWindowStart time.Time
	BuyerWindowEnd   time.Time
	BuyerTimezone    string

	CreatedAt time.Time
}

// Operator is a vetted white-glove courier on the roster.
type Operator struct {
	OperatorID        string
	FullName          string
	City              string
	MaxValueClearance float64
	Languages         []string
	AreaCoverage      []string
	Rating            float64
	SpecialSkills     []string
	Active            bool
	CreatedAt         time.Time
}

type CreateShipmentInput struct {
	ShipmentCode  string
	ProductName   string
	DeclaredValue float64
	Currency      string
	TierLevel     int
	HubLocation   string
	SLADeadline   time.Time

	SenderName        string
	SenderCity        string
	SenderWindowStart time.Time
	SenderWindowEnd   time.Time
	SenderTimezone    string

	BuyerName        string
	BuyerCity        string
	BuyerWindowStart time.Time
	BuyerWindowEnd   time.Time
	BuyerTimezone    string
}

type CreateOperatorInput struct {
	FullName          string
	City              string
	MaxValueClearance float64
	Languages         []string
	AreaCoverage      []string
	Rating            float64
	SpecialSkills     []string
}

// OperatorFilter narrows the roster listing. Cities matches any of the given
// city names, case-insensitively.
type OperatorFilter struct {
	Cities            []string
	MinValueClearance float64
	Language          string
	ActiveOnly        bool
}

type Repository interface {
	CreateShipment(ctx context.Context, shipment Shipment) error
	GetShipment(ctx context.Context, shipmentID string) (Shipment, error)
	ListShipments(ctx context.Context, status string) ([]Shipment, error)

	CreateOperator(ctx context.Context, operator Operator) error
	GetOperator(ctx context.Context, operatorID string) (Operator, error)
	ListOperators(ctx context.Context, filter OperatorFilter) ([]Operator, error)
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
