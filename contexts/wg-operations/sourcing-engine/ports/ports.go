package ports

import (
	"context"
	"time"

	contractsv1 "aucta/contracts/gen/events/v1"
)

// Pipeline states for one sourcing episode. Escalation is an orthogonal flag,
// not a state: an escalated episode can still reach assigned.
const (
	StateUnassigned         = "unassigned"
	StateBroadcastSent      = "broadcast_sent"
	StateCandidatesReplying = "candidates_replying"
	StateValidating         = "validating"
	StateAssigned           = "assigned"
)

const (
	RequestStatusOpen      = "open"
	RequestStatusEscalated = "escalated"
	RequestStatusAssigned  = "assigned"
)

const (
	CandidateStatusPending   = "pending"
	CandidateStatusValidated = "validated"
	CandidateStatusRejected  = "rejected"
	CandidateStatusAssigned  = "assigned"
)

// SourcingRequest is one sourcing episode for a shipment. The broadcast filter
// snapshot (cities, clearance, language, value) is frozen at open time.
type SourcingRequest struct {
	RequestID         string
	ShipmentID        string
	RequestedBy       string
	Status            string
	PipelineState     string
	SLATargetAt       time.Time
	RequiredCities    []string
	MinValueClearance float64
	MaxDistanceKM     float64
	UrgencyTier       int
	DeclaredValue     float64
	RequiredLanguage  string
	PickupCity        string
	Escalated         bool
	EscalationReason  string
	EscalationChannel string
	EscalatedAt       *time.Time
	AssignedLate      bool
	OpenedAt          time.Time
	AssignedAt        *time.Time
	TimeToAssignMS    int64
}

// CandidateProfile is the scoring input snapshot taken from the reply.
type CandidateProfile struct {
	OperatorID        string
	MaxValueClearance float64
	Languages         []string
	AreaCoverage      []string
	Rating            float64
	SpecialSkills     []string
}

type CandidateChecks struct {
	Insurance string // pending, valid, expired
	Clearance string // pending, sufficient, insufficient
	Documents string // pending, complete, missing
}

// Candidate is pipeline-local until validated; it never outlives the episode.
type Candidate struct {
	CandidateID string
	RequestID   string
	Profile     CandidateProfile
	RespondedAt time.Time
	DistanceKM  float64
	ETAMinutes  int
	Checks      CandidateChecks
	Score       int
	Status      string
}

type OpenEpisodeInput struct {
	ShipmentID        string
	RequestedBy       string
	SLATargetAt       time.Time
	RequiredCities    []string
	MinValueClearance float64
	MaxDistanceKM     float64
	UrgencyTier       int
	DeclaredValue     float64
	RequiredLanguage  string
	PickupCity        string
}

type CandidateReplyInput struct {
	Profile    CandidateProfile
	DistanceKM float64
	ETAMinutes int
}

type EscalateInput struct {
	Reason  string
	Channel string
	ActorID string
}

type Repository interface {
	CreateRequest(ctx context.Context, request SourcingRequest) error
	GetRequest(ctx context.Context, requestID string) (SourcingRequest, error)
	GetOpenRequestByShipment(ctx context.Context, shipmentID string) (SourcingRequest, bool, error)
	UpdateRequest(ctx context.Context, request SourcingRequest) error
	ListOpenRequests(ctx context.Context) ([]SourcingRequest, error)

	AddCandidate(ctx context.Context, candidate Candidate) error
	GetCandidate(ctx context.Context, requestID string, candidateID string) (Candidate, error)
	ListCandidates(ctx context.Context, requestID string) ([]Candidate, error)
	UpdateCandidate(ctx context.Context, candidate Candidate) error
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

type EventEnvelope = contractsv1.Envelope

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}
