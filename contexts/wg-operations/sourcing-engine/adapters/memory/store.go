package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "aucta/contexts/wg-operations/sourcing-engine/domain/errors"
	"aucta/contexts/wg-operations/sourcing-engine/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	requests   map[string]ports.SourcingRequest
	candidates map[string][]ports.Candidate // keyed by request id
	outbox     map[string]outboxRecord
}

type outboxRecord struct {
	Message     ports.OutboxMessage
	Status      string
	PublishedAt *time.Time
}

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

func NewStore() *Store {
	return &Store{
		requests:   make(map[string]ports.SourcingRequest),
		candidates: make(map[string][]ports.Candidate),
		outbox:     make(map[string]outboxRecord),
	}
}

func (s *Store) CreateRequest(_ context.Context, request ports.SourcingRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(request.RequestID)
	if id == "" {
		return domainerrors.ErrInvalidInput
	}
	if _, exists := s.requests[id]; exists {
		return domainerrors.ErrInvalidInput
	}
	s.requests[id] = request
	return nil
}

func (s *Store) GetRequest(_ context.Context, requestID string) (ports.SourcingRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	request, ok := s.requests[strings.TrimSpace(requestID)]
	if !ok {
		return ports.SourcingRequest{}, domainerrors.ErrRequestNotFound
	}
	return request, nil
}

func (s *Store) GetOpenRequestByShipment(_ context.Context, shipmentID string) (ports.SourcingRequest, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, request := range s.requests {
		if request.ShipmentID == strings.TrimSpace(shipmentID) &&
			request.Status != ports.RequestStatusAssigned {
			return request, true, nil
		}
	}
	return ports.SourcingRequest{}, false, nil
}

func (s *Store) UpdateRequest(_ context.Context, request ports.SourcingRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(request.RequestID)
	if _, ok := s.requests[id]; !ok {
		return domainerrors.ErrRequestNotFound
	}
	s.requests[id] = request
	return nil
}

func (s *Store) ListOpenRequests(_ context.Context) ([]ports.SourcingRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]ports.SourcingRequest, 0)
	for _, request := range s.requests {
		if request.Status != ports.RequestStatusAssigned {
			items = append(items, request)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].OpenedAt.Before(items[j].OpenedAt)
	})
	return items, nil
}

func (s *Store) AddCandidate(_ context.Context, candidate ports.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	requestID := strings.TrimSpace(candidate.RequestID)
	if requestID == "" || strings.TrimSpace(candidate.CandidateID) == "" {
		return domainerrors.ErrInvalidInput
	}
	s.candidates[requestID] = append(s.candidates[requestID], candidate)
	return nil
}

func (s *Store) GetCandidate(_ context.Context, requestID string, candidateID string) (ports.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, candidate := range s.candidates[strings.TrimSpace(requestID)] {
		if candidate.CandidateID == strings.TrimSpace(candidateID) {
			return candidate, nil
		}
	}
	return ports.Candidate{}, domainerrors.ErrCandidateNotFound
}

func (s *Store) ListCandidates(_ context.Context, requestID string) ([]ports.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := append([]ports.Candidate(nil), s.candidates[strings.TrimSpace(requestID)]...)
	sort.Slice(items, func(i, j int) bool {
		return items[i].RespondedAt.Before(items[j].RespondedAt)
	})
	return items, nil
}

func (s *Store) UpdateCandidate(_ context.Context, candidate ports.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	requestID := strings.TrimSpace(candidate.RequestID)
	items := s.candidates[requestID]
	for i, existing := range items {
		if existing.CandidateID == candidate.CandidateID {
			items[i] = candidate
			return nil
		}
	}
	return domainerrors.ErrCandidateNotFound
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		return domainerrors.ErrInvalidInput
	}
	if existing, ok := s.outbox[outboxID]; ok {
		if !bytes.Equal(existing.Message.Payload, payload) {
			return domainerrors.ErrInvalidInput
		}
		return nil
	}
	s.outbox[outboxID] = outboxRecord{
		Message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt.UTC(),
		},
		Status: outboxStatusPending,
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.Status == outboxStatusPending {
			items = append(items, row.Message)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrRequestNotFound
	}
	ts := publishedAt.UTC()
	row.Status = outboxStatusPublished
	row.PublishedAt = &ts
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
