package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	domainerrors "aucta/contexts/wg-operations/sourcing-engine/domain/errors"
	"aucta/contexts/wg-operations/sourcing-engine/ports"
)

type Service struct {
	Repo   ports.Repository
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Audit  ports.AuditSink
	Logger *slog.Logger
}

// OpenEpisode starts one sourcing episode: it freezes the broadcast filter
// snapshot, moves the pipeline to broadcast_sent and starts the SLA clock.
// A second broadcast while an episode is open is rejected, never merged:
// two live episodes for one shipment would break assignment exclusivity.
func (s Service) OpenEpisode(ctx context.Context, input ports.OpenEpisodeInput) (ports.SourcingRequest, error) {
	if strings.TrimSpace(input.ShipmentID) == "" ||
		strings.TrimSpace(input.RequestedBy) == "" ||
		input.SLATargetAt.IsZero() ||
		len(input.RequiredCities) == 0 ||
		input.MinValueClearance < 0 {
		return ports.SourcingRequest{}, domainerrors.ErrInvalidInput
	}

	shipmentID := strings.TrimSpace(input.ShipmentID)
	if _, open, err := s.Repo.GetOpenRequestByShipment(ctx, shipmentID); err != nil {
		return ports.SourcingRequest{}, err
	} else if open {
		return ports.SourcingRequest{}, domainerrors.ErrEpisodeActive
	}

	requestID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.SourcingRequest{}, err
	}

	now := s.now()
	request := ports.SourcingRequest{
		RequestID:         strings.TrimSpace(requestID),
		ShipmentID:        shipmentID,
		RequestedBy:       strings.TrimSpace(input.RequestedBy),
		Status:            ports.RequestStatusOpen,
		PipelineState:     ports.StateBroadcastSent,
		SLATargetAt:       input.SLATargetAt.UTC(),
		RequiredCities:    normalizeCities(input.RequiredCities),
		MinValueClearance: input.MinValueClearance,
		MaxDistanceKM:     input.MaxDistanceKM,
		UrgencyTier:       input.UrgencyTier,
		DeclaredValue:     input.DeclaredValue,
		RequiredLanguage:  strings.TrimSpace(input.RequiredLanguage),
		PickupCity:        strings.TrimSpace(input.PickupCity),
		OpenedAt:          now,
	}
	if err := s.Repo.CreateRequest(ctx, request); err != nil {
		return ports.SourcingRequest{}, err
	}
	if err := s.appendEpisodeEvent(ctx, "sourcing.episode.opened", request); err != nil {
		return ports.SourcingRequest{}, err
	}

	s.audit(ctx, "sourcing_episode_opened", request.RequestedBy, "sourcing_request:"+request.RequestID, map[string]any{
		"shipment_id":   request.ShipmentID,
		"sla_target_at": request.SLATargetAt,
	})
	ResolveLogger(s.Logger).Info("sourcing episode opened",
		"event", "sourcing_episode_opened",
		"module", "wg-operations/sourcing-engine",
		"layer", "application",
		"request_id", request.RequestID,
		"shipment_id", request.ShipmentID,
	)
	return request, nil
}

func (s Service) GetRequest(ctx context.Context, requestID string) (ports.SourcingRequest, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ports.SourcingRequest{}, domainerrors.ErrInvalidInput
	}
	return s.Repo.GetRequest(ctx, requestID)
}

// RecordCandidateReply ingests one external candidate response, scores it with
// the fixed rubric and appends it to the pool. The first reply moves the
// pipeline from broadcast_sent to candidates_replying.
func (s Service) RecordCandidateReply(ctx context.Context, requestID string, input ports.CandidateReplyInput) (ports.Candidate, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" || strings.TrimSpace(input.Profile.OperatorID) == "" {
		return ports.Candidate{}, domainerrors.ErrInvalidInput
	}

	request, err := s.Repo.GetRequest(ctx, requestID)
	if err != nil {
		return ports.Candidate{}, err
	}
	if request.Status == ports.RequestStatusAssigned {
		return ports.Candidate{}, domainerrors.ErrEpisodeClosed
	}

	candidateID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.Candidate{}, err
	}
	candidate := ports.Candidate{
		CandidateID: strings.TrimSpace(candidateID),
		RequestID:   requestID,
		Profile:     input.Profile,
		RespondedAt: s.now(),
		DistanceKM:  input.DistanceKM,
		ETAMinutes:  input.ETAMinutes,
		Checks: ports.CandidateChecks{
			Insurance: "pending",
			Clearance: "pending",
			Documents: "pending",
		},
		Score:  ComputeCompatibilityScore(request, input.Profile),
		Status: ports.CandidateStatusPending,
	}
	if err := s.Repo.AddCandidate(ctx, candidate); err != nil {
		return ports.Candidate{}, err
	}

	if request.PipelineState == ports.StateBroadcastSent {
		request.PipelineState = ports.StateCandidatesReplying
		if err := s.Repo.UpdateRequest(ctx, request); err != nil {
			return ports.Candidate{}, err
		}
	}

	ResolveLogger(s.Logger).Info("candidate reply recorded",
		"event", "sourcing_candidate_replied",
		"module", "wg-operations/sourcing-engine",
		"layer", "application",
		"request_id", requestID,
		"candidate_id", candidate.CandidateID,
		"operator_id", candidate.Profile.OperatorID,
		"score", candidate.Score,
	)
	return candidate, nil
}

func (s Service) ListCandidates(ctx context.Context, requestID string) ([]ports.Candidate, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	if _, err := s.Repo.GetRequest(ctx, requestID); err != nil {
		return nil, err
	}
	return s.Repo.ListCandidates(ctx, requestID)
}

// ValidateCandidate applies the operator-facing check results. All three
// checks must come back positive for the candidate to gate through to the
// assignment desk. Multiple candidates may be validated concurrently.
func (s Service) ValidateCandidate(ctx context.Context, requestID string, candidateID string, checks ports.CandidateChecks, actorID string) (ports.Candidate, error) {
	requestID = strings.TrimSpace(requestID)
	candidateID = strings.TrimSpace(candidateID)
	if requestID == "" || candidateID == "" {
		return ports.Candidate{}, domainerrors.ErrInvalidInput
	}

	request, err := s.Repo.GetRequest(ctx, requestID)
	if err != nil {
		return ports.Candidate{}, err
	}
	if request.Status == ports.RequestStatusAssigned {
		return ports.Candidate{}, domainerrors.ErrEpisodeClosed
	}

	candidate, err := s.Repo.GetCandidate(ctx, requestID, candidateID)
	if err != nil {
		return ports.Candidate{}, err
	}

	candidate.Checks = checks
	if checksPass(checks) {
		candidate.Status = ports.CandidateStatusValidated
	} else {
		candidate.Status = ports.CandidateStatusRejected
	}
	if err := s.Repo.UpdateCandidate(ctx, candidate); err != nil {
		return ports.Candidate{}, err
	}

	if request.PipelineState == ports.StateCandidatesReplying || request.PipelineState == ports.StateBroadcastSent {
		request.PipelineState = ports.StateValidating
		if err := s.Repo.UpdateRequest(ctx, request); err != nil {
			return ports.Candidate{}, err
		}
	}

	s.audit(ctx, "sourcing_candidate_validated", actorID, "sourcing_candidate:"+candidateID, map[string]any{
		"request_id": requestID,
		"status":     candidate.Status,
	})
	return candidate, nil
}

// Escalate flips the orthogonal escalated flag. It is irreversible within the
// episode and informational only: candidate processing continues and the
// episode can still be assigned afterward.
func (s Service) Escalate(ctx context.Context, requestID string, input ports.EscalateInput) (ports.SourcingRequest, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ports.SourcingRequest{}, domainerrors.ErrInvalidInput
	}
	if strings.TrimSpace(input.Reason) == "" || strings.TrimSpace(input.Channel) == "" {
		return ports.SourcingRequest{}, domainerrors.ErrEscalationIncomplete
	}

	request, err := s.Repo.GetRequest(ctx, requestID)
	if err != nil {
		return ports.SourcingRequest{}, err
	}
	if request.Escalated {
		return request, nil
	}

	now := s.now()
	request.Escalated = true
	request.EscalationReason = strings.TrimSpace(input.Reason)
	request.EscalationChannel = strings.TrimSpace(input.Channel)
	request.EscalatedAt = &now
	if request.Status == ports.RequestStatusOpen {
		request.Status = ports.RequestStatusEscalated
	}
	if err := s.Repo.UpdateRequest(ctx, request); err != nil {
		return ports.SourcingRequest{}, err
	}
	if err := s.appendEpisodeEvent(ctx, "sourcing.episode.escalated", request); err != nil {
		return ports.SourcingRequest{}, err
	}

	s.audit(ctx, "sourcing_episode_escalated", input.ActorID, "sourcing_request:"+requestID, map[string]any{
		"reason":  request.EscalationReason,
		"channel": request.EscalationChannel,
	})
	ResolveLogger(s.Logger).Warn("sourcing episode escalated",
		"event", "sourcing_episode_escalated",
		"module", "wg-operations/sourcing-engine",
		"layer", "application",
		"request_id", requestID,
		"shipment_id", request.ShipmentID,
		"reason", request.EscalationReason,
		"channel", request.EscalationChannel,
	)
	return request, nil
}

// CandidateValidated answers the assignment desk's ordering guard: a commit
// for (shipment, operator) needs a prior validated candidate in the open
// episode. Satisfies the desk's SourcingGateway port.
func (s Service) CandidateValidated(ctx context.Context, shipmentID string, operatorID string) (bool, error) {
	request, open, err := s.Repo.GetOpenRequestByShipment(ctx, strings.TrimSpace(shipmentID))
	if err != nil {
		return false, err
	}
	if !open {
		// No episode in flight: roster assignments bypass the pipeline.
		return true, nil
	}
	candidates, err := s.Repo.ListCandidates(ctx, request.RequestID)
	if err != nil {
		return false, err
	}
	for _, candidate := range candidates {
		if candidate.Profile.OperatorID == strings.TrimSpace(operatorID) &&
			candidate.Status == ports.CandidateStatusValidated {
			return true, nil
		}
	}
	return false, nil
}

// CompleteEpisode closes the open episode after the assignment desk commits.
// Records time-to-assign and whether the episode was assigned late.
func (s Service) CompleteEpisode(ctx context.Context, shipmentID string, operatorID string, assignedAt time.Time) error {
	request, open, err := s.Repo.GetOpenRequestByShipment(ctx, strings.TrimSpace(shipmentID))
	if err != nil {
		return err
	}
	if !open {
		return nil
	}

	at := assignedAt.UTC()
	request.Status = ports.RequestStatusAssigned
	request.PipelineState = ports.StateAssigned
	request.AssignedAt = &at
	request.TimeToAssignMS = at.Sub(request.OpenedAt).Milliseconds()
	request.AssignedLate = at.After(request.SLATargetAt)
	if err := s.Repo.UpdateRequest(ctx, request); err != nil {
		return err
	}

	candidates, err := s.Repo.ListCandidates(ctx, request.RequestID)
	if err != nil {
		return err
	}
	for _, candidate := range candidates {
		if candidate.Profile.OperatorID == strings.TrimSpace(operatorID) &&
			candidate.Status == ports.CandidateStatusValidated {
			candidate.Status = ports.CandidateStatusAssigned
			if err := s.Repo.UpdateCandidate(ctx, candidate); err != nil {
				return err
			}
			break
		}
	}

	if err := s.appendEpisodeEvent(ctx, "sourcing.episode.assigned", request); err != nil {
		return err
	}
	ResolveLogger(s.Logger).Info("sourcing episode assigned",
		"event", "sourcing_episode_assigned",
		"module", "wg-operations/sourcing-engine",
		"layer", "application",
		"request_id", request.RequestID,
		"shipment_id", request.ShipmentID,
		"time_to_assign_ms", request.TimeToAssignMS,
		"assigned_late", request.AssignedLate,
	)
	return nil
}

func (s Service) appendEpisodeEvent(ctx context.Context, eventType string, request ports.SourcingRequest) error {
	if s.Outbox == nil {
		return nil
	}
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(map[string]any{
		"request_id":        request.RequestID,
		"shipment_id":       request.ShipmentID,
		"status":            request.Status,
		"pipeline_state":    request.PipelineState,
		"escalated":         request.Escalated,
		"sla_target_at":     request.SLATargetAt.UTC().Format(time.RFC3339),
		"time_to_assign_ms": request.TimeToAssignMS,
	})
	if err != nil {
		return err
	}
	return s.Outbox.AppendOutbox(ctx, ports.EventEnvelope{
		EventID:          strings.TrimSpace(eventID),
		EventType:        eventType,
		OccurredAt:       s.now(),
		SourceService:    "sourcing-engine",
		TraceID:          strings.TrimSpace(eventID),
		SchemaVersion:    1,
		PartitionKeyPath: "shipment_id",
		PartitionKey:     request.ShipmentID,
		Data:             data,
	})
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) audit(ctx context.Context, actionType string, actorID string, target string, details map[string]any) {
	if s.Audit == nil {
		return
	}
	if err := s.Audit.Record(ctx, actionType, actorID, target, details); err != nil {
		ResolveLogger(s.Logger).Warn("audit write failed",
			"event", "sourcing_audit_failed",
			"module", "wg-operations/sourcing-engine",
			"layer", "application",
			"action_type", actionType,
			"error", err.Error(),
		)
	}
}

func checksPass(checks ports.CandidateChecks) bool {
	return checks.Insurance == "valid" &&
		checks.Clearance == "sufficient" &&
		checks.Documents == "complete"
}

func normalizeCities(cities []string) []string {
	out := make([]string, 0, len(cities))
	for _, city := range cities {
		city = strings.TrimSpace(city)
		if city != "" {
			out = append(out, city)
		}
	}
	return out
}
