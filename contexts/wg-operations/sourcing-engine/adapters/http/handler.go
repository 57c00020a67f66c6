package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"aucta/contexts/wg-operations/sourcing-engine/application"
	domainerrors "aucta/contexts/wg-operations/sourcing-engine/domain/errors"
	"aucta/contexts/wg-operations/sourcing-engine/ports"
	httptransport "aucta/contexts/wg-operations/sourcing-engine/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) OpenEpisodeHandler(ctx context.Context, req httptransport.OpenSourcingRequest) (httptransport.SourcingRequestDTO, error) {
	slaTargetAt, err := time.Parse(time.RFC3339, req.SLATargetAt)
	if err != nil {
		return httptransport.SourcingRequestDTO{}, domainerrors.ErrInvalidInput
	}
	request, err := h.Service.OpenEpisode(ctx, ports.OpenEpisodeInput{
		ShipmentID:        req.ShipmentID,
		RequestedBy:       req.RequestedBy,
		SLATargetAt:       slaTargetAt,
		RequiredCities:    req.RequiredCities,
		MinValueClearance: req.MinValueClearance,
		MaxDistanceKM:     req.MaxDistanceKM,
		UrgencyTier:       req.UrgencyTier,
		DeclaredValue:     req.DeclaredValue,
		RequiredLanguage:  req.RequiredLanguage,
		PickupCity:        req.PickupCity,
	})
	if err != nil {
		return httptransport.SourcingRequestDTO{}, err
	}
	return h.toRequestDTO(request), nil
}

func (h Handler) GetRequestHandler(ctx context.Context, requestID string) (httptransport.SourcingRequestDTO, error) {
	request, err := h.Service.GetRequest(ctx, requestID)
	if err != nil {
		return httptransport.SourcingRequestDTO{}, err
	}
	return h.toRequestDTO(request), nil
}

func (h Handler) EscalateHandler(ctx context.Context, requestID string, actorID string, req httptransport.EscalateRequest) (httptransport.SourcingRequestDTO, error) {
	request, err := h.Service.Escalate(ctx, requestID, ports.EscalateInput{
		Reason:  req.Reason,
		Channel: req.Channel,
		ActorID: actorID,
	})
	if err != nil {
		return httptransport.SourcingRequestDTO{}, err
	}
	return h.toRequestDTO(request), nil
}

func (h Handler) RecordCandidateReplyHandler(ctx context.Context, requestID string, req httptransport.CandidateReplyRequest) (httptransport.CandidateDTO, error) {
	candidate, err := h.Service.RecordCandidateReply(ctx, requestID, ports.CandidateReplyInput{
		Profile: ports.CandidateProfile{
			OperatorID:        req.OperatorID,
			MaxValueClearance: req.MaxValueClearance,
			Languages:         req.Languages,
			AreaCoverage:      req.AreaCoverage,
			Rating:            req.Rating,
			SpecialSkills:     req.SpecialSkills,
		},
		DistanceKM: req.DistanceKM,
		ETAMinutes: req.ETAMinutes,
	})
	if err != nil {
		return httptransport.CandidateDTO{}, err
	}
	return toCandidateDTO(candidate), nil
}

func (h Handler) ListCandidatesHandler(ctx context.Context, requestID string) ([]httptransport.CandidateDTO, error) {
	candidates, err := h.Service.ListCandidates(ctx, requestID)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.CandidateDTO, 0, len(candidates))
	for _, candidate := range candidates {
		items = append(items, toCandidateDTO(candidate))
	}
	return items, nil
}

func (h Handler) ValidateCandidateHandler(ctx context.Context, requestID string, candidateID string, actorID string, req httptransport.ValidateCandidateRequest) (httptransport.CandidateDTO, error) {
	candidate, err := h.Service.ValidateCandidate(ctx, requestID, candidateID, ports.CandidateChecks{
		Insurance: req.Checks.Insurance,
		Clearance: req.Checks.Clearance,
		Documents: req.Checks.Documents,
	}, actorID)
	if err != nil {
		return httptransport.CandidateDTO{}, err
	}
	return toCandidateDTO(candidate), nil
}

func (h Handler) toRequestDTO(request ports.SourcingRequest) httptransport.SourcingRequestDTO {
	now := time.Now().UTC()
	if h.Service.Clock != nil {
		now = h.Service.Clock.Now().UTC()
	}
	sla := application.EvaluateSLA(now, request.OpenedAt, request.SLATargetAt)

	dto := httptransport.SourcingRequestDTO{
		RequestID:         request.RequestID,
		ShipmentID:        request.ShipmentID,
		RequestedBy:       request.RequestedBy,
		Status:            request.Status,
		PipelineState:     request.PipelineState,
		SLATargetAt:       request.SLATargetAt.UTC().Format(time.RFC3339),
		RequiredCities:    request.RequiredCities,
		MinValueClearance: request.MinValueClearance,
		Escalated:         request.Escalated,
		EscalationReason:  request.EscalationReason,
		EscalationChannel: request.EscalationChannel,
		SLABand:           string(sla.Band),
		SLALabel:          sla.Label(),
		AssignedLate:      request.AssignedLate,
		OpenedAt:          request.OpenedAt.UTC().Format(time.RFC3339),
		TimeToAssignMS:    request.TimeToAssignMS,
	}
	if request.EscalatedAt != nil {
		dto.EscalatedAt = request.EscalatedAt.UTC().Format(time.RFC3339)
	}
	if request.AssignedAt != nil {
		dto.AssignedAt = request.AssignedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func toCandidateDTO(candidate ports.Candidate) httptransport.CandidateDTO {
	return httptransport.CandidateDTO{
		CandidateID: candidate.CandidateID,
		RequestID:   candidate.RequestID,
		OperatorID:  candidate.Profile.OperatorID,
		RespondedAt: candidate.RespondedAt.UTC().Format(time.RFC3339),
		DistanceKM:  candidate.DistanceKM,
		ETAMinutes:  candidate.ETAMinutes,
		Checks: httptransport.CandidateChecksDTO{
			Insurance: candidate.Checks.Insurance,
			Clearance: candidate.Checks.Clearance,
			Documents: candidate.Checks.Documents,
		},
		Score:  candidate.Score,
		Status: candidate.Status,
	}
}
