package httpadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"aucta/contexts/wg-operations/assignment-desk/application"
	domainerrors "aucta/contexts/wg-operations/assignment-desk/domain/errors"
	"aucta/contexts/wg-operations/assignment-desk/ports"
	httptransport "aucta/contexts/wg-operations/assignment-desk/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) FinalizeAssignmentHandler(ctx context.Context, req httptransport.FinalizeAssignmentRequest) (httptransport.FinalizeAssignmentResponse, error) {
	schedule, err := parseSchedule(req.Schedule)
	if err != nil {
		return httptransport.FinalizeAssignmentResponse{}, err
	}
	assignment, violations, err := h.Service.Finalize(ctx, application.FinalizeInput{
		ShipmentID:     req.ShipmentID,
		OperatorID:     req.OperatorID,
		AssignedBy:     req.AssignedBy,
		Schedule:       schedule,
		Override:       req.Override,
		OverrideReason: req.OverrideReason,
	})
	if err != nil {
		// Violation details travel with the rejection so the desk can show
		// the operator exactly what blocked the commit.
		if errors.Is(err, domainerrors.ErrConstraintsViolated) {
			return httptransport.FinalizeAssignmentResponse{Violations: toViolationDTOs(violations)}, err
		}
		return httptransport.FinalizeAssignmentResponse{}, err
	}
	return httptransport.FinalizeAssignmentResponse{
		Assignment: toAssignmentDTO(assignment),
		Violations: toViolationDTOs(violations),
	}, nil
}

func (h Handler) ValidateScheduleHandler(ctx context.Context, req httptransport.ValidateScheduleRequest) (httptransport.ValidationResultDTO, error) {
	schedule, err := parseSchedule(req.Schedule)
	if err != nil {
		return httptransport.ValidationResultDTO{}, err
	}
	result, err := h.Service.DryRunValidation(ctx, req.ShipmentID, req.OperatorID, schedule)
	if err != nil {
		return httptransport.ValidationResultDTO{}, err
	}
	return httptransport.ValidationResultDTO{
		IsValid:    result.IsValid,
		Violations: toViolationDTOs(result.Violations),
	}, nil
}

func (h Handler) GetAssignmentHandler(ctx context.Context, assignmentID string) (httptransport.AssignmentDTO, error) {
	assignment, err := h.Service.GetAssignment(ctx, assignmentID)
	if err != nil {
		return httptransport.AssignmentDTO{}, err
	}
	return toAssignmentDTO(assignment), nil
}

func (h Handler) UpdateAssignmentStatusHandler(ctx context.Context, assignmentID string, req httptransport.UpdateAssignmentStatusRequest) (httptransport.AssignmentDTO, error) {
	assignment, err := h.Service.AdvanceStatus(ctx, assignmentID, req.Status, req.ActorID)
	if err != nil {
		return httptransport.AssignmentDTO{}, err
	}
	return toAssignmentDTO(assignment), nil
}

func (h Handler) RecordViolationHandler(ctx context.Context, req httptransport.RecordViolationRequest) (httptransport.ViolationDTO, error) {
	violation, err := h.Service.RecordViolation(ctx, ports.Violation{
		ShipmentID:     req.ShipmentID,
		OperatorID:     req.OperatorID,
		ConstraintType: req.ConstraintType,
		Description:    req.Description,
		Severity:       req.Severity,
		IsOverride:     req.IsOverride,
		OverrideReason: req.OverrideReason,
		OverriddenBy:   req.OverriddenBy,
	})
	if err != nil {
		return httptransport.ViolationDTO{}, err
	}
	return toViolationDTO(violation), nil
}

func (h Handler) ListViolationsHandler(ctx context.Context, shipmentID string) ([]httptransport.ViolationDTO, error) {
	violations, err := h.Service.ListViolations(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	return toViolationDTOs(violations), nil
}

func parseSchedule(dto httptransport.ScheduleDTO) (ports.Schedule, error) {
	pickupAt, err := time.Parse(time.RFC3339, dto.PickupAt)
	if err != nil {
		return ports.Schedule{}, domainerrors.ErrInvalidInput
	}
	hubIntakeAt, err := time.Parse(time.RFC3339, dto.HubIntakeAt)
	if err != nil {
		return ports.Schedule{}, domainerrors.ErrInvalidInput
	}
	deliveryAt, err := time.Parse(time.RFC3339, dto.DeliveryAt)
	if err != nil {
		return ports.Schedule{}, domainerrors.ErrInvalidInput
	}
	return ports.Schedule{
		PickupAt:    pickupAt,
		HubIntakeAt: hubIntakeAt,
		DeliveryAt:  deliveryAt,
		HubDate:     dto.HubDate,
		HubWindow:   dto.HubWindow,
		HubSlotID:   dto.HubSlotID,
	}, nil
}

func toAssignmentDTO(a ports.Assignment) httptransport.AssignmentDTO {
	dto := httptransport.AssignmentDTO{
		AssignmentID: a.AssignmentID,
		ShipmentID:   a.ShipmentID,
		OperatorID:   a.OperatorID,
		AssignedBy:   a.AssignedBy,
		Status:       a.Status,
		PickupAt:     a.PickupAt.UTC().Format(time.RFC3339),
		HubIntakeAt:  a.HubIntakeAt.UTC().Format(time.RFC3339),
		DeliveryAt:   a.DeliveryAt.UTC().Format(time.RFC3339),
		PickupOTP:    a.PickupOTP,
		HubIntakeOTP: a.HubIntakeOTP,
		DeliveryOTP:  a.DeliveryOTP,
		SealID:       a.SealID,
		HubSlotID:    a.HubSlotID,
		CreatedAt:    a.CreatedAt.UTC().Format(time.RFC3339),
	}
	if a.ActualPickupAt != nil {
		dto.ActualPickupAt = a.ActualPickupAt.UTC().Format(time.RFC3339)
	}
	if a.ActualHubIntakeAt != nil {
		dto.ActualHubIntakeAt = a.ActualHubIntakeAt.UTC().Format(time.RFC3339)
	}
	if a.ActualDeliveryAt != nil {
		dto.ActualDeliveryAt = a.ActualDeliveryAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func toViolationDTO(v ports.Violation) httptransport.ViolationDTO {
	dto := httptransport.ViolationDTO{
		ViolationID:      v.ViolationID,
		ShipmentID:       v.ShipmentID,
		OperatorID:       v.OperatorID,
		ConstraintType:   v.ConstraintType,
		Description:      v.Description,
		Severity:         v.Severity,
		ResolutionAction: v.ResolutionAction,
		IsOverride:       v.IsOverride,
		OverrideReason:   v.OverrideReason,
		OverriddenBy:     v.OverriddenBy,
	}
	if !v.CreatedAt.IsZero() {
		dto.CreatedAt = v.CreatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func toViolationDTOs(violations []ports.Violation) []httptransport.ViolationDTO {
	items := make([]httptransport.ViolationDTO, 0, len(violations))
	for _, violation := range violations {
		items = append(items, toViolationDTO(violation))
	}
	return items
}
