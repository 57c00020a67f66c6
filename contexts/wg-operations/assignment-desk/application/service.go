package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainerrors "aucta/contexts/wg-operations/assignment-desk/domain/errors"
	"aucta/contexts/wg-operations/assignment-desk/ports"
)

const shipmentStatusPendingAssignment = "pending_assignment"

type Service struct {
	Repo     ports.Repository
	Capacity ports.CapacityChecker
	Sourcing ports.SourcingGateway
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Audit    ports.AuditSink
	Logger   *slog.Logger
}

type FinalizeInput struct {
	ShipmentID     string
	OperatorID     string
	AssignedBy     string
	Schedule       ports.Schedule
	Override       bool
	OverrideReason string
}

// statusOrder fixes the forward-only lifecycle. Cancelled is reachable from
// any non-terminal status.
var statusOrder = map[string]string{
	ports.AssignmentStatusScheduled: ports.AssignmentStatusPickedUp,
	ports.AssignmentStatusPickedUp:  ports.AssignmentStatusAtHub,
	ports.AssignmentStatusAtHub:     ports.AssignmentStatusInTransit,
	ports.AssignmentStatusInTransit: ports.AssignmentStatusDelivered,
}

// DryRunValidation loads the read models and runs every constraint check
// without persisting anything. Used by the pre-assignment probe endpoint.
func (s Service) DryRunValidation(ctx context.Context, shipmentID string, operatorID string, schedule ports.Schedule) (ports.ValidationResult, error) {
	shipmentID = strings.TrimSpace(shipmentID)
	operatorID = strings.TrimSpace(operatorID)
	if shipmentID == "" || operatorID == "" || schedule.PickupAt.IsZero() || schedule.DeliveryAt.IsZero() {
		return ports.ValidationResult{}, domainerrors.ErrInvalidInput
	}
	shipment, err := s.Repo.GetShipmentFacts(ctx, shipmentID)
	if err != nil {
		return ports.ValidationResult{}, err
	}
	operator, err := s.Repo.GetOperatorFacts(ctx, operatorID)
	if err != nil {
		return ports.ValidationResult{}, err
	}
	return s.ValidateSchedule(ctx, shipment, operator, schedule)
}

// Finalize turns a validated candidate into a committed assignment. Ordering
// is enforced against the sourcing pipeline, constraints are checked one last
// time, and the commit itself is a single transaction in the repository.
func (s Service) Finalize(ctx context.Context, input FinalizeInput) (ports.Assignment, []ports.Violation, error) {
	shipmentID := strings.TrimSpace(input.ShipmentID)
	operatorID := strings.TrimSpace(input.OperatorID)
	if shipmentID == "" || operatorID == "" || strings.TrimSpace(input.AssignedBy) == "" ||
		input.Schedule.PickupAt.IsZero() || input.Schedule.HubIntakeAt.IsZero() || input.Schedule.DeliveryAt.IsZero() {
		return ports.Assignment{}, nil, domainerrors.ErrInvalidInput
	}
	if input.Override && strings.TrimSpace(input.OverrideReason) == "" {
		return ports.Assignment{}, nil, domainerrors.ErrOverrideReasonRequired
	}

	shipment, err := s.Repo.GetShipmentFacts(ctx, shipmentID)
	if err != nil {
		return ports.Assignment{}, nil, err
	}
	if shipment.Status != shipmentStatusPendingAssignment {
		return ports.Assignment{}, nil, domainerrors.ErrShipmentNotAssignable
	}

	validated, err := s.Sourcing.CandidateValidated(ctx, shipmentID, operatorID)
	if err != nil {
		return ports.Assignment{}, nil, err
	}
	if !validated {
		return ports.Assignment{}, nil, domainerrors.ErrCandidateNotValidated
	}

	operator, err := s.Repo.GetOperatorFacts(ctx, operatorID)
	if err != nil {
		return ports.Assignment{}, nil, err
	}

	result, err := s.ValidateSchedule(ctx, shipment, operator, input.Schedule)
	if err != nil {
		return ports.Assignment{}, nil, err
	}
	violations, err := s.persistViolations(ctx, result.Violations, input)
	if err != nil {
		return ports.Assignment{}, nil, err
	}
	if !result.IsValid {
		if !input.Override {
			return ports.Assignment{}, violations, domainerrors.ErrConstraintsViolated
		}
		for _, violation := range violations {
			if violation.Severity == ports.SeverityBlocking && !ConstraintOverridable(violation.ConstraintType) {
				return ports.Assignment{}, violations, domainerrors.ErrViolationNotOverridable
			}
		}
		ResolveLogger(s.Logger).Warn("blocking constraints overridden",
			"event", "assignment_constraints_overridden",
			"module", "wg-operations/assignment-desk",
			"layer", "application",
			"shipment_id", shipmentID,
			"operator_id", operatorID,
			"reason", strings.TrimSpace(input.OverrideReason),
		)
	}

	assignment, err := s.buildAssignment(ctx, shipment, input)
	if err != nil {
		return ports.Assignment{}, violations, err
	}
	if err := s.Repo.CommitAssignment(ctx, assignment); err != nil {
		return ports.Assignment{}, violations, err
	}

	if err := s.Sourcing.CompleteEpisode(ctx, shipmentID, operatorID, assignment.CreatedAt); err != nil {
		// The assignment is already durable. Episode bookkeeping catches up
		// out of band, so log instead of failing the commit.
		ResolveLogger(s.Logger).Warn("sourcing episode completion failed after commit",
			"event", "assignment_episode_completion_failed",
			"module", "wg-operations/assignment-desk",
			"layer", "application",
			"shipment_id", shipmentID,
			"error", err.Error(),
		)
	}
	if err := s.Repo.EnqueueStatsUpdate(ctx, ports.StatsUpdate{
		OperatorID:   operatorID,
		AssignmentID: assignment.AssignmentID,
		EnqueuedAt:   assignment.CreatedAt,
	}); err != nil {
		ResolveLogger(s.Logger).Warn("stats enqueue failed",
			"event", "assignment_stats_enqueue_failed",
			"module", "wg-operations/assignment-desk",
			"layer", "application",
			"assignment_id", assignment.AssignmentID,
			"error", err.Error(),
		)
	}

	s.audit(ctx, "assignment_committed", input.AssignedBy, "assignment:"+assignment.AssignmentID, map[string]any{
		"shipment_id": shipmentID,
		"operator_id": operatorID,
		"override":    input.Override,
		"hub_slot_id": assignment.HubSlotID,
	})
	ResolveLogger(s.Logger).Info("assignment committed",
		"event", "assignment_committed",
		"module", "wg-operations/assignment-desk",
		"layer", "application",
		"assignment_id", assignment.AssignmentID,
		"shipment_id", shipmentID,
		"operator_id", operatorID,
	)
	return assignment, violations, nil
}

func (s Service) buildAssignment(ctx context.Context, shipment ports.ShipmentFacts, input FinalizeInput) (ports.Assignment, error) {
	assignmentID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.Assignment{}, err
	}
	pickupOTP, err := GenerateOTP()
	if err != nil {
		return ports.Assignment{}, err
	}
	hubOTP, err := GenerateOTP()
	if err != nil {
		return ports.Assignment{}, err
	}
	deliveryOTP, err := GenerateOTP()
	if err != nil {
		return ports.Assignment{}, err
	}

	now := s.now()
	assignment := ports.Assignment{
		AssignmentID: strings.TrimSpace(assignmentID),
		ShipmentID:   shipment.ShipmentID,
		OperatorID:   strings.TrimSpace(input.OperatorID),
		AssignedBy:   strings.TrimSpace(input.AssignedBy),
		Status:       ports.AssignmentStatusScheduled,
		PickupAt:     input.Schedule.PickupAt.UTC(),
		HubIntakeAt:  input.Schedule.HubIntakeAt.UTC(),
		DeliveryAt:   input.Schedule.DeliveryAt.UTC(),
		PickupOTP:    pickupOTP,
		HubIntakeOTP: hubOTP,
		DeliveryOTP:  deliveryOTP,
		HubSlotID:    strings.TrimSpace(input.Schedule.HubSlotID),
		CreatedAt:    now,
	}
	if shipment.TierLevel >= 2 {
		sealID, err := GenerateSealID(now)
		if err != nil {
			return ports.Assignment{}, err
		}
		assignment.SealID = sealID
	}
	return assignment, nil
}

func (s Service) persistViolations(ctx context.Context, found []ports.Violation, input FinalizeInput) ([]ports.Violation, error) {
	now := s.now()
	out := make([]ports.Violation, 0, len(found))
	for _, violation := range found {
		violationID, err := s.IDGen.NewID(ctx)
		if err != nil {
			return nil, err
		}
		violation.ViolationID = strings.TrimSpace(violationID)
		violation.CreatedAt = now
		if input.Override && violation.Severity == ports.SeverityBlocking && ConstraintOverridable(violation.ConstraintType) {
			violation.IsOverride = true
			violation.OverrideReason = strings.TrimSpace(input.OverrideReason)
			violation.OverriddenBy = strings.TrimSpace(input.AssignedBy)
			violation.ResolutionAction = "overridden"
		}
		if err := s.Repo.CreateViolation(ctx, violation); err != nil {
			return nil, err
		}
		out = append(out, violation)
	}
	return out, nil
}

// RecordViolation logs a constraint violation observed outside the finalizer
// flow, optionally marked as an authorized override.
func (s Service) RecordViolation(ctx context.Context, violation ports.Violation) (ports.Violation, error) {
	if strings.TrimSpace(violation.ShipmentID) == "" ||
		strings.TrimSpace(violation.ConstraintType) == "" ||
		strings.TrimSpace(violation.Severity) == "" {
		return ports.Violation{}, domainerrors.ErrInvalidInput
	}
	if violation.IsOverride {
		if strings.TrimSpace(violation.OverrideReason) == "" {
			return ports.Violation{}, domainerrors.ErrOverrideReasonRequired
		}
		if !ConstraintOverridable(violation.ConstraintType) {
			return ports.Violation{}, domainerrors.ErrViolationNotOverridable
		}
	}

	violationID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.Violation{}, err
	}
	violation.ViolationID = strings.TrimSpace(violationID)
	violation.CreatedAt = s.now()
	if err := s.Repo.CreateViolation(ctx, violation); err != nil {
		return ports.Violation{}, err
	}

	s.audit(ctx, "constraint_violation_recorded", violation.OverriddenBy, "violation:"+violation.ViolationID, map[string]any{
		"shipment_id":     violation.ShipmentID,
		"constraint_type": violation.ConstraintType,
		"is_override":     violation.IsOverride,
	})
	return violation, nil
}

func (s Service) ListViolations(ctx context.Context, shipmentID string) ([]ports.Violation, error) {
	shipmentID = strings.TrimSpace(shipmentID)
	if shipmentID == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	return s.Repo.ListViolationsByShipment(ctx, shipmentID)
}

func (s Service) GetAssignment(ctx context.Context, assignmentID string) (ports.Assignment, error) {
	assignmentID = strings.TrimSpace(assignmentID)
	if assignmentID == "" {
		return ports.Assignment{}, domainerrors.ErrInvalidInput
	}
	return s.Repo.GetAssignment(ctx, assignmentID)
}

// AdvanceStatus moves an assignment one step along the delivery lifecycle and
// stamps the matching actual timestamp. Cancellation is allowed from any
// non-terminal status.
func (s Service) AdvanceStatus(ctx context.Context, assignmentID string, status string, actorID string) (ports.Assignment, error) {
	assignmentID = strings.TrimSpace(assignmentID)
	status = strings.TrimSpace(status)
	if assignmentID == "" || status == "" {
		return ports.Assignment{}, domainerrors.ErrInvalidInput
	}

	current, err := s.Repo.GetAssignment(ctx, assignmentID)
	if err != nil {
		return ports.Assignment{}, err
	}
	if !transitionAllowed(current.Status, status) {
		return ports.Assignment{}, domainerrors.ErrInvalidStatusTransition
	}

	now := s.now()
	var actualAt *time.Time
	switch status {
	case ports.AssignmentStatusPickedUp, ports.AssignmentStatusAtHub, ports.AssignmentStatusDelivered:
		actualAt = &now
	}
	updated, err := s.Repo.UpdateAssignmentStatus(ctx, assignmentID, status, actualAt)
	if err != nil {
		return ports.Assignment{}, err
	}

	if status == ports.AssignmentStatusDelivered {
		if err := s.Repo.EnqueueStatsUpdate(ctx, ports.StatsUpdate{
			OperatorID:   updated.OperatorID,
			AssignmentID: updated.AssignmentID,
			Delivered:    true,
			EnqueuedAt:   now,
		}); err != nil {
			ResolveLogger(s.Logger).Warn("stats enqueue failed",
				"event", "assignment_stats_enqueue_failed",
				"module", "wg-operations/assignment-desk",
				"layer", "application",
				"assignment_id", assignmentID,
				"error", err.Error(),
			)
		}
	}

	s.audit(ctx, "assignment_status_advanced", actorID, "assignment:"+assignmentID, map[string]any{
		"from": current.Status,
		"to":   status,
	})
	ResolveLogger(s.Logger).Info("assignment status advanced",
		"event", "assignment_status_advanced",
		"module", "wg-operations/assignment-desk",
		"layer", "application",
		"assignment_id", assignmentID,
		"from", current.Status,
		"to", status,
	)
	return updated, nil
}

func transitionAllowed(from string, to string) bool {
	if to == ports.AssignmentStatusCancelled {
		return from != ports.AssignmentStatusDelivered && from != ports.AssignmentStatusCancelled
	}
	return statusOrder[from] == to
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
			"event", "assignment_audit_failed",
			"module", "wg-operations/assignment-desk",
			"layer", "application",
			"action_type", actionType,
			"error", err.Error(),
		)
	}
}
