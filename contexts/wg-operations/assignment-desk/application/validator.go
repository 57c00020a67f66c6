package application

import (
	"context"
	"fmt"
	"time"

	"aucta/contexts/wg-operations/assignment-desk/ports"
)

// overridableConstraints lists the constraint types a human with authority may
// override with a recorded reason. Hub capacity is physical and stays hard.
var overridableConstraints = map[string]bool{
	ports.ViolationValueClearance:       true,
	ports.ViolationTimeWindow:           true,
	ports.ViolationOperatorAvailability: true,
	ports.ViolationSLAFeasibility:       true,
}

func ConstraintOverridable(constraintType string) bool {
	return overridableConstraints[constraintType]
}

// Overlaps reports whether two half-open intervals [a.Start, a.End) and
// [b.Start, b.End) intersect. Touching endpoints do not overlap.
func Overlaps(a ports.Interval, b ports.Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

func within(t time.Time, start time.Time, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// ValidateSchedule runs every constraint check and reports violations as data.
// It never short-circuits: the caller gets the full list in one pass.
func (s Service) ValidateSchedule(ctx context.Context, shipment ports.ShipmentFacts, operator ports.OperatorFacts, schedule ports.Schedule) (ports.ValidationResult, error) {
	violations := make([]ports.Violation, 0, 4)

	if shipment.DeclaredValue > operator.MaxValueClearance {
		violations = append(violations, ports.Violation{
			ShipmentID:     shipment.ShipmentID,
			OperatorID:     operator.OperatorID,
			ConstraintType: ports.ViolationValueClearance,
			Severity:       ports.SeverityBlocking,
			Description: fmt.Sprintf("declared value %.2f exceeds operator clearance %.2f",
				shipment.DeclaredValue, operator.MaxValueClearance),
		})
	}

	if !shipment.SenderWindowStart.IsZero() && !within(schedule.PickupAt, shipment.SenderWindowStart, shipment.SenderWindowEnd) {
		violations = append(violations, ports.Violation{
			ShipmentID:     shipment.ShipmentID,
			OperatorID:     operator.OperatorID,
			ConstraintType: ports.ViolationTimeWindow,
			Severity:       ports.SeverityBlocking,
			Description: fmt.Sprintf("pickup %s outside sender window %s to %s (%s)",
				schedule.PickupAt.UTC().Format(time.RFC3339),
				shipment.SenderWindowStart.UTC().Format(time.RFC3339),
				shipment.SenderWindowEnd.UTC().Format(time.RFC3339),
				shipment.SenderTimezone),
		})
	}
	if !shipment.BuyerWindowStart.IsZero() && !within(schedule.DeliveryAt, shipment.BuyerWindowStart, shipment.BuyerWindowEnd) {
		violations = append(violations, ports.Violation{
			ShipmentID:     shipment.ShipmentID,
			OperatorID:     operator.OperatorID,
			ConstraintType: ports.ViolationTimeWindow,
			Severity:       ports.SeverityBlocking,
			Description: fmt.Sprintf("delivery %s outside buyer window %s to %s (%s)",
				schedule.DeliveryAt.UTC().Format(time.RFC3339),
				shipment.BuyerWindowStart.UTC().Format(time.RFC3339),
				shipment.BuyerWindowEnd.UTC().Format(time.RFC3339),
				shipment.BuyerTimezone),
		})
	}

	proposed := ports.Interval{Start: schedule.PickupAt, End: schedule.DeliveryAt}
	for _, conflict := range operator.CalendarConflicts {
		if Overlaps(proposed, conflict) {
			violations = append(violations, ports.Violation{
				ShipmentID:     shipment.ShipmentID,
				OperatorID:     operator.OperatorID,
				ConstraintType: ports.ViolationOperatorAvailability,
				Severity:       ports.SeverityBlocking,
				Description: fmt.Sprintf("operator calendar conflict %s to %s",
					conflict.Start.UTC().Format(time.RFC3339),
					conflict.End.UTC().Format(time.RFC3339)),
			})
			break
		}
	}

	if !shipment.SLADeadline.IsZero() && schedule.DeliveryAt.After(shipment.SLADeadline) {
		violations = append(violations, ports.Violation{
			ShipmentID:     shipment.ShipmentID,
			OperatorID:     operator.OperatorID,
			ConstraintType: ports.ViolationSLAFeasibility,
			Severity:       ports.SeverityBlocking,
			Description: fmt.Sprintf("scheduled delivery %s lands after SLA deadline %s",
				schedule.DeliveryAt.UTC().Format(time.RFC3339),
				shipment.SLADeadline.UTC().Format(time.RFC3339)),
		})
	}

	if shipment.TierLevel >= 2 && s.Capacity != nil {
		open, err := s.Capacity.HasOpenCapacity(ctx, shipment.HubLocation, schedule.HubDate, shipment.TierLevel, schedule.HubWindow, shipment.ShipmentID)
		if err != nil {
			return ports.ValidationResult{}, fmt.Errorf("checking hub capacity: %w", err)
		}
		if !open {
			violations = append(violations, ports.Violation{
				ShipmentID:     shipment.ShipmentID,
				OperatorID:     operator.OperatorID,
				ConstraintType: ports.ViolationHubCapacity,
				Severity:       ports.SeverityBlocking,
				Description: fmt.Sprintf("no open capacity at hub %s on %s window %s for tier %d",
					shipment.HubLocation, schedule.HubDate, schedule.HubWindow, shipment.TierLevel),
			})
		}
	}

	blocking := false
	for _, violation := range violations {
		if violation.Severity == ports.SeverityBlocking {
			blocking = true
			break
		}
	}
	return ports.ValidationResult{IsValid: !blocking, Violations: violations}, nil
}
