package application

import (
	"context"
	"testing"
	"time"

	"aucta/contexts/wg-operations/assignment-desk/ports"
)

func interval(start time.Time, d time.Duration) ports.Interval {
	return ports.Interval{Start: start, End: start.Add(d)}
}

func TestOverlapsHalfOpen(t *testing.T) {
	base := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)
	a := interval(base, 2*time.Hour)

	if Overlaps(a, interval(base.Add(2*time.Hour), time.Hour)) {
		t.Fatalf("touching endpoints must not overlap")
	}
	if Overlaps(interval(base.Add(-time.Hour), time.Hour), a) {
		t.Fatalf("touching endpoints must not overlap")
	}
	if !Overlaps(a, interval(base.Add(time.Hour), 2*time.Hour)) {
		t.Fatalf("expected partial overlap")
	}
	if !Overlaps(a, interval(base.Add(30*time.Minute), time.Hour)) {
		t.Fatalf("expected containment overlap")
	}
}

func TestConstraintOverridable(t *testing.T) {
	for _, constraintType := range []string{
		ports.ViolationValueClearance,
		ports.ViolationTimeWindow,
		ports.ViolationOperatorAvailability,
		ports.ViolationSLAFeasibility,
	} {
		if !ConstraintOverridable(constraintType) {
			t.Fatalf("expected %s to be overridable", constraintType)
		}
	}
	if ConstraintOverridable(ports.ViolationHubCapacity) {
		t.Fatalf("hub capacity must never be overridable")
	}
}

func validatorFixtures() (ports.ShipmentFacts, ports.OperatorFacts, ports.Schedule) {
	shipment := ports.ShipmentFacts{
		ShipmentID:        "ship-1",
		DeclaredValue:     30000,
		TierLevel:         1,
		SLADeadline:       time.Date(2026, 3, 13, 18, 0, 0, 0, time.UTC),
		Status:            "pending_assignment",
		SenderWindowStart: time.Date(2026, 3, 12, 8, 0, 0, 0, time.UTC),
		SenderWindowEnd:   time.Date(2026, 3, 12, 12, 0, 0, 0, time.UTC),
		SenderTimezone:    "Europe/Paris",
		BuyerWindowStart:  time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC),
		BuyerWindowEnd:    time.Date(2026, 3, 12, 20, 0, 0, 0, time.UTC),
		BuyerTimezone:     "Europe/Paris",
	}
	operator := ports.OperatorFacts{
		OperatorID:        "op-1",
		MaxValueClearance: 100000,
	}
	schedule := ports.Schedule{
		PickupAt:    time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC),
		HubIntakeAt: time.Date(2026, 3, 12, 11, 0, 0, 0, time.UTC),
		DeliveryAt:  time.Date(2026, 3, 12, 15, 0, 0, 0, time.UTC),
	}
	return shipment, operator, schedule
}

func TestValidateScheduleCleanPass(t *testing.T) {
	shipment, operator, schedule := validatorFixtures()
	result, err := (Service{}).ValidateSchedule(context.Background(), shipment, operator, schedule)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !result.IsValid || len(result.Violations) != 0 {
		t.Fatalf("expected clean pass, got %+v", result.Violations)
	}
}

func TestValidateScheduleValueClearance(t *testing.T) {
	shipment, operator, schedule := validatorFixtures()
	shipment.DeclaredValue = 125000
	operator.MaxValueClearance = 100000

	result, err := (Service{}).ValidateSchedule(context.Background(), shipment, operator, schedule)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if result.IsValid {
		t.Fatalf("expected blocking result")
	}
	if len(result.Violations) != 1 || result.Violations[0].ConstraintType != ports.ViolationValueClearance {
		t.Fatalf("expected value_clearance violation, got %+v", result.Violations)
	}
	if result.Violations[0].Severity != ports.SeverityBlocking {
		t.Fatalf("expected blocking severity, got %s", result.Violations[0].Severity)
	}
}

func TestValidateScheduleWindowBoundsAreHalfOpen(t *testing.T) {
	shipment, operator, schedule := validatorFixtures()

	// Delivery exactly at the window end falls outside [start, end).
	schedule.DeliveryAt = shipment.BuyerWindowEnd
	result, err := (Service{}).ValidateSchedule(context.Background(), shipment, operator, schedule)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if result.IsValid || len(result.Violations) != 1 || result.Violations[0].ConstraintType != ports.ViolationTimeWindow {
		t.Fatalf("expected time_window violation at window end, got %+v", result.Violations)
	}

	// Pickup exactly at the window start is inside.
	schedule.DeliveryAt = time.Date(2026, 3, 12, 15, 0, 0, 0, time.UTC)
	schedule.PickupAt = shipment.SenderWindowStart
	result, err = (Service{}).ValidateSchedule(context.Background(), shipment, operator, schedule)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !result.IsValid {
		t.Fatalf("expected pickup at window start to pass, got %+v", result.Violations)
	}
}

func TestValidateScheduleCalendarConflict(t *testing.T) {
	shipment, operator, schedule := validatorFixtures()
	operator.CalendarConflicts = []ports.Interval{
		{Start: schedule.PickupAt.Add(time.Hour), End: schedule.PickupAt.Add(3 * time.Hour)},
	}

	result, err := (Service{}).ValidateSchedule(context.Background(), shipment, operator, schedule)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if result.IsValid || len(result.Violations) != 1 || result.Violations[0].ConstraintType != ports.ViolationOperatorAvailability {
		t.Fatalf("expected operator_availability violation, got %+v", result.Violations)
	}
}

func TestValidateScheduleSLAFeasibilityBlocks(t *testing.T) {
	shipment, operator, schedule := validatorFixtures()
	shipment.SLADeadline = schedule.DeliveryAt.Add(-3 * time.Hour)
	shipment.BuyerWindowEnd = schedule.DeliveryAt.Add(6 * time.Hour)

	result, err := (Service{}).ValidateSchedule(context.Background(), shipment, operator, schedule)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if result.IsValid {
		t.Fatalf("delivery past the SLA deadline must block, got %+v", result.Violations)
	}
	if len(result.Violations) != 1 || result.Violations[0].ConstraintType != ports.ViolationSLAFeasibility {
		t.Fatalf("expected sla_feasibility violation, got %+v", result.Violations)
	}
	if result.Violations[0].Severity != ports.SeverityBlocking {
		t.Fatalf("expected blocking severity, got %s", result.Violations[0].Severity)
	}
}

func TestValidateScheduleHubCapacityForTierTwo(t *testing.T) {
	shipment, operator, schedule := validatorFixtures()
	shipment.TierLevel = 2
	shipment.HubLocation = "paris-hub"
	schedule.HubDate = "2026-03-12"
	schedule.HubWindow = "09:00-13:00"

	service := Service{Capacity: fakeCapacity{open: false}}
	result, err := service.ValidateSchedule(context.Background(), shipment, operator, schedule)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if result.IsValid || len(result.Violations) != 1 || result.Violations[0].ConstraintType != ports.ViolationHubCapacity {
		t.Fatalf("expected hub_capacity violation, got %+v", result.Violations)
	}

	service = Service{Capacity: fakeCapacity{open: true}}
	result, err = service.ValidateSchedule(context.Background(), shipment, operator, schedule)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !result.IsValid {
		t.Fatalf("expected pass with open capacity, got %+v", result.Violations)
	}
}

func TestValidateScheduleCollectsEveryViolation(t *testing.T) {
	shipment, operator, schedule := validatorFixtures()
	shipment.DeclaredValue = 125000
	operator.MaxValueClearance = 100000
	operator.CalendarConflicts = []ports.Interval{
		{Start: schedule.PickupAt, End: schedule.DeliveryAt},
	}
	schedule.PickupAt = shipment.SenderWindowStart.Add(-time.Hour)

	result, err := (Service{}).ValidateSchedule(context.Background(), shipment, operator, schedule)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if len(result.Violations) != 3 {
		t.Fatalf("expected 3 violations in one pass, got %d", len(result.Violations))
	}
}
