package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainerrors "aucta/contexts/logistics-core/shipment-registry/domain/errors"
	"aucta/contexts/logistics-core/shipment-registry/ports"
)

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Audit  ports.AuditSink
	Logger *slog.Logger
}

// CreateShipment registers a consignment and opens it for sourcing. Tier 2
// and above require a hub routing, and both handover windows must be valid
// in their declared timezones.
func (s Service) CreateShipment(ctx context.Context, input ports.CreateShipmentInput, actorID string) (ports.Shipment, error) {
	if strings.TrimSpace(input.ShipmentCode) == "" || strings.TrimSpace(input.ProductName) == "" ||
		input.DeclaredValue <= 0 || input.TierLevel < 1 || input.TierLevel > 3 ||
		strings.TrimSpace(input.SenderName) == "" || strings.TrimSpace(input.BuyerName) == "" ||
		input.SLADeadline.IsZero() {
		return ports.Shipment{}, domainerrors.ErrInvalidInput
	}
	if input.TierLevel >= 2 && strings.TrimSpace(input.HubLocation) == "" {
		return ports.Shipment{}, domainerrors.ErrInvalidInput
	}
	if err := validateWindow(input.SenderWindowStart, input.SenderWindowEnd, input.SenderTimezone); err != nil {
		return ports.Shipment{}, err
	}
	if err := validateWindow(input.BuyerWindowStart, input.BuyerWindowEnd, input.BuyerTimezone); err != nil {
		return ports.Shipment{}, err
	}

	shipmentID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.Shipment{}, err
	}
	shipment := ports.Shipment{
		ShipmentID:        strings.TrimSpace(shipmentID),
		ShipmentCode:      strings.TrimSpace(input.ShipmentCode),
		ProductName:       strings.TrimSpace(input.ProductName),
		DeclaredValue:     input.DeclaredValue,
		Currency:          normalizeCurrency(input.Currency),
		TierLevel:         input.TierLevel,
		Status:            ports.ShipmentStatusPendingAssignment,
		HubLocation:       strings.TrimSpace(input.HubLocation),
		SLADeadline:       input.SLADeadline.UTC(),
		SenderName:        strings.TrimSpace(input.SenderName),
		SenderCity:        strings.TrimSpace(input.SenderCity),
		SenderWindowStart: input.SenderWindowStart.UTC(),
		SenderWindowEnd:   input.SenderWindowEnd.UTC(),
		SenderTimezone:    strings.TrimSpace(input.SenderTimezone),
		BuyerName:         strings.TrimSpace(input.BuyerName),
		BuyerCity:         strings.TrimSpace(input.BuyerCity),
		BuyerWindowStart:  input.BuyerWindowStart.UTC(),
		BuyerWindowEnd:    input.BuyerWindowEnd.UTC(),
		BuyerTimezone:     strings.TrimSpace(input.BuyerTimezone),
		CreatedAt:         s.now(),
	}
	if err := s.Repo.CreateShipment(ctx, shipment); err != nil {
		return ports.Shipment{}, err
	}

	s.audit(ctx, "shipment_created", actorID, "shipment:"+shipment.ShipmentID, map[string]any{
		"declared_value": shipment.DeclaredValue,
		"tier_level":     shipment.TierLevel,
	})
	ResolveLogger(s.Logger).Info("shipment created",
		"event", "shipment_created",
		"module", "logistics-core/shipment-registry",
		"layer", "application",
		"shipment_id", shipment.ShipmentID,
		"tier_level", shipment.TierLevel,
	)
	return shipment, nil
}

func (s Service) GetShipment(ctx context.Context, shipmentID string) (ports.Shipment, error) {
	shipmentID = strings.TrimSpace(shipmentID)
	if shipmentID == "" {
		return ports.Shipment{}, domainerrors.ErrInvalidInput
	}
	return s.Repo.GetShipment(ctx, shipmentID)
}

func (s Service) ListShipments(ctx context.Context, status string) ([]ports.Shipment, error) {
	return s.Repo.ListShipments(ctx, strings.TrimSpace(status))
}

func (s Service) CreateOperator(ctx context.Context, input ports.CreateOperatorInput, actorID string) (ports.Operator, error) {
	if strings.TrimSpace(input.FullName) == "" || input.MaxValueClearance < 0 {
		return ports.Operator{}, domainerrors.ErrInvalidInput
	}

	operatorID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.Operator{}, err
	}
	operator := ports.Operator{
		OperatorID:        strings.TrimSpace(operatorID),
		FullName:          strings.TrimSpace(input.FullName),
		City:              strings.TrimSpace(input.City),
		MaxValueClearance: input.MaxValueClearance,
		Languages:         input.Languages,
		AreaCoverage:      input.AreaCoverage,
		Rating:            input.Rating,
		SpecialSkills:     input.SpecialSkills,
		Active:            true,
		CreatedAt:         s.now(),
	}
	if err := s.Repo.CreateOperator(ctx, operator); err != nil {
		return ports.Operator{}, err
	}

	s.audit(ctx, "operator_registered", actorID, "operator:"+operator.OperatorID, map[string]any{
		"city":                operator.City,
		"max_value_clearance": operator.MaxValueClearance,
	})
	return operator, nil
}

func (s Service) GetOperator(ctx context.Context, operatorID string) (ports.Operator, error) {
	operatorID = strings.TrimSpace(operatorID)
	if operatorID == "" {
		return ports.Operator{}, domainerrors.ErrInvalidInput
	}
	return s.Repo.GetOperator(ctx, operatorID)
}

func (s Service) ListOperators(ctx context.Context, filter ports.OperatorFilter) ([]ports.Operator, error) {
	return s.Repo.ListOperators(ctx, filter)
}

func validateWindow(start time.Time, end time.Time, timezone string) error {
	if start.IsZero() || end.IsZero() {
		return domainerrors.ErrInvalidInput
	}
	if !start.Before(end) {
		return domainerrors.ErrInvalidWindow
	}
	if timezone != "" {
		if _, err := time.LoadLocation(timezone); err != nil {
			return domainerrors.ErrInvalidTimezone
		}
	}
	return nil
}

func normalizeCurrency(currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return "EUR"
	}
	return currency
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
			"event", "registry_audit_failed",
			"module", "logistics-core/shipment-registry",
			"layer", "application",
			"action_type", actionType,
			"error", err.Error(),
		)
	}
}
