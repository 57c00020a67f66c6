package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"aucta/contexts/logistics-core/shipment-registry/application"
	domainerrors "aucta/contexts/logistics-core/shipment-registry/domain/errors"
	"aucta/contexts/logistics-core/shipment-registry/ports"
	httptransport "aucta/contexts/logistics-core/shipment-registry/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateShipmentHandler(ctx context.Context, req httptransport.CreateShipmentRequest) (httptransport.ShipmentDTO, error) {
	slaDeadline, err := time.Parse(time.RFC3339, req.SLADeadline)
	if err != nil {
		return httptransport.ShipmentDTO{}, domainerrors.ErrInvalidInput
	}
	senderStart, senderEnd, err := parseWindow(req.Sender)
	if err != nil {
		return httptransport.ShipmentDTO{}, err
	}
	buyerStart, buyerEnd, err := parseWindow(req.Buyer)
	if err != nil {
		return httptransport.ShipmentDTO{}, err
	}

	shipment, err := h.Service.CreateShipment(ctx, ports.CreateShipmentInput{
		ShipmentCode:      req.ShipmentCode,
		ProductName:       req.ProductName,
		DeclaredValue:     req.DeclaredValue,
		Currency:          req.Currency,
		TierLevel:         req.TierLevel,
		HubLocation:       req.HubLocation,
		SLADeadline:       slaDeadline,
		SenderName:        req.Sender.Name,
		SenderCity:        req.Sender.City,
		SenderWindowStart: senderStart,
		SenderWindowEnd:   senderEnd,
		SenderTimezone:    req.Sender.Timezone,
		BuyerName:         req.Buyer.Name,
		BuyerCity:         req.Buyer.City,
		BuyerWindowStart:  buyerStart,
		BuyerWindowEnd:    buyerEnd,
		BuyerTimezone:     req.Buyer.Timezone,
	}, req.CreatedBy)
	if err != nil {
		return httptransport.ShipmentDTO{}, err
	}
	return toShipmentDTO(shipment), nil
}

func (h Handler) GetShipmentHandler(ctx context.Context, shipmentID string) (httptransport.ShipmentDTO, error) {
	shipment, err := h.Service.GetShipment(ctx, shipmentID)
	if err != nil {
		return httptransport.ShipmentDTO{}, err
	}
	return toShipmentDTO(shipment), nil
}

func (h Handler) ListShipmentsHandler(ctx context.Context, status string) ([]httptransport.ShipmentDTO, error) {
	shipments, err := h.Service.ListShipments(ctx, status)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.ShipmentDTO, 0, len(shipments))
	for _, shipment := range shipments {
		items = append(items, toShipmentDTO(shipment))
	}
	return items, nil
}

func (h Handler) CreateOperatorHandler(ctx context.Context, req httptransport.CreateOperatorRequest) (httptransport.OperatorDTO, error) {
	operator, err := h.Service.CreateOperator(ctx, ports.CreateOperatorInput{
		FullName:          req.FullName,
		City:              req.City,
		MaxValueClearance: req.MaxValueClearance,
		Languages:         req.Languages,
		AreaCoverage:      req.AreaCoverage,
		Rating:            req.Rating,
		SpecialSkills:     req.SpecialSkills,
	}, req.CreatedBy)
	if err != nil {
		return httptransport.OperatorDTO{}, err
	}
	return toOperatorDTO(operator), nil
}

func (h Handler) GetOperatorHandler(ctx context.Context, operatorID string) (httptransport.OperatorDTO, error) {
	operator, err := h.Service.GetOperator(ctx, operatorID)
	if err != nil {
		return httptransport.OperatorDTO{}, err
	}
	return toOperatorDTO(operator), nil
}

func (h Handler) ListOperatorsHandler(ctx context.Context, filter ports.OperatorFilter) ([]httptransport.OperatorDTO, error) {
	operators, err := h.Service.ListOperators(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.OperatorDTO, 0, len(operators))
	for _, operator := range operators {
		items = append(items, toOperatorDTO(operator))
	}
	return items, nil
}

func parseWindow(party httptransport.PartyDTO) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, party.WindowStart)
	if err != nil {
		return time.Time{}, time.Time{}, domainerrors.ErrInvalidInput
	}
	end, err := time.Parse(time.RFC3339, party.WindowEnd)
	if err != nil {
		return time.Time{}, time.Time{}, domainerrors.ErrInvalidInput
	}
	return start, end, nil
}

func toShipmentDTO(shipment ports.Shipment) httptransport.ShipmentDTO {
	return httptransport.ShipmentDTO{
		ShipmentID:    shipment.ShipmentID,
		ShipmentCode:  shipment.ShipmentCode,
		ProductName:   shipment.ProductName,
		DeclaredValue: shipment.DeclaredValue,
		Currency:      shipment.Currency,
		TierLevel:     shipment.TierLevel,
		Status:        shipment.Status,
		HubLocation:   shipment.HubLocation,
		SLADeadline:   shipment.SLADeadline.UTC().Format(time.RFC3339),
		Sender: httptransport.PartyDTO{
			Name:        shipment.SenderName,
			City:        shipment.SenderCity,
			WindowStart: shipment.SenderWindowStart.UTC().Format(time.RFC3339),
			WindowEnd:   shipment.SenderWindowEnd.UTC().Format(time.RFC3339),
			Timezone:    shipment.SenderTimezone,
		},
		Buyer: httptransport.PartyDTO{
			Name:        shipment.BuyerName,
			City:        shipment.BuyerCity,
			WindowStart: shipment.BuyerWindowStart.UTC().Format(time.RFC3339),
			WindowEnd:   shipment.BuyerWindowEnd.UTC().Format(time.RFC3339),
			Timezone:    shipment.BuyerTimezone,
		},
		CreatedAt: shipment.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toOperatorDTO(operator ports.Operator) httptransport.OperatorDTO {
	return httptransport.OperatorDTO{
		OperatorID:        operator.OperatorID,
		FullName:          operator.FullName,
		City:              operator.City,
		MaxValueClearance: operator.MaxValueClearance,
		Languages:         operator.Languages,
		AreaCoverage:      operator.AreaCoverage,
		Rating:            operator.Rating,
		SpecialSkills:     operator.SpecialSkills,
		Active:            operator.Active,
		CreatedAt:         operator.CreatedAt.UTC().Format(time.RFC3339),
	}
}
