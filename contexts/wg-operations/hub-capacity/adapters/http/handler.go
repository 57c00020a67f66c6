package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"aucta/contexts/wg-operations/hub-capacity/application"
	"aucta/contexts/wg-operations/hub-capacity/ports"
	httptransport "aucta/contexts/wg-operations/hub-capacity/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) ListSlotsHandler(ctx context.Context, req httptransport.ListSlotsRequest) ([]httptransport.CapacitySlotDTO, error) {
	slots, err := h.Service.ListAvailableSlots(ctx, ports.SlotFilter{
		HubLocation: req.HubLocation,
		Date:        req.Date,
		TierLevel:   req.TierLevel,
	})
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.CapacitySlotDTO, 0, len(slots))
	for _, slot := range slots {
		items = append(items, toDTO(slot))
	}
	return items, nil
}

func (h Handler) HoldSlotHandler(ctx context.Context, slotID string, req httptransport.HoldSlotRequest) (httptransport.CapacitySlotDTO, error) {
	ttl := time.Duration(req.HoldDurationMinutes) * time.Minute
	slot, err := h.Service.Hold(ctx, slotID, req.ShipmentID, ttl)
	if err != nil {
		return httptransport.CapacitySlotDTO{}, err
	}
	return toDTO(slot), nil
}

func (h Handler) ReleaseSlotHandler(ctx context.Context, slotID string) error {
	return h.Service.Release(ctx, slotID)
}

func (h Handler) ConfirmHoldHandler(ctx context.Context, slotID string, req httptransport.ConfirmHoldRequest) error {
	return h.Service.ConfirmHold(ctx, slotID, req.ShipmentID)
}

func (h Handler) CreateSlotHandler(ctx context.Context, req httptransport.CreateSlotRequest) (httptransport.CapacitySlotDTO, error) {
	slot, err := h.Service.CreateSlot(ctx, ports.CreateSlotInput{
		HubLocation: req.HubLocation,
		Date:        req.Date,
		TierLevel:   req.TierLevel,
		TimeWindow:  req.TimeWindow,
		MaxCapacity: req.MaxCapacity,
	})
	if err != nil {
		return httptransport.CapacitySlotDTO{}, err
	}
	return toDTO(slot), nil
}

func toDTO(slot ports.CapacitySlot) httptransport.CapacitySlotDTO {
	dto := httptransport.CapacitySlotDTO{
		SlotID:            slot.SlotID,
		HubLocation:       slot.HubLocation,
		Date:              slot.Date,
		TierLevel:         slot.TierLevel,
		TimeWindow:        slot.TimeWindow,
		MaxCapacity:       slot.MaxCapacity,
		CurrentBookings:   slot.CurrentBookings,
		HeldForShipmentID: slot.HeldForShipmentID,
	}
	if slot.HeldUntil != nil {
		dto.HeldUntil = slot.HeldUntil.UTC().Format(time.RFC3339)
	}
	return dto
}
