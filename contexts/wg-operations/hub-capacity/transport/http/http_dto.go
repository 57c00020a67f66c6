package http

type CapacitySlotDTO struct {
	SlotID            string `json:"slot_id"`
	HubLocation       string `json:"hub_location"`
	Date              string `json:"date"`
	TierLevel         int    `json:"tier_level"`
	TimeWindow        string `json:"time_window"`
	MaxCapacity       int    `json:"max_capacity"`
	CurrentBookings   int    `json:"current_bookings"`
	HeldUntil         string `json:"held_until,omitempty"`
	HeldForShipmentID string `json:"held_for_shipment_id,omitempty"`
}

type ListSlotsRequest struct {
	HubLocation string
	Date        string
	TierLevel   int
}

type HoldSlotRequest struct {
	ShipmentID          string `json:"shipment_id"`
	HoldDurationMinutes int    `json:"hold_duration_minutes,omitempty"`
}

type ConfirmHoldRequest struct {
	ShipmentID string `json:"shipment_id"`
}

type CreateSlotRequest struct {
	HubLocation string `json:"hub_location"`
	Date        string `json:"date"`
	TierLevel   int    `json:"tier_level"`
	TimeWindow  string `json:"time_window"`
	MaxCapacity int    `json:"max_capacity"`
}
