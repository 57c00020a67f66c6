package http

type ScheduleDTO struct {
	PickupAt    string `json:"pickup_at"`
	HubIntakeAt string `json:"hub_intake_at"`
	DeliveryAt  string `json:"delivery_at"`
	HubDate     string `json:"hub_date,omitempty"`
	HubWindow   string `json:"hub_window,omitempty"`
	HubSlotID   string `json:"hub_slot_id,omitempty"`
}

type FinalizeAssignmentRequest struct {
	ShipmentID     string      `json:"shipment_id"`
	OperatorID     string      `json:"operator_id"`
	AssignedBy     string      `json:"assigned_by"`
	Schedule       ScheduleDTO `json:"schedule"`
	Override       bool        `json:"override,omitempty"`
	OverrideReason string      `json:"override_reason,omitempty"`
}

type ValidateScheduleRequest struct {
	ShipmentID string      `json:"shipment_id"`
	OperatorID string      `json:"operator_id"`
	Schedule   ScheduleDTO `json:"schedule"`
}

type ViolationDTO struct {
	ViolationID      string `json:"violation_id,omitempty"`
	ShipmentID       string `json:"shipment_id"`
	OperatorID       string `json:"operator_id,omitempty"`
	ConstraintType   string `json:"constraint_type"`
	Description      string `json:"description,omitempty"`
	Severity         string `json:"severity"`
	ResolutionAction string `json:"resolution_action,omitempty"`
	IsOverride       bool   `json:"is_override"`
	OverrideReason   string `json:"override_reason,omitempty"`
	OverriddenBy     string `json:"overridden_by,omitempty"`
	CreatedAt        string `json:"created_at,omitempty"`
}

type ValidationResultDTO struct {
	IsValid    bool           `json:"is_valid"`
	Violations []ViolationDTO `json:"violations"`
}

type AssignmentDTO struct {
	AssignmentID string `json:"assignment_id"`
	ShipmentID   string `json:"shipment_id"`
	OperatorID   string `json:"operator_id"`
	AssignedBy   string `json:"assigned_by"`
	Status       string `json:"status"`

	PickupAt    string `json:"pickup_at"`
	HubIntakeAt string `json:"hub_intake_at"`
	DeliveryAt  string `json:"delivery_at"`

	ActualPickupAt    string `json:"actual_pickup_at,omitempty"`
	ActualHubIntakeAt string `json:"actual_hub_intake_at,omitempty"`
	ActualDeliveryAt  string `json:"actual_delivery_at,omitempty"`

	PickupOTP    string `json:"pickup_otp"`
	HubIntakeOTP string `json:"hub_intake_otp"`
	DeliveryOTP  string `json:"delivery_otp"`
	SealID       string `json:"seal_id,omitempty"`

	HubSlotID string `json:"hub_slot_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

type FinalizeAssignmentResponse struct {
	Assignment AssignmentDTO  `json:"assignment"`
	Violations []ViolationDTO `json:"violations,omitempty"`
}

type RecordViolationRequest struct {
	ShipmentID     string `json:"shipment_id"`
	OperatorID     string `json:"operator_id,omitempty"`
	ConstraintType string `json:"constraint_type"`
	Description    string `json:"description,omitempty"`
	Severity       string `json:"severity"`
	IsOverride     bool   `json:"is_override,omitempty"`
	OverrideReason string `json:"override_reason,omitempty"`
	OverriddenBy   string `json:"overridden_by,omitempty"`
}

type UpdateAssignmentStatusRequest struct {
	Status  string `json:"status"`
	ActorID string `json:"actor_id,omitempty"`
}
