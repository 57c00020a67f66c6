package http

type OpenSourcingRequest struct {
	ShipmentID        string   `json:"shipment_id"`
	RequestedBy       string   `json:"requested_by"`
	SLATargetAt       string   `json:"sla_target_at"`
	RequiredCities    []string `json:"required_cities"`
	MinValueClearance float64  `json:"min_value_clearance"`
	MaxDistanceKM     float64  `json:"max_distance_km,omitempty"`
	UrgencyTier       int      `json:"urgency_tier,omitempty"`
	DeclaredValue     float64  `json:"declared_value,omitempty"`
	RequiredLanguage  string   `json:"required_language,omitempty"`
	PickupCity        string   `json:"pickup_city,omitempty"`
}

type SourcingRequestDTO struct {
	RequestID         string   `json:"request_id"`
	ShipmentID        string   `json:"shipment_id"`
	RequestedBy       string   `json:"requested_by"`
	Status            string   `json:"status"`
	PipelineState     string   `json:"pipeline_state"`
	SLATargetAt       string   `json:"sla_target_at"`
	RequiredCities    []string `json:"required_cities"`
	MinValueClearance float64  `json:"min_value_clearance"`
	Escalated         bool     `json:"escalated"`
	EscalationReason  string   `json:"escalation_reason,omitempty"`
	EscalationChannel string   `json:"escalation_channel,omitempty"`
	EscalatedAt       string   `json:"escalated_at,omitempty"`
	SLABand           string   `json:"sla_band"`
	SLALabel          string   `json:"sla_label"`
	AssignedLate      bool     `json:"assigned_late,omitempty"`
	OpenedAt          string   `json:"opened_at"`
	AssignedAt        string   `json:"assigned_at,omitempty"`
	TimeToAssignMS    int64    `json:"time_to_assign_ms,omitempty"`
}

type EscalateRequest struct {
	Reason  string `json:"reason"`
	Channel string `json:"channel"`
}

type CandidateReplyRequest struct {
	OperatorID        string   `json:"operator_id"`
	MaxValueClearance float64  `json:"max_value_clearance"`
	Languages         []string `json:"languages,omitempty"`
	AreaCoverage      []string `json:"area_coverage,omitempty"`
	Rating            float64  `json:"rating,omitempty"`
	SpecialSkills     []string `json:"special_skills,omitempty"`
	DistanceKM        float64  `json:"distance_km,omitempty"`
	ETAMinutes        int      `json:"eta_minutes,omitempty"`
}

type CandidateChecksDTO struct {
	Insurance string `json:"insurance"`
	Clearance string `json:"clearance"`
	Documents string `json:"documents"`
}

type ValidateCandidateRequest struct {
	Checks CandidateChecksDTO `json:"checks"`
}

type CandidateDTO struct {
	CandidateID string             `json:"candidate_id"`
	RequestID   string             `json:"request_id"`
	OperatorID  string             `json:"operator_id"`
	RespondedAt string             `json:"responded_at"`
	DistanceKM  float64            `json:"distance_km,omitempty"`
	ETAMinutes  int                `json:"eta_minutes,omitempty"`
	Checks      CandidateChecksDTO `json:"checks"`
	Score       int                `json:"compatibility_score"`
	Status      string             `json:"status"`
}
