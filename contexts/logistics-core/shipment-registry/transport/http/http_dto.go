package http

type PartyDTO struct {
	Name        string `json:"name"`
	City        string `json:"city,omitempty"`
	WindowStart string `json:"window_start"`
	WindowEnd   string `json:"window_end"`
	Timezone    string `json:"timezone,omitempty"`
}

type CreateShipmentRequest struct {
	ShipmentCode  string   `json:"shipment_code"`
	ProductName   string   `json:"product_name"`
	DeclaredValue float64  `json:"declared_value"`
	Currency      string   `json:"currency,omitempty"`
	TierLevel     int      `json:"tier_level"`
	HubLocation   string   `json:"hub_location,omitempty"`
	SLADeadline   string   `json:"sla_deadline"`
	Sender        PartyDTO `json:"sender"`
	Buyer         PartyDTO `json:"buyer"`
	CreatedBy     string   `json:"created_by,omitempty"`
}

type ShipmentDTO struct {
	ShipmentID    string   `json:"shipment_id"`
	ShipmentCode  string   `json:"shipment_code"`
	ProductName   string   `json:"product_name"`
	DeclaredValue float64  `json:"declared_value"`
	Currency      string   `json:"currency"`
	TierLevel     int      `json:"tier_level"`
	Status        string   `json:"status"`
	HubLocation   string   `json:"hub_location,omitempty"`
	SLADeadline   string   `json:"sla_deadline"`
	Sender        PartyDTO `json:"sender"`
	Buyer         PartyDTO `json:"buyer"`
	CreatedAt     string   `json:"created_at"`
}

type CreateOperatorRequest struct {
	FullName          string   `json:"full_name"`
	City              string   `json:"city,omitempty"`
	MaxValueClearance float64  `json:"max_value_clearance"`
	Languages         []string `json:"languages,omitempty"`
	AreaCoverage      []string `json:"area_coverage,omitempty"`
	Rating            float64  `json:"rating,omitempty"`
	SpecialSkills     []string `json:"special_skills,omitempty"`
	CreatedBy         string   `json:"created_by,omitempty"`
}

type OperatorDTO struct {
	OperatorID        string   `json:"operator_id"`
	FullName          string   `json:"full_name"`
	City              string   `json:"city,omitempty"`
	MaxValueClearance float64  `json:"max_value_clearance"`
	Languages         []string `json:"languages,omitempty"`
	AreaCoverage      []string `json:"area_coverage,omitempty"`
	Rating            float64  `json:"rating,omitempty"`
	SpecialSkills     []string `json:"special_skills,omitempty"`
	Active            bool     `json:"active"`
	CreatedAt         string   `json:"created_at"`
}
