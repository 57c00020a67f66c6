package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	domainerrors "aucta/contexts/wg-operations/sourcing-engine/domain/errors"
	"aucta/contexts/wg-operations/sourcing-engine/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

type requestModel struct {
	RequestID         string `gorm:"primaryKey;column:request_id"`
	ShipmentID        string `gorm:"column:shipment_id;index"`
	RequestedBy       string `gorm:"column:requested_by"`
	Status            string `gorm:"column:status"`
	PipelineState     string `gorm:"column:pipeline_state"`
	SLATargetAt       time.Time
	RequiredCities    string  `gorm:"column:required_cities"` // json array
	MinValueClearance float64 `gorm:"column:min_value_clearance"`
	MaxDistanceKM     float64 `gorm:"column:max_distance_km"`
	UrgencyTier       int     `gorm:"column:urgency_tier"`
	DeclaredValue     float64 `gorm:"column:declared_value"`
	RequiredLanguage  string  `gorm:"column:required_language"`
	PickupCity        string  `gorm:"column:pickup_city"`
	Escalated         bool
	EscalationReason  string `gorm:"column:escalation_reason"`
	EscalationChannel string `gorm:"column:escalation_channel"`
	EscalatedAt       *time.Time
	AssignedLate      bool `gorm:"column:assigned_late"`
	OpenedAt          time.Time
	AssignedAt        *time.Time
	TimeToAssignMS    int64 `gorm:"column:time_to_assign_ms"`
}

func (requestModel) TableName() string { return "sourcing_requests" }

type candidateModel struct {
	CandidateID       string `gorm:"primaryKey;column:candidate_id"`
	RequestID         string `gorm:"column:request_id;index"`
	OperatorID        string `gorm:"column:operator_id"`
	MaxValueClearance float64 `gorm:"column:max_value_clearance"`
	Languages         string  `gorm:"column:languages"`      // json array
	AreaCoverage      string  `gorm:"column:area_coverage"`  // json array
	Rating            float64
	SpecialSkills     string `gorm:"column:special_skills"` // json array
	RespondedAt       time.Time
	DistanceKM        float64 `gorm:"column:distance_km"`
	ETAMinutes        int     `gorm:"column:eta_minutes"`
	InsuranceCheck    string  `gorm:"column:insurance_check"`
	ClearanceCheck    string  `gorm:"column:clearance_check"`
	DocumentsCheck    string  `gorm:"column:documents_check"`
	Score             int
	Status            string
}

func (candidateModel) TableName() string { return "sourcing_candidates" }

type outboxModel struct {
	OutboxID     string `gorm:"primaryKey;column:outbox_id"`
	EventType    string `gorm:"column:event_type"`
	PartitionKey string `gorm:"column:partition_key"`
	Payload      []byte
	Status       string
	CreatedAt    time.Time
	PublishedAt  *time.Time
}

func (outboxModel) TableName() string { return "sourcing_outbox" }

func (r *Repository) CreateRequest(ctx context.Context, request ports.SourcingRequest) error {
	row, err := toRequestModel(request)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetRequest(ctx context.Context, requestID string) (ports.SourcingRequest, error) {
	var row requestModel
	err := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.SourcingRequest{}, domainerrors.ErrRequestNotFound
		}
		return ports.SourcingRequest{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetOpenRequestByShipment(ctx context.Context, shipmentID string) (ports.SourcingRequest, bool, error) {
	var row requestModel
	err := r.db.WithContext(ctx).
		Where("shipment_id = ? AND status <> ?", shipmentID, ports.RequestStatusAssigned).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.SourcingRequest{}, false, nil
		}
		return ports.SourcingRequest{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) UpdateRequest(ctx context.Context, request ports.SourcingRequest) error {
	row, err := toRequestModel(request)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&requestModel{}).
		Where("request_id = ?", request.RequestID).
		Updates(map[string]any{
			"status":             row.Status,
			"pipeline_state":     row.PipelineState,
			"escalated":          row.Escalated,
			"escalation_reason":  row.EscalationReason,
			"escalation_channel": row.EscalationChannel,
			"escalated_at":       row.EscalatedAt,
			"assigned_late":      row.AssignedLate,
			"assigned_at":        row.AssignedAt,
			"time_to_assign_ms":  row.TimeToAssignMS,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRequestNotFound
	}
	return nil
}

func (r *Repository) ListOpenRequests(ctx context.Context) ([]ports.SourcingRequest, error) {
	var rows []requestModel
	err := r.db.WithContext(ctx).
		Where("status <> ?", ports.RequestStatusAssigned).
		Order("opened_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]ports.SourcingRequest, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) AddCandidate(ctx context.Context, candidate ports.Candidate) error {
	row, err := toCandidateModel(candidate)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetCandidate(ctx context.Context, requestID string, candidateID string) (ports.Candidate, error) {
	var row candidateModel
	err := r.db.WithContext(ctx).
		Where("request_id = ? AND candidate_id = ?", requestID, candidateID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Candidate{}, domainerrors.ErrCandidateNotFound
		}
		return ports.Candidate{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCandidates(ctx context.Context, requestID string) ([]ports.Candidate, error) {
	var rows []candidateModel
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("responded_at ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]ports.Candidate, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) UpdateCandidate(ctx context.Context, candidate ports.Candidate) error {
	row, err := toCandidateModel(candidate)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&candidateModel{}).
		Where("candidate_id = ?", candidate.CandidateID).
		Updates(map[string]any{
			"insurance_check": row.InsuranceCheck,
			"clearance_check": row.ClearanceCheck,
			"documents_check": row.DocumentsCheck,
			"status":          row.Status,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCandidateNotFound
	}
	return nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		Status:       "pending",
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", "pending").
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt,
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	ts := publishedAt.UTC()
	return r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Updates(map[string]any{"status": "published", "published_at": &ts}).
		Error
}

func toRequestModel(request ports.SourcingRequest) (requestModel, error) {
	cities, err := json.Marshal(request.RequiredCities)
	if err != nil {
		return requestModel{}, err
	}
	return requestModel{
		RequestID:         request.RequestID,
		ShipmentID:        request.ShipmentID,
		RequestedBy:       request.RequestedBy,
		Status:            request.Status,
		PipelineState:     request.PipelineState,
		SLATargetAt:       request.SLATargetAt,
		RequiredCities:    string(cities),
		MinValueClearance: request.MinValueClearance,
		MaxDistanceKM:     request.MaxDistanceKM,
		UrgencyTier:       request.UrgencyTier,
		DeclaredValue:     request.DeclaredValue,
		RequiredLanguage:  request.RequiredLanguage,
		PickupCity:        request.PickupCity,
		Escalated:         request.Escalated,
		EscalationReason:  request.EscalationReason,
		EscalationChannel: request.EscalationChannel,
		EscalatedAt:       request.EscalatedAt,
		AssignedLate:      request.AssignedLate,
		OpenedAt:          request.OpenedAt,
		AssignedAt:        request.AssignedAt,
		TimeToAssignMS:    request.TimeToAssignMS,
	}, nil
}

func (m requestModel) toEntity() ports.SourcingRequest {
	var cities []string
	_ = json.Unmarshal([]byte(m.RequiredCities), &cities)
	return ports.SourcingRequest{
		RequestID:         m.RequestID,
		ShipmentID:        m.ShipmentID,
		RequestedBy:       m.RequestedBy,
		Status:            m.Status,
		PipelineState:     m.PipelineState,
		SLATargetAt:       m.SLATargetAt,
		RequiredCities:    cities,
		MinValueClearance: m.MinValueClearance,
		MaxDistanceKM:     m.MaxDistanceKM,
		UrgencyTier:       m.UrgencyTier,
		DeclaredValue:     m.DeclaredValue,
		RequiredLanguage:  m.RequiredLanguage,
		PickupCity:        m.PickupCity,
		Escalated:         m.Escalated,
		EscalationReason:  m.EscalationReason,
		EscalationChannel: m.EscalationChannel,
		EscalatedAt:       m.EscalatedAt,
		AssignedLate:      m.AssignedLate,
		OpenedAt:          m.OpenedAt,
		AssignedAt:        m.AssignedAt,
		TimeToAssignMS:    m.TimeToAssignMS,
	}
}

func toCandidateModel(candidate ports.Candidate) (candidateModel, error) {
	languages, err := json.Marshal(candidate.Profile.Languages)
	if err != nil {
		return candidateModel{}, err
	}
	coverage, err := json.Marshal(candidate.Profile.AreaCoverage)
	if err != nil {
		return candidateModel{}, err
	}
	skills, err := json.Marshal(candidate.Profile.SpecialSkills)
	if err != nil {
		return candidateModel{}, err
	}
	return candidateModel{
		CandidateID:       candidate.CandidateID,
		RequestID:         candidate.RequestID,
		OperatorID:        candidate.Profile.OperatorID,
		MaxValueClearance: candidate.Profile.MaxValueClearance,
		Languages:         string(languages),
		AreaCoverage:      string(coverage),
		Rating:            candidate.Profile.Rating,
		SpecialSkills:     string(skills),
		RespondedAt:       candidate.RespondedAt,
		DistanceKM:        candidate.DistanceKM,
		ETAMinutes:        candidate.ETAMinutes,
		InsuranceCheck:    candidate.Checks.Insurance,
		ClearanceCheck:    candidate.Checks.Clearance,
		DocumentsCheck:    candidate.Checks.Documents,
		Score:             candidate.Score,
		Status:            candidate.Status,
	}, nil
}

func (m candidateModel) toEntity() ports.Candidate {
	var languages, coverage, skills []string
	_ = json.Unmarshal([]byte(m.Languages), &languages)
	_ = json.Unmarshal([]byte(m.AreaCoverage), &coverage)
	_ = json.Unmarshal([]byte(m.SpecialSkills), &skills)
	return ports.Candidate{
		CandidateID: m.CandidateID,
		RequestID:   m.RequestID,
		Profile: ports.CandidateProfile{
			OperatorID:        m.OperatorID,
			MaxValueClearance: m.MaxValueClearance,
			Languages:         languages,
			AreaCoverage:      coverage,
			Rating:            m.Rating,
			SpecialSkills:     skills,
		},
		RespondedAt: m.RespondedAt,
		DistanceKM:  m.DistanceKM,
		ETAMinutes:  m.ETAMinutes,
		Checks: ports.CandidateChecks{
			Insurance: m.InsuranceCheck,
			Clearance: m.ClearanceCheck,
			Documents: m.DocumentsCheck,
		},
		Score:  m.Score,
		Status: m.Status,
	}
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
