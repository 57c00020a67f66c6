package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "aucta/contexts/logistics-core/shipment-registry/domain/errors"
	"aucta/contexts/logistics-core/shipment-registry/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
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

type shipmentModel struct {
	ShipmentID    string    `gorm:"primaryKey;column:shipment_id"`
	ShipmentCode  string    `gorm:"column:shipment_code;uniqueIndex"`
	ProductName   string    `gorm:"column:product_name"`
	DeclaredValue float64   `gorm:"column:declared_value"`
	Currency      string    `gorm:"column:currency"`
	TierLevel     int       `gorm:"column:tier_level"`
	Status        string    `gorm:"column:status;index"`
	HubLocation   string    `gorm:"column:hub_location"`
	SLADeadline   time.Time `gorm:"column:sla_deadline"`

	SenderName        string    `gorm:"column:sender_name"`
	SenderCity        string    `gorm:"column:sender_city"`
	SenderWindowStart time.Time `gorm:"column:sender_window_start"`
	SenderWindowEnd   time.Time `gorm:"column:sender_window_end"`
	SenderTimezone    string    `gorm:"column:sender_timezone"`

	BuyerName        string    `gorm:"column:buyer_name"`
	BuyerCity        string    `gorm:"column:buyer_city"`
	BuyerWindowStart time.Time `gorm:"column:buyer_window_start"`
	BuyerWindowEnd   time.Time `gorm:"column:buyer_window_end"`
	BuyerTimezone    string    `gorm:"column:buyer_timezone"`

	CreatedAt time.Time `gorm:"column:created_at"`
}

func (shipmentModel) TableName() string { return "shipments" }

func (m shipmentModel) toEntity() ports.Shipment {
	return ports.Shipment{
		ShipmentID:        m.ShipmentID,
		ShipmentCode:      m.ShipmentCode,
		ProductName:       m.ProductName,
		DeclaredValue:     m.DeclaredValue,
		Currency:          m.Currency,
		TierLevel:         m.TierLevel,
		Status:            m.Status,
		HubLocation:       m.HubLocation,
		SLADeadline:       m.SLADeadline,
		SenderName:        m.SenderName,
		SenderCity:        m.SenderCity,
		SenderWindowStart: m.SenderWindowStart,
		SenderWindowEnd:   m.SenderWindowEnd,
		SenderTimezone:    m.SenderTimezone,
		BuyerName:         m.BuyerName,
		BuyerCity:         m.BuyerCity,
		BuyerWindowStart:  m.BuyerWindowStart,
		BuyerWindowEnd:    m.BuyerWindowEnd,
		BuyerTimezone:     m.BuyerTimezone,
		CreatedAt:         m.CreatedAt,
	}
}

type operatorModel struct {
	OperatorID        string  `gorm:"primaryKey;column:operator_id"`
	FullName          string  `gorm:"column:full_name"`
	City              string  `gorm:"column:city"`
	MaxValueClearance float64 `gorm:"column:max_value_clearance"`
	Languages         string  `gorm:"column:languages"`      // json array
	AreaCoverage      string  `gorm:"column:area_coverage"`  // json array
	Rating            float64 `gorm:"column:rating"`
	SpecialSkills     string  `gorm:"column:special_skills"` // json array
	Active            bool    `gorm:"column:active"`
	CreatedAt         time.Time `gorm:"column:created_at"`
}

func (operatorModel) TableName() string { return "wg_operators" }

func (r *Repository) CreateShipment(ctx context.Context, shipment ports.Shipment) error {
	row := shipmentModel{
		ShipmentID:        shipment.ShipmentID,
		ShipmentCode:      shipment.ShipmentCode,
		ProductName:       shipment.ProductName,
		DeclaredValue:     shipment.DeclaredValue,
		Currency:          shipment.Currency,
		TierLevel:         shipment.TierLevel,
		Status:            shipment.Status,
		HubLocation:       shipment.HubLocation,
		SLADeadline:       shipment.SLADeadline,
		SenderName:        shipment.SenderName,
		SenderCity:        shipment.SenderCity,
		SenderWindowStart: shipment.SenderWindowStart,
		SenderWindowEnd:   shipment.SenderWindowEnd,
		SenderTimezone:    shipment.SenderTimezone,
		BuyerName:         shipment.BuyerName,
		BuyerCity:         shipment.BuyerCity,
		BuyerWindowStart:  shipment.BuyerWindowStart,
		BuyerWindowEnd:    shipment.BuyerWindowEnd,
		BuyerTimezone:     shipment.BuyerTimezone,
		CreatedAt:         shipment.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domainerrors.ErrDuplicateShipment
		}
		return err
	}
	return nil
}

func (r *Repository) GetShipment(ctx context.Context, shipmentID string) (ports.Shipment, error) {
	var row shipmentModel
	err := r.db.WithContext(ctx).Where("shipment_id = ?", shipmentID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Shipment{}, domainerrors.ErrShipmentNotFound
		}
		return ports.Shipment{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListShipments(ctx context.Context, status string) ([]ports.Shipment, error) {
	tx := r.db.WithContext(ctx).Model(&shipmentModel{})
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	var rows []shipmentModel
	if err := tx.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]ports.Shipment, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CreateOperator(ctx context.Context, operator ports.Operator) error {
	languages, err := marshalStrings(operator.Languages)
	if err != nil {
		return err
	}
	coverage, err := marshalStrings(operator.AreaCoverage)
	if err != nil {
		return err
	}
	skills, err := marshalStrings(operator.SpecialSkills)
	if err != nil {
		return err
	}
	row := operatorModel{
		OperatorID:        operator.OperatorID,
		FullName:          operator.FullName,
		City:              operator.City,
		MaxValueClearance: operator.MaxValueClearance,
		Languages:         languages,
		AreaCoverage:      coverage,
		Rating:            operator.Rating,
		SpecialSkills:     skills,
		Active:            operator.Active,
		CreatedAt:         operator.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetOperator(ctx context.Context, operatorID string) (ports.Operator, error) {
	var row operatorModel
	err := r.db.WithContext(ctx).Where("operator_id = ?", operatorID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Operator{}, domainerrors.ErrOperatorNotFound
		}
		return ports.Operator{}, err
	}
	return row.toEntity()
}

func (r *Repository) ListOperators(ctx context.Context, filter ports.OperatorFilter) ([]ports.Operator, error) {
	tx := r.db.WithContext(ctx).Model(&operatorModel{})
	if filter.ActiveOnly {
		tx = tx.Where("active = TRUE")
	}
	if len(filter.Cities) > 0 {
		lowered := make([]string, 0, len(filter.Cities))
		for _, city := range filter.Cities {
			lowered = append(lowered, strings.ToLower(strings.TrimSpace(city)))
		}
		tx = tx.Where("LOWER(city) IN ?", lowered)
	}
	if filter.MinValueClearance > 0 {
		tx = tx.Where("max_value_clearance >= ?", filter.MinValueClearance)
	}
	var rows []operatorModel
	if err := tx.Order("operator_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]ports.Operator, 0, len(rows))
	for _, row := range rows {
		operator, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		// Language matching stays in Go: the column is a json-encoded array.
		if filter.Language != "" && !containsFold(operator.Languages, filter.Language) {
			continue
		}
		items = append(items, operator)
	}
	return items, nil
}

func (m operatorModel) toEntity() (ports.Operator, error) {
	languages, err := unmarshalStrings(m.Languages)
	if err != nil {
		return ports.Operator{}, err
	}
	coverage, err := unmarshalStrings(m.AreaCoverage)
	if err != nil {
		return ports.Operator{}, err
	}
	skills, err := unmarshalStrings(m.SpecialSkills)
	if err != nil {
		return ports.Operator{}, err
	}
	return ports.Operator{
		OperatorID:        m.OperatorID,
		FullName:          m.FullName,
		City:              m.City,
		MaxValueClearance: m.MaxValueClearance,
		Languages:         languages,
		AreaCoverage:      coverage,
		Rating:            m.Rating,
		SpecialSkills:     skills,
		Active:            m.Active,
		CreatedAt:         m.CreatedAt,
	}, nil
}

func marshalStrings(values []string) (string, error) {
	if len(values) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalStrings(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, err
	}
	return values, nil
}

func containsFold(values []string, needle string) bool {
	for _, value := range values {
		if strings.EqualFold(value, needle) {
			return true
		}
	}
	return false
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
