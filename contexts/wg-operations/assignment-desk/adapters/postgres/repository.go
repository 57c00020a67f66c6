package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainerrors "aucta/contexts/wg-operations/assignment-desk/domain/errors"
	"aucta/contexts/wg-operations/assignment-desk/ports"

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

type assignmentModel struct {
	AssignmentID string `gorm:"primaryKey;column:assignment_id"`
	ShipmentID   string `gorm:"column:shipment_id"`
	OperatorID   string `gorm:"column:operator_id"`
	AssignedBy   string `gorm:"column:assigned_by"`
	Status       string `gorm:"column:status"`

	PickupAt    time.Time `gorm:"column:pickup_at"`
	HubIntakeAt time.Time `gorm:"column:hub_intake_at"`
	DeliveryAt  time.Time `gorm:"column:delivery_at"`

	ActualPickupAt    *time.Time `gorm:"column:actual_pickup_at"`
	ActualHubIntakeAt *time.Time `gorm:"column:actual_hub_intake_at"`
	ActualDeliveryAt  *time.Time `gorm:"column:actual_delivery_at"`

	PickupOTP    string `gorm:"column:pickup_otp"`
	HubIntakeOTP string `gorm:"column:hub_intake_otp"`
	DeliveryOTP  string `gorm:"column:delivery_otp"`
	SealID       string `gorm:"column:seal_id"`

	HubSlotID string    `gorm:"column:hub_slot_id"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (assignmentModel) TableName() string { return "wg_assignments" }

func (m assignmentModel) toEntity() ports.Assignment {
	return ports.Assignment{
		AssignmentID:      m.AssignmentID,
		ShipmentID:        m.ShipmentID,
		OperatorID:        m.OperatorID,
		AssignedBy:        m.AssignedBy,
		Status:            m.Status,
		PickupAt:          m.PickupAt,
		HubIntakeAt:       m.HubIntakeAt,
		DeliveryAt:        m.DeliveryAt,
		ActualPickupAt:    m.ActualPickupAt,
		ActualHubIntakeAt: m.ActualHubIntakeAt,
		ActualDeliveryAt:  m.ActualDeliveryAt,
		PickupOTP:         m.PickupOTP,
		HubIntakeOTP:      m.HubIntakeOTP,
		DeliveryOTP:       m.DeliveryOTP,
		SealID:            m.SealID,
		HubSlotID:         m.HubSlotID,
		CreatedAt:         m.CreatedAt,
	}
}

func fromEntity(a ports.Assignment) assignmentModel {
	return assignmentModel{
		AssignmentID:      a.AssignmentID,
		ShipmentID:        a.ShipmentID,
		OperatorID:        a.OperatorID,
		AssignedBy:        a.AssignedBy,
		Status:            a.Status,
		PickupAt:          a.PickupAt,
		HubIntakeAt:       a.HubIntakeAt,
		DeliveryAt:        a.DeliveryAt,
		ActualPickupAt:    a.ActualPickupAt,
		ActualHubIntakeAt: a.ActualHubIntakeAt,
		ActualDeliveryAt:  a.ActualDeliveryAt,
		PickupOTP:         a.PickupOTP,
		HubIntakeOTP:      a.HubIntakeOTP,
		DeliveryOTP:       a.DeliveryOTP,
		SealID:            a.SealID,
		HubSlotID:         a.HubSlotID,
		CreatedAt:         a.CreatedAt,
	}
}

type violationModel struct {
	ViolationID      string    `gorm:"primaryKey;column:violation_id"`
	ShipmentID       string    `gorm:"column:shipment_id"`
	OperatorID       string    `gorm:"column:operator_id"`
	ConstraintType   string    `gorm:"column:constraint_type"`
	Description      string    `gorm:"column:description"`
	Severity         string    `gorm:"column:severity"`
	ResolutionAction string    `gorm:"column:resolution_action"`
	IsOverride       bool      `gorm:"column:is_override"`
	OverrideReason   string    `gorm:"column:override_reason"`
	OverriddenBy     string    `gorm:"column:overridden_by"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (violationModel) TableName() string { return "constraint_violations" }

type shipmentFactsModel struct {
	ShipmentID        string    `gorm:"primaryKey;column:shipment_id"`
	DeclaredValue     float64   `gorm:"column:declared_value"`
	TierLevel         int       `gorm:"column:tier_level"`
	SLADeadline       time.Time `gorm:"column:sla_deadline"`
	Status            string    `gorm:"column:status"`
	HubLocation       string    `gorm:"column:hub_location"`
	SenderWindowStart time.Time `gorm:"column:sender_window_start"`
	SenderWindowEnd   time.Time `gorm:"column:sender_window_end"`
	SenderTimezone    string    `gorm:"column:sender_timezone"`
	BuyerWindowStart  time.Time `gorm:"column:buyer_window_start"`
	BuyerWindowEnd    time.Time `gorm:"column:buyer_window_end"`
	BuyerTimezone     string    `gorm:"column:buyer_timezone"`
}

func (shipmentFactsModel) TableName() string { return "shipments" }

type operatorFactsModel struct {
	OperatorID        string  `gorm:"primaryKey;column:operator_id"`
	MaxValueClearance float64 `gorm:"column:max_value_clearance"`
}

func (operatorFactsModel) TableName() string { return "wg_operators" }

type statsQueueModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;column:id"`
	OperatorID   string    `gorm:"column:operator_id"`
	AssignmentID string    `gorm:"column:assignment_id"`
	Delivered    bool      `gorm:"column:delivered"`
	EnqueuedAt   time.Time `gorm:"column:enqueued_at"`
	Processed    bool      `gorm:"column:processed"`
}

func (statsQueueModel) TableName() string { return "operator_stats_queue" }

func (r *Repository) GetShipmentFacts(ctx context.Context, shipmentID string) (ports.ShipmentFacts, error) {
	var row shipmentFactsModel
	err := r.db.WithContext(ctx).Where("shipment_id = ?", shipmentID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ShipmentFacts{}, domainerrors.ErrShipmentNotFound
		}
		return ports.ShipmentFacts{}, err
	}
	return ports.ShipmentFacts{
		ShipmentID:        row.ShipmentID,
		DeclaredValue:     row.DeclaredValue,
		TierLevel:         row.TierLevel,
		SLADeadline:       row.SLADeadline,
		Status:            row.Status,
		HubLocation:       row.HubLocation,
		SenderWindowStart: row.SenderWindowStart,
		SenderWindowEnd:   row.SenderWindowEnd,
		SenderTimezone:    row.SenderTimezone,
		BuyerWindowStart:  row.BuyerWindowStart,
		BuyerWindowEnd:    row.BuyerWindowEnd,
		BuyerTimezone:     row.BuyerTimezone,
	}, nil
}

// GetOperatorFacts reads the operator's clearance and derives calendar
// conflicts from their undelivered assignments.
func (r *Repository) GetOperatorFacts(ctx context.Context, operatorID string) (ports.OperatorFacts, error) {
	var row operatorFactsModel
	err := r.db.WithContext(ctx).Where("operator_id = ?", operatorID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.OperatorFacts{}, domainerrors.ErrOperatorNotFound
		}
		return ports.OperatorFacts{}, err
	}

	var busy []assignmentModel
	err = r.db.WithContext(ctx).
		Where("operator_id = ? AND status NOT IN ?", operatorID,
			[]string{ports.AssignmentStatusDelivered, ports.AssignmentStatusCancelled}).
		Order("pickup_at ASC").
		Find(&busy).
		Error
	if err != nil {
		return ports.OperatorFacts{}, err
	}

	conflicts := make([]ports.Interval, 0, len(busy))
	for _, a := range busy {
		conflicts = append(conflicts, ports.Interval{Start: a.PickupAt, End: a.DeliveryAt})
	}
	return ports.OperatorFacts{
		OperatorID:        row.OperatorID,
		MaxValueClearance: row.MaxValueClearance,
		CalendarConflicts: conflicts,
	}, nil
}

// CommitAssignment runs the whole finalizer mutation in one transaction:
// assignment insert, shipment status flip and hub hold conversion either all
// land or none do. A partial unique index on wg_assignments(shipment_id)
// WHERE status <> 'cancelled' backs the one-active-assignment invariant.
func (r *Repository) CommitAssignment(ctx context.Context, assignment ports.Assignment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := fromEntity(assignment)
		if err := tx.Create(&row).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return domainerrors.ErrDuplicateActiveAssignment
			}
			return err
		}

		flip := tx.Exec(
			`UPDATE shipments SET status = 'assigned'
			 WHERE shipment_id = ? AND status = 'pending_assignment'`,
			assignment.ShipmentID,
		)
		if flip.Error != nil {
			return flip.Error
		}
		if flip.RowsAffected == 0 {
			var exists int64
			if err := tx.Model(&shipmentFactsModel{}).Where("shipment_id = ?", assignment.ShipmentID).Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return domainerrors.ErrShipmentNotFound
			}
			return domainerrors.ErrShipmentNotAssignable
		}

		if assignment.HubSlotID != "" {
			convert := tx.Exec(
				`UPDATE hub_capacity_slots
				 SET held_until = NULL, held_for_shipment_id = ''
				 WHERE slot_id = ? AND held_for_shipment_id = ?`,
				assignment.HubSlotID, assignment.ShipmentID,
			)
			if convert.Error != nil {
				return convert.Error
			}
			if convert.RowsAffected == 0 {
				// The hold expired and was reaped. Take a fresh unit or fail
				// the commit so capacity stays honest.
				take := tx.Exec(
					`UPDATE hub_capacity_slots
					 SET current_bookings = current_bookings + 1
					 WHERE slot_id = ? AND current_bookings < max_capacity
					   AND (held_until IS NULL OR held_until <= ?)`,
					assignment.HubSlotID, assignment.CreatedAt,
				)
				if take.Error != nil {
					return take.Error
				}
				if take.RowsAffected == 0 {
					return domainerrors.ErrCommitFailed
				}
			}
		}
		return nil
	})
}

func (r *Repository) GetAssignment(ctx context.Context, assignmentID string) (ports.Assignment, error) {
	var row assignmentModel
	err := r.db.WithContext(ctx).Where("assignment_id = ?", assignmentID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Assignment{}, domainerrors.ErrAssignmentNotFound
		}
		return ports.Assignment{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetActiveAssignmentByShipment(ctx context.Context, shipmentID string) (ports.Assignment, bool, error) {
	var row assignmentModel
	err := r.db.WithContext(ctx).
		Where("shipment_id = ? AND status <> ?", shipmentID, ports.AssignmentStatusCancelled).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Assignment{}, false, nil
		}
		return ports.Assignment{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) UpdateAssignmentStatus(ctx context.Context, assignmentID string, status string, actualAt *time.Time) (ports.Assignment, error) {
	updates := map[string]any{"status": status}
	if actualAt != nil {
		switch status {
		case ports.AssignmentStatusPickedUp:
			updates["actual_pickup_at"] = *actualAt
		case ports.AssignmentStatusAtHub:
			updates["actual_hub_intake_at"] = *actualAt
		case ports.AssignmentStatusDelivered:
			updates["actual_delivery_at"] = *actualAt
		}
	}
	result := r.db.WithContext(ctx).Model(&assignmentModel{}).
		Where("assignment_id = ?", assignmentID).
		Updates(updates)
	if result.Error != nil {
		return ports.Assignment{}, result.Error
	}
	if result.RowsAffected == 0 {
		return ports.Assignment{}, domainerrors.ErrAssignmentNotFound
	}
	return r.GetAssignment(ctx, assignmentID)
}

func (r *Repository) CreateViolation(ctx context.Context, violation ports.Violation) error {
	row := violationModel{
		ViolationID:      violation.ViolationID,
		ShipmentID:       violation.ShipmentID,
		OperatorID:       violation.OperatorID,
		ConstraintType:   violation.ConstraintType,
		Description:      violation.Description,
		Severity:         violation.Severity,
		ResolutionAction: violation.ResolutionAction,
		IsOverride:       violation.IsOverride,
		OverrideReason:   violation.OverrideReason,
		OverriddenBy:     violation.OverriddenBy,
		CreatedAt:        violation.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) ListViolationsByShipment(ctx context.Context, shipmentID string) ([]ports.Violation, error) {
	var rows []violationModel
	err := r.db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("created_at ASC, violation_id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	items := make([]ports.Violation, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.Violation{
			ViolationID:      row.ViolationID,
			ShipmentID:       row.ShipmentID,
			OperatorID:       row.OperatorID,
			ConstraintType:   row.ConstraintType,
			Description:      row.Description,
			Severity:         row.Severity,
			ResolutionAction: row.ResolutionAction,
			IsOverride:       row.IsOverride,
			OverrideReason:   row.OverrideReason,
			OverriddenBy:     row.OverriddenBy,
			CreatedAt:        row.CreatedAt,
		})
	}
	return items, nil
}

func (r *Repository) EnqueueStatsUpdate(ctx context.Context, update ports.StatsUpdate) error {
	row := statsQueueModel{
		OperatorID:   update.OperatorID,
		AssignmentID: update.AssignmentID,
		Delivered:    update.Delivered,
		EnqueuedAt:   update.EnqueuedAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) DequeueStatsUpdates(ctx context.Context, limit int) ([]ports.StatsUpdate, error) {
	var batch []ports.StatsUpdate
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []statsQueueModel
		err := tx.Raw(
			`SELECT id, operator_id, assignment_id, delivered, enqueued_at
			 FROM operator_stats_queue
			 WHERE processed = FALSE
			 ORDER BY id ASC
			 LIMIT ?
			 FOR UPDATE SKIP LOCKED`,
			limit,
		).Scan(&rows).Error
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		ids := make([]int64, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.ID)
			batch = append(batch, ports.StatsUpdate{
				OperatorID:   row.OperatorID,
				AssignmentID: row.AssignmentID,
				Delivered:    row.Delivered,
				EnqueuedAt:   row.EnqueuedAt,
			})
		}
		return tx.Model(&statsQueueModel{}).Where("id IN ?", ids).Update("processed", true).Error
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

func (r *Repository) ApplyOperatorStats(ctx context.Context, update ports.StatsUpdate) error {
	if update.Delivered {
		return r.db.WithContext(ctx).Exec(
			`INSERT INTO operator_stats (operator_id, active_assignments, completed_deliveries)
			 VALUES (?, 0, 1)
			 ON CONFLICT (operator_id) DO UPDATE
			 SET completed_deliveries = operator_stats.completed_deliveries + 1,
			     active_assignments = GREATEST(operator_stats.active_assignments - 1, 0)`,
			update.OperatorID,
		).Error
	}
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO operator_stats (operator_id, active_assignments, completed_deliveries)
		 VALUES (?, 1, 0)
		 ON CONFLICT (operator_id) DO UPDATE
		 SET active_assignments = operator_stats.active_assignments + 1`,
		update.OperatorID,
	).Error
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
