package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainerrors "aucta/contexts/wg-operations/hub-capacity/domain/errors"
	"aucta/contexts/wg-operations/hub-capacity/ports"

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

type slotModel struct {
	SlotID            string `gorm:"primaryKey;column:slot_id"`
	HubLocation       string `gorm:"column:hub_location"`
	Date              string `gorm:"column:slot_date"`
	TierLevel         int    `gorm:"column:tier_level"`
	TimeWindow        string `gorm:"column:time_window"`
	MaxCapacity       int    `gorm:"column:max_capacity"`
	CurrentBookings   int    `gorm:"column:current_bookings"`
	HeldUntil         *time.Time
	HeldForShipmentID string `gorm:"column:held_for_shipment_id"`
	CreatedAt         time.Time
}

func (slotModel) TableName() string { return "hub_capacity_slots" }

func (m slotModel) toEntity() ports.CapacitySlot {
	return ports.CapacitySlot{
		SlotID:            m.SlotID,
		HubLocation:       m.HubLocation,
		Date:              m.Date,
		TierLevel:         m.TierLevel,
		TimeWindow:        m.TimeWindow,
		MaxCapacity:       m.MaxCapacity,
		CurrentBookings:   m.CurrentBookings,
		HeldUntil:         m.HeldUntil,
		HeldForShipmentID: m.HeldForShipmentID,
		CreatedAt:         m.CreatedAt,
	}
}

func (r *Repository) CreateSlot(ctx context.Context, slot ports.CapacitySlot) error {
	row := slotModel{
		SlotID:          slot.SlotID,
		HubLocation:     slot.HubLocation,
		Date:            slot.Date,
		TierLevel:       slot.TierLevel,
		TimeWindow:      slot.TimeWindow,
		MaxCapacity:     slot.MaxCapacity,
		CurrentBookings: slot.CurrentBookings,
		CreatedAt:       slot.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetSlot(ctx context.Context, slotID string) (ports.CapacitySlot, error) {
	var row slotModel
	err := r.db.WithContext(ctx).Where("slot_id = ?", slotID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.CapacitySlot{}, domainerrors.ErrSlotNotFound
		}
		return ports.CapacitySlot{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) FindSlot(ctx context.Context, hubLocation string, date string, tierLevel int, timeWindow string) (ports.CapacitySlot, error) {
	var row slotModel
	err := r.db.WithContext(ctx).
		Where("hub_location = ? AND slot_date = ? AND tier_level = ? AND time_window = ?",
			hubLocation, date, tierLevel, timeWindow).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.CapacitySlot{}, domainerrors.ErrSlotNotFound
		}
		return ports.CapacitySlot{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListAvailableSlots(ctx context.Context, filter ports.SlotFilter, now time.Time) ([]ports.CapacitySlot, error) {
	tx := r.db.WithContext(ctx).Model(&slotModel{}).
		Where("hub_location = ? AND slot_date = ?", filter.HubLocation, filter.Date).
		Where("held_until IS NULL OR held_until <= ?", now)
	if filter.TierLevel > 0 {
		tx = tx.Where("tier_level = ?", filter.TierLevel)
	}

	var rows []slotModel
	if err := tx.Order("time_window ASC, slot_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]ports.CapacitySlot, 0, len(rows))
	for _, row := range rows {
		slot := row.toEntity()
		// Lazy expiry: a stale hold still counted in bookings frees one unit.
		if slot.HeldUntil != nil && !slot.HeldUntil.After(now) {
			if slot.CurrentBookings > 0 {
				slot.CurrentBookings--
			}
			slot.HeldUntil = nil
			slot.HeldForShipmentID = ""
		}
		if slot.CurrentBookings >= slot.MaxCapacity {
			continue
		}
		items = append(items, slot)
	}
	return items, nil
}

// Hold performs the check-and-increment in one conditional UPDATE so two
// episodes racing for the last unit serialize at the database.
func (r *Repository) Hold(ctx context.Context, slotID string, shipmentID string, heldUntil time.Time, now time.Time) (ports.CapacitySlot, error) {
	var out ports.CapacitySlot
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Reclaim a stale hold first so its unit is available below.
		if err := tx.Exec(
			`UPDATE hub_capacity_slots
			 SET current_bookings = GREATEST(current_bookings - 1, 0),
			     held_until = NULL, held_for_shipment_id = ''
			 WHERE slot_id = ? AND held_until IS NOT NULL AND held_until <= ?`,
			slotID, now,
		).Error; err != nil {
			return err
		}

		refresh := tx.Exec(
			`UPDATE hub_capacity_slots
			 SET held_until = ?
			 WHERE slot_id = ? AND held_until IS NOT NULL AND held_until > ? AND held_for_shipment_id = ?`,
			heldUntil, slotID, now, shipmentID,
		)
		if refresh.Error != nil {
			return refresh.Error
		}
		if refresh.RowsAffected == 0 {
			take := tx.Exec(
				`UPDATE hub_capacity_slots
				 SET current_bookings = current_bookings + 1,
				     held_until = ?, held_for_shipment_id = ?
				 WHERE slot_id = ? AND current_bookings < max_capacity
				   AND (held_until IS NULL OR held_until <= ?)`,
				heldUntil, shipmentID, slotID, now,
			)
			if take.Error != nil {
				return take.Error
			}
			if take.RowsAffected == 0 {
				var exists int64
				if err := tx.Model(&slotModel{}).Where("slot_id = ?", slotID).Count(&exists).Error; err != nil {
					return err
				}
				if exists == 0 {
					return domainerrors.ErrSlotNotFound
				}
				return domainerrors.ErrSlotUnavailable
			}
		}

		var row slotModel
		if err := tx.Where("slot_id = ?", slotID).First(&row).Error; err != nil {
			return err
		}
		out = row.toEntity()
		return nil
	})
	if err != nil {
		return ports.CapacitySlot{}, err
	}
	return out, nil
}

func (r *Repository) Release(ctx context.Context, slotID string, now time.Time) error {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE hub_capacity_slots
		 SET current_bookings = GREATEST(current_bookings - 1, 0),
		     held_until = NULL, held_for_shipment_id = ''
		 WHERE slot_id = ? AND held_until IS NOT NULL`,
		slotID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var exists int64
		if err := r.db.WithContext(ctx).Model(&slotModel{}).Where("slot_id = ?", slotID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return domainerrors.ErrSlotNotFound
		}
	}
	return nil
}

func (r *Repository) ConfirmHold(ctx context.Context, slotID string, shipmentID string, now time.Time) error {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE hub_capacity_slots
		 SET held_until = NULL, held_for_shipment_id = ''
		 WHERE slot_id = ? AND held_until IS NOT NULL AND held_until > ? AND held_for_shipment_id = ?`,
		slotID, now, shipmentID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrHoldNotFound
	}
	return nil
}

func (r *Repository) ReapExpiredHolds(ctx context.Context, now time.Time) (int, error) {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE hub_capacity_slots
		 SET current_bookings = GREATEST(current_bookings - 1, 0),
		     held_until = NULL, held_for_shipment_id = ''
		 WHERE held_until IS NOT NULL AND held_until <= ?`,
		now,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
