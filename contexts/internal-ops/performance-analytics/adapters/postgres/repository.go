package postgresadapter

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"aucta/contexts/internal-ops/performance-analytics/application"
	"aucta/contexts/internal-ops/performance-analytics/ports"

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

type sampleModel struct {
	ID             int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Day            string    `gorm:"column:day;index"`
	ShipmentID     string    `gorm:"column:shipment_id"`
	TimeToAssignMS int64     `gorm:"column:time_to_assign_ms"`
	Late           bool      `gorm:"column:late"`
	RecordedAt     time.Time `gorm:"column:recorded_at"`
}

func (sampleModel) TableName() string { return "analytics_assignment_samples" }

type counterModel struct {
	Day         string `gorm:"primaryKey;column:day"`
	Escalations int    `gorm:"column:escalations"`
}

func (counterModel) TableName() string { return "analytics_daily_counters" }

func (r *Repository) AddAssignmentSample(ctx context.Context, sample ports.AssignmentSample) error {
	row := sampleModel{
		Day:            sample.Day,
		ShipmentID:     sample.ShipmentID,
		TimeToAssignMS: sample.TimeToAssignMS,
		Late:           sample.Late,
		RecordedAt:     sample.RecordedAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) IncrementEscalations(ctx context.Context, day string) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO analytics_daily_counters (day, escalations)
		 VALUES (?, 1)
		 ON CONFLICT (day) DO UPDATE
		 SET escalations = analytics_daily_counters.escalations + 1`,
		day,
	).Error
}

type violationRow struct {
	Day       string
	Total     int
	Overrides int
}

// ListDailyStats folds the sample rows in Go; the violations aggregate comes
// straight from the operations violations log.
func (r *Repository) ListDailyStats(ctx context.Context, fromDay string, toDay string) ([]ports.DailyStat, error) {
	var samples []sampleModel
	err := r.db.WithContext(ctx).
		Where("day >= ? AND day <= ?", fromDay, toDay).
		Order("day ASC, id ASC").
		Find(&samples).
		Error
	if err != nil {
		return nil, err
	}

	var counters []counterModel
	err = r.db.WithContext(ctx).
		Where("day >= ? AND day <= ?", fromDay, toDay).
		Find(&counters).
		Error
	if err != nil {
		return nil, err
	}

	var violations []violationRow
	err = r.db.WithContext(ctx).Raw(
		`SELECT to_char(created_at, 'YYYY-MM-DD') AS day,
		        COUNT(*) AS total,
		        COUNT(*) FILTER (WHERE is_override) AS overrides
		 FROM constraint_violations
		 WHERE to_char(created_at, 'YYYY-MM-DD') BETWEEN ? AND ?
		 GROUP BY 1`,
		fromDay, toDay,
	).Scan(&violations).Error
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*ports.DailyStat)
	stat := func(day string) *ports.DailyStat {
		if existing, ok := byDay[day]; ok {
			return existing
		}
		created := &ports.DailyStat{Day: day}
		byDay[day] = created
		return created
	}

	durations := make(map[string][]int64)
	for _, sample := range samples {
		entry := stat(sample.Day)
		entry.Assignments++
		if sample.Late {
			entry.LateAssignments++
		}
		durations[sample.Day] = append(durations[sample.Day], sample.TimeToAssignMS)
	}
	for _, counter := range counters {
		stat(counter.Day).Escalations = counter.Escalations
	}
	for _, violation := range violations {
		entry := stat(violation.Day)
		entry.Violations = violation.Total
		entry.Overrides = violation.Overrides
	}

	items := make([]ports.DailyStat, 0, len(byDay))
	for day, entry := range byDay {
		sorted := durations[day]
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		entry.AvgTimeToAssignMS = application.AverageMS(sorted)
		entry.P95TimeToAssignMS = application.PercentileMS(sorted, 95)
		items = append(items, *entry)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Day < items[j].Day })
	return items, nil
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
