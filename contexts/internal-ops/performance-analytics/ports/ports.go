package ports

import (
	"context"
	"time"
)

// DayFormat is the bucket key layout for all daily aggregates.
const DayFormat = "2006-01-02"

// AssignmentSample is one completed sourcing episode folded into the daily
// SLA aggregates.
type AssignmentSample struct {
	Day            string
	ShipmentID     string
	TimeToAssignMS int64
	Late           bool
	RecordedAt     time.Time
}

// DailyStat is the reporting row for one day bucket.
type DailyStat struct {
	Day               string
	Assignments       int
	LateAssignments   int
	Escalations       int
	Violations        int
	Overrides         int
	AvgTimeToAssignMS int64
	P95TimeToAssignMS int64
}

type Repository interface {
	AddAssignmentSample(ctx context.Context, sample AssignmentSample) error
	IncrementEscalations(ctx context.Context, day string) error
	// ListDailyStats aggregates samples, escalation counters and the
	// violations log over the inclusive [fromDay, toDay] range.
	ListDailyStats(ctx context.Context, fromDay string, toDay string) ([]DailyStat, error)
}

type Clock interface {
	Now() time.Time
}
