package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"aucta/contexts/internal-ops/performance-analytics/application"
	"aucta/contexts/internal-ops/performance-analytics/ports"
)

type violationCount struct {
	total     int
	overrides int
}

type Store struct {
	mu          sync.Mutex
	samples     map[string][]ports.AssignmentSample
	escalations map[string]int
	violations  map[string]violationCount
}

func NewStore() *Store {
	return &Store{
		samples:     make(map[string][]ports.AssignmentSample),
		escalations: make(map[string]int),
		violations:  make(map[string]violationCount),
	}
}

func (s *Store) AddAssignmentSample(_ context.Context, sample ports.AssignmentSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples[sample.Day] = append(s.samples[sample.Day], sample)
	return nil
}

func (s *Store) IncrementEscalations(_ context.Context, day string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.escalations[day]++
	return nil
}

// AddViolation feeds the violations aggregate; the postgres adapter reads
// these from the violations log instead.
func (s *Store) AddViolation(day string, isOverride bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := s.violations[day]
	count.total++
	if isOverride {
		count.overrides++
	}
	s.violations[day] = count
}

func (s *Store) ListDailyStats(_ context.Context, fromDay string, toDay string) ([]ports.DailyStat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	days := make(map[string]bool)
	for day := range s.samples {
		days[day] = true
	}
	for day := range s.escalations {
		days[day] = true
	}
	for day := range s.violations {
		days[day] = true
	}

	items := make([]ports.DailyStat, 0, len(days))
	for day := range days {
		if day < fromDay || day > toDay {
			continue
		}
		stat := ports.DailyStat{
			Day:         day,
			Escalations: s.escalations[day],
			Violations:  s.violations[day].total,
			Overrides:   s.violations[day].overrides,
		}
		durations := make([]int64, 0, len(s.samples[day]))
		for _, sample := range s.samples[day] {
			stat.Assignments++
			if sample.Late {
				stat.LateAssignments++
			}
			durations = append(durations, sample.TimeToAssignMS)
		}
		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
		stat.AvgTimeToAssignMS = application.AverageMS(durations)
		stat.P95TimeToAssignMS = application.PercentileMS(durations, 95)
		items = append(items, stat)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Day < items[j].Day })
	return items, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
