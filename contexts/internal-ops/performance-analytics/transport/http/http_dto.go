package http

type DailyStatDTO struct {
	Day               string `json:"day"`
	Assignments       int    `json:"assignments"`
	LateAssignments   int    `json:"late_assignments"`
	Escalations       int    `json:"escalations"`
	Violations        int    `json:"violations"`
	Overrides         int    `json:"overrides"`
	AvgTimeToAssignMS int64  `json:"avg_time_to_assign_ms"`
	P95TimeToAssignMS int64  `json:"p95_time_to_assign_ms"`
}
