package application

import (
	"fmt"
	"time"
)

type SeverityBand string

const (
	BandOK       SeverityBand = "ok"
	BandCritical SeverityBand = "critical"
	BandBreach   SeverityBand = "breach"
)

// SLAStatus is a pure function of (now - opened) against the episode target.
// It never mutates pipeline state; the monitor worker composes it with the
// escalated flag.
type SLAStatus struct {
	Band    SeverityBand
	Elapsed time.Duration
	Target  time.Duration
	Overage time.Duration
}

func EvaluateSLA(now time.Time, openedAt time.Time, targetAt time.Time) SLAStatus {
	elapsed := now.Sub(openedAt)
	target := targetAt.Sub(openedAt)
	status := SLAStatus{Band: BandOK, Elapsed: elapsed, Target: target}
	if target <= 0 {
		status.Band = BandBreach
		status.Overage = elapsed
		return status
	}

	switch {
	case elapsed > target:
		status.Band = BandBreach
		status.Overage = elapsed - target
	case elapsed*10 >= target*8: // >= 80% of target
		status.Band = BandCritical
	}
	return status
}

// Label renders the band for operator consoles, e.g. "12m BREACH".
func (s SLAStatus) Label() string {
	switch s.Band {
	case BandBreach:
		return fmt.Sprintf("%dm BREACH", int(s.Overage.Round(time.Minute).Minutes()))
	case BandCritical:
		return "CRITICAL"
	default:
		return "OK"
	}
}
