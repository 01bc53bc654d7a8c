package models

import "time"

// EngineStats is a read-only snapshot of the interaction counters.
// Counters only grow; they survive session resets and reset only when the
// process restarts.
type EngineStats struct {
	Total         int64     `json:"total"`
	Succeeded     int64     `json:"succeeded"`
	Failed        int64     `json:"failed"`
	StartTime     time.Time `json:"startTime"`
	UptimeSeconds float64   `json:"uptimeSeconds"`
}

// SuccessRate returns the percentage of interactions that completed with
// audible output.
func (s EngineStats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Total) * 100
}
