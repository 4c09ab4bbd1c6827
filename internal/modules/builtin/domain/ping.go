package domain

import "time"

// PingResult represents the result of a ping operation.
type PingResult struct {
	Message   string
	Timestamp time.Time
}

// NewPingResult creates a PingResult reporting the uptime since started.
// A zero started reports no uptime.
func NewPingResult(started time.Time) *PingResult {
	now := time.Now()
	msg := "Pong!"
	if !started.IsZero() && !started.After(now) {
		msg += " (up " + now.Sub(started).Round(time.Second).String() + ")"
	}
	return &PingResult{
		Message:   msg,
		Timestamp: now,
	}
}
