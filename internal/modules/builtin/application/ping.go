package application

import (
	"time"

	"github.com/sglre6355/shaken/internal/modules/builtin/domain"
)

// PingInteractor handles the ping use case.
type PingInteractor struct {
	started time.Time
}

// NewPingInteractor creates a new PingInteractor counting uptime from started.
func NewPingInteractor(started time.Time) *PingInteractor {
	return &PingInteractor{started: started}
}

// Execute performs the ping operation and returns the result.
func (p *PingInteractor) Execute() *domain.PingResult {
	return domain.NewPingResult(p.started)
}
