package telemetry

import (
	"context"
	"math"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/neurofleet/neurofleet-core/internal/db"
	"github.com/neurofleet/neurofleet-core/internal/models"
)

const fuelDrainPerTick = 0.1

// Simulator periodically randomizes sensor readings for actively leased
// vehicles. Only links in the approved state are live; pending, rejected and
// maintenance links are left untouched. Each tick is independent: a failure is
// logged and the next tick starts from the stored state, so the process never
// accumulates retry state.
type Simulator struct {
	Links    db.AssignmentStore
	Interval time.Duration
	Rand     *rand.Rand
}

// NewSimulator creates a simulator with the default tick interval source.
func NewSimulator(links db.AssignmentStore, interval time.Duration) *Simulator {
	return &Simulator{
		Links:    links,
		Interval: interval,
		Rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run executes ticks until the context is cancelled.
func (s *Simulator) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	log.WithField("interval", s.Interval).Info("Telemetry simulator started")
	for {
		select {
		case <-ctx.Done():
			log.Info("Telemetry simulator stopped")
			return
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				log.WithError(err).Error("Telemetry tick failed")
			}
		}
	}
}

// Tick runs one simulation pass over all approved links.
func (s *Simulator) Tick(ctx context.Context) error {
	links, err := s.Links.FindAssignmentsByStatus(ctx, models.AssignmentApproved)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		return nil
	}

	updated := 0
	for _, link := range links {
		speed := s.Rand.Float64() * 120.0

		fuel := 100.0
		if link.Fuel != nil {
			fuel = *link.Fuel
		}
		fuel = math.Max(0, fuel-fuelDrainPerTick)

		tire := 28.0 + s.Rand.Float64()*8.0

		link.Speed = speed
		link.Fuel = &fuel
		link.TirePressure = tire
		link.Condition = DeriveCondition(fuel, tire, speed)

		if err := s.Links.UpdateAssignment(ctx, link.ID.Hex(), link); err != nil {
			log.WithError(err).WithField("assignment_id", link.ID.Hex()).Error("Failed to persist telemetry")
			continue
		}
		updated++
	}

	log.WithField("units", updated).Debug("Telemetry sync completed")
	return nil
}
