package fleet

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/neurofleet/neurofleet-core/internal/models"
)

// Redistribute relocates up to count AVAILABLE vehicles from the source
// sector to the destination sector, zeroing their speed. Selection is the
// first N by ascending id; callers must not depend on which vehicles are
// chosen among ties. The batch is best-effort: a mid-batch write failure
// returns the count already moved alongside the error.
func (s *Service) Redistribute(ctx context.Context, source, dest string, count int) (int, error) {
	if count <= 0 {
		return 0, ErrInvalidCount
	}

	candidates, err := s.Vehicles.FindAvailableInSector(ctx, source)
	if err != nil {
		return 0, err
	}
	if len(candidates) == 0 {
		return 0, ErrNoAvailableUnits
	}

	moved := 0
	for _, vehicle := range candidates {
		if moved == count {
			break
		}
		vehicle.Sector = dest
		vehicle.Speed = 0
		if err := s.Vehicles.UpdateVehicle(ctx, vehicle.ID.Hex(), vehicle); err != nil {
			return moved, err
		}
		moved++
	}

	log.WithFields(log.Fields{
		"source": source,
		"dest":   dest,
		"moved":  moved,
	}).Info("Redistribution completed")
	s.Audit.Record(ctx, "FLEET", models.ActionUnitsRedistributed, "")
	return moved, nil
}
