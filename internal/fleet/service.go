package fleet

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/neurofleet/neurofleet-core/internal/audit"
	"github.com/neurofleet/neurofleet-core/internal/db"
	"github.com/neurofleet/neurofleet-core/internal/models"
	"github.com/neurofleet/neurofleet-core/internal/telemetry"
)

var (
	// ErrConflict is returned when a user already holds an active link to the
	// requested vehicle. It is distinct from not-found.
	ErrConflict = errors.New("active assignment already exists for this vehicle")
	// ErrNoAvailableUnits is returned when a redistribution finds zero
	// AVAILABLE vehicles in the source sector.
	ErrNoAvailableUnits = errors.New("no available units in source sector")
	// ErrInvalidCount rejects non-positive redistribution counts before any
	// read or mutation happens.
	ErrInvalidCount = errors.New("redistribution count must be positive")
)

// Service owns the assignment link lifecycle and the sector redistribution
// engine. The vehicle registry is shared with the telemetry simulator and the
// booking flow; vehicle mutations always go through the injected store, never
// through cached copies.
type Service struct {
	Vehicles db.VehicleStore
	Links    db.AssignmentStore
	Audit    *audit.Recorder
}

// NewService creates a fleet service over the shared stores.
func NewService(vehicles db.VehicleStore, links db.AssignmentStore, recorder *audit.Recorder) *Service {
	return &Service{Vehicles: vehicles, Links: links, Audit: recorder}
}

// Request creates a pending assignment link for the user. The vehicle model
// name is denormalized onto the link once; there is no live join afterwards.
// A second request while any non-rejected link to the same vehicle exists is
// a conflict.
func (s *Service) Request(ctx context.Context, userID, vehicleID string) (*models.AssignmentLink, error) {
	existing, err := s.Links.FindAssignmentsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, link := range existing {
		if link.VehicleID.Hex() == vehicleID && link.Status.Active() {
			return nil, ErrConflict
		}
	}

	vehicle, err := s.Vehicles.FindVehicleByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	link := models.AssignmentLink{
		UserID:       userID,
		VehicleID:    vehicle.ID,
		VehicleModel: vehicle.Name,
		Status:       models.AssignmentPending,
	}
	id, err := s.Links.InsertAssignment(ctx, link)
	if err != nil {
		return nil, err
	}
	stored, err := s.Links.FindAssignmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// Approve moves a pending link to approved and marks the vehicle in use.
func (s *Service) Approve(ctx context.Context, linkID string) error {
	link, err := s.Links.FindAssignmentByID(ctx, linkID)
	if err != nil {
		return err
	}
	link.Status = models.AssignmentApproved
	if err := s.Links.UpdateAssignment(ctx, linkID, *link); err != nil {
		return err
	}
	if err := s.mutateVehicle(ctx, link.VehicleID.Hex(), func(v *models.Vehicle) {
		v.Status = models.VehicleInUse
	}); err != nil {
		return err
	}
	s.Audit.Record(ctx, link.VehicleModel, models.ActionAssignmentApproved, link.UserID)
	return nil
}

// Reject marks a link rejected (terminal) and releases the vehicle.
func (s *Service) Reject(ctx context.Context, linkID string) error {
	link, err := s.Links.FindAssignmentByID(ctx, linkID)
	if err != nil {
		return err
	}
	link.Status = models.AssignmentRejected
	if err := s.Links.UpdateAssignment(ctx, linkID, *link); err != nil {
		return err
	}
	if err := s.mutateVehicle(ctx, link.VehicleID.Hex(), func(v *models.Vehicle) {
		v.Status = models.VehicleAvailable
	}); err != nil {
		return err
	}
	s.Audit.Record(ctx, link.VehicleModel, models.ActionAssignmentRejected, link.UserID)
	return nil
}

// ConfirmPickup moves the user's first approved link to pickup_completed.
func (s *Service) ConfirmPickup(ctx context.Context, userID string) (*models.AssignmentLink, error) {
	link, err := s.firstForUser(ctx, userID, models.AssignmentApproved)
	if err != nil {
		return nil, err
	}
	link.Status = models.AssignmentPickupCompleted
	if err := s.Links.UpdateAssignment(ctx, link.ID.Hex(), *link); err != nil {
		return nil, err
	}
	s.Audit.Record(ctx, link.VehicleModel, models.ActionPickupCompleted, userID)
	return link, nil
}

// ReportMaintenance flags the user's active lease for service. The vehicle is
// marked NEEDS_SERVICE until an operator authorizes the work.
func (s *Service) ReportMaintenance(ctx context.Context, userID, issue string) (*models.AssignmentLink, error) {
	link, err := s.firstForUser(ctx, userID, models.AssignmentApproved, models.AssignmentPickupCompleted)
	if err != nil {
		return nil, err
	}
	link.Status = models.AssignmentMaintenancePending
	link.MaintenanceIssue = issue
	if err := s.Links.UpdateAssignment(ctx, link.ID.Hex(), *link); err != nil {
		return nil, err
	}
	if err := s.mutateVehicle(ctx, link.VehicleID.Hex(), func(v *models.Vehicle) {
		v.Status = models.VehicleNeedsService
	}); err != nil {
		return nil, err
	}
	s.Audit.Record(ctx, link.VehicleModel, models.ActionMaintenanceReported, userID)
	return link, nil
}

// TriggerEmergency forces the leased vehicle into an emergency stop. The link
// status is left untouched; only the vehicle's fields are forced.
func (s *Service) TriggerEmergency(ctx context.Context, userID string) error {
	link, err := s.firstForUser(ctx, userID, models.AssignmentApproved, models.AssignmentPickupCompleted)
	if err != nil {
		return err
	}
	if err := s.mutateVehicle(ctx, link.VehicleID.Hex(), func(v *models.Vehicle) {
		v.Status = models.VehicleEmergencyStop
		v.Condition = string(models.VehicleEmergencyStop)
		v.Speed = 0
	}); err != nil {
		return err
	}
	s.Audit.Record(ctx, link.VehicleModel, models.ActionEmergencyStop, userID)
	return nil
}

// AuthorizeService completes a maintenance cycle: the link returns to
// approved, the issue is cleared, and the vehicle comes back with an OPTIMAL
// condition and a zeroed odometer.
func (s *Service) AuthorizeService(ctx context.Context, linkID string) error {
	link, err := s.Links.FindAssignmentByID(ctx, linkID)
	if err != nil {
		return err
	}
	if link.Status != models.AssignmentMaintenancePending {
		return db.ErrNotFound
	}
	link.Status = models.AssignmentApproved
	link.MaintenanceIssue = ""
	link.Condition = telemetry.ConditionOptimal
	if err := s.Links.UpdateAssignment(ctx, linkID, *link); err != nil {
		return err
	}
	if err := s.mutateVehicle(ctx, link.VehicleID.Hex(), func(v *models.Vehicle) {
		v.Status = models.VehicleInUse
		v.Condition = telemetry.ConditionOptimal
		v.TotalDistance = 0
	}); err != nil {
		return err
	}
	s.Audit.Record(ctx, link.VehicleModel, models.ActionServiceAuthorized, link.UserID)
	return nil
}

// Drop removes a link outright (termination, registration cancel, purge).
// If the lease was live the vehicle goes back to AVAILABLE.
func (s *Service) Drop(ctx context.Context, linkID string) error {
	link, err := s.Links.FindAssignmentByID(ctx, linkID)
	if err != nil {
		return err
	}
	if err := s.Links.DeleteAssignment(ctx, linkID); err != nil {
		return err
	}
	if link.Status.Active() {
		if err := s.mutateVehicle(ctx, link.VehicleID.Hex(), func(v *models.Vehicle) {
			v.Status = models.VehicleAvailable
		}); err != nil {
			return err
		}
	}
	s.Audit.Record(ctx, link.VehicleModel, models.ActionAssignmentDropped, link.UserID)
	return nil
}

// ListByUser returns the user's links, oldest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]models.AssignmentLink, error) {
	return s.Links.FindAssignmentsByUser(ctx, userID)
}

// firstForUser picks the user's oldest link in one of the wanted states.
// Store ordering is ascending id, which makes the tie-break stable.
func (s *Service) firstForUser(ctx context.Context, userID string, wanted ...models.AssignmentStatus) (*models.AssignmentLink, error) {
	links, err := s.Links.FindAssignmentsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range links {
		for _, w := range wanted {
			if links[i].Status == w {
				return &links[i], nil
			}
		}
	}
	return nil, db.ErrNotFound
}

// mutateVehicle applies fn to a vehicle and writes it back. A dangling
// vehicle reference is logged and skipped: the link side of the transition
// has already been committed and the registry entry is advisory.
func (s *Service) mutateVehicle(ctx context.Context, vehicleID string, fn func(*models.Vehicle)) error {
	vehicle, err := s.Vehicles.FindVehicleByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			log.WithField("vehicle_id", vehicleID).Warn("Linked vehicle missing from registry")
			return nil
		}
		return err
	}
	fn(vehicle)
	return s.Vehicles.UpdateVehicle(ctx, vehicleID, *vehicle)
}
