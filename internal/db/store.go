package db

import (
	"context"
	"errors"

	"github.com/neurofleet/neurofleet-core/internal/models"
)

// ErrNotFound is returned when a lookup or state-dependent update matches no
// record. Callers distinguish it from infrastructure failures.
var ErrNotFound = errors.New("record not found")

// VehicleStore defines the interface for vehicle registry operations.
type VehicleStore interface {
	InsertVehicle(ctx context.Context, vehicle models.Vehicle) (string, error)
	FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error)
	FindVehicles(ctx context.Context) ([]models.Vehicle, error)
	// FindAvailableInSector returns AVAILABLE vehicles in the sector ordered
	// by ascending id, so "first N" selection is stable.
	FindAvailableInSector(ctx context.Context, sector string) ([]models.Vehicle, error)
	UpdateVehicle(ctx context.Context, id string, vehicle models.Vehicle) error
	DeleteVehicle(ctx context.Context, id string) error
}

// AssignmentStore defines the interface for assignment link operations.
// All multi-record queries return links ordered by ascending id; lifecycle
// operations that act on "the first matching link" rely on that ordering.
type AssignmentStore interface {
	InsertAssignment(ctx context.Context, link models.AssignmentLink) (string, error)
	FindAssignmentByID(ctx context.Context, id string) (*models.AssignmentLink, error)
	FindAssignmentsByUser(ctx context.Context, userID string) ([]models.AssignmentLink, error)
	FindAssignmentsByStatus(ctx context.Context, status models.AssignmentStatus) ([]models.AssignmentLink, error)
	UpdateAssignment(ctx context.Context, id string, link models.AssignmentLink) error
	DeleteAssignment(ctx context.Context, id string) error
}

// BookingStore defines the interface for booking record operations.
type BookingStore interface {
	InsertBooking(ctx context.Context, booking models.Booking) (string, error)
	FindBookingByID(ctx context.Context, id string) (*models.Booking, error)
	FindBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error)
	FindBookings(ctx context.Context) ([]models.Booking, error)
	CountBookings(ctx context.Context) (int64, error)
	CountBookingsByStatus(ctx context.Context, status models.BookingStatus) (int64, error)
	UpdateBooking(ctx context.Context, id string, booking models.Booking) error
	DeleteBooking(ctx context.Context, id string) error
}

// TripHistoryStore defines the interface for the trip archive.
type TripHistoryStore interface {
	InsertTripHistory(ctx context.Context, history models.TripHistory) error
	FindTripHistoryByUser(ctx context.Context, userID string) ([]models.TripHistory, error)
}

// AuditStore defines the interface for the append-only audit log.
type AuditStore interface {
	InsertAuditLog(ctx context.Context, entry models.AuditLog) error
	FindAuditLogsByUser(ctx context.Context, userID string) ([]models.AuditLog, error)
	FindRecentAuditLogs(ctx context.Context, limit int64) ([]models.AuditLog, error)
}

// UserStore defines the interface for user database operations.
type UserStore interface {
	InsertUser(ctx context.Context, user models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string) error
}
