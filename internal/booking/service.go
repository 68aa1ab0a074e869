package booking

import (
	"context"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/neurofleet/neurofleet-core/internal/audit"
	"github.com/neurofleet/neurofleet-core/internal/db"
	"github.com/neurofleet/neurofleet-core/internal/models"
)

// Service drives the booking lifecycle: PENDING -> APPROVED -> TRIP_ACTIVE ->
// archived into trip history. Completed and rejected bookings leave the
// collection; there are no terminal status values.
type Service struct {
	Bookings db.BookingStore
	History  db.TripHistoryStore
	Audit    *audit.Recorder
	Profile  TripProfile
	Now      func() time.Time
	Rand     *rand.Rand
}

// NewService creates a booking service with the default trip profile.
func NewService(bookings db.BookingStore, history db.TripHistoryStore, recorder *audit.Recorder) *Service {
	return &Service{
		Bookings: bookings,
		History:  history,
		Audit:    recorder,
		Profile:  DefaultProfile,
		Now:      time.Now,
		Rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Stats summarizes booking counts for the dashboard.
type Stats struct {
	Total   int64 `json:"total"`
	Pending int64 `json:"pending"`
	Active  int64 `json:"active"`
}

// Create registers a new PENDING booking with trip-profile defaults.
func (s *Service) Create(ctx context.Context, b models.Booking) (string, error) {
	b.Status = models.BookingPending
	b.BookingTime = s.Now()
	s.Profile.resetMetrics(&b)
	return s.Bookings.InsertBooking(ctx, b)
}

// Approve moves a booking to APPROVED and resets its metrics to the profile
// defaults. Approving an already-approved booking is idempotent on status but
// still resets the metrics.
func (s *Service) Approve(ctx context.Context, id string) error {
	b, err := s.Bookings.FindBookingByID(ctx, id)
	if err != nil {
		return err
	}
	b.Status = models.BookingApproved
	s.Profile.resetMetrics(b)
	if err := s.Bookings.UpdateBooking(ctx, id, *b); err != nil {
		return err
	}
	s.Audit.Record(ctx, b.VehicleModel, models.ActionBookingAuthorized, b.UserID)
	return nil
}

// ConfirmPickup activates the user's first APPROVED booking and stamps the
// booking time, which becomes the clock origin for metric simulation.
func (s *Service) ConfirmPickup(ctx context.Context, userID string) (*models.Booking, error) {
	b, err := s.firstWithStatus(ctx, userID, models.BookingApproved)
	if err != nil {
		return nil, err
	}
	b.Status = models.BookingTripActive
	b.BookingTime = s.Now()
	if err := s.Bookings.UpdateBooking(ctx, b.ID.Hex(), *b); err != nil {
		return nil, err
	}
	s.Audit.Record(ctx, b.VehicleModel, models.ActionPickupCompleted, userID)
	return b, nil
}

// Drop completes the user's first TRIP_ACTIVE booking: a final metrics
// snapshot is taken, a trip history row is archived, and the booking record
// is deleted.
func (s *Service) Drop(ctx context.Context, userID string) (*models.TripHistory, error) {
	b, err := s.firstWithStatus(ctx, userID, models.BookingTripActive)
	if err != nil {
		return nil, err
	}

	// Final snapshot before the record disappears.
	s.Profile.MetricsAt(s.Now().Sub(b.BookingTime), s.Rand).Apply(b)

	history := models.TripHistory{
		UserID:         b.UserID,
		VehicleModel:   b.VehicleModel,
		PickupLocation: b.PickupLocation,
		DropLocation:   b.DropLocation,
		Distance:       b.Distance,
		Duration:       b.Duration,
		CompletedAt:    s.Now(),
	}
	if err := s.History.InsertTripHistory(ctx, history); err != nil {
		return nil, err
	}
	if err := s.Bookings.DeleteBooking(ctx, b.ID.Hex()); err != nil {
		return nil, err
	}
	s.Audit.Record(ctx, b.VehicleModel, models.ActionTripCompleted, userID)
	return &history, nil
}

// ListByUser returns the user's bookings. Active trips get their metrics
// recomputed from the booking clock and written back as a memoized snapshot;
// a failed write-back is logged and the fresh values are returned anyway.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	bookings, err := s.Bookings.FindBookingsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		if bookings[i].Status != models.BookingTripActive {
			continue
		}
		s.Profile.MetricsAt(s.Now().Sub(bookings[i].BookingTime), s.Rand).Apply(&bookings[i])
		if err := s.Bookings.UpdateBooking(ctx, bookings[i].ID.Hex(), bookings[i]); err != nil {
			log.WithError(err).WithField("booking_id", bookings[i].ID.Hex()).Error("Failed to memoize trip metrics")
		}
	}
	return bookings, nil
}

// ListAll returns every booking without recomputing metrics.
func (s *Service) ListAll(ctx context.Context) ([]models.Booking, error) {
	return s.Bookings.FindBookings(ctx)
}

// DashboardStats returns booking counts by state.
func (s *Service) DashboardStats(ctx context.Context) (Stats, error) {
	total, err := s.Bookings.CountBookings(ctx)
	if err != nil {
		return Stats{}, err
	}
	pending, err := s.Bookings.CountBookingsByStatus(ctx, models.BookingPending)
	if err != nil {
		return Stats{}, err
	}
	active, err := s.Bookings.CountBookingsByStatus(ctx, models.BookingTripActive)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Total: total, Pending: pending, Active: active}, nil
}

// HistoryByUser lists the user's completed trips, newest first.
func (s *Service) HistoryByUser(ctx context.Context, userID string) ([]models.TripHistory, error) {
	return s.History.FindTripHistoryByUser(ctx, userID)
}

func (s *Service) firstWithStatus(ctx context.Context, userID string, status models.BookingStatus) (*models.Booking, error) {
	bookings, err := s.Bookings.FindBookingsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	// Store ordering is ascending id, so this picks the oldest match.
	for i := range bookings {
		if bookings[i].Status == status {
			return &bookings[i], nil
		}
	}
	return nil, db.ErrNotFound
}
