package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/neurofleet/neurofleet-core/internal/db"
	"github.com/neurofleet/neurofleet-core/internal/middleware"
	"github.com/neurofleet/neurofleet-core/internal/models"
)

// In-memory stores backing the handler tests. Slices preserve insertion
// order, which stands in for the ascending-id ordering of the Mongo stores.

type memVehicleStore struct {
	vehicles []models.Vehicle
}

func (m *memVehicleStore) InsertVehicle(_ context.Context, v models.Vehicle) (string, error) {
	v.ID = primitive.NewObjectID()
	m.vehicles = append(m.vehicles, v)
	return v.ID.Hex(), nil
}

func (m *memVehicleStore) FindVehicleByID(_ context.Context, id string) (*models.Vehicle, error) {
	for i := range m.vehicles {
		if m.vehicles[i].ID.Hex() == id {
			v := m.vehicles[i]
			return &v, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *memVehicleStore) FindVehicles(_ context.Context) ([]models.Vehicle, error) {
	out := make([]models.Vehicle, len(m.vehicles))
	copy(out, m.vehicles)
	return out, nil
}

func (m *memVehicleStore) FindAvailableInSector(_ context.Context, sector string) ([]models.Vehicle, error) {
	var out []models.Vehicle
	for _, v := range m.vehicles {
		if v.Sector == sector && v.Status == models.VehicleAvailable {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memVehicleStore) UpdateVehicle(_ context.Context, id string, v models.Vehicle) error {
	for i := range m.vehicles {
		if m.vehicles[i].ID.Hex() == id {
			v.ID = m.vehicles[i].ID
			m.vehicles[i] = v
			return nil
		}
	}
	return db.ErrNotFound
}

func (m *memVehicleStore) DeleteVehicle(_ context.Context, id string) error {
	for i := range m.vehicles {
		if m.vehicles[i].ID.Hex() == id {
			m.vehicles = append(m.vehicles[:i], m.vehicles[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

type memAssignmentStore struct {
	links []models.AssignmentLink
}

func (m *memAssignmentStore) InsertAssignment(_ context.Context, l models.AssignmentLink) (string, error) {
	l.ID = primitive.NewObjectID()
	m.links = append(m.links, l)
	return l.ID.Hex(), nil
}

func (m *memAssignmentStore) FindAssignmentByID(_ context.Context, id string) (*models.AssignmentLink, error) {
	for i := range m.links {
		if m.links[i].ID.Hex() == id {
			l := m.links[i]
			return &l, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *memAssignmentStore) FindAssignmentsByUser(_ context.Context, userID string) ([]models.AssignmentLink, error) {
	var out []models.AssignmentLink
	for _, l := range m.links {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memAssignmentStore) FindAssignmentsByStatus(_ context.Context, status models.AssignmentStatus) ([]models.AssignmentLink, error) {
	var out []models.AssignmentLink
	for _, l := range m.links {
		if l.Status == status {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memAssignmentStore) UpdateAssignment(_ context.Context, id string, l models.AssignmentLink) error {
	for i := range m.links {
		if m.links[i].ID.Hex() == id {
			l.ID = m.links[i].ID
			m.links[i] = l
			return nil
		}
	}
	return db.ErrNotFound
}

func (m *memAssignmentStore) DeleteAssignment(_ context.Context, id string) error {
	for i := range m.links {
		if m.links[i].ID.Hex() == id {
			m.links = append(m.links[:i], m.links[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

type memBookingStore struct {
	bookings []models.Booking
}

func (m *memBookingStore) InsertBooking(_ context.Context, b models.Booking) (string, error) {
	b.ID = primitive.NewObjectID()
	m.bookings = append(m.bookings, b)
	return b.ID.Hex(), nil
}

func (m *memBookingStore) FindBookingByID(_ context.Context, id string) (*models.Booking, error) {
	for i := range m.bookings {
		if m.bookings[i].ID.Hex() == id {
			b := m.bookings[i]
			return &b, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *memBookingStore) FindBookingsByUser(_ context.Context, userID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBookingStore) FindBookings(_ context.Context) ([]models.Booking, error) {
	out := make([]models.Booking, len(m.bookings))
	copy(out, m.bookings)
	return out, nil
}

func (m *memBookingStore) CountBookings(_ context.Context) (int64, error) {
	return int64(len(m.bookings)), nil
}

func (m *memBookingStore) CountBookingsByStatus(_ context.Context, status models.BookingStatus) (int64, error) {
	var n int64
	for _, b := range m.bookings {
		if b.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *memBookingStore) UpdateBooking(_ context.Context, id string, b models.Booking) error {
	for i := range m.bookings {
		if m.bookings[i].ID.Hex() == id {
			b.ID = m.bookings[i].ID
			m.bookings[i] = b
			return nil
		}
	}
	return db.ErrNotFound
}

func (m *memBookingStore) DeleteBooking(_ context.Context, id string) error {
	for i := range m.bookings {
		if m.bookings[i].ID.Hex() == id {
			m.bookings = append(m.bookings[:i], m.bookings[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

type memTripHistoryStore struct {
	trips []models.TripHistory
}

func (m *memTripHistoryStore) InsertTripHistory(_ context.Context, t models.TripHistory) error {
	t.ID = primitive.NewObjectID()
	m.trips = append(m.trips, t)
	return nil
}

func (m *memTripHistoryStore) FindTripHistoryByUser(_ context.Context, userID string) ([]models.TripHistory, error) {
	var out []models.TripHistory
	for _, t := range m.trips {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

type memAuditStore struct {
	entries []models.AuditLog
}

func (m *memAuditStore) InsertAuditLog(_ context.Context, e models.AuditLog) error {
	m.entries = append(m.entries, e)
	return nil
}

func (m *memAuditStore) FindAuditLogsByUser(_ context.Context, userID string) ([]models.AuditLog, error) {
	var out []models.AuditLog
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].SubjectUserID == userID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

func (m *memAuditStore) FindRecentAuditLogs(_ context.Context, limit int64) ([]models.AuditLog, error) {
	var out []models.AuditLog
	for i := len(m.entries) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

type memUserStore struct {
	users []models.User
}

func (m *memUserStore) InsertUser(_ context.Context, u models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.users = append(m.users, u)
	return nil
}

func (m *memUserStore) FindUserByID(_ context.Context, id string) (*models.User, error) {
	for i := range m.users {
		if m.users[i].ID.Hex() == id {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *memUserStore) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	for i := range m.users {
		if m.users[i].Username == username {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *memUserStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	for i := range m.users {
		if m.users[i].Email == email {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *memUserStore) UpdateLastLogin(_ context.Context, id string) error {
	for i := range m.users {
		if m.users[i].ID.Hex() == id {
			now := time.Now()
			m.users[i].LastLogin = &now
			return nil
		}
	}
	return db.ErrNotFound
}

// asUser stamps authenticated claims onto the request, bypassing the JWT
// middleware the same way the router would have populated them.
func asUser(r *http.Request, userID string, role models.Role) *http.Request {
	claims := &models.Claims{UserID: userID, Username: userID, Role: role}
	return r.WithContext(context.WithValue(r.Context(), middleware.UserContextKey, claims))
}

func record(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}
