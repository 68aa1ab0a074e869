package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/neurofleet/neurofleet-core/internal/booking"
	"github.com/neurofleet/neurofleet-core/internal/middleware"
	"github.com/neurofleet/neurofleet-core/internal/models"
)

// BookingHandler exposes the booking lifecycle and the trip history archive.
type BookingHandler struct {
	bookings *booking.Service
}

// NewBookingHandler creates a booking handler.
func NewBookingHandler(svc *booking.Service) *BookingHandler {
	return &BookingHandler{bookings: svc}
}

type createBookingPayload struct {
	VehicleModel   string `json:"vehicle_model"`
	PickupLocation string `json:"pickup_location"`
	DropLocation   string `json:"drop_location"`
}

// Create registers a new pending booking for the caller.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "UNAUTHORIZED"})
		return
	}
	var payload createBookingPayload
	if !decodeBody(w, r, &payload) {
		return
	}
	if payload.VehicleModel == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "vehicle_model is required"})
		return
	}
	id, err := h.bookings.Create(r.Context(), models.Booking{
		UserID:         claims.UserID,
		VehicleModel:   payload.VehicleModel,
		PickupLocation: payload.PickupLocation,
		DropLocation:   payload.DropLocation,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Approve authorizes a pending booking.
func (h *BookingHandler) Approve(w http.ResponseWriter, r *http.Request) {
	if err := h.bookings.Approve(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "approved"})
}

// ConfirmPickup activates the caller's first approved booking.
func (h *BookingHandler) ConfirmPickup(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "UNAUTHORIZED"})
		return
	}
	b, err := h.bookings.ConfirmPickup(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// Drop completes the caller's active trip and returns the archived record.
func (h *BookingHandler) Drop(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "UNAUTHORIZED"})
		return
	}
	history, err := h.bookings.Drop(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// MyBookings lists the caller's bookings with fresh metrics on active trips.
func (h *BookingHandler) MyBookings(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "UNAUTHORIZED"})
		return
	}
	bookings, err := h.bookings.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

// List returns every booking for the operations view.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

// Stats returns booking counts by state.
func (h *BookingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.bookings.DashboardStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// History lists the caller's completed trips, newest first.
func (h *BookingHandler) History(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "UNAUTHORIZED"})
		return
	}
	trips, err := h.bookings.HistoryByUser(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if trips == nil {
		trips = []models.TripHistory{}
	}
	writeJSON(w, http.StatusOK, trips)
}
