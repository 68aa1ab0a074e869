package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/neurofleet/neurofleet-core/internal/middleware"
	"github.com/neurofleet/neurofleet-core/internal/models"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth     *AuthHandler
	Vehicles *VehicleHandler
	Fleet    *FleetHandler
	Bookings *BookingHandler
	Audit    *AuditHandler
}

// NewRouter mounts all routes behind the auth middleware. Operator-only
// transitions additionally require the manager role; admins pass every gate.
func NewRouter(h Handlers, authMW *middleware.AuthMiddleware) *mux.Router {
	r := mux.NewRouter()
	r.Use(authMW.Authenticate)

	manager := authMW.RequireRole(models.RoleManager)

	r.HandleFunc("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/auth/register", h.Auth.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", h.Auth.Login).Methods(http.MethodPost)

	// Vehicle registry.
	r.HandleFunc("/api/vehicles", h.Vehicles.List).Methods(http.MethodGet)
	r.Handle("/api/vehicles", manager(http.HandlerFunc(h.Vehicles.Create))).Methods(http.MethodPost)
	r.HandleFunc("/api/vehicles/{id}", h.Vehicles.Get).Methods(http.MethodGet)
	r.Handle("/api/vehicles/{id}", manager(http.HandlerFunc(h.Vehicles.Update))).Methods(http.MethodPut)
	r.Handle("/api/vehicles/{id}", manager(http.HandlerFunc(h.Vehicles.Delete))).Methods(http.MethodDelete)

	// Assignment links.
	r.HandleFunc("/api/assignments", h.Fleet.RequestAssignment).Methods(http.MethodPost)
	r.HandleFunc("/api/assignments/mine", h.Fleet.MyAssignments).Methods(http.MethodGet)
	r.Handle("/api/assignments/{id}/approve", manager(http.HandlerFunc(h.Fleet.Approve))).Methods(http.MethodPost)
	r.Handle("/api/assignments/{id}/reject", manager(http.HandlerFunc(h.Fleet.Reject))).Methods(http.MethodPost)
	r.Handle("/api/assignments/{id}/authorize-service", manager(http.HandlerFunc(h.Fleet.AuthorizeService))).Methods(http.MethodPost)
	r.Handle("/api/assignments/{id}", manager(http.HandlerFunc(h.Fleet.DropAssignment))).Methods(http.MethodDelete)
	r.HandleFunc("/api/assignments/pickup", h.Fleet.ConfirmPickup).Methods(http.MethodPost)
	r.HandleFunc("/api/assignments/maintenance", h.Fleet.ReportMaintenance).Methods(http.MethodPost)
	r.HandleFunc("/api/assignments/emergency", h.Fleet.TriggerEmergency).Methods(http.MethodPost)

	// Sector redistribution.
	r.Handle("/api/fleet/redistribute", manager(http.HandlerFunc(h.Fleet.Redistribute))).Methods(http.MethodPost)

	// Bookings and trip history.
	r.HandleFunc("/api/bookings", h.Bookings.Create).Methods(http.MethodPost)
	r.Handle("/api/bookings", manager(http.HandlerFunc(h.Bookings.List))).Methods(http.MethodGet)
	r.HandleFunc("/api/bookings/mine", h.Bookings.MyBookings).Methods(http.MethodGet)
	r.Handle("/api/bookings/stats", manager(http.HandlerFunc(h.Bookings.Stats))).Methods(http.MethodGet)
	r.Handle("/api/bookings/{id}/approve", manager(http.HandlerFunc(h.Bookings.Approve))).Methods(http.MethodPost)
	r.HandleFunc("/api/bookings/pickup", h.Bookings.ConfirmPickup).Methods(http.MethodPost)
	r.HandleFunc("/api/bookings/drop", h.Bookings.Drop).Methods(http.MethodPost)
	r.HandleFunc("/api/trips/history", h.Bookings.History).Methods(http.MethodGet)

	// Audit trail.
	r.HandleFunc("/api/audit/mine", h.Audit.MyActivity).Methods(http.MethodGet)
	r.Handle("/api/audit/recent", manager(http.HandlerFunc(h.Audit.Recent))).Methods(http.MethodGet)

	return r
}
