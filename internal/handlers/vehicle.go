package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/neurofleet/neurofleet-core/internal/db"
	"github.com/neurofleet/neurofleet-core/internal/models"
)

// VehicleHandler exposes raw registry CRUD. These endpoints perform no state
// transitions; lifecycle changes go through the fleet handler.
type VehicleHandler struct {
	vehicles db.VehicleStore
}

// NewVehicleHandler creates a vehicle handler.
func NewVehicleHandler(vehicles db.VehicleStore) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles}
}

// List returns all vehicles.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.vehicles.FindVehicles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	writeJSON(w, http.StatusOK, vehicles)
}

// Create registers a new vehicle.
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var vehicle models.Vehicle
	if !decodeBody(w, r, &vehicle) {
		return
	}
	if vehicle.Status == "" {
		vehicle.Status = models.VehicleAvailable
	}
	id, err := h.vehicles.InsertVehicle(r.Context(), vehicle)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Get returns one vehicle by id.
func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.vehicles.FindVehicleByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// Update replaces a vehicle's mutable fields.
func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var vehicle models.Vehicle
	if !decodeBody(w, r, &vehicle) {
		return
	}
	if err := h.vehicles.UpdateVehicle(r.Context(), mux.Vars(r)["id"], vehicle); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "updated"})
}

// Delete removes a vehicle from the registry.
func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.vehicles.DeleteVehicle(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
