package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/neurofleet/neurofleet-core/internal/fleet"
	"github.com/neurofleet/neurofleet-core/internal/middleware"
	"github.com/neurofleet/neurofleet-core/internal/models"
)

// FleetHandler exposes the assignment link lifecycle and the sector
// redistribution engine.
type FleetHandler struct {
	fleet *fleet.Service
}

// NewFleetHandler creates a fleet handler.
func NewFleetHandler(svc *fleet.Service) *FleetHandler {
	return &FleetHandler{fleet: svc}
}

type requestAssignmentPayload struct {
	VehicleID string `json:"vehicle_id"`
}

// RequestAssignment creates a pending link between the caller and a vehicle.
func (h *FleetHandler) RequestAssignment(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "UNAUTHORIZED"})
		return
	}
	var payload requestAssignmentPayload
	if !decodeBody(w, r, &payload) {
		return
	}
	if payload.VehicleID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "vehicle_id is required"})
		return
	}
	link, err := h.fleet.Request(r.Context(), claims.UserID, payload.VehicleID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

// Approve moves a pending link to approved.
func (h *FleetHandler) Approve(w http.ResponseWriter, r *http.Request) {
	if err := h.fleet.Approve(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "approved"})
}

// Reject marks a link rejected and releases the vehicle.
func (h *FleetHandler) Reject(w http.ResponseWriter, r *http.Request) {
	if err := h.fleet.Reject(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "rejected"})
}

// ConfirmPickup advances the caller's first approved link to pickup_completed.
func (h *FleetHandler) ConfirmPickup(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "UNAUTHORIZED"})
		return
	}
	link, err := h.fleet.ConfirmPickup(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

type maintenancePayload struct {
	Issue string `json:"issue"`
}

// ReportMaintenance flags the caller's active lease for service.
func (h *FleetHandler) ReportMaintenance(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "UNAUTHORIZED"})
		return
	}
	var payload maintenancePayload
	if !decodeBody(w, r, &payload) {
		return
	}
	link, err := h.fleet.ReportMaintenance(r.Context(), claims.UserID, payload.Issue)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// TriggerEmergency forces the caller's leased vehicle into an emergency stop.
func (h *FleetHandler) TriggerEmergency(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "UNAUTHORIZED"})
		return
	}
	if err := h.fleet.TriggerEmergency(r.Context(), claims.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "emergency stop triggered"})
}

// AuthorizeService completes a maintenance cycle on a flagged link.
func (h *FleetHandler) AuthorizeService(w http.ResponseWriter, r *http.Request) {
	if err := h.fleet.AuthorizeService(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "service authorized"})
}

// DropAssignment removes a link outright.
func (h *FleetHandler) DropAssignment(w http.ResponseWriter, r *http.Request) {
	if err := h.fleet.Drop(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MyAssignments lists the caller's links, oldest first.
func (h *FleetHandler) MyAssignments(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "UNAUTHORIZED"})
		return
	}
	links, err := h.fleet.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if links == nil {
		links = []models.AssignmentLink{}
	}
	writeJSON(w, http.StatusOK, links)
}

type redistributePayload struct {
	SourceSector string `json:"source_sector"`
	DestSector   string `json:"dest_sector"`
	Count        *int   `json:"count"`
}

type redistributeResponse struct {
	Moved int `json:"moved"`
}

// Redistribute relocates available vehicles between sectors. The count is
// validated before any read so a malformed request never mutates the fleet.
func (h *FleetHandler) Redistribute(w http.ResponseWriter, r *http.Request) {
	var payload redistributePayload
	if !decodeBody(w, r, &payload) {
		return
	}
	if payload.Count == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "INVALID_COUNT"})
		return
	}
	if payload.SourceSector == "" || payload.DestSector == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "source_sector and dest_sector are required"})
		return
	}
	moved, err := h.fleet.Redistribute(r.Context(), payload.SourceSector, payload.DestSector, *payload.Count)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, redistributeResponse{Moved: moved})
}
