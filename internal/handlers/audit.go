package handlers

import (
	"net/http"
	"strconv"

	"github.com/neurofleet/neurofleet-core/internal/audit"
	"github.com/neurofleet/neurofleet-core/internal/middleware"
	"github.com/neurofleet/neurofleet-core/internal/models"
)

const defaultRecentLimit = 50

// AuditHandler exposes read access to the audit trail.
type AuditHandler struct {
	recorder *audit.Recorder
}

// NewAuditHandler creates an audit handler.
func NewAuditHandler(recorder *audit.Recorder) *AuditHandler {
	return &AuditHandler{recorder: recorder}
}

// MyActivity lists audit entries attributed to the caller, newest first.
func (h *AuditHandler) MyActivity(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "UNAUTHORIZED"})
		return
	}
	entries, err := h.recorder.ByUser(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []models.AuditLog{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Recent lists the newest entries across the fleet. An optional ?limit= query
// caps the page size.
func (h *AuditHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultRecentLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}
	entries, err := h.recorder.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []models.AuditLog{}
	}
	writeJSON(w, http.StatusOK, entries)
}
