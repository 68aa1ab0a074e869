package audit

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/neurofleet/neurofleet-core/internal/db"
	"github.com/neurofleet/neurofleet-core/internal/models"
)

// Recorder appends audit entries. Writes are fire-and-forget: a failed insert
// is logged and never propagated to the lifecycle operation that produced it.
type Recorder struct {
	Store db.AuditStore
	Now   func() time.Time
}

// NewRecorder creates a recorder over the given store.
func NewRecorder(store db.AuditStore) *Recorder {
	return &Recorder{Store: store, Now: time.Now}
}

// Record appends one entry. subject is the vehicle model or a sentinel label,
// userID is the subject user (may be empty for fleet-wide events).
func (r *Recorder) Record(ctx context.Context, subject, actionType, userID string) {
	entry := models.AuditLog{
		Subject:       subject,
		ActionType:    actionType,
		SubjectUserID: userID,
		Timestamp:     r.Now(),
	}
	if err := r.Store.InsertAuditLog(ctx, entry); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"subject": subject,
			"action":  actionType,
		}).Error("Failed to append audit entry")
	}
}

// ByUser lists entries whose subject user matches userID, newest first.
func (r *Recorder) ByUser(ctx context.Context, userID string) ([]models.AuditLog, error) {
	return r.Store.FindAuditLogsByUser(ctx, userID)
}

// Recent lists the newest entries across the fleet.
func (r *Recorder) Recent(ctx context.Context, limit int64) ([]models.AuditLog, error) {
	return r.Store.FindRecentAuditLogs(ctx, limit)
}
