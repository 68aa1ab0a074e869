package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// Audit action codes written by the lifecycle services.
const (
	ActionAssignmentRequested = "ASSIGNMENT_REQUESTED"
	ActionAssignmentApproved  = "ASSIGNMENT_APPROVED"
	ActionAssignmentRejected  = "ASSIGNMENT_REJECTED"
	ActionPickupCompleted     = "PICKUP_COMPLETED"
	ActionBookingAuthorized   = "BOOKING_AUTHORIZED"
	ActionMaintenanceReported = "MAINTENANCE_REPORTED"
	ActionServiceAuthorized   = "SERVICE_AUTHORIZED"
	ActionEmergencyStop       = "EMERGENCY_STOP"
	ActionAssignmentDropped   = "ASSIGNMENT_DROPPED"
	ActionTripCompleted       = "TRIP_COMPLETED"
	ActionUnitsRedistributed  = "UNITS_REDISTRIBUTED"
)

// AuditLog is an append-only event record. SubjectUserID is a first-class
// field queried by equality; action codes never embed identifiers.
type AuditLog struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Subject       string             `bson:"subject" json:"subject"` // vehicle model or sentinel label
	ActionType    string             `bson:"action_type" json:"action_type"`
	SubjectUserID string             `bson:"subject_user_id,omitempty" json:"subject_user_id,omitempty"`
	Timestamp     time.Time          `bson:"timestamp" json:"timestamp"`
}
