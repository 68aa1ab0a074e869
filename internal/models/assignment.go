package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentStatus tracks a lease request through its lifecycle. Dropped links
// are deleted outright, so there is no terminal "dropped" value.
type AssignmentStatus string

const (
	AssignmentPending            AssignmentStatus = "pending"
	AssignmentApproved           AssignmentStatus = "approved"
	AssignmentRejected           AssignmentStatus = "rejected"
	AssignmentPickupCompleted    AssignmentStatus = "pickup_completed"
	AssignmentMaintenancePending AssignmentStatus = "maintenance_pending"
)

// Active reports whether the status counts toward the one-active-link-per-user
// convention. Only rejected links are inert.
func (s AssignmentStatus) Active() bool {
	return s != AssignmentRejected
}

// AssignmentLink binds a user to a leased vehicle. VehicleModel is denormalized
// from the vehicle registry at request time and never re-joined. The fuel,
// speed, tire pressure and condition fields are the telemetry simulator's
// working copy for this lease.
type AssignmentLink struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID           string             `bson:"user_id" json:"user_id"`
	VehicleID        primitive.ObjectID `bson:"vehicle_id" json:"vehicle_id"`
	VehicleModel     string             `bson:"vehicle_model" json:"vehicle_model"`
	Status           AssignmentStatus   `bson:"status" json:"status"`
	OperatorName     string             `bson:"operator_name,omitempty" json:"operator_name,omitempty"`
	MaintenanceIssue string             `bson:"maintenance_issue,omitempty" json:"maintenance_issue,omitempty"`

	Fuel         *float64 `bson:"fuel,omitempty" json:"fuel,omitempty"`
	Speed        float64  `bson:"speed" json:"speed"`
	TirePressure float64  `bson:"tire_pressure" json:"tire_pressure"`
	Condition    string   `bson:"condition,omitempty" json:"condition,omitempty"`
}
