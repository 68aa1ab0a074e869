package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// VehicleStatus is persisted as a string. Operators occasionally write custom
// labels through the raw update endpoint, so it is not treated as a closed enum.
type VehicleStatus string

const (
	VehicleAvailable     VehicleStatus = "AVAILABLE"
	VehicleInUse         VehicleStatus = "IN_USE"
	VehicleMaintenance   VehicleStatus = "MAINTENANCE"
	VehicleNeedsService  VehicleStatus = "NEEDS_SERVICE"
	VehicleEmergencyStop VehicleStatus = "EMERGENCY_STOP"
)

// Vehicle represents a fleet vehicle.
type Vehicle struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Type          string             `bson:"type" json:"type"` // "ICE" or "EV"
	Status        VehicleStatus      `bson:"status" json:"status"`
	Sector        string             `bson:"sector" json:"sector"`               // free-form zone label
	Speed         float64            `bson:"speed" json:"speed"`                 // km/h
	Fuel          float64            `bson:"fuel" json:"fuel"`                   // 0-100
	TirePressure  float64            `bson:"tire_pressure" json:"tire_pressure"` // PSI
	Condition     string             `bson:"condition" json:"condition"`
	TotalDistance float64            `bson:"total_distance" json:"total_distance"` // km, reset on service
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}
