package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// BookingStatus covers the live states only. Completed and rejected bookings
// are removed from the collection (completion migrates into TripHistory).
type BookingStatus string

const (
	BookingPending    BookingStatus = "PENDING"
	BookingApproved   BookingStatus = "APPROVED"
	BookingTripActive BookingStatus = "TRIP_ACTIVE"
)

// Booking represents a ride request. The metric fields are a memoized snapshot:
// while the trip is active they are recomputed from BookingTime on every read
// and written back, never streamed. Distance, duration and velocity are kept as
// display strings to match the dashboard payloads.
type Booking struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         string             `bson:"user_id" json:"user_id"`
	VehicleModel   string             `bson:"vehicle_model" json:"vehicle_model"`
	Status         BookingStatus      `bson:"status" json:"status"`
	PickupLocation string             `bson:"pickup_location" json:"pickup_location"`
	DropLocation   string             `bson:"drop_location" json:"drop_location"`
	BookingTime    time.Time          `bson:"booking_time" json:"booking_time"`

	Distance string `bson:"distance" json:"distance"` // km remaining
	Duration string `bson:"duration" json:"duration"` // hours remaining
	Progress int    `bson:"progress" json:"progress"` // 0-100
	Velocity string `bson:"velocity" json:"velocity"` // km/h, display only
	Energy   int    `bson:"energy" json:"energy"`     // 0-100
}

// TripHistory is the append-only archive of a completed booking.
type TripHistory struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         string             `bson:"user_id" json:"user_id"`
	VehicleModel   string             `bson:"vehicle_model" json:"vehicle_model"`
	PickupLocation string             `bson:"pickup_location" json:"pickup_location"`
	DropLocation   string             `bson:"drop_location" json:"drop_location"`
	Distance       string             `bson:"distance" json:"distance"`
	Duration       string             `bson:"duration" json:"duration"`
	CompletedAt    time.Time          `bson:"completed_at" json:"completed_at"`
}
