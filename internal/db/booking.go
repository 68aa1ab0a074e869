package db

import (
	"context"
	"fmt"

	"github.com/neurofleet/neurofleet-core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingStore implements BookingStore for MongoDB.
type MongoBookingStore struct {
	Collection *mongo.Collection
}

// InsertBooking inserts a booking record and returns its hex id.
func (s *MongoBookingStore) InsertBooking(ctx context.Context, booking models.Booking) (string, error) {
	if s.Collection == nil {
		return "", fmt.Errorf("mongo collection is nil")
	}
	res, err := s.Collection.InsertOne(ctx, booking)
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// FindBookingByID finds a booking by its ID.
func (s *MongoBookingStore) FindBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID: %w", err)
	}
	var booking models.Booking
	err = s.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// FindBookingsByUser returns a user's bookings ordered by ascending id.
func (s *MongoBookingStore) FindBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.findBookings(ctx, bson.M{"user_id": userID})
}

// FindBookings returns all bookings ordered by ascending id.
func (s *MongoBookingStore) FindBookings(ctx context.Context) ([]models.Booking, error) {
	return s.findBookings(ctx, bson.M{})
}

func (s *MongoBookingStore) findBookings(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	if s.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// CountBookings counts all booking records.
func (s *MongoBookingStore) CountBookings(ctx context.Context) (int64, error) {
	if s.Collection == nil {
		return 0, fmt.Errorf("mongo collection is nil")
	}
	return s.Collection.CountDocuments(ctx, bson.M{})
}

// CountBookingsByStatus counts bookings in the given status.
func (s *MongoBookingStore) CountBookingsByStatus(ctx context.Context, status models.BookingStatus) (int64, error) {
	if s.Collection == nil {
		return 0, fmt.Errorf("mongo collection is nil")
	}
	return s.Collection.CountDocuments(ctx, bson.M{"status": status})
}

// UpdateBooking updates a booking by its ID.
func (s *MongoBookingStore) UpdateBooking(ctx context.Context, id string, booking models.Booking) error {
	if s.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid booking ID: %w", err)
	}
	booking.ID = objectID
	result, err := s.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": booking})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBooking deletes a booking by its ID.
func (s *MongoBookingStore) DeleteBooking(ctx context.Context, id string) error {
	if s.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid booking ID: %w", err)
	}
	result, err := s.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoTripHistoryStore implements TripHistoryStore for MongoDB.
type MongoTripHistoryStore struct {
	Collection *mongo.Collection
}

// InsertTripHistory appends a completed trip to the archive.
func (s *MongoTripHistoryStore) InsertTripHistory(ctx context.Context, history models.TripHistory) error {
	if s.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := s.Collection.InsertOne(ctx, history)
	return err
}

// FindTripHistoryByUser returns a user's completed trips, newest first.
func (s *MongoTripHistoryStore) FindTripHistoryByUser(ctx context.Context, userID string) ([]models.TripHistory, error) {
	if s.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	opts := options.Find().SetSort(bson.D{{Key: "completed_at", Value: -1}})
	cursor, err := s.Collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var trips []models.TripHistory
	if err := cursor.All(ctx, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}
