package db

import (
	"context"
	"fmt"
	"time"

	"github.com/neurofleet/neurofleet-core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoVehicleStore implements VehicleStore for MongoDB.
type MongoVehicleStore struct {
	Collection *mongo.Collection
}

// InsertVehicle inserts a vehicle record and returns its hex id.
func (s *MongoVehicleStore) InsertVehicle(ctx context.Context, vehicle models.Vehicle) (string, error) {
	if s.Collection == nil {
		return "", fmt.Errorf("mongo collection is nil")
	}
	vehicle.CreatedAt = time.Now()
	res, err := s.Collection.InsertOne(ctx, vehicle)
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// FindVehicleByID finds a vehicle by its ID.
func (s *MongoVehicleStore) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid vehicle ID: %w", err)
	}
	var vehicle models.Vehicle
	err = s.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&vehicle)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// FindVehicles returns all vehicles ordered by ascending id.
func (s *MongoVehicleStore) FindVehicles(ctx context.Context) ([]models.Vehicle, error) {
	return s.findVehicles(ctx, bson.M{})
}

// FindAvailableInSector returns AVAILABLE vehicles in the given sector,
// ordered by ascending id.
func (s *MongoVehicleStore) FindAvailableInSector(ctx context.Context, sector string) ([]models.Vehicle, error) {
	return s.findVehicles(ctx, bson.M{"status": models.VehicleAvailable, "sector": sector})
}

func (s *MongoVehicleStore) findVehicles(ctx context.Context, filter bson.M) ([]models.Vehicle, error) {
	if s.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var vehicles []models.Vehicle
	if err := cursor.All(ctx, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// UpdateVehicle updates a vehicle by its ID.
func (s *MongoVehicleStore) UpdateVehicle(ctx context.Context, id string, vehicle models.Vehicle) error {
	if s.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid vehicle ID: %w", err)
	}
	vehicle.ID = objectID
	result, err := s.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": vehicle})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteVehicle deletes a vehicle by its ID.
func (s *MongoVehicleStore) DeleteVehicle(ctx context.Context, id string) error {
	if s.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid vehicle ID: %w", err)
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
