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

// MongoAssignmentStore implements AssignmentStore for MongoDB.
type MongoAssignmentStore struct {
	Collection *mongo.Collection
}

// InsertAssignment inserts an assignment link and returns its hex id.
func (s *MongoAssignmentStore) InsertAssignment(ctx context.Context, link models.AssignmentLink) (string, error) {
	if s.Collection == nil {
		return "", fmt.Errorf("mongo collection is nil")
	}
	res, err := s.Collection.InsertOne(ctx, link)
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// FindAssignmentByID finds an assignment link by its ID.
func (s *MongoAssignmentStore) FindAssignmentByID(ctx context.Context, id string) (*models.AssignmentLink, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid assignment ID: %w", err)
	}
	var link models.AssignmentLink
	err = s.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&link)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// FindAssignmentsByUser returns a user's links ordered by ascending id.
func (s *MongoAssignmentStore) FindAssignmentsByUser(ctx context.Context, userID string) ([]models.AssignmentLink, error) {
	return s.findAssignments(ctx, bson.M{"user_id": userID})
}

// FindAssignmentsByStatus returns links in the given status ordered by
// ascending id. The telemetry simulator uses this with "approved".
func (s *MongoAssignmentStore) FindAssignmentsByStatus(ctx context.Context, status models.AssignmentStatus) ([]models.AssignmentLink, error) {
	return s.findAssignments(ctx, bson.M{"status": status})
}

func (s *MongoAssignmentStore) findAssignments(ctx context.Context, filter bson.M) ([]models.AssignmentLink, error) {
	if s.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var links []models.AssignmentLink
	if err := cursor.All(ctx, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// UpdateAssignment updates an assignment link by its ID.
func (s *MongoAssignmentStore) UpdateAssignment(ctx context.Context, id string, link models.AssignmentLink) error {
	if s.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid assignment ID: %w", err)
	}
	link.ID = objectID
	result, err := s.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": link})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAssignment removes an assignment link. Links are hard-deleted on
// drop/termination, never soft-deleted.
func (s *MongoAssignmentStore) DeleteAssignment(ctx context.Context, id string) error {
	if s.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid assignment ID: %w", err)
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
