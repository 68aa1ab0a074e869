package db

import (
	"context"
	"fmt"

	"github.com/neurofleet/neurofleet-core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAuditStore implements AuditStore for MongoDB.
type MongoAuditStore struct {
	Collection *mongo.Collection
}

// InsertAuditLog appends an audit entry. Entries are never updated or deleted.
func (s *MongoAuditStore) InsertAuditLog(ctx context.Context, entry models.AuditLog) error {
	if s.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := s.Collection.InsertOne(ctx, entry)
	return err
}

// FindAuditLogsByUser returns entries for a subject user, newest first.
func (s *MongoAuditStore) FindAuditLogsByUser(ctx context.Context, userID string) ([]models.AuditLog, error) {
	return s.find(ctx, bson.M{"subject_user_id": userID}, 0)
}

// FindRecentAuditLogs returns the newest entries across all subjects.
func (s *MongoAuditStore) FindRecentAuditLogs(ctx context.Context, limit int64) ([]models.AuditLog, error) {
	return s.find(ctx, bson.M{}, limit)
}

func (s *MongoAuditStore) find(ctx context.Context, filter bson.M, limit int64) ([]models.AuditLog, error) {
	if s.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := s.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var entries []models.AuditLog
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
