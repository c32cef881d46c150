package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/citynect/property-backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StatusRepository stores one status record per (userId, propId).
type StatusRepository struct {
	coll *mongo.Collection
}

func NewStatusRepository(coll *mongo.Collection) *StatusRepository {
	return &StatusRepository{coll: coll}
}

func (r *StatusRepository) Upsert(ctx context.Context, userID, propID, status string, now time.Time) (*models.PropertyStatus, error) {
	filter := bson.M{"userId": userID, "propId": propID}
	update := bson.M{
		"$set":         bson.M{"status": status, "updatedOn": now},
		"$setOnInsert": bson.M{"createdOn": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var record models.PropertyStatus
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&record); err != nil {
		return nil, fmt.Errorf("upserting status: %w", err)
	}
	return &record, nil
}

// ForUser maps propId to status for the given user and properties.
func (r *StatusRepository) ForUser(ctx context.Context, userID string, propIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(propIDs))
	if len(propIDs) == 0 {
		return out, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID, "propId": bson.M{"$in": propIDs}})
	if err != nil {
		return nil, fmt.Errorf("finding statuses: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var rec models.PropertyStatus
		if err := cursor.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decoding status: %w", err)
		}
		out[rec.PropID] = rec.Status
	}
	return out, cursor.Err()
}

// PropertyIDsWithStatus lists the properties the user marked with any of statuses.
func (r *StatusRepository) PropertyIDsWithStatus(ctx context.Context, userID string, statuses []string) ([]string, error) {
	if len(statuses) == 0 {
		return []string{}, nil
	}

	opts := options.Find().SetProjection(bson.M{"propId": 1})
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID, "status": bson.M{"$in": statuses}}, opts)
	if err != nil {
		return nil, fmt.Errorf("finding excluded properties: %w", err)
	}
	defer cursor.Close(ctx)

	ids := []string{}
	for cursor.Next(ctx) {
		var rec models.PropertyStatus
		if err := cursor.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decoding status: %w", err)
		}
		ids = append(ids, rec.PropID)
	}
	return ids, cursor.Err()
}
