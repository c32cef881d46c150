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

type RemarkRepository struct {
	coll *mongo.Collection
}

func NewRemarkRepository(coll *mongo.Collection) *RemarkRepository {
	return &RemarkRepository{coll: coll}
}

func (r *RemarkRepository) Upsert(ctx context.Context, userID, propID, remark string, now time.Time) (*models.PropertyRemark, error) {
	filter := bson.M{"userId": userID, "propId": propID}
	update := bson.M{
		"$set":         bson.M{"remark": remark, "updatedOn": now},
		"$setOnInsert": bson.M{"createdOn": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var record models.PropertyRemark
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&record); err != nil {
		return nil, fmt.Errorf("upserting remark: %w", err)
	}
	return &record, nil
}

func (r *RemarkRepository) ForUser(ctx context.Context, userID string, propIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(propIDs))
	if len(propIDs) == 0 {
		return out, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID, "propId": bson.M{"$in": propIDs}})
	if err != nil {
		return nil, fmt.Errorf("finding remarks: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var rec models.PropertyRemark
		if err := cursor.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decoding remark: %w", err)
		}
		out[rec.PropID] = rec.Remark
	}
	return out, cursor.Err()
}
