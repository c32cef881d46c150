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

type SessionRepository struct {
	coll *mongo.Collection
}

func NewSessionRepository(coll *mongo.Collection) *SessionRepository {
	return &SessionRepository{coll: coll}
}

// RecordLogin appends a login time to the session for this user, address and
// user agent, creating the session on first sight.
func (r *SessionRepository) RecordLogin(ctx context.Context, userID, ip string, device models.DeviceDetails, at time.Time) error {
	filter := bson.M{
		"userId":                  userID,
		"ipAddress":               ip,
		"deviceDetails.userAgent": device.UserAgent,
	}
	update := bson.M{
		"$push": bson.M{"loginTimes": at},
		"$set": bson.M{
			"deviceDetails.browser": device.Browser,
			"deviceDetails.os":      device.OS,
			"deviceDetails.device":  device.Device,
		},
		"$setOnInsert": bson.M{"createdOn": at},
	}

	if _, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("recording session: %w", err)
	}
	return nil
}
