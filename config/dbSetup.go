package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names match the documents written by the existing deployment.
const (
	usersCollection            = "User"
	propertiesCollection       = "Proeprty-Details"
	statusesCollection         = "Property Staus"
	remarksCollection          = "User Property remark"
	sessionsCollection         = "User Session"
	demoAccountsCollection     = "Demos Given"
	paidAccountsCollection     = "Paid Accounts"
	passwordRequestsCollection = "password update request"
	suggestionsCollection      = "Suggestion"
	apiLogsCollection          = "ApiLog"
)

type Collections struct {
	Users            *mongo.Collection
	Properties       *mongo.Collection
	Statuses         *mongo.Collection
	Remarks          *mongo.Collection
	Sessions         *mongo.Collection
	DemoAccounts     *mongo.Collection
	PaidAccounts     *mongo.Collection
	PasswordRequests *mongo.Collection
	Suggestions      *mongo.Collection
	APILogs          *mongo.Collection
}

func ConnectDB(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, fmt.Errorf("MONGOURI not set in environment")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("MongoDB ping failed: %w", err)
	}

	slog.Info("connected to MongoDB")
	return client, nil
}

func InitCollections(client *mongo.Client, dbName string) *Collections {
	db := client.Database(dbName)
	return &Collections{
		Users:            db.Collection(usersCollection),
		Properties:       db.Collection(propertiesCollection),
		Statuses:         db.Collection(statusesCollection),
		Remarks:          db.Collection(remarksCollection),
		Sessions:         db.Collection(sessionsCollection),
		DemoAccounts:     db.Collection(demoAccountsCollection),
		PaidAccounts:     db.Collection(paidAccountsCollection),
		PasswordRequests: db.Collection(passwordRequestsCollection),
		Suggestions:      db.Collection(suggestionsCollection),
		APILogs:          db.Collection(apiLogsCollection),
	}
}

// EnsureIndexes creates the indexes the services rely on. The unique
// (userId, propId) indexes back the one-record-per-pair invariant.
func EnsureIndexes(ctx context.Context, c *Collections) error {
	specs := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{c.Users, mongo.IndexModel{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{c.Users, mongo.IndexModel{Keys: bson.D{{Key: "isPremium", Value: 1}}}},
		{c.Statuses, mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "propId", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{c.Statuses, mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}}}},
		{c.Remarks, mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "propId", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{c.Properties, mongo.IndexModel{Keys: bson.D{{Key: "isDeleted", Value: 1}, {Key: "createdOn", Value: -1}}}},
		{c.Properties, mongo.IndexModel{Keys: bson.D{{Key: "type", Value: 1}, {Key: "createdOn", Value: -1}}}},
		{c.DemoAccounts, mongo.IndexModel{Keys: bson.D{{Key: "expiredDate", Value: 1}, {Key: "status", Value: 1}}}},
		{c.DemoAccounts, mongo.IndexModel{Keys: bson.D{{Key: "number", Value: 1}}}},
		{c.PaidAccounts, mongo.IndexModel{Keys: bson.D{{Key: "expiredDate", Value: 1}, {Key: "status", Value: 1}}}},
		{c.PaidAccounts, mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}}}},
	}

	for _, s := range specs {
		if _, err := s.coll.Indexes().CreateOne(ctx, s.model); err != nil {
			return fmt.Errorf("creating index on %s: %w", s.coll.Name(), err)
		}
	}
	return nil
}

func CloseDBConnection(ctx context.Context, client *mongo.Client) {
	if err := client.Disconnect(ctx); err != nil {
		slog.Error("error closing database connection", "error", err)
		return
	}
	slog.Info("MongoDB connection closed")
}
