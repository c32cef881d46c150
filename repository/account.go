package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/citynect/property-backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AccountRepository covers the demo and paid entitlement ledgers.
type AccountRepository struct {
	demos *mongo.Collection
	paid  *mongo.Collection
}

func NewAccountRepository(demos, paid *mongo.Collection) *AccountRepository {
	return &AccountRepository{demos: demos, paid: paid}
}

func (r *AccountRepository) InsertDemo(ctx context.Context, demo *models.DemoAccount) error {
	res, err := r.demos.InsertOne(ctx, demo)
	if err != nil {
		return fmt.Errorf("inserting demo account: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		demo.ID = oid
	}
	return nil
}

func (r *AccountRepository) CountDemosByNumber(ctx context.Context, number string) (int64, error) {
	n, err := r.demos.CountDocuments(ctx, bson.M{"number": number})
	if err != nil {
		return 0, fmt.Errorf("counting demo accounts: %w", err)
	}
	return n, nil
}

// SettleDemos marks every demo for number as paid and expired.
func (r *AccountRepository) SettleDemos(ctx context.Context, number string) error {
	update := bson.M{"$set": bson.M{"paymentStatus": models.PaymentSuccess, "status": models.AccountExpired}}
	if _, err := r.demos.UpdateMany(ctx, bson.M{"number": number}, update); err != nil {
		return fmt.Errorf("settling demo accounts: %w", err)
	}
	return nil
}

func (r *AccountRepository) ExpiredDemos(ctx context.Context, now time.Time) ([]models.DemoAccount, error) {
	cursor, err := r.demos.Find(ctx, expiredActive(now))
	if err != nil {
		return nil, fmt.Errorf("finding expired demo accounts: %w", err)
	}
	defer cursor.Close(ctx)

	demos := []models.DemoAccount{}
	if err := cursor.All(ctx, &demos); err != nil {
		return nil, fmt.Errorf("decoding demo accounts: %w", err)
	}
	return demos, nil
}

func (r *AccountRepository) SetDemoStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if _, err := r.demos.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}}); err != nil {
		return fmt.Errorf("updating demo account %s: %w", id.Hex(), err)
	}
	return nil
}

func (r *AccountRepository) InsertPaid(ctx context.Context, paid *models.PaidAccount) error {
	res, err := r.paid.InsertOne(ctx, paid)
	if err != nil {
		return fmt.Errorf("inserting paid account: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		paid.ID = oid
	}
	return nil
}

// PaidByUser returns the user's payment history, newest first.
func (r *AccountRepository) PaidByUser(ctx context.Context, userID string) ([]models.PaidAccount, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdOn", Value: -1}})
	cursor, err := r.paid.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("finding paid accounts: %w", err)
	}
	defer cursor.Close(ctx)

	paid := []models.PaidAccount{}
	if err := cursor.All(ctx, &paid); err != nil {
		return nil, fmt.Errorf("decoding paid accounts: %w", err)
	}
	return paid, nil
}

func (r *AccountRepository) ExpiredPaid(ctx context.Context, now time.Time) ([]models.PaidAccount, error) {
	cursor, err := r.paid.Find(ctx, expiredActive(now))
	if err != nil {
		return nil, fmt.Errorf("finding expired paid accounts: %w", err)
	}
	defer cursor.Close(ctx)

	paid := []models.PaidAccount{}
	if err := cursor.All(ctx, &paid); err != nil {
		return nil, fmt.Errorf("decoding paid accounts: %w", err)
	}
	return paid, nil
}

func (r *AccountRepository) SetPaidStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if _, err := r.paid.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}}); err != nil {
		return fmt.Errorf("updating paid account %s: %w", id.Hex(), err)
	}
	return nil
}

func expiredActive(now time.Time) bson.M {
	return bson.M{"expiredDate": bson.M{"$lt": now}, "status": models.AccountActive}
}
