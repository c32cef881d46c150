package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/citynect/property-backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrDuplicate is returned when an insert violates a unique index.
var ErrDuplicate = errors.New("duplicate key")

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(coll *mongo.Collection) *UserRepository {
	return &UserRepository{coll: coll}
}

// EntitlementUpdate is applied with $set. An empty Password and a nil Plan
// leave the stored values untouched.
type EntitlementUpdate struct {
	IsPremium      int
	Limit          int
	WrongPassLimit int
	Password       string
	Plan           *models.PlanDetails
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByNumber(ctx context.Context, number string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"number": number})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *UserRepository) Insert(ctx context.Context, user *models.User) error {
	if user.SavedPropertyIDs == nil {
		user.SavedPropertyIDs = []string{}
	}
	if user.ContactedPropertyIDs == nil {
		user.ContactedPropertyIDs = []string{}
	}

	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

func (r *UserRepository) AddSavedProperty(ctx context.Context, userID, propID string) error {
	return r.update(ctx, userID, bson.M{"$addToSet": bson.M{"savedPropertyIds": propID}})
}

func (r *UserRepository) RemoveSavedProperty(ctx context.Context, userID, propID string) error {
	return r.update(ctx, userID, bson.M{"$pull": bson.M{"savedPropertyIds": propID}})
}

// RecordContact spends one contact credit on propID. The update only applies
// while the property is not yet contacted and credit remains, so concurrent
// reveals cannot double-charge. It reports whether a credit was spent.
func (r *UserRepository) RecordContact(ctx context.Context, userID, propID string) (bool, error) {
	oid, err := objectID(userID)
	if err != nil {
		return false, err
	}

	filter := bson.M{
		"_id":                  oid,
		"contactedPropertyIds": bson.M{"$ne": propID},
		"limit":                bson.M{"$gt": 0},
	}
	update := bson.M{
		"$push": bson.M{"contactedPropertyIds": propID},
		"$inc":  bson.M{"limit": -1, "totalCount": 1},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("recording contact: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *UserRepository) DecrementWrongPassLimit(ctx context.Context, userID string) error {
	return r.update(ctx, userID, bson.M{"$inc": bson.M{"wrongPassLimit": -1}})
}

func (r *UserRepository) SetPassword(ctx context.Context, userID, hash string, wrongPassLimit int) error {
	return r.update(ctx, userID, bson.M{"$set": bson.M{"password": hash, "wrongPassLimit": wrongPassLimit}})
}

func (r *UserRepository) SetEntitlement(ctx context.Context, userID string, e EntitlementUpdate) error {
	fields := bson.M{
		"isPremium":      e.IsPremium,
		"limit":          e.Limit,
		"wrongPassLimit": e.WrongPassLimit,
	}
	if e.Password != "" {
		fields["password"] = e.Password
	}
	if e.Plan != nil {
		fields["activePlanDetails"] = e.Plan
	}
	return r.update(ctx, userID, bson.M{"$set": fields})
}

// Downgrade clears the premium flag, leaving the rest of the account intact.
func (r *UserRepository) Downgrade(ctx context.Context, userID string) error {
	oid, err := objectID(userID)
	if err != nil {
		return err
	}
	_, err = r.coll.UpdateOne(ctx, bson.M{"_id": oid, "isPremium": 1}, bson.M{"$set": bson.M{"isPremium": 0}})
	if err != nil {
		return fmt.Errorf("downgrading user %s: %w", userID, err)
	}
	return nil
}

// ResetContactLimits refills premium users' daily credit. The privileged
// account gets its own allowance.
func (r *UserRepository) ResetContactLimits(ctx context.Context, limit int, privilegedID string, privilegedLimit, wrongPassLimit int) (int64, error) {
	filter := bson.M{"isPremium": 1}
	if oid, err := objectID(privilegedID); err == nil {
		filter["_id"] = bson.M{"$ne": oid}
		if _, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid, "isPremium": 1},
			bson.M{"$set": bson.M{"limit": privilegedLimit, "wrongPassLimit": wrongPassLimit}}); err != nil {
			return 0, fmt.Errorf("resetting privileged limit: %w", err)
		}
	}

	res, err := r.coll.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"limit": limit, "wrongPassLimit": wrongPassLimit}})
	if err != nil {
		return 0, fmt.Errorf("resetting contact limits: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *UserRepository) ResetWrongPassLimits(ctx context.Context, n int) (int64, error) {
	res, err := r.coll.UpdateMany(ctx, bson.M{}, bson.M{"$set": bson.M{"wrongPassLimit": n}})
	if err != nil {
		return 0, fmt.Errorf("resetting wrong password limits: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *UserRepository) update(ctx context.Context, userID string, update bson.M) error {
	oid, err := objectID(userID)
	if err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("updating user %s: %w", userID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
