package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/citynect/property-backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PropertyRepository struct {
	coll *mongo.Collection
}

func NewPropertyRepository(coll *mongo.Collection) *PropertyRepository {
	return &PropertyRepository{coll: coll}
}

// newestFirst is the stable listing order used by every paginated query.
var newestFirst = bson.D{{Key: "createdOn", Value: -1}, {Key: "_id", Value: -1}}

func (r *PropertyRepository) Find(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Property, error) {
	opts := options.Find().SetSort(newestFirst).SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("finding properties: %w", err)
	}
	defer cursor.Close(ctx)

	properties := []models.Property{}
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, fmt.Errorf("decoding properties: %w", err)
	}
	return properties, nil
}

func (r *PropertyRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("counting properties: %w", err)
	}
	return n, nil
}

func (r *PropertyRepository) FindByID(ctx context.Context, id string) (*models.Property, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var property models.Property
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&property); err != nil {
		return nil, notFound(err)
	}
	return &property, nil
}

func (r *PropertyRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Property, error) {
	oids := ObjectIDs(ids)
	if len(oids) == 0 {
		return []models.Property{}, nil
	}
	return r.Find(ctx, bson.M{"_id": bson.M{"$in": oids}}, 0, 0)
}

// Titles returns the titles of matching listings, newest first.
func (r *PropertyRepository) Titles(ctx context.Context, filter bson.M, limit int64) ([]string, error) {
	opts := options.Find().
		SetSort(newestFirst).
		SetProjection(bson.M{"title": 1, "_id": 0}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("searching titles: %w", err)
	}
	defer cursor.Close(ctx)

	titles := []string{}
	for cursor.Next(ctx) {
		var doc struct {
			Title string `bson:"title"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding title: %w", err)
		}
		titles = append(titles, doc.Title)
	}
	return titles, cursor.Err()
}

func (r *PropertyRepository) SoftDelete(ctx context.Context, id string) error {
	return r.set(ctx, id, bson.M{"isDeleted": 1})
}

func (r *PropertyRepository) SetLifecycleStatus(ctx context.Context, id, status string) error {
	return r.set(ctx, id, bson.M{"propertyCurrentStatus": status})
}

func (r *PropertyRepository) set(ctx context.Context, id string, fields bson.M) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("updating property %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// BackfillSqFt copies the leading integer of the free-text squareFt field
// into the numeric sqFt field used by range filters.
func (r *PropertyRepository) BackfillSqFt(ctx context.Context) (int64, error) {
	filter := bson.M{"squareFt": bson.M{"$exists": true, "$ne": ""}}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetProjection(bson.M{"squareFt": 1, "sqFt": 1}))
	if err != nil {
		return 0, fmt.Errorf("finding properties to backfill: %w", err)
	}
	defer cursor.Close(ctx)

	var modified int64
	for cursor.Next(ctx) {
		var doc models.Property
		if err := cursor.Decode(&doc); err != nil {
			slog.Warn("skipping undecodable property", "error", err)
			continue
		}
		value, ok := ParseSquareFeet(doc.SquareFt)
		if !ok || value == doc.SqFt {
			continue
		}
		if _, err := r.coll.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": bson.M{"sqFt": value}}); err != nil {
			return modified, fmt.Errorf("backfilling property %s: %w", doc.ID.Hex(), err)
		}
		modified++
	}
	return modified, cursor.Err()
}

// ParseSquareFeet reads the leading integer of values like "1200 sq ft".
func ParseSquareFeet(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0, false
	}
	return float64(n), true
}
