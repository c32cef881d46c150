package repository

import (
	"context"
	"fmt"

	"github.com/citynect/property-backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RecordRepository appends write-once documents: suggestions, password
// reset audits and API logs.
type RecordRepository struct {
	coll *mongo.Collection
}

func NewRecordRepository(coll *mongo.Collection) *RecordRepository {
	return &RecordRepository{coll: coll}
}

func (r *RecordRepository) insert(ctx context.Context, doc interface{}) (primitive.ObjectID, error) {
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("inserting into %s: %w", r.coll.Name(), err)
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return oid, nil
}

func (r *RecordRepository) InsertSuggestion(ctx context.Context, s *models.Suggestion) error {
	oid, err := r.insert(ctx, s)
	if err != nil {
		return err
	}
	s.ID = oid
	return nil
}

func (r *RecordRepository) InsertPasswordRequest(ctx context.Context, req *models.PasswordUpdateRequest) error {
	oid, err := r.insert(ctx, req)
	if err != nil {
		return err
	}
	req.ID = oid
	return nil
}

func (r *RecordRepository) InsertAPILog(ctx context.Context, entry *models.APILog) error {
	_, err := r.insert(ctx, entry)
	return err
}
