package services

import (
	"context"
	"time"

	"github.com/citynect/property-backend/models"
	"github.com/citynect/property-backend/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The store interfaces are satisfied by the repository package and by the
// in-memory fakes in memstore.

type PropertyStore interface {
	Find(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Property, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	FindByID(ctx context.Context, id string) (*models.Property, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Property, error)
	Titles(ctx context.Context, filter bson.M, limit int64) ([]string, error)
	SoftDelete(ctx context.Context, id string) error
	SetLifecycleStatus(ctx context.Context, id, status string) error
	BackfillSqFt(ctx context.Context) (int64, error)
}

type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByNumber(ctx context.Context, number string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) error
	AddSavedProperty(ctx context.Context, userID, propID string) error
	RemoveSavedProperty(ctx context.Context, userID, propID string) error
	RecordContact(ctx context.Context, userID, propID string) (bool, error)
	DecrementWrongPassLimit(ctx context.Context, userID string) error
	SetPassword(ctx context.Context, userID, hash string, wrongPassLimit int) error
	SetEntitlement(ctx context.Context, userID string, e repository.EntitlementUpdate) error
	Downgrade(ctx context.Context, userID string) error
	ResetContactLimits(ctx context.Context, limit int, privilegedID string, privilegedLimit, wrongPassLimit int) (int64, error)
	ResetWrongPassLimits(ctx context.Context, n int) (int64, error)
}

type StatusStore interface {
	Upsert(ctx context.Context, userID, propID, status string, now time.Time) (*models.PropertyStatus, error)
	ForUser(ctx context.Context, userID string, propIDs []string) (map[string]string, error)
	PropertyIDsWithStatus(ctx context.Context, userID string, statuses []string) ([]string, error)
}

type RemarkStore interface {
	Upsert(ctx context.Context, userID, propID, remark string, now time.Time) (*models.PropertyRemark, error)
	ForUser(ctx context.Context, userID string, propIDs []string) (map[string]string, error)
}

type AccountStore interface {
	InsertDemo(ctx context.Context, demo *models.DemoAccount) error
	CountDemosByNumber(ctx context.Context, number string) (int64, error)
	SettleDemos(ctx context.Context, number string) error
	ExpiredDemos(ctx context.Context, now time.Time) ([]models.DemoAccount, error)
	SetDemoStatus(ctx context.Context, id primitive.ObjectID, status string) error
	InsertPaid(ctx context.Context, paid *models.PaidAccount) error
	PaidByUser(ctx context.Context, userID string) ([]models.PaidAccount, error)
	ExpiredPaid(ctx context.Context, now time.Time) ([]models.PaidAccount, error)
	SetPaidStatus(ctx context.Context, id primitive.ObjectID, status string) error
}

type SessionStore interface {
	RecordLogin(ctx context.Context, userID, ip string, device models.DeviceDetails, at time.Time) error
}

type SuggestionStore interface {
	InsertSuggestion(ctx context.Context, s *models.Suggestion) error
}

type PasswordRequestStore interface {
	InsertPasswordRequest(ctx context.Context, req *models.PasswordUpdateRequest) error
}

// ResultCache stores rendered pages per user.
type ResultCache interface {
	Get(ctx context.Context, userID, query string, dst interface{}) (bool, error)
	Set(ctx context.Context, userID, query string, v interface{}) error
	InvalidateUser(ctx context.Context, userID string) error
	InvalidateAll(ctx context.Context) error
}

type noCache struct{}

func (noCache) Get(context.Context, string, string, interface{}) (bool, error) { return false, nil }
func (noCache) Set(context.Context, string, string, interface{}) error         { return nil }
func (noCache) InvalidateUser(context.Context, string) error                   { return nil }
func (noCache) InvalidateAll(context.Context) error                            { return nil }
