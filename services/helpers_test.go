package services

import (
	"context"
	"testing"
	"time"

	"github.com/citynect/property-backend/memstore"
	"github.com/citynect/property-backend/models"
	"github.com/citynect/property-backend/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	properties *memstore.Properties
	users      *memstore.Users
	statuses   *memstore.Statuses
	remarks    *memstore.Remarks
	accounts   *memstore.Accounts
	records    *memstore.Records

	props       *PropertyService
	userSvc     *UserService
	maintenance *MaintenanceService
}

func newFixture(t *testing.T, cache ResultCache) *fixture {
	t.Helper()
	f := &fixture{
		properties: memstore.NewProperties(),
		users:      memstore.NewUsers(),
		statuses:   memstore.NewStatuses(),
		remarks:    memstore.NewRemarks(),
		accounts:   memstore.NewAccounts(),
		records:    memstore.NewRecords(),
	}
	policy := DefaultPolicy()

	f.props = NewPropertyService(f.properties, f.users, f.statuses, f.remarks, f.records, cache, policy)
	f.props.now = func() time.Time { return fixedNow }
	f.props.randomNumber = func() string { return "9123456789" }

	f.userSvc = NewUserService(f.users, f.properties, f.accounts, f.records, f.records, cache, []byte("test-key"), policy)
	f.userSvc.now = func() time.Time { return fixedNow }

	f.maintenance = NewMaintenanceService(f.users, f.accounts, f.properties, cache, policy)
	f.maintenance.now = func() time.Time { return fixedNow }
	return f
}

func (f *fixture) addUser(t *testing.T, premium bool, limit int) *models.User {
	t.Helper()
	u := &models.User{
		Name:           "Test User",
		Number:         primitive.NewObjectID().Hex()[14:],
		WrongPassLimit: 10,
		Limit:          limit,
	}
	if premium {
		u.IsPremium = 1
	}
	if err := f.users.Insert(context.Background(), u); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return u
}

func (f *fixture) addProperty(p models.Property) string {
	if p.CreatedOn.IsZero() {
		p.CreatedOn = fixedNow.Add(-time.Hour)
	}
	return f.properties.Add(p).Hex()
}

func (f *fixture) user(t *testing.T, id primitive.ObjectID) *models.User {
	t.Helper()
	u, ok := f.users.Get(id)
	if !ok {
		t.Fatalf("user %s missing", id.Hex())
	}
	return &u
}

func wantKind(t *testing.T, err error, kind utils.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of kind %v, got nil", kind)
	}
	if got := utils.KindOf(err); got != kind {
		t.Fatalf("error kind = %v, want %v (err: %v)", got, kind, err)
	}
}
