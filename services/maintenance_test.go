package services

import (
	"context"
	"testing"
	"time"

	"github.com/citynect/property-backend/models"
	"github.com/citynect/property-backend/utils"
)

func TestExpireDemoAccountsIsIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	expired := f.addUser(t, true, 10)
	current := f.addUser(t, true, 10)

	_ = f.accounts.InsertDemo(ctx, &models.DemoAccount{UserID: expired.ID.Hex(), Status: models.AccountActive, ExpiredDate: fixedNow.Add(-time.Hour)})
	_ = f.accounts.InsertDemo(ctx, &models.DemoAccount{UserID: current.ID.Hex(), Status: models.AccountActive, ExpiredDate: fixedNow.Add(time.Hour)})
	_ = f.accounts.InsertDemo(ctx, &models.DemoAccount{UserID: "65f000000000000000000000", Status: models.AccountActive, ExpiredDate: fixedNow.Add(-time.Hour)})

	n, err := f.maintenance.Run(ctx, JobExpireDemo)
	if err != nil || n != 2 {
		t.Fatalf("first run = %d, %v; want 2", n, err)
	}
	if f.user(t, expired.ID).Premium() {
		t.Error("expired demo user still premium")
	}
	if !f.user(t, current.ID).Premium() {
		t.Error("current demo user lost premium")
	}

	n, err = f.maintenance.Run(ctx, JobExpireDemo)
	if err != nil || n != 0 {
		t.Errorf("second run = %d, %v; want 0", n, err)
	}
}

func TestExpirePaidAccounts(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := f.addUser(t, true, 10)
	_ = f.accounts.InsertPaid(ctx, &models.PaidAccount{UserID: user.ID.Hex(), Status: models.AccountActive, ExpiredDate: fixedNow.AddDate(0, 0, -1)})

	n, err := f.maintenance.ExpirePaidAccounts(ctx)
	if err != nil || n != 1 {
		t.Fatalf("ExpirePaidAccounts = %d, %v", n, err)
	}
	if f.user(t, user.ID).Premium() || f.accounts.Paid[0].Status != models.AccountExpired {
		t.Error("paid account not expired")
	}
}

func TestResetContactLimits(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	regular := f.addUser(t, true, 0)
	privileged := f.addUser(t, true, 0)
	free := f.addUser(t, false, 0)
	f.maintenance.policy.PrivilegedUserID = privileged.ID.Hex()

	if _, err := f.maintenance.Run(ctx, JobResetContactLimits); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := f.user(t, regular.ID).Limit; got != 100 {
		t.Errorf("regular limit = %d, want 100", got)
	}
	if got := f.user(t, privileged.ID).Limit; got != 25 {
		t.Errorf("privileged limit = %d, want 25", got)
	}
	if got := f.user(t, free.ID).Limit; got != 0 {
		t.Errorf("free user limit = %d, want 0", got)
	}
}

func TestBackfillSqFt(t *testing.T) {
	f := newFixture(t, nil)
	id := f.addProperty(models.Property{SquareFt: "1200 sqft"})
	f.addProperty(models.Property{SquareFt: "n/a"})

	n, err := f.maintenance.Run(context.Background(), JobBackfillSqFt)
	if err != nil || n != 1 {
		t.Fatalf("backfill = %d, %v", n, err)
	}
	p, _ := f.properties.FindByID(context.Background(), id)
	if p.SqFt != 1200 {
		t.Errorf("sqFt = %v", p.SqFt)
	}
}

func TestRunUnknownJob(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.maintenance.Run(context.Background(), "defrag")
	wantKind(t, err, utils.KindNotFound)

	names := f.maintenance.JobNames()
	if len(names) != 5 || names[0] != JobBackfillSqFt {
		t.Errorf("JobNames = %v", names)
	}
}
