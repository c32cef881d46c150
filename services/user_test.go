package services

import (
	"context"
	"strings"
	"testing"

	"github.com/citynect/property-backend/models"
	"github.com/citynect/property-backend/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testClient = models.ClientInfo{IP: "10.0.0.1", Browser: "Chrome", OS: "Linux", Device: "Desktop", UserAgent: "Mozilla/5.0"}

func register(t *testing.T, f *fixture, number, password string) *models.User {
	t.Helper()
	u, err := f.userSvc.Register(context.Background(), models.RegisterRequest{
		Name: " Asha ", Email: "asha@example.com", Number: number, Password: password,
	}, testClient)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return u
}

func TestRegister(t *testing.T) {
	f := newFixture(t, nil)
	u := register(t, f, "9876543210", "secret")

	if u.Name != "Asha" || u.IsPremium != 0 || u.Limit != 0 || u.WrongPassLimit != 10 {
		t.Errorf("registered user = %+v", u)
	}
	if u.Password == "secret" || !utils.CheckPasswordHash("secret", u.Password) {
		t.Error("password must be stored hashed")
	}
	if len(f.records.Logins) != 1 || f.records.Logins[0].DeviceDetails.Browser != "Chrome" {
		t.Errorf("sessions = %+v", f.records.Logins)
	}

	_, err := f.userSvc.Register(context.Background(), models.RegisterRequest{Name: "B", Number: "9876543210", Password: "x"}, testClient)
	wantKind(t, err, utils.KindConflict)

	_, err = f.userSvc.Register(context.Background(), models.RegisterRequest{Number: "1"}, testClient)
	wantKind(t, err, utils.KindValidation)
}

func TestLogin(t *testing.T) {
	f := newFixture(t, nil)
	u := register(t, f, "9876543210", "secret")
	ctx := context.Background()

	res, err := f.userSvc.Login(ctx, "9876543210", "secret", testClient)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := utils.ValidateJWT([]byte("test-key"), res.Token)
	if err != nil || claims.UserID != u.ID.Hex() || claims.Role != models.RoleUser {
		t.Fatalf("token claims = %+v, %v", claims, err)
	}
	if len(f.records.Logins) != 1 || len(f.records.Logins[0].LoginTimes) != 2 {
		t.Errorf("same device should extend one session: %+v", f.records.Logins)
	}

	_, err = f.userSvc.Login(ctx, "0000000000", "secret", testClient)
	wantKind(t, err, utils.KindNotFound)

	_, err = f.userSvc.Login(ctx, "9876543210", "wrong", testClient)
	wantKind(t, err, utils.KindUnauthorized)
	if got := f.user(t, u.ID).WrongPassLimit; got != 9 {
		t.Errorf("wrongPassLimit = %d, want 9", got)
	}
}

func TestLoginLocksAfterWrongPasswords(t *testing.T) {
	f := newFixture(t, nil)
	register(t, f, "9876543210", "secret")
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := f.userSvc.Login(ctx, "9876543210", "wrong", testClient)
		wantKind(t, err, utils.KindUnauthorized)
	}
	_, err := f.userSvc.Login(ctx, "9876543210", "secret", testClient)
	wantKind(t, err, utils.KindLocked)

	if _, err := f.maintenance.Run(ctx, JobResetWrongPass); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := f.userSvc.Login(ctx, "9876543210", "secret", testClient); err != nil {
		t.Fatalf("login after reset: %v", err)
	}
}

func TestToggleSavedTwiceRestoresState(t *testing.T) {
	f := newFixture(t, nil)
	user := f.addUser(t, false, 0)
	prop := f.addProperty(models.Property{Title: "A"})
	ctx := context.Background()

	first, err := f.userSvc.ToggleSaved(ctx, user.ID.Hex(), prop)
	if err != nil || !first {
		t.Fatalf("first toggle = %v, %v", first, err)
	}
	second, err := f.userSvc.ToggleSaved(ctx, user.ID.Hex(), prop)
	if err != nil || second {
		t.Fatalf("second toggle = %v, %v", second, err)
	}
	if f.user(t, user.ID).HasSaved(prop) {
		t.Error("property should no longer be saved")
	}

	_, err = f.userSvc.ToggleSaved(ctx, user.ID.Hex(), " ")
	wantKind(t, err, utils.KindValidation)
	_, err = f.userSvc.ToggleSaved(ctx, "65f000000000000000000000", prop)
	wantKind(t, err, utils.KindNotFound)
}

func TestActivateDemo(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	req := models.DemoAccountRequest{
		Name: "Ravi", Number: "9000000000", Password: "pw", ActiveDays: 3, RepeatDemo: models.NoRepeatDemo,
	}

	msg, err := f.userSvc.ActivateDemo(ctx, req)
	if err != nil {
		t.Fatalf("ActivateDemo: %v", err)
	}
	if !strings.Contains(msg, "Ravi") {
		t.Errorf("message = %q", msg)
	}

	u, err := f.users.FindByNumber(ctx, "9000000000")
	if err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if !u.Premium() || u.Limit != 50 || !utils.CheckPasswordHash("pw", u.Password) {
		t.Errorf("demo user = %+v", u)
	}
	demo := f.accounts.Demos[0]
	if demo.Status != models.AccountActive || demo.PaymentStatus != models.PaymentPending ||
		!demo.ExpiredDate.Equal(fixedNow.AddDate(0, 0, 3)) || demo.UserID != u.ID.Hex() {
		t.Errorf("demo = %+v", demo)
	}

	_, err = f.userSvc.ActivateDemo(ctx, req)
	wantKind(t, err, utils.KindConflict)

	req.RepeatDemo = ""
	if _, err := f.userSvc.ActivateDemo(ctx, req); err != nil {
		t.Fatalf("repeat demo allowed: %v", err)
	}
	if len(f.accounts.Demos) != 2 {
		t.Errorf("demos = %d, want 2", len(f.accounts.Demos))
	}
}

func TestActivatePremium(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.userSvc.newOrderID = func() string { return "order_0123456789abcd" }

	if _, err := f.userSvc.ActivateDemo(ctx, models.DemoAccountRequest{Name: "Ravi", Number: "9000000000", Password: "pw", ActiveDays: 3}); err != nil {
		t.Fatalf("ActivateDemo: %v", err)
	}

	_, err := f.userSvc.ActivatePremium(ctx, models.PremiumRequest{
		Number: "9000000000", DurationInMonth: 3, Amount: "2999", SettlementStatus: true, AdminID: "admin-1", TransferTo: "HDFC",
	})
	if err != nil {
		t.Fatalf("ActivatePremium: %v", err)
	}

	u, _ := f.users.FindByNumber(ctx, "9000000000")
	if !u.Premium() || u.ActivePlanDetails == nil || u.ActivePlanDetails.OrderID != "order_0123456789abcd" {
		t.Fatalf("user = %+v", u)
	}
	if !u.ActivePlanDetails.ExpiredOn.Equal(fixedNow.AddDate(0, 3, 0)) {
		t.Errorf("plan expiry = %v", u.ActivePlanDetails.ExpiredOn)
	}
	if d := f.accounts.Demos[0]; d.Status != models.AccountExpired || d.PaymentStatus != models.PaymentSuccess {
		t.Errorf("demo not settled: %+v", d)
	}
	paid := f.accounts.Paid[0]
	if paid.UserID != u.ID.Hex() || paid.PaidTo != "HDFC" || paid.UpdatedBy != "admin-1" || paid.UpdatedOn == nil {
		t.Errorf("paid = %+v", paid)
	}

	_, err = f.userSvc.ActivatePremium(ctx, models.PremiumRequest{Number: "9111111111", DurationInMonth: 1})
	wantKind(t, err, utils.KindValidation)
}

func TestNewOrderIDFormat(t *testing.T) {
	id := newOrderID()
	if !strings.HasPrefix(id, "order_") || len(id) != len("order_")+14 {
		t.Errorf("order id = %q", id)
	}
}

func TestDetailsMasksContact(t *testing.T) {
	f := newFixture(t, nil)
	u := register(t, f, "9876543210", "secret")

	details, err := f.userSvc.Details(context.Background(), u.ID.Hex())
	if err != nil {
		t.Fatalf("Details: %v", err)
	}
	if details.User.Number != "98******10" || details.User.Email != "as****@****com" {
		t.Errorf("profile = %+v", details.User)
	}
	if details.PaymentHistory == nil {
		t.Error("payment history should be an empty list, not nil")
	}
}

func TestResetPasswordByAdmin(t *testing.T) {
	f := newFixture(t, nil)
	u := register(t, f, "9876543210", "old")
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, _ = f.userSvc.Login(ctx, "9876543210", "bad", testClient)
	}

	_, err := f.userSvc.ResetPasswordByAdmin(ctx, models.AdminPasswordRequest{
		Number: "9876543210", Password: "new", AdminID: "admin-1", Reason: " forgot ",
	})
	if err != nil {
		t.Fatalf("ResetPasswordByAdmin: %v", err)
	}
	got := f.user(t, u.ID)
	if !utils.CheckPasswordHash("new", got.Password) || got.WrongPassLimit != 10 {
		t.Errorf("user after reset = %+v", got)
	}
	if len(f.records.PasswordRequests) != 1 || f.records.PasswordRequests[0].Reason != "forgot" {
		t.Errorf("audit = %+v", f.records.PasswordRequests)
	}

	_, err = f.userSvc.ResetPasswordByAdmin(ctx, models.AdminPasswordRequest{Number: "000", Password: "x"})
	wantKind(t, err, utils.KindNotFound)
}

func TestToggleSavedRequiresLiveProperty(t *testing.T) {
	f := newFixture(t, nil)
	user := f.addUser(t, false, 0)
	deleted := f.addProperty(models.Property{Title: "Gone", IsDeleted: 1})
	ctx := context.Background()

	_, err := f.userSvc.ToggleSaved(ctx, user.ID.Hex(), deleted)
	wantKind(t, err, utils.KindNotFound)
	_, err = f.userSvc.ToggleSaved(ctx, user.ID.Hex(), primitive.NewObjectID().Hex())
	wantKind(t, err, utils.KindNotFound)
	if len(f.user(t, user.ID).SavedPropertyIDs) != 0 {
		t.Fatal("missing properties must not be saved")
	}

	live := f.addProperty(models.Property{Title: "Live"})
	if saved, err := f.userSvc.ToggleSaved(ctx, user.ID.Hex(), live); err != nil || !saved {
		t.Fatalf("save = %v, %v", saved, err)
	}
	if err := f.properties.SoftDelete(ctx, live); err != nil {
		t.Fatal(err)
	}
	if saved, err := f.userSvc.ToggleSaved(ctx, user.ID.Hex(), live); err != nil || saved {
		t.Errorf("unsaving a deleted property = %v, %v", saved, err)
	}
}
