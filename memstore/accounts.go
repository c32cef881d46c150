package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/citynect/property-backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Accounts struct {
	mu    sync.Mutex
	Demos []models.DemoAccount
	Paid  []models.PaidAccount
}

func NewAccounts() *Accounts {
	return &Accounts{}
}

func (a *Accounts) InsertDemo(_ context.Context, demo *models.DemoAccount) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if demo.ID.IsZero() {
		demo.ID = primitive.NewObjectID()
	}
	a.Demos = append(a.Demos, *demo)
	return nil
}

func (a *Accounts) CountDemosByNumber(_ context.Context, number string) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var n int64
	for _, d := range a.Demos {
		if d.Number == number {
			n++
		}
	}
	return n, nil
}

func (a *Accounts) SettleDemos(_ context.Context, number string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.Demos {
		if a.Demos[i].Number == number {
			a.Demos[i].PaymentStatus = models.PaymentSuccess
			a.Demos[i].Status = models.AccountExpired
		}
	}
	return nil
}

func (a *Accounts) ExpiredDemos(_ context.Context, now time.Time) ([]models.DemoAccount, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []models.DemoAccount{}
	for _, d := range a.Demos {
		if d.Status == models.AccountActive && d.ExpiredDate.Before(now) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (a *Accounts) SetDemoStatus(_ context.Context, id primitive.ObjectID, status string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.Demos {
		if a.Demos[i].ID == id {
			a.Demos[i].Status = status
		}
	}
	return nil
}

func (a *Accounts) InsertPaid(_ context.Context, paid *models.PaidAccount) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if paid.ID.IsZero() {
		paid.ID = primitive.NewObjectID()
	}
	a.Paid = append(a.Paid, *paid)
	return nil
}

func (a *Accounts) PaidByUser(_ context.Context, userID string) ([]models.PaidAccount, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []models.PaidAccount{}
	for i := len(a.Paid) - 1; i >= 0; i-- {
		if a.Paid[i].UserID == userID {
			out = append(out, a.Paid[i])
		}
	}
	return out, nil
}

func (a *Accounts) ExpiredPaid(_ context.Context, now time.Time) ([]models.PaidAccount, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := []models.PaidAccount{}
	for _, p := range a.Paid {
		if p.Status == models.AccountActive && p.ExpiredDate.Before(now) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (a *Accounts) SetPaidStatus(_ context.Context, id primitive.ObjectID, status string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.Paid {
		if a.Paid[i].ID == id {
			a.Paid[i].Status = status
		}
	}
	return nil
}

// Records collects write-once documents and login sessions.
type Records struct {
	mu               sync.Mutex
	Suggestions      []models.Suggestion
	PasswordRequests []models.PasswordUpdateRequest
	APILogs          []models.APILog
	Logins           []models.UserSession
}

func NewRecords() *Records {
	return &Records{}
}

func (r *Records) InsertSuggestion(_ context.Context, s *models.Suggestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = primitive.NewObjectID()
	r.Suggestions = append(r.Suggestions, *s)
	return nil
}

func (r *Records) InsertPasswordRequest(_ context.Context, req *models.PasswordUpdateRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.ID = primitive.NewObjectID()
	r.PasswordRequests = append(r.PasswordRequests, *req)
	return nil
}

func (r *Records) InsertAPILog(_ context.Context, entry *models.APILog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.APILogs = append(r.APILogs, *entry)
	return nil
}

// APILogCount is safe to call while loggers write concurrently.
func (r *Records) APILogCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.APILogs)
}

func (r *Records) LastAPILog() (models.APILog, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.APILogs) == 0 {
		return models.APILog{}, false
	}
	return r.APILogs[len(r.APILogs)-1], true
}

func (r *Records) RecordLogin(_ context.Context, userID, ip string, device models.DeviceDetails, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.Logins {
		s := &r.Logins[i]
		if s.UserID == userID && s.IPAddress == ip && s.DeviceDetails.UserAgent == device.UserAgent {
			s.LoginTimes = append(s.LoginTimes, at)
			s.DeviceDetails = device
			return nil
		}
	}
	r.Logins = append(r.Logins, models.UserSession{
		ID:            primitive.NewObjectID(),
		UserID:        userID,
		IPAddress:     ip,
		DeviceDetails: device,
		LoginTimes:    []time.Time{at},
		CreatedOn:     at,
	})
	return nil
}
