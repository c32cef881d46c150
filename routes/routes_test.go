package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/citynect/property-backend/memstore"
	"github.com/citynect/property-backend/middleware"
	"github.com/citynect/property-backend/models"
	"github.com/citynect/property-backend/services"
	"github.com/citynect/property-backend/utils"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
)

var jwtKey = []byte("routes-test-key")

type server struct {
	router  *mux.Router
	records *memstore.Records
}

func newServer(t *testing.T, limiter *middleware.RateLimiter) *server {
	t.Helper()
	properties := memstore.NewProperties()
	users := memstore.NewUsers()
	accounts := memstore.NewAccounts()
	records := memstore.NewRecords()
	policy := services.DefaultPolicy()

	router := mux.NewRouter()
	Routes(router, Deps{
		Properties:   services.NewPropertyService(properties, users, memstore.NewStatuses(), memstore.NewRemarks(), records, nil, policy),
		Users:        services.NewUserService(users, properties, accounts, records, records, nil, jwtKey, policy),
		Maintenance:  services.NewMaintenanceService(users, accounts, properties, nil, policy),
		APILogs:      records,
		LoginLimiter: limiter,
		JWTKey:       jwtKey,
	})
	return &server{router: router, records: records}
}

func (s *server) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, models.APIResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var resp models.APIResponse
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode %q: %v", rec.Body.String(), err)
		}
	}
	return rec, resp
}

func TestRegisterLoginAndSearch(t *testing.T) {
	s := newServer(t, nil)

	rec, _ := s.do(t, http.MethodPost, "/api/auth/register", "", models.RegisterRequest{Name: "Kiran", Number: "9000000100", Password: "pw"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register = %d", rec.Code)
	}

	rec, resp := s.do(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Number: "9000000100", Password: "pw"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login = %d %+v", rec.Code, resp)
	}
	raw, _ := json.Marshal(resp.Data)
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &login); err != nil || login.Token == "" {
		t.Fatalf("login data = %s", raw)
	}

	rec, resp = s.do(t, http.MethodPost, "/api/properties/filter?page=0&size=10", login.Token, models.FilterRequest{})
	if rec.Code != http.StatusOK {
		t.Fatalf("filter = %d %+v", rec.Code, resp)
	}
	raw, _ = json.Marshal(resp.Data)
	var page models.PropertyPage
	if err := json.Unmarshal(raw, &page); err != nil {
		t.Fatalf("page: %v", err)
	}
	if page.TotalItems != 0 {
		t.Errorf("non-premium user saw %d items", page.TotalItems)
	}

	if len(s.records.Logins) != 1 || len(s.records.Logins[0].LoginTimes) != 2 {
		t.Errorf("sessions = %+v, want register and login on one device session", s.records.Logins)
	}
}

func TestAuthBoundaries(t *testing.T) {
	s := newServer(t, nil)
	userToken, err := utils.GenerateJWT(jwtKey, "65f000000000000000000001", models.RoleUser, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	adminToken, err := utils.GenerateJWT(jwtKey, "65f000000000000000000002", models.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no token", http.MethodGet, "/api/properties/titles?q=flat", "", http.StatusUnauthorized},
		{"user titles", http.MethodGet, "/api/properties/titles?q=flat", userToken, http.StatusOK},
		{"user on admin route", http.MethodGet, "/api/admin/properties/counts", userToken, http.StatusForbidden},
		{"admin counts", http.MethodGet, "/api/admin/properties/counts", adminToken, http.StatusOK},
		{"other user's details", http.MethodGet, "/api/users/65f000000000000000000009", userToken, http.StatusForbidden},
		{"unknown route", http.MethodGet, "/api/nowhere", userToken, http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := s.do(t, tc.method, tc.path, tc.token, nil)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newServer(t, nil)

	rec, resp := s.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK || resp.Data != "ok" {
		t.Errorf("health = %d %+v", rec.Code, resp)
	}

	rec, _ = s.do(t, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Errorf("metrics = %d", rec.Code)
	}
}

func TestLoginIsRateLimited(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	s := newServer(t, middleware.NewRateLimiter(client, "login", 2, time.Minute))

	creds := models.LoginRequest{Number: "9000000200", Password: "pw"}
	for i := 0; i < 2; i++ {
		if rec, _ := s.do(t, http.MethodPost, "/api/auth/login", "", creds); rec.Code != http.StatusNotFound {
			t.Fatalf("attempt %d = %d, want 404", i, rec.Code)
		}
	}
	if rec, _ := s.do(t, http.MethodPost, "/api/auth/login", "", creds); rec.Code != http.StatusTooManyRequests {
		t.Errorf("third attempt = %d, want 429", rec.Code)
	}
}

func TestAPIRequestsAreLogged(t *testing.T) {
	s := newServer(t, nil)
	s.do(t, http.MethodPost, "/api/auth/login", "", models.LoginRequest{Number: "9000000300", Password: "topsecret"})

	deadline := time.Now().Add(2 * time.Second)
	for s.records.APILogCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	entry, ok := s.records.LastAPILog()
	if !ok {
		t.Fatal("no API log written")
	}
	if entry.ResponseStatus != http.StatusNotFound || strings.Contains(entry.RequestPayload, "topsecret") {
		t.Errorf("entry = %+v", entry)
	}
}
