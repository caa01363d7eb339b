package middleware

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	hmsauth "github.com/caresuite/hmsauth"
	"github.com/caresuite/hmsauth/password"
	"github.com/caresuite/hmsauth/permission"
	"github.com/caresuite/hmsauth/ticket"
)

func newGuardEngine(t *testing.T, ticketsEnabled bool) (*hmsauth.Engine, func()) {
	t.Helper()

	cfg := hmsauth.Config{
		Session: hmsauth.SessionConfig{StorageKey: "healthcare-auth-storage"},
		Password: hmsauth.PasswordConfig{
			Memory:      8192,
			Time:        1,
			Parallelism: 1,
			SaltLength:  16,
			KeyLength:   32,
		},
		Audit: hmsauth.AuditConfig{BufferSize: 1},
	}
	if ticketsEnabled {
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			t.Fatalf("generate keys: %v", err)
		}
		cfg.Ticket = hmsauth.TicketConfig{
			Enabled:       true,
			TTL:           time.Minute,
			SigningMethod: ticket.MethodEd25519,
			PrivateKey:    priv,
			PublicKey:     pub,
		}
	}

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	dir := newSeededDirectory(t, cfg)

	engine, err := hmsauth.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithDirectory(dir).
		Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}

	return engine, func() {
		engine.Close()
		rdb.Close()
		mr.Close()
	}
}

func newSeededDirectory(t *testing.T, cfg hmsauth.Config) *hmsauth.StaticDirectory {
	t.Helper()
	hasher, err := password.NewHasher(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		t.Fatalf("hasher: %v", err)
	}
	dir, err := hmsauth.NewStaticDirectory(hasher, hmsauth.DefaultSeedAccounts())
	if err != nil {
		t.Fatalf("static directory: %v", err)
	}
	return dir
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestGuardPendingBeforeHydration(t *testing.T) {
	engine, done := newGuardEngine(t, false)
	defer done()

	h := Guard(engine, hmsauth.RequireAuthenticated())(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/patients", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After header")
	}
}

func TestGuardUnauthenticated(t *testing.T) {
	engine, done := newGuardEngine(t, false)
	defer done()
	if err := engine.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	h := Guard(engine, hmsauth.RequireAuthenticated())(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/patients", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestGuardForbiddenWithoutPermission(t *testing.T) {
	engine, done := newGuardEngine(t, false)
	defer done()
	ctx := context.Background()
	if err := engine.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := engine.Login(ctx, "lab@hospital.com", "lab123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	h := Guard(engine, hmsauth.Require(permission.CanManageUsers))(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/users", nil))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestGuardAllowsAndInjectsUser(t *testing.T) {
	engine, done := newGuardEngine(t, false)
	defer done()
	ctx := context.Background()
	if err := engine.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := engine.Login(ctx, "lab@hospital.com", "lab123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	var seen *hmsauth.User
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	h := Guard(engine, hmsauth.Require(permission.CanSetLabPrices))(inner)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lab/prices", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if seen == nil || seen.Email != "lab@hospital.com" {
		t.Fatalf("context user = %+v", seen)
	}
}

func TestTicketGuard(t *testing.T) {
	engine, done := newGuardEngine(t, true)
	defer done()
	ctx := context.Background()
	if err := engine.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := engine.Login(ctx, "doctor@hospital.com", "doctor123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	token, err := engine.IssueTicket()
	if err != nil {
		t.Fatalf("issue ticket: %v", err)
	}

	h := TicketGuard(engine, hmsauth.Require(permission.CanEditPatient))(okHandler())

	// No bearer token.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/patients/1", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d, want 401", rec.Code)
	}

	// Valid ticket with the permission.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/patients/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid ticket: status = %d, want 200", rec.Code)
	}

	// Valid ticket without the permission.
	deny := TicketGuard(engine, hmsauth.Require(permission.CanManageBackups))(okHandler())
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/backups", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	deny.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("denied ticket: status = %d, want 403", rec.Code)
	}

	// Garbage token.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/patients/1", nil)
	req.Header.Set("Authorization", "Bearer not-a-ticket")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: status = %d, want 401", rec.Code)
	}
}
