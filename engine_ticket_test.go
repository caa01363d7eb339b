package hmsauth

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/caresuite/hmsauth/permission"
	"github.com/caresuite/hmsauth/ticket"
)

func newTicketEngine(t *testing.T) (*Engine, func()) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate keys: %v", err)
	}

	cfg := testEngineConfig()
	cfg.Ticket.Enabled = true
	cfg.Ticket.SigningMethod = ticket.MethodEd25519
	cfg.Ticket.PrivateKey = priv
	cfg.Ticket.PublicKey = pub

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	hasher := newTestHasher(t, cfg)
	dir, err := NewStaticDirectory(hasher, DefaultSeedAccounts())
	if err != nil {
		t.Fatalf("static directory: %v", err)
	}

	engine, err := New().WithConfig(cfg).WithRedis(rdb).WithDirectory(dir).Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	if err := engine.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	return engine, func() {
		engine.Close()
		rdb.Close()
		mr.Close()
	}
}

func TestIssueTicketRequiresSession(t *testing.T) {
	engine, done := newTicketEngine(t)
	defer done()

	if _, err := engine.IssueTicket(); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("err = %v, want ErrNotAuthenticated", err)
	}
}

func TestTicketRoundTripRebuildsPermissions(t *testing.T) {
	engine, done := newTicketEngine(t)
	defer done()

	if _, err := engine.Login(context.Background(), "doctor@hospital.com", "doctor123"); err != nil {
		t.Fatalf("login: %v", err)
	}

	token, err := engine.IssueTicket()
	if err != nil {
		t.Fatalf("issue ticket: %v", err)
	}

	user, err := engine.ValidateTicket(token)
	if err != nil {
		t.Fatalf("validate ticket: %v", err)
	}
	if user.Email != "doctor@hospital.com" || user.Role != permission.RoleDoctor {
		t.Fatalf("ticket user = %+v", user)
	}

	want := engine.Catalog().PermissionsFor(permission.RoleDoctor)
	if len(user.Permissions) != len(want) {
		t.Fatalf("permissions rebuilt from mask: len = %d, want %d", len(user.Permissions), len(want))
	}
	for _, p := range want {
		if !user.HasPermission(p) {
			t.Errorf("rebuilt user missing %q", p)
		}
	}
}

func TestValidateTicketRejectsTampering(t *testing.T) {
	engine, done := newTicketEngine(t)
	defer done()

	if _, err := engine.Login(context.Background(), "doctor@hospital.com", "doctor123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	token, err := engine.IssueTicket()
	if err != nil {
		t.Fatalf("issue ticket: %v", err)
	}

	tampered := token[:len(token)-4] + "AAAA"
	if _, err := engine.ValidateTicket(tampered); err == nil {
		t.Fatal("tampered ticket accepted")
	}
}

func TestTicketOperationsDisabledByDefault(t *testing.T) {
	engine, _, done := newReadyEngine(t)
	defer done()

	if _, err := engine.IssueTicket(); !errors.Is(err, ErrTicketsDisabled) {
		t.Fatalf("issue err = %v, want ErrTicketsDisabled", err)
	}
	if _, err := engine.ValidateTicket("whatever"); !errors.Is(err, ErrTicketsDisabled) {
		t.Fatalf("validate err = %v, want ErrTicketsDisabled", err)
	}
}
