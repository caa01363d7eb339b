package ticket

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

func newEdKeys(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate ed25519 key: %v", err)
	}
	return pub, priv
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	pub, priv := newEdKeys(t)
	m, err := NewManager(Config{
		TTL:           time.Minute,
		SigningMethod: MethodEd25519,
		PrivateKey:    priv,
		PublicKey:     pub,
		Issuer:        "hmsauth",
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m
}

func TestIssueAndParseRoundTrip(t *testing.T) {
	m := newTestManager(t)

	id := Identity{
		ID:         "1",
		Name:       "System Administrator",
		Email:      "admin@hospital.com",
		Role:       "admin",
		Department: "IT",
		Mask:       0x7fff,
	}

	token, err := m.Issue(id)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "1" || claims.Email != "admin@hospital.com" || claims.Role != "admin" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.Mask != 0x7fff {
		t.Fatalf("mask = %#x, want 0x7fff", claims.Mask)
	}
}

func TestParseRejectsForeignKey(t *testing.T) {
	m := newTestManager(t)
	other := newTestManager(t)

	token, err := other.Issue(Identity{ID: "1", Email: "admin@hospital.com", Role: "admin"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := m.Parse(token); err == nil {
		t.Fatal("expected ticket signed by a foreign key to be rejected")
	}
}

func TestParseRejectsWrongAlgorithm(t *testing.T) {
	m := newTestManager(t)

	claims := Claims{
		Email: "admin@hospital.com",
		RegisteredClaims: gjwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: gjwt.NewNumericDate(time.Now().Add(time.Minute)),
			Issuer:    "hmsauth",
		},
	}
	tok := gjwt.NewWithClaims(gjwt.SigningMethodHS256, claims)
	token, err := tok.SignedString([]byte("secret-secret-secret-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := m.Parse(token); err == nil {
		t.Fatal("expected wrong algorithm to be rejected")
	}
}

func TestParseRejectsExpiredTicket(t *testing.T) {
	pub, priv := newEdKeys(t)
	m, err := NewManager(Config{
		TTL:           time.Minute,
		SigningMethod: MethodEd25519,
		PrivateKey:    priv,
		PublicKey:     pub,
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	claims := Claims{
		RegisteredClaims: gjwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: gjwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  gjwt.NewNumericDate(time.Now().Add(-2 * time.Minute)),
		},
	}
	tok := gjwt.NewWithClaims(gjwt.SigningMethodEdDSA, claims)
	token, err := tok.SignedString(priv)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := m.Parse(token); err == nil {
		t.Fatal("expected expired ticket to be rejected")
	}
}

func TestParseRejectsMissingSubject(t *testing.T) {
	pub, priv := newEdKeys(t)
	m, err := NewManager(Config{
		TTL:           time.Minute,
		SigningMethod: MethodEd25519,
		PrivateKey:    priv,
		PublicKey:     pub,
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	claims := Claims{
		RegisteredClaims: gjwt.RegisteredClaims{
			ExpiresAt: gjwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	tok := gjwt.NewWithClaims(gjwt.SigningMethodEdDSA, claims)
	token, err := tok.SignedString(priv)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := m.Parse(token); err == nil {
		t.Fatal("expected ticket without subject to be rejected")
	}
}

func TestNewManagerValidation(t *testing.T) {
	pub, priv := newEdKeys(t)

	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero ttl", Config{SigningMethod: MethodEd25519, PrivateKey: priv, PublicKey: pub}},
		{"excessive leeway", Config{TTL: time.Minute, Leeway: 5 * time.Minute, SigningMethod: MethodEd25519, PrivateKey: priv, PublicKey: pub}},
		{"hs256 without key", Config{TTL: time.Minute, SigningMethod: MethodHS256}},
		{"ed25519 without public key", Config{TTL: time.Minute, SigningMethod: MethodEd25519, PrivateKey: priv}},
		{"unknown method", Config{TTL: time.Minute, SigningMethod: "rs512"}},
	}
	for _, tc := range cases {
		if _, err := NewManager(tc.cfg); err == nil {
			t.Errorf("%s: expected configuration to be rejected", tc.name)
		}
	}
}
