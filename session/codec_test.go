package session

import (
	"encoding/json"
	"testing"

	"github.com/caresuite/hmsauth/permission"
)

func TestEncodeUsesPersistedFieldNames(t *testing.T) {
	u := testUser()
	data, err := Encode(State{User: &u, Authenticated: true})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, field := range []string{"user", "isAuthenticated", "isMaintenanceMode", "loginAttempts"} {
		if _, ok := raw[field]; !ok {
			t.Fatalf("persisted blob missing field %q", field)
		}
	}
}

func TestEncodeNilAttemptsAsEmptyArray(t *testing.T) {
	data, err := Encode(State{})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var p struct {
		Attempts json.RawMessage `json:"loginAttempts"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(p.Attempts) != "[]" {
		t.Fatalf("loginAttempts = %s, want []", p.Attempts)
	}
}

func TestDecodeRejectsAuthenticatedWithoutUser(t *testing.T) {
	blob := []byte(`{"user":null,"isAuthenticated":true,"isMaintenanceMode":false,"loginAttempts":[]}`)
	if _, err := Decode(blob); err == nil {
		t.Fatalf("decode accepted authenticated state without a user")
	}
}

func TestDecodeTruncatesOversizedAttemptLog(t *testing.T) {
	st := State{}
	for i := 0; i < MaxLoginAttempts+10; i++ {
		st.Attempts = append(st.Attempts, LoginAttempt{ID: "x", Result: AttemptFailure})
	}
	data, err := json.Marshal(persistedState{Attempts: st.Attempts})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.Attempts) != MaxLoginAttempts {
		t.Fatalf("decoded attempt log len = %d, want %d", len(decoded.Attempts), MaxLoginAttempts)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	u := testUser()
	in := State{
		User:          &u,
		Authenticated: true,
		Maintenance:   true,
		Attempts: []LoginAttempt{
			{ID: "a", Username: "doctor@hospital.com", Result: AttemptSuccess},
		},
	}
	data, err := Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Ready() {
		t.Fatalf("decoded state not ready")
	}
	if out.User.Role != permission.RoleDoctor || !out.Maintenance || len(out.Attempts) != 1 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}
