package session

import (
	"encoding/json"
	"errors"
)

// persistedState is the durable layout. The field names are a wire
// contract shared with earlier deployments of the dashboard; they must
// not change.
type persistedState struct {
	User          *User          `json:"user"`
	Authenticated bool           `json:"isAuthenticated"`
	Maintenance   bool           `json:"isMaintenanceMode"`
	Attempts      []LoginAttempt `json:"loginAttempts"`
}

// Encode serializes a snapshot into the persisted JSON layout.
// Readiness is runtime-only and is never persisted.
func Encode(st State) ([]byte, error) {
	p := persistedState{
		User:          st.User,
		Authenticated: st.Authenticated,
		Maintenance:   st.Maintenance,
		Attempts:      st.Attempts,
	}
	if p.Attempts == nil {
		p.Attempts = []LoginAttempt{}
	}
	return json.Marshal(p)
}

// Decode parses a persisted blob back into a snapshot. A decoded
// snapshot is always Ready: decoding only happens as the final step of
// hydration. An authenticated flag without a user record is rejected
// as corrupt rather than silently treated as a session.
func Decode(data []byte) (State, error) {
	var p persistedState
	if err := json.Unmarshal(data, &p); err != nil {
		return State{}, err
	}

	if p.Authenticated && p.User == nil {
		return State{}, errors.New("persisted session marked authenticated without user")
	}

	if len(p.Attempts) > MaxLoginAttempts {
		p.Attempts = p.Attempts[:MaxLoginAttempts]
	}

	return State{
		User:          p.User,
		Authenticated: p.Authenticated,
		Maintenance:   p.Maintenance,
		Attempts:      p.Attempts,
		Readiness:     ReadinessReady,
	}, nil
}
