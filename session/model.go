package session

import (
	"time"

	"github.com/caresuite/hmsauth/permission"
)

// MaxLoginAttempts bounds the attempt log. The log is newest-first;
// appending beyond the bound evicts the oldest entry.
const MaxLoginAttempts = 50

// DefaultStorageKey is the fixed key the store persists under. It is
// part of the durable state contract: changing it orphans previously
// persisted sessions.
const DefaultStorageKey = "healthcare-auth-storage"

// Readiness is the store lifecycle state. It replaces the pair of
// initialized/hydrated booleans the store historically carried: a
// single enum removes any ambiguity about which flag gates which
// decision.
type Readiness uint8

const (
	// ReadinessCold means the store has never been hydrated; nothing
	// about the session is known yet.
	ReadinessCold Readiness = iota
	// ReadinessPending means hydration is in flight.
	ReadinessPending
	// ReadinessReady means the store is trustworthy: authenticated or
	// not, the answer is definitive.
	ReadinessReady
)

func (r Readiness) String() string {
	switch r {
	case ReadinessCold:
		return "cold"
	case ReadinessPending:
		return "pending"
	case ReadinessReady:
		return "ready"
	default:
		return "unknown"
	}
}

// AttemptResult discriminates login attempt outcomes.
type AttemptResult string

const (
	// AttemptSuccess marks a successful login.
	AttemptSuccess AttemptResult = "success"
	// AttemptFailure marks a rejected login.
	AttemptFailure AttemptResult = "failure"
)

// LoginAttempt is an immutable audit record of one login call. The
// JSON tags match the persisted state layout.
type LoginAttempt struct {
	ID        string        `json:"id"`
	Username  string        `json:"username"`
	IPAddress string        `json:"ipAddress"`
	Timestamp time.Time     `json:"timestamp"`
	Result    AttemptResult `json:"result"`
	Reason    string        `json:"reason,omitempty"`
}

// User is the identity record held by the store while a session is
// authenticated. Permissions are a snapshot resolved from the catalog
// at login time; they are not re-derived on later checks. The store
// owns the canonical copy: snapshots hand out deep copies only.
type User struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Email       string                  `json:"email"`
	Role        permission.Role         `json:"role"`
	Department  string                  `json:"department,omitempty"`
	Permissions []permission.Permission `json:"permissions"`
	Active      bool                    `json:"active"`
}

func (u *User) clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Permissions = append([]permission.Permission(nil), u.Permissions...)
	return &c
}

// HasPermission reports whether the user's snapshot includes the tag.
func (u *User) HasPermission(p permission.Permission) bool {
	if u == nil {
		return false
	}
	for _, have := range u.Permissions {
		if have == p {
			return true
		}
	}
	return false
}

// State is a point-in-time copy of the store. It is safe to retain:
// nothing in it aliases store-owned memory.
type State struct {
	User          *User
	Authenticated bool
	Maintenance   bool
	Attempts      []LoginAttempt
	Readiness     Readiness
}

// Ready reports whether authorization decisions may be made from this
// snapshot. Before readiness, callers must surface "not yet known"
// rather than treating the session as unauthenticated.
func (s State) Ready() bool {
	return s.Readiness == ReadinessReady
}
