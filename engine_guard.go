package hmsauth

import (
	"github.com/caresuite/hmsauth/permission"
	"github.com/caresuite/hmsauth/session"
)

// Decision is the outcome of an access check.
type Decision uint8

const (
	// DecisionPending means the session is not yet hydrated. Callers
	// must hold protected content, not deny it: a deny rendered before
	// readiness would flash rejection at a legitimately signed-in user.
	DecisionPending Decision = iota
	// DecisionAllow grants access.
	DecisionAllow
	// DecisionDeny refuses access.
	DecisionDeny
)

func (d Decision) String() string {
	switch d {
	case DecisionPending:
		return "pending"
	case DecisionAllow:
		return "allow"
	case DecisionDeny:
		return "deny"
	default:
		return "unknown"
	}
}

// RequirementMode selects how a multi-permission requirement combines.
type RequirementMode uint8

const (
	// ModeAny grants access when at least one listed permission is held.
	ModeAny RequirementMode = iota
	// ModeAll grants access only when every listed permission is held.
	ModeAll
)

// Requirement is a declarative access condition. The zero value
// requires only an authenticated session.
type Requirement struct {
	Permissions []permission.Permission
	Mode        RequirementMode
}

// RequireAuthenticated requires a signed-in session and nothing more.
func RequireAuthenticated() Requirement {
	return Requirement{}
}

// Require requires the single permission.
func Require(p permission.Permission) Requirement {
	return Requirement{Permissions: []permission.Permission{p}}
}

// RequireAny requires at least one of the permissions.
func RequireAny(perms ...permission.Permission) Requirement {
	return Requirement{Permissions: perms, Mode: ModeAny}
}

// RequireAll requires every one of the permissions.
func RequireAll(perms ...permission.Permission) Requirement {
	return Requirement{Permissions: perms, Mode: ModeAll}
}

// Evaluate checks a session snapshot against a requirement. Pure
// function of its inputs; rule order is fixed: readiness, then
// authentication and account status, then permissions.
func Evaluate(st session.State, req Requirement) Decision {
	if !st.Ready() {
		return DecisionPending
	}
	if !st.Authenticated || st.User == nil || !st.User.Active {
		return DecisionDeny
	}
	if len(req.Permissions) == 0 {
		return DecisionAllow
	}

	switch req.Mode {
	case ModeAll:
		for _, p := range req.Permissions {
			if !st.User.HasPermission(p) {
				return DecisionDeny
			}
		}
		return DecisionAllow
	default:
		for _, p := range req.Permissions {
			if st.User.HasPermission(p) {
				return DecisionAllow
			}
		}
		return DecisionDeny
	}
}

// Authorize evaluates the requirement against the current session.
func (e *Engine) Authorize(req Requirement) Decision {
	d := Evaluate(e.store.Snapshot(), req)
	switch d {
	case DecisionAllow:
		e.metricInc(MetricGuardAllow)
	case DecisionDeny:
		e.metricInc(MetricGuardDeny)
	case DecisionPending:
		e.metricInc(MetricGuardPending)
	}
	return d
}
