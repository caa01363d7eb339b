package hmsauth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/caresuite/hmsauth/password"
	"github.com/caresuite/hmsauth/permission"
	"github.com/caresuite/hmsauth/routes"
	"github.com/caresuite/hmsauth/session"
	"github.com/caresuite/hmsauth/ticket"
)

const defaultClientIP = "127.0.0.1"

// Login failure reasons shown to the caller. Credential failures are
// deliberately uniform: the reason never reveals whether the email
// exists.
const (
	reasonMaintenance        = "System is currently in maintenance mode"
	reasonInvalidCredentials = "Invalid email or password"
	reasonAccountDisabled    = "Account disabled"
)

// Attempt log reasons, persisted with each failed attempt.
const (
	attemptReasonMaintenance = "System in maintenance mode"
	attemptReasonInvalid     = "Invalid credentials"
	attemptReasonDisabled    = "Account disabled"
)

// Engine is the authorization core: it authenticates against the
// directory, owns the session store, and answers access checks.
// Construct through [New]; an Engine is immutable after Build and safe
// for concurrent use.
type Engine struct {
	config    Config
	catalog   *permission.Catalog
	store     *session.Store
	directory Directory
	hasher    *password.Hasher
	tickets   *ticket.Manager
	router    *routes.Policy
	audit     *auditDispatcher
	metrics   *Metrics
}

// Initialize hydrates the session store from persistence. Idempotent;
// call once at startup before any login or access check. Hydration
// failure settles the session at unauthenticated and returns the
// cause, so the caller can surface it while the system stays usable.
func (e *Engine) Initialize(ctx context.Context) error {
	err := e.store.Hydrate(ctx)
	e.metricInc(MetricHydration)
	e.emitAudit(ctx, auditEventSessionHydrated, err == nil, "", "", err, nil)
	return err
}

// Login authenticates email and password against the directory. A
// rejected login is a LoginResult, not an error; errors are reserved
// for storage and configuration faults. Exactly one attempt is
// recorded per call, maintenance mode is checked before credentials,
// and on success the session transitions to authenticated with the
// catalog's permission snapshot for the account's role.
func (e *Engine) Login(ctx context.Context, email, pass string) (LoginResult, error) {
	snap := e.store.Snapshot()
	if !snap.Ready() {
		return LoginResult{}, ErrEngineNotReady
	}

	ip := clientIPFromContext(ctx)
	if ip == "" {
		ip = defaultClientIP
	}

	if snap.Maintenance {
		e.appendAttempt(ctx, email, ip, session.AttemptFailure, attemptReasonMaintenance)
		e.metricInc(MetricLoginMaintenanceRejected)
		e.emitAudit(ctx, auditEventLoginMaintenanceRejected, false, "", email, ErrMaintenanceMode, nil)
		return LoginResult{Reason: reasonMaintenance}, nil
	}

	rec, err := e.directory.Lookup(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return e.rejectLogin(ctx, email, ip, attemptReasonInvalid, reasonInvalidCredentials, ErrInvalidCredentials)
		}
		return LoginResult{}, fmt.Errorf("directory lookup: %w", err)
	}

	ok, err := e.hasher.Verify(pass, rec.PasswordHash)
	if err != nil {
		return LoginResult{}, fmt.Errorf("password verify: %w", err)
	}
	if !ok {
		return e.rejectLogin(ctx, email, ip, attemptReasonInvalid, reasonInvalidCredentials, ErrInvalidCredentials)
	}

	if !rec.Active {
		return e.rejectLogin(ctx, email, ip, attemptReasonDisabled, reasonAccountDisabled, ErrAccountDisabled)
	}

	perms := e.catalog.PermissionsFor(rec.Role)
	if perms == nil {
		return LoginResult{}, fmt.Errorf("%w: %q", permission.ErrRoleNotRegistered, rec.Role)
	}

	user := User{
		ID:          rec.ID,
		Name:        rec.Name,
		Email:       rec.Email,
		Role:        rec.Role,
		Department:  rec.Department,
		Permissions: perms,
		Active:      true,
	}

	// Attempt first, session second, matching the persisted record
	// order earlier deployments produced.
	e.appendAttempt(ctx, email, ip, session.AttemptSuccess, "")
	if err := e.store.RecordLogin(ctx, user); err != nil {
		return LoginResult{}, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, rec.ID, email, nil, func() map[string]string {
		return map[string]string{"role": string(rec.Role)}
	})

	result := LoginResult{Success: true}
	if u := e.store.Snapshot().User; u != nil {
		result.User = u
	}
	return result, nil
}

func (e *Engine) rejectLogin(ctx context.Context, email, ip, attemptReason, reason string, cause error) (LoginResult, error) {
	e.appendAttempt(ctx, email, ip, session.AttemptFailure, attemptReason)
	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, auditEventLoginFailure, false, "", email, cause, nil)
	return LoginResult{Reason: reason}, nil
}

// appendAttempt records one login attempt. Best effort: a persistence
// failure here must not turn a decided login into an error.
func (e *Engine) appendAttempt(ctx context.Context, email, ip string, result session.AttemptResult, reason string) {
	attempt := session.LoginAttempt{
		ID:        uuid.NewString(),
		Username:  email,
		IPAddress: ip,
		Timestamp: time.Now().UTC(),
		Result:    result,
		Reason:    reason,
	}
	if err := e.store.AppendAttempt(ctx, attempt); err != nil {
		log.Print("hmsauth: failed to record login attempt: ", err)
	}
}

// Logout clears the authenticated session. Logging out an already
// unauthenticated session is a no-op, not an error.
func (e *Engine) Logout(ctx context.Context) error {
	snap := e.store.Snapshot()
	if !snap.Ready() {
		return ErrEngineNotReady
	}

	var userID, email string
	if snap.User != nil {
		userID, email = snap.User.ID, snap.User.Email
	}

	if err := e.store.Clear(ctx); err != nil {
		return err
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, userID, email, nil, nil)
	return nil
}

// SetMaintenanceMode suspends or resumes logins system-wide. The
// established session, if any, stays signed in.
func (e *Engine) SetMaintenanceMode(ctx context.Context, enabled bool) error {
	if err := e.store.SetMaintenanceMode(ctx, enabled); err != nil {
		return err
	}
	e.emitAudit(ctx, auditEventMaintenanceChanged, true, "", "", nil, func() map[string]string {
		return map[string]string{"enabled": fmt.Sprint(enabled)}
	})
	return nil
}

// MaintenanceMode reports whether logins are currently suspended.
func (e *Engine) MaintenanceMode() bool {
	return e.store.Snapshot().Maintenance
}

// LoginAttempts returns the bounded attempt log, newest first.
func (e *Engine) LoginAttempts() []LoginAttempt {
	return e.store.Snapshot().Attempts
}

// ResetAll clears the session, the maintenance flag, and the attempt
// log. Administrative recovery only.
func (e *Engine) ResetAll(ctx context.Context) error {
	if err := e.store.ResetAll(ctx); err != nil {
		return err
	}
	e.metricInc(MetricStoreReset)
	e.emitAudit(ctx, auditEventStoreReset, true, "", "", nil, nil)
	return nil
}

// Snapshot returns a deep copy of the current session state.
func (e *Engine) Snapshot() session.State {
	return e.store.Snapshot()
}

// CurrentUser returns the signed-in user, or nil.
func (e *Engine) CurrentUser() *User {
	return e.store.Snapshot().User
}

// EvaluateRoute decides whether the current session may navigate to
// target, using the configured route policy.
func (e *Engine) EvaluateRoute(target string) routes.Decision {
	d := e.router.Evaluate(e.store.Snapshot(), target)
	if d.Action == routes.ActionRedirect {
		e.metricInc(MetricRouteRedirect)
	}
	return d
}

// Routes exposes the route policy for direct queries such as
// landing-page lookups.
func (e *Engine) Routes() *routes.Policy {
	return e.router
}

// Catalog exposes the permission catalog for read-only queries.
func (e *Engine) Catalog() *permission.Catalog {
	return e.catalog
}

// Close drains and stops the audit dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were dropped by a
// saturated buffer.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns the current counter values.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}
