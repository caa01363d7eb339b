package hmsauth

import (
	"errors"

	"github.com/caresuite/hmsauth/session"
)

var (
	// ErrStorageUnavailable mirrors the session store sentinel so callers
	// can branch without importing the session package.
	ErrStorageUnavailable = session.ErrStorageUnavailable

	// ErrEngineNotReady is returned by operations invoked before Initialize
	// has settled the session store.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrInvalidCredentials is returned when the email or password does not
	// match a directory record.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned by directory lookups for unknown emails.
	ErrUserNotFound = errors.New("user not found")
	// ErrAccountDisabled is returned when a deactivated account attempts to
	// sign in.
	ErrAccountDisabled = errors.New("account disabled")
	// ErrMaintenanceMode is returned when logins are suspended system-wide.
	ErrMaintenanceMode = errors.New("system in maintenance mode")
	// ErrTicketsDisabled is returned by ticket operations when no ticket
	// manager is configured.
	ErrTicketsDisabled = errors.New("session tickets disabled")
	// ErrNotAuthenticated is returned by operations that require an
	// established session.
	ErrNotAuthenticated = errors.New("no authenticated session")
)
