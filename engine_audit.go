package hmsauth

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventLoginSuccess             = "login_success"
	auditEventLoginFailure             = "login_failure"
	auditEventLoginMaintenanceRejected = "login_maintenance_rejected"
	auditEventLogout                   = "logout"
	auditEventMaintenanceChanged       = "maintenance_mode_changed"
	auditEventStoreReset               = "store_reset"
	auditEventSessionHydrated          = "session_hydrated"
	auditEventAccessDenied             = "access_denied"
)

// AuditErrorCode is the stable error vocabulary carried in audit
// events, decoupled from Go error strings.
type AuditErrorCode string

const (
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrAccountDisabled    AuditErrorCode = "account_disabled"
	auditErrMaintenance        AuditErrorCode = "maintenance_mode"
	auditErrNotReady           AuditErrorCode = "not_initialized"
	auditErrPermissionDenied   AuditErrorCode = "permission_denied"
	auditErrStorage            AuditErrorCode = "storage_unavailable"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	email string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		Email:     email,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUserNotFound):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrAccountDisabled):
		return auditErrAccountDisabled
	case errors.Is(err, ErrMaintenanceMode):
		return auditErrMaintenance
	case errors.Is(err, ErrEngineNotReady):
		return auditErrNotReady
	case errors.Is(err, ErrStorageUnavailable):
		return auditErrStorage
	default:
		return auditErrInternal
	}
}
