package hmsauth

import (
	"fmt"

	"github.com/caresuite/hmsauth/permission"
	"github.com/caresuite/hmsauth/session"
	"github.com/caresuite/hmsauth/ticket"
)

// IssueTicket signs a ticket for the currently authenticated session
// so a surrounding HTTP shell can carry identity across requests.
func (e *Engine) IssueTicket() (string, error) {
	if e.tickets == nil {
		return "", ErrTicketsDisabled
	}

	snap := e.store.Snapshot()
	if !snap.Ready() {
		return "", ErrEngineNotReady
	}
	if !snap.Authenticated || snap.User == nil {
		return "", ErrNotAuthenticated
	}

	mask, err := e.catalog.MaskFor(snap.User.Role)
	if err != nil {
		return "", fmt.Errorf("ticket mask: %w", err)
	}

	return e.tickets.Issue(ticket.Identity{
		ID:         snap.User.ID,
		Name:       snap.User.Name,
		Email:      snap.User.Email,
		Role:       string(snap.User.Role),
		Department: snap.User.Department,
		Mask:       mask.Raw(),
	})
}

// ValidateTicket verifies a ticket and rebuilds the user snapshot it
// carries. The permission list is reconstructed from the embedded mask
// through the catalog's bit layout.
func (e *Engine) ValidateTicket(token string) (*User, error) {
	if e.tickets == nil {
		return nil, ErrTicketsDisabled
	}

	claims, err := e.tickets.Parse(token)
	if err != nil {
		return nil, err
	}

	return &session.User{
		ID:          claims.Subject,
		Name:        claims.Name,
		Email:       claims.Email,
		Role:        permission.Role(claims.Role),
		Department:  claims.Department,
		Permissions: e.catalog.PermissionsFromMask(permission.Mask64(claims.Mask)),
		Active:      true,
	}, nil
}
