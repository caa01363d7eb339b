package hmsauth

import (
	"context"
	"strings"
	"sync"

	"github.com/caresuite/hmsauth/password"
	"github.com/caresuite/hmsauth/permission"
	"github.com/caresuite/hmsauth/session"
)

// User is the identity record held while a session is authenticated.
type User = session.User

// LoginAttempt is one entry of the bounded login-attempt log.
type LoginAttempt = session.LoginAttempt

// LoginResult reports the outcome of a login call. A rejected login is
// a result, not an error: the Reason string is what the caller shows
// the user, and it never distinguishes a wrong password from an
// unknown email.
type LoginResult struct {
	Success bool
	Reason  string
	User    *User
}

// DirectoryRecord is one account as the user directory stores it. The
// password is held only as an Argon2id hash.
type DirectoryRecord struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         permission.Role
	Department   string
	Active       bool
}

// Directory is the account lookup interface the engine authenticates
// against. Lookup returns ErrUserNotFound for unknown emails.
type Directory interface {
	Lookup(ctx context.Context, email string) (DirectoryRecord, error)
}

// SeedAccount is a plaintext seed for a StaticDirectory. The plaintext
// password is hashed at construction and never retained.
type SeedAccount struct {
	ID         string
	Name       string
	Email      string
	Password   string
	Role       permission.Role
	Department string
}

// StaticDirectory is a fixed in-memory Directory keyed by lowercased
// email. It backs demo and test deployments; production installs plug
// in their own Directory.
type StaticDirectory struct {
	mu       sync.RWMutex
	accounts map[string]DirectoryRecord
}

// NewStaticDirectory hashes each seed password and indexes the
// accounts by email. Every seeded account starts active.
func NewStaticDirectory(hasher *password.Hasher, seeds []SeedAccount) (*StaticDirectory, error) {
	accounts := make(map[string]DirectoryRecord, len(seeds))
	for _, seed := range seeds {
		hash, err := hasher.Hash(seed.Password)
		if err != nil {
			return nil, err
		}
		email := strings.ToLower(seed.Email)
		accounts[email] = DirectoryRecord{
			ID:           seed.ID,
			Name:         seed.Name,
			Email:        email,
			PasswordHash: hash,
			Role:         seed.Role,
			Department:   seed.Department,
			Active:       true,
		}
	}
	return &StaticDirectory{accounts: accounts}, nil
}

// DefaultSeedAccounts returns the demo hospital staff roster, one
// account per role.
func DefaultSeedAccounts() []SeedAccount {
	return []SeedAccount{
		{ID: "1", Name: "Dr. Admin", Email: "admin@hospital.com", Password: "admin123", Role: permission.RoleAdmin, Department: "Administration"},
		{ID: "2", Name: "Dr. Smith", Email: "doctor@hospital.com", Password: "doctor123", Role: permission.RoleDoctor, Department: "Cardiology"},
		{ID: "3", Name: "Sarah Johnson", Email: "receptionist@hospital.com", Password: "reception123", Role: permission.RoleReceptionist, Department: "Front Desk"},
		{ID: "4", Name: "Lab Tech Mike", Email: "lab@hospital.com", Password: "lab123", Role: permission.RoleLab, Department: "Laboratory"},
	}
}

// Lookup returns the record for the lowercased email.
func (d *StaticDirectory) Lookup(_ context.Context, email string) (DirectoryRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rec, ok := d.accounts[strings.ToLower(email)]
	if !ok {
		return DirectoryRecord{}, ErrUserNotFound
	}
	return rec, nil
}

// SetActive flips an account's active flag, for disabling staff
// accounts without removing them.
func (d *StaticDirectory) SetActive(email string, active bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := strings.ToLower(email)
	rec, ok := d.accounts[key]
	if !ok {
		return ErrUserNotFound
	}
	rec.Active = active
	d.accounts[key] = rec
	return nil
}
