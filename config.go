package hmsauth

import (
	"errors"
	"time"

	"github.com/caresuite/hmsauth/ticket"
)

// Config carries every engine setting. Configure once, pass to the
// builder, and treat as immutable afterwards.
type Config struct {
	Session  SessionConfig
	Password PasswordConfig
	Ticket   TicketConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

// SessionConfig controls the persistent session store.
type SessionConfig struct {
	// StorageKey is the fixed Redis key the session persists under.
	StorageKey string
	// HydrateTimeout bounds the initial load from the backing store.
	HydrateTimeout time.Duration
}

// PasswordConfig carries Argon2id cost parameters.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// TicketConfig controls signed session tickets. Disabled by default;
// when disabled the ticket operations return ErrTicketsDisabled.
type TicketConfig struct {
	Enabled       bool
	TTL           time.Duration
	SigningMethod ticket.SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

// AuditConfig controls the async audit pipeline.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events when the buffer is saturated instead of
	// blocking the login path.
	DropIfFull bool
}

// MetricsConfig controls the engine counters.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		Session: SessionConfig{
			StorageKey:     "healthcare-auth-storage",
			HydrateTimeout: 3 * time.Second,
		},
		Password: PasswordConfig{
			Memory:      65536,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Ticket: TicketConfig{
			Enabled:       false,
			TTL:           15 * time.Minute,
			SigningMethod: ticket.MethodEd25519,
			Issuer:        "hmsauth",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Ticket.PrivateKey = cloneBytes(cfg.Ticket.PrivateKey)
	out.Ticket.PublicKey = cloneBytes(cfg.Ticket.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Session.StorageKey == "" {
		return errors.New("Session StorageKey must not be empty")
	}
	if c.Session.HydrateTimeout < 0 {
		return errors.New("Session HydrateTimeout must be >= 0")
	}

	if c.Ticket.Enabled {
		if c.Ticket.TTL <= 0 {
			return errors.New("Ticket TTL must be > 0")
		}
		switch c.Ticket.SigningMethod {
		case ticket.MethodEd25519:
			if len(c.Ticket.PrivateKey) == 0 || len(c.Ticket.PublicKey) == 0 {
				return errors.New("ed25519 tickets require PrivateKey and PublicKey")
			}
		case ticket.MethodHS256:
			if len(c.Ticket.PrivateKey) == 0 {
				return errors.New("hs256 tickets require PrivateKey")
			}
		default:
			return errors.New("unsupported ticket signing method")
		}
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0")
	}

	return nil
}
