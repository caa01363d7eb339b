package hmsauth

import (
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/caresuite/hmsauth/password"
	"github.com/caresuite/hmsauth/permission"
	"github.com/caresuite/hmsauth/routes"
	"github.com/caresuite/hmsauth/session"
	"github.com/caresuite/hmsauth/ticket"
)

// Builder assembles an Engine. Misconfiguration fails at Build, never
// at request time.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	catalog    *permission.Catalog
	vocabulary []permission.Permission
	roles      map[permission.Role][]permission.Permission

	directory Directory
	router    *routes.Policy
	auditSink AuditSink

	built bool
}

// New returns a Builder loaded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the session persistence client.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithCatalog installs a prebuilt permission catalog. Overrides
// WithVocabulary and WithRoles.
func (b *Builder) WithCatalog(c *permission.Catalog) *Builder {
	b.catalog = c
	return b
}

// WithVocabulary sets the permission vocabulary for catalog
// construction. Use together with WithRoles.
func (b *Builder) WithVocabulary(perms []permission.Permission) *Builder {
	b.vocabulary = perms
	return b
}

// WithRoles sets the role to permission mapping for catalog
// construction.
func (b *Builder) WithRoles(roles map[permission.Role][]permission.Permission) *Builder {
	b.roles = roles
	return b
}

// WithDirectory sets the account directory the engine authenticates
// against.
func (b *Builder) WithDirectory(d Directory) *Builder {
	b.directory = d
	return b
}

// WithRoutes replaces the default route table.
func (b *Builder) WithRoutes(p *routes.Policy) *Builder {
	b.router = p
	return b
}

// WithAuditSink sets the destination for audit events. Ignored unless
// Audit.Enabled is set.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the engine counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and wires the engine. A Builder
// is single-use.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	b.built = true

	cfg := cloneConfig(b.config)

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.directory == nil {
		return nil, errors.New("directory required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	catalog := b.catalog
	if catalog == nil {
		if len(b.vocabulary) > 0 || len(b.roles) > 0 {
			built, err := permission.NewCatalog(b.vocabulary, b.roles)
			if err != nil {
				return nil, err
			}
			catalog = built
		} else {
			catalog = permission.Default()
		}
	}

	hasher, err := newHasher(cfg.Password)
	if err != nil {
		return nil, err
	}

	var tickets *ticket.Manager
	if cfg.Ticket.Enabled {
		tickets, err = ticket.NewManager(ticket.Config{
			TTL:           cfg.Ticket.TTL,
			SigningMethod: cfg.Ticket.SigningMethod,
			PrivateKey:    cfg.Ticket.PrivateKey,
			PublicKey:     cfg.Ticket.PublicKey,
			Issuer:        cfg.Ticket.Issuer,
			Leeway:        cfg.Ticket.Leeway,
		})
		if err != nil {
			return nil, err
		}
	}

	router := b.router
	if router == nil {
		router = routes.Default()
	}

	store := session.NewStore(b.redis, cfg.Session.StorageKey, cfg.Session.HydrateTimeout)

	return &Engine{
		config:    cfg,
		catalog:   catalog,
		store:     store,
		directory: b.directory,
		hasher:    hasher,
		tickets:   tickets,
		router:    router,
		audit:     newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:   NewMetrics(cfg.Metrics),
	}, nil
}

func newHasher(cfg PasswordConfig) (*password.Hasher, error) {
	return password.NewHasher(password.Config{
		Memory:      cfg.Memory,
		Time:        cfg.Time,
		Parallelism: cfg.Parallelism,
		SaltLength:  cfg.SaltLength,
		KeyLength:   cfg.KeyLength,
	})
}
