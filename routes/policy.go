package routes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caresuite/hmsauth/permission"
	"github.com/caresuite/hmsauth/session"
)

// Action is the outcome of a route evaluation.
type Action uint8

const (
	// ActionPending means the session is not yet hydrated; the caller
	// must hold the navigation, not deny it.
	ActionPending Action = iota
	// ActionAllow lets the navigation proceed.
	ActionAllow
	// ActionRedirect sends the caller to Decision.Target instead.
	ActionRedirect
)

func (a Action) String() string {
	switch a {
	case ActionPending:
		return "pending"
	case ActionAllow:
		return "allow"
	case ActionRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the result of evaluating one navigation target.
type Decision struct {
	Action Action
	// Target is the redirect destination. Set only for ActionRedirect.
	Target string
}

// Config declares the route table. All paths are absolute.
type Config struct {
	// Login is the only page an unauthenticated session may visit.
	Login string
	// Shared pages are reachable by every authenticated role.
	Shared []string
	// Zones maps each role to the path prefixes reserved for it. A
	// zone prefix owned by one role is off-limits to every other.
	Zones map[permission.Role][]string
	// Landing maps each role to its post-login home page.
	Landing map[permission.Role]string
	// Fallback is the landing page for a role the table does not know.
	Fallback string
}

// Policy evaluates navigation targets against a fixed route table.
// Immutable after construction; safe for concurrent use.
type Policy struct {
	login    string
	shared   []string
	zones    map[permission.Role][]string
	landing  map[permission.Role]string
	fallback string
}

// Default returns the hospital dashboard route table: one reserved
// zone per role, a shared set reachable by everyone authenticated,
// and per-role landing pages.
func Default() *Policy {
	p, err := New(Config{
		Login: "/login",
		Shared: []string{
			"/",
			"/patients",
			"/appointments",
			"/reports",
			"/notifications",
			"/checkin",
			"/contacts",
			"/schedule",
		},
		Zones: map[permission.Role][]string{
			permission.RoleAdmin:        {"/admin"},
			permission.RoleDoctor:       {"/doctor"},
			permission.RoleReceptionist: {"/reception"},
			permission.RoleLab:          {"/lab"},
		},
		Landing: map[permission.Role]string{
			permission.RoleAdmin:        "/admin",
			permission.RoleDoctor:       "/doctor",
			permission.RoleReceptionist: "/reception",
			permission.RoleLab:          "/lab",
		},
		Fallback: "/",
	})
	if err != nil {
		panic(fmt.Sprintf("routes: default policy invalid: %v", err))
	}
	return p
}

// New validates the route table and returns a ready Policy.
func New(cfg Config) (*Policy, error) {
	if err := validatePath(cfg.Login); err != nil {
		return nil, fmt.Errorf("login page: %w", err)
	}
	if err := validatePath(cfg.Fallback); err != nil {
		return nil, fmt.Errorf("fallback page: %w", err)
	}
	for _, s := range cfg.Shared {
		if err := validatePath(s); err != nil {
			return nil, fmt.Errorf("shared page %q: %w", s, err)
		}
	}

	seen := make(map[string]permission.Role)
	zones := make(map[permission.Role][]string, len(cfg.Zones))
	for role, prefixes := range cfg.Zones {
		if len(prefixes) == 0 {
			return nil, fmt.Errorf("role %q has an empty zone", role)
		}
		for _, prefix := range prefixes {
			if err := validatePath(prefix); err != nil {
				return nil, fmt.Errorf("zone %q for role %q: %w", prefix, role, err)
			}
			if prefix == "/" {
				return nil, fmt.Errorf("role %q claims the root page as a zone", role)
			}
			if owner, dup := seen[prefix]; dup {
				return nil, fmt.Errorf("zone %q claimed by both %q and %q", prefix, owner, role)
			}
			seen[prefix] = role
		}
		zones[role] = append([]string(nil), prefixes...)
	}

	landing := make(map[permission.Role]string, len(cfg.Landing))
	for role, page := range cfg.Landing {
		if err := validatePath(page); err != nil {
			return nil, fmt.Errorf("landing page for role %q: %w", role, err)
		}
		landing[role] = page
	}

	return &Policy{
		login:    cfg.Login,
		shared:   append([]string(nil), cfg.Shared...),
		zones:    zones,
		landing:  landing,
		fallback: cfg.Fallback,
	}, nil
}

func validatePath(p string) error {
	if p == "" {
		return errors.New("empty path")
	}
	if !strings.HasPrefix(p, "/") {
		return errors.New("path must be absolute")
	}
	return nil
}

// Login returns the login page path.
func (p *Policy) Login() string { return p.login }

// LandingFor returns the post-login home page for the role.
func (p *Policy) LandingFor(role permission.Role) string {
	if page, ok := p.landing[role]; ok {
		return page
	}
	return p.fallback
}

// Evaluate decides whether a session may navigate to target. A
// not-yet-hydrated session always gets ActionPending regardless of
// target: a redirect issued before the persisted session is replayed
// would bounce a legitimately signed-in user off their page.
func (p *Policy) Evaluate(st session.State, target string) Decision {
	if !st.Ready() {
		return Decision{Action: ActionPending}
	}

	if !st.Authenticated || st.User == nil {
		if p.matches(p.login, target) {
			return Decision{Action: ActionAllow}
		}
		return Decision{Action: ActionRedirect, Target: p.login}
	}

	role := st.User.Role
	home := p.LandingFor(role)

	// A signed-in user has no business on the login page.
	if p.matches(p.login, target) {
		return Decision{Action: ActionRedirect, Target: home}
	}

	for zoneRole, prefixes := range p.zones {
		for _, prefix := range prefixes {
			if !p.matches(prefix, target) {
				continue
			}
			if zoneRole == role {
				return Decision{Action: ActionAllow}
			}
			return Decision{Action: ActionRedirect, Target: home}
		}
	}

	for _, shared := range p.shared {
		if p.matches(shared, target) {
			return Decision{Action: ActionAllow}
		}
	}

	// Unknown pages bounce home rather than leak whether they exist.
	return Decision{Action: ActionRedirect, Target: home}
}

// matches reports whether target falls under prefix on path segment
// boundaries. The root page matches only itself: a bare "/" prefix
// test would swallow every path and void the whole table.
func (p *Policy) matches(prefix, target string) bool {
	if prefix == "/" {
		return target == "/"
	}
	return target == prefix || strings.HasPrefix(target, prefix+"/")
}
