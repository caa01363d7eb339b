package permission

import (
	"errors"
	"fmt"
	"sort"
)

// ErrRoleNotRegistered is returned by mask lookups for a role the
// catalog has never seen. A catalog produced by [NewCatalog] has a
// defined, non-empty set for every role it was built with, so hitting
// this at runtime means the caller is using a role from outside the
// configured set.
var ErrRoleNotRegistered = errors.New("role not registered in catalog")

type roleEntry struct {
	mask  Mask64
	perms []Permission
}

// Catalog is the static role to permission-set mapping. It is built
// once, validated, and then read-only: lookups are pure and have no
// side effects.
type Catalog struct {
	registry *Registry
	roles    map[Role]roleEntry
	order    []Role
	vocab    []Permission
}

// NewCatalog builds a [Catalog] from a permission vocabulary and a
// role mapping. Construction fails on any configuration fault: an
// empty vocabulary, a role with an empty set, a role referencing an
// unregistered permission, or an admin set that is not a superset of
// every other role's set. All of these are fatal at startup; nothing
// downstream re-checks them.
func NewCatalog(vocabulary []Permission, roles map[Role][]Permission) (*Catalog, error) {
	if len(vocabulary) == 0 {
		return nil, errors.New("permission vocabulary must not be empty")
	}
	if len(roles) == 0 {
		return nil, errors.New("role mapping must not be empty")
	}

	registry := NewRegistry()
	for _, p := range vocabulary {
		if _, err := registry.Register(p); err != nil {
			return nil, err
		}
	}
	registry.Freeze()

	c := &Catalog{
		registry: registry,
		roles:    make(map[Role]roleEntry, len(roles)),
		vocab:    append([]Permission(nil), vocabulary...),
	}

	// Deterministic role order regardless of map iteration.
	for role := range roles {
		c.order = append(c.order, role)
	}
	sort.Slice(c.order, func(i, j int) bool { return c.order[i] < c.order[j] })

	for _, role := range c.order {
		perms := roles[role]
		if role == "" {
			return nil, errors.New("role name must not be empty")
		}
		if len(perms) == 0 {
			return nil, fmt.Errorf("role %q has an empty permission set", role)
		}

		var mask Mask64
		snapshot := make([]Permission, 0, len(perms))
		for _, p := range perms {
			bit, ok := registry.Bit(p)
			if !ok {
				return nil, fmt.Errorf("role %q references unregistered permission %q", role, p)
			}
			if mask.Has(bit) {
				return nil, fmt.Errorf("role %q lists permission %q twice", role, p)
			}
			mask.Set(bit)
			snapshot = append(snapshot, p)
		}

		c.roles[role] = roleEntry{mask: mask, perms: snapshot}
	}

	if admin, ok := c.roles[RoleAdmin]; ok {
		for _, role := range c.order {
			if role == RoleAdmin {
				continue
			}
			if !admin.mask.Contains(c.roles[role].mask) {
				return nil, fmt.Errorf("admin permission set does not cover role %q", role)
			}
		}
	}

	return c, nil
}

// Default returns the built-in hospital catalog: the full vocabulary
// from [All] and the mapping from [DefaultRolePermissions]. The
// built-in tables are static and covered by tests, so construction
// cannot fail here.
func Default() *Catalog {
	c, err := NewCatalog(All(), DefaultRolePermissions())
	if err != nil {
		panic("permission: built-in catalog invalid: " + err.Error())
	}
	return c
}

// PermissionsFor returns the role's permission set in catalog order.
// The returned slice is a copy; callers may hold it as a login-time
// snapshot. Unknown roles yield nil.
func (c *Catalog) PermissionsFor(role Role) []Permission {
	entry, ok := c.roles[role]
	if !ok {
		return nil
	}
	return append([]Permission(nil), entry.perms...)
}

// MaskFor returns the role's permission bitmask.
func (c *Catalog) MaskFor(role Role) (Mask64, error) {
	entry, ok := c.roles[role]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrRoleNotRegistered, role)
	}
	return entry.mask, nil
}

// Has reports whether the role's set includes the permission.
func (c *Catalog) Has(role Role, perm Permission) bool {
	entry, ok := c.roles[role]
	if !ok {
		return false
	}
	bit, ok := c.registry.Bit(perm)
	if !ok {
		return false
	}
	return entry.mask.Has(bit)
}

// AllRoles returns every role the catalog was built with, sorted.
func (c *Catalog) AllRoles() []Role {
	return append([]Role(nil), c.order...)
}

// AllPermissions returns the vocabulary in registration (bit) order.
func (c *Catalog) AllPermissions() []Permission {
	return append([]Permission(nil), c.vocab...)
}

// Bit returns the bit index assigned to the permission.
func (c *Catalog) Bit(perm Permission) (int, bool) {
	return c.registry.Bit(perm)
}

// PermissionsFromMask expands a bitmask back into permission names in
// bit order. Bits outside the registered vocabulary are ignored.
func (c *Catalog) PermissionsFromMask(mask Mask64) []Permission {
	var perms []Permission
	for bit := 0; bit < c.registry.Count(); bit++ {
		if !mask.Has(bit) {
			continue
		}
		name, ok := c.registry.Name(bit)
		if !ok {
			continue
		}
		perms = append(perms, name)
	}
	return perms
}
