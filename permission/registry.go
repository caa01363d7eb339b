package permission

import (
	"errors"
	"sync"
)

// Registry maps permission names to bit positions within a [Mask64].
// Registrations happen during catalog construction; the registry is
// frozen before any lookup-serving component sees it.
type Registry struct {
	mu        sync.RWMutex
	nameToBit map[Permission]int
	bitToName map[int]Permission
	frozen    bool
}

// NewRegistry creates an empty permission [Registry].
func NewRegistry() *Registry {
	return &Registry{
		nameToBit: make(map[Permission]int),
		bitToName: make(map[int]Permission),
	}
}

// Register assigns the next available bit to the named permission and
// returns the assigned bit index. Must be called before [Registry.Freeze].
func (r *Registry) Register(name Permission) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return -1, errors.New("registry frozen")
	}

	if name == "" {
		return -1, errors.New("permission name cannot be empty")
	}

	if _, exists := r.nameToBit[name]; exists {
		return -1, errors.New("permission already registered: " + string(name))
	}

	nextBit := len(r.nameToBit)
	if nextBit >= 64 {
		return -1, errors.New("permission limit exceeded")
	}

	r.nameToBit[name] = nextBit
	r.bitToName[nextBit] = name

	return nextBit, nil
}

// Bit returns the bit index for the named permission, or false if not registered.
func (r *Registry) Bit(name Permission) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bit, ok := r.nameToBit[name]
	return bit, ok
}

// Name returns the permission name for the given bit index, or false if unassigned.
func (r *Registry) Name(bit int) (Permission, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.bitToName[bit]
	return name, ok
}

// Freeze prevents further registrations. Called once the catalog's
// vocabulary is complete.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Count returns the number of registered permissions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nameToBit)
}
