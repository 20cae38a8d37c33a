package conv

import (
	"strings"
	"sync"

	"github.com/teranos/typeinfer/errors"
)

// Entry binds a type tag to the converter that recognizes it.
type Entry struct {
	Name      string
	Converter Converter
}

// Registry holds converters in try-order. The entry slice is the order;
// index maps a name to its position and is rebuilt on every mutation.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
	index   map[string]int
}

// NewRegistry creates a registry seeded with entries in the given order.
// Invalid entries are reported with the same errors Register returns.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{index: make(map[string]int)}
	for _, e := range entries {
		if err := r.Register(e.Name, e.Converter); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustNewRegistry panics on an invalid seed. Useful for init-time wiring.
func MustNewRegistry(entries ...Entry) *Registry {
	r, err := NewRegistry(entries...)
	if err != nil {
		panic(err)
	}
	return r
}

// Register binds name to c at the lowest priority. Registering an existing
// name replaces its converter and moves it to the end.
func (r *Registry) Register(name string, c Converter) error {
	return r.register(name, c, -1)
}

// RegisterAt binds name to c and inserts it at priority (0 is tried first).
// A priority outside the current order appends instead. The bound is taken
// after any previous registration of name has been removed.
func (r *Registry) RegisterAt(name string, c Converter, priority int) error {
	return r.register(name, c, priority)
}

func (r *Registry) register(name string, c Converter, priority int) error {
	if strings.TrimSpace(name) == "" {
		return errors.NewInvalidConfigError("type name cannot be empty")
	}
	if c == nil {
		return errors.NewInvalidConfigError("converter for type %q must be a function", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.without(name)
	entry := Entry{Name: name, Converter: c}

	if priority >= 0 && priority < len(entries) {
		entries = append(entries, Entry{})
		copy(entries[priority+1:], entries[priority:])
		entries[priority] = entry
	} else {
		entries = append(entries, entry)
	}

	r.replace(entries)
	return nil
}

// Unregister removes name. Unknown names are ignored.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[name]; !ok {
		return
	}
	r.replace(r.without(name))
}

// Lookup returns the converter bound to name.
func (r *Registry) Lookup(name string) (Converter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[name]
	if !ok {
		return nil, errors.NewNotFoundError("no converter for type %q", name)
	}
	return r.entries[i].Converter, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.index[name]
	return ok
}

// Order returns the registered names in try-order.
func (r *Registry) Order() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

// Entries returns a snapshot of the entries in try-order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of registered converters.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Clone returns an independent registry with the same entries and order.
func (r *Registry) Clone() *Registry {
	return MustNewRegistry(r.Entries()...)
}

// without returns a fresh slice of the entries minus name. Caller holds mu.
func (r *Registry) without(name string) []Entry {
	out := make([]Entry, 0, len(r.entries)+1)
	for _, e := range r.entries {
		if e.Name != name {
			out = append(out, e)
		}
	}
	return out
}

// replace installs entries and rebuilds the index. Caller holds mu.
func (r *Registry) replace(entries []Entry) {
	r.entries = entries
	r.index = make(map[string]int, len(entries))
	for i, e := range entries {
		r.index[e.Name] = i
	}
}
