package activeenum

import (
	"fmt"
	"slices"
	"sync"
)

// Descriptor is the type-erased view of an Enum used by tooling that handles
// enums of different representation types together.
type Descriptor interface {
	Name() Name
	TypeIdent() string
	Kind() Kind
	DBType() ColumnDef
	Len() int
	Idents() []string
	Labels() []string
	ValueStrings() []string
}

var _ Descriptor = (*Enum[int, string])(nil)

// ValueStrings returns every representation formatted as text, in
// declaration order.
func (e *Enum[E, R]) ValueStrings() []string {
	out := make([]string, len(e.values))
	for i, v := range e.values {
		out[i] = formatValue(v)
	}
	return out
}

// registry is the process-wide registry used by Register.
var registry = NewRegistry()

// Registry indexes enum descriptors by name.
type Registry struct {
	mu    sync.RWMutex
	enums map[Name]Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{enums: make(map[Name]Descriptor)}
}

// Register adds d to the registry.
// Panics if an enum with the same name is already registered.
func (r *Registry) Register(d Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.enums[d.Name()]; exists {
		panic(fmt.Sprintf("activeenum: enum %q already registered", d.Name()))
	}
	r.enums[d.Name()] = d
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name Name) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.enums[name]
	return d, ok
}

// List returns all registered enum names, sorted.
func (r *Registry) List() []Name {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]Name, 0, len(r.enums))
	for name := range r.enums {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Register adds d to the process-wide registry. Generated code calls it from
// init functions.
func Register(d Descriptor) {
	registry.Register(d)
}

// Lookup returns the descriptor registered under name in the process-wide
// registry.
func Lookup(name Name) (Descriptor, bool) {
	return registry.Lookup(name)
}

// Registered returns the names in the process-wide registry, sorted.
func Registered() []Name {
	return registry.List()
}
