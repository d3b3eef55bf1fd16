package objects

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownModule reports that no module with the requested name has
// been registered. The walker downgrades it to a symbolic fallback.
var ErrUnknownModule = errors.New("unknown module")

// Module is a named bag of exported members, the resolution target of
// an import instruction.
type Module struct {
	Name    string
	Members map[string]any
}

// Attr resolves a member of the module, so that import-from and
// attribute chains on an imported module work through the common
// lookup path.
func (m *Module) Attr(name string) (any, error) {
	if v, ok := m.Members[name]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: %q in module %q", ErrNoAttr, name, m.Name)
}

func (m *Module) String() string {
	return "module " + m.Name
}

// Registry maps module names to modules. It is the engine's stand-in
// for a runtime import system: embedders register the modules their
// callables may import, the walker only ever reads.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*Module
}

func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]*Module)}
}

// Register adds or replaces a module. Members may be nil.
func (r *Registry) Register(name string, members map[string]any) *Module {
	m := &Module{Name: name, Members: members}
	r.mu.Lock()
	r.modules[name] = m
	r.mu.Unlock()
	return m
}

// Import resolves a module by name.
func (r *Registry) Import(name string) (*Module, error) {
	r.mu.RLock()
	m, ok := r.modules[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModule, name)
	}
	return m, nil
}

// DefaultRegistry is the registry the walker consults unless an
// explicit one is supplied.
var DefaultRegistry = NewRegistry()
