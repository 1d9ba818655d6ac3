package registry

import (
	"fmt"
	"sync"
)

// Module is a named bundle of exported entries published by an embedded
// engine. Entries keep their insertion order so callers that scan exports see
// a stable sequence.
type Module struct {
	name    string
	order   []string
	exports map[string]any
}

// NewModule creates an empty module with the given registry name.
// Names follow dotted-path convention (e.g. "app.main").
func NewModule(name string) *Module {
	return &Module{
		name:    name,
		exports: make(map[string]any),
	}
}

// Name returns the module's registry name.
func (m *Module) Name() string {
	return m.name
}

// Export publishes a named entry on the module. Re-exporting a name replaces
// the previous value without changing its position in the export order.
func (m *Module) Export(name string, value any) *Module {
	if _, ok := m.exports[name]; !ok {
		m.order = append(m.order, name)
	}
	m.exports[name] = value
	return m
}

// Lookup returns the entry exported under name.
func (m *Module) Lookup(name string) (any, bool) {
	v, ok := m.exports[name]
	return v, ok
}

// Exports returns the exported names in insertion order.
func (m *Module) Exports() []string {
	names := make([]string, len(m.order))
	copy(names, m.order)
	return names
}

// Registry is the catalog of registered engine modules. Registration is
// expected during startup wiring; Load is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]*Module
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		modules: make(map[string]*Module),
	}
}

// Register adds a module to the registry. Registering a duplicate name is a
// wiring mistake and returns an error.
func (r *Registry) Register(m *Module) error {
	if m == nil || m.name == "" {
		return fmt.Errorf("registry: module must have a name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.modules[m.name]; ok {
		return fmt.Errorf("registry: module %q already registered", m.name)
	}
	r.modules[m.name] = m
	return nil
}

// MustRegister is like Register but panics on error. Intended for wiring code
// where a duplicate registration is unrecoverable.
func (r *Registry) MustRegister(m *Module) {
	if err := r.Register(m); err != nil {
		panic(err)
	}
}

// Load returns the module registered under name.
func (r *Registry) Load(name string) (*Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.modules[name]
	if !ok {
		return nil, fmt.Errorf("registry: module %q not registered", name)
	}
	return m, nil
}

// defaultRegistry backs the package-level registration functions. Embedding
// programs register their engine here, usually from an init function, before
// the bridge starts.
var defaultRegistry = New()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a module to the default registry.
func Register(m *Module) error {
	return defaultRegistry.Register(m)
}

// MustRegister adds a module to the default registry, panicking on error.
func MustRegister(m *Module) {
	defaultRegistry.MustRegister(m)
}

// Names returns the registered module names. Order is unspecified.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	return names
}
