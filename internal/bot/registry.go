package bot

import (
	"errors"
	"fmt"
	"sync"
)

// ErrDuplicateModule is returned when two modules share a name.
var ErrDuplicateModule = errors.New("duplicate module name")

// ModuleRegistry holds modules by unique name, in registration order, which
// is also the order the bot dispatches to them.
type ModuleRegistry struct {
	mu      sync.RWMutex
	modules []Module
	byName  map[string]Module
}

// NewModuleRegistry creates a new module registry.
func NewModuleRegistry() *ModuleRegistry {
	return &ModuleRegistry{
		modules: make([]Module, 0),
		byName:  make(map[string]Module),
	}
}

// Register adds m, failing with ErrDuplicateModule if its name is taken.
func (r *ModuleRegistry) Register(m Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := m.Name()
	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateModule, name)
	}
	r.byName[name] = m
	r.modules = append(r.modules, m)
	return nil
}

// MustRegister is like Register but panics on a duplicate name.
func (r *ModuleRegistry) MustRegister(m Module) {
	if err := r.Register(m); err != nil {
		panic(err)
	}
}

// Lookup returns the module registered under name.
func (r *ModuleRegistry) Lookup(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byName[name]
	return m, ok
}

// Modules returns a snapshot of all registered modules.
func (r *ModuleRegistry) Modules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Module(nil), r.modules...)
}

var globalRegistry = NewModuleRegistry()

// Register adds a module to the global registry from its package's init
// function. Two packages registering the same name is a programming error
// and panics at startup.
func Register(m Module) {
	globalRegistry.MustRegister(m)
}

// Modules returns all modules from the global registry.
func Modules() []Module {
	return globalRegistry.Modules()
}

// ResetGlobalRegistry empties the global registry. Tests only.
func ResetGlobalRegistry() {
	globalRegistry = NewModuleRegistry()
}
