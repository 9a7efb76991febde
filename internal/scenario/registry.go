package scenario

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/spachava753/agentgym/internal/models"
)

var scenarioNamePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Factory builds a new scenario instance.
type Factory func() Scenario

// NotFoundError is returned by Registry.Load for an unknown name. It lists
// the names that were registered at the time of the lookup.
type NotFoundError struct {
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("scenario %q not found, available: %s", e.Name, strings.Join(e.Available, ", "))
}

func (e *NotFoundError) Is(target error) bool {
	return target == models.ErrScenarioNotFound
}

// Registry maps scenario names to factories. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	order     []string
}

// NewRegistry returns a registry with the built-in scenarios registered.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	for _, f := range []Factory{
		func() Scenario { return NewCustomerSupport() },
		func() Scenario { return NewCodeReview() },
		func() Scenario { return NewDataAnalysis() },
	} {
		if err := r.Register(f().Info().Name, f); err != nil {
			panic(err)
		}
	}
	return r
}

func NewEmptyRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name. Names are lower-cased; registering a
// name twice is an error.
func (r *Registry) Register(name string, f Factory) error {
	name = normalizeName(name)
	if !scenarioNamePattern.MatchString(name) {
		return goerr.Wrap(models.ErrRegistryConflict, "invalid scenario name", goerr.V("name", name))
	}
	if f == nil {
		return goerr.Wrap(models.ErrRegistryConflict, "nil factory", goerr.V("name", name))
	}
	if f() == nil {
		return goerr.Wrap(models.ErrRegistryConflict, "factory returned nil scenario", goerr.V("name", name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		return goerr.Wrap(models.ErrRegistryConflict, "scenario already registered", goerr.V("name", name))
	}
	r.factories[name] = f
	r.order = append(r.order, name)
	return nil
}

// Load returns a fresh instance of the named scenario.
func (r *Registry) Load(name string) (Scenario, error) {
	name = normalizeName(name)

	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &NotFoundError{Name: name, Available: r.Names()}
	}
	return f(), nil
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// List describes every registered scenario in registration order. Name is
// the key the scenario was registered under.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.order))
	for _, name := range r.order {
		info := r.factories[name]().Info()
		info.Name = name
		infos = append(infos, info)
	}
	return infos
}

func (r *Registry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[normalizeName(name)]
	return ok
}

// Unregister removes name and reports whether it was registered.
func (r *Registry) Unregister(name string) bool {
	name = normalizeName(name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; !ok {
		return false
	}
	delete(r.factories, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
	return true
}

func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.factories)
	r.order = nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
