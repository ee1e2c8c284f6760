package form

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Handler builds the dispatched node for one component tag.
type Handler func(ctx FieldContext) Node

// Registry maps component tags to handlers. The built-in set covers the
// closed component enum; unknown tags resolve to nothing so the dispatcher
// can render nothing without raising.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty registry. Use DefaultRegistry for the
// built-in component set.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a handler for a component tag. Registering an existing tag
// returns an error; use Replace to override built-ins.
func (r *Registry) Register(component string, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("form: handler is required")
	}
	component = strings.TrimSpace(component)
	if component == "" {
		return fmt.Errorf("form: component tag is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[component]; exists {
		return fmt.Errorf("form: component %q already registered", component)
	}
	r.handlers[component] = handler
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(component string, handler Handler) {
	if err := r.Register(component, handler); err != nil {
		panic(err)
	}
}

// Replace overrides any existing handler for the tag.
func (r *Registry) Replace(component string, handler Handler) {
	if handler == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[component] = handler
}

// Resolve returns the handler for a component tag.
func (r *Registry) Resolve(component string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.handlers[component]
	return handler, ok
}

// List returns registered component tags sorted alphabetically.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
