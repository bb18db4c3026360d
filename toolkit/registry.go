package toolkit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Registry holds handlers by name and remembers registration order, which is
// the order definitions are advertised in. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	handlers map[string]Handler
}

// NewRegistry returns a registry holding handlers, or an error on duplicate names.
func NewRegistry(handlers ...Handler) (*Registry, error) {
	r := &Registry{handlers: make(map[string]Handler, len(handlers))}
	for _, h := range handlers {
		if err := r.Register(h); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MustRegistry panics on error; useful for package-level tool sets.
func MustRegistry(handlers ...Handler) *Registry {
	r, err := NewRegistry(handlers...)
	if err != nil {
		panic(err)
	}
	return r
}

// Register adds h under h.Name().
func (r *Registry) Register(h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.handlers == nil {
		r.handlers = make(map[string]Handler)
	}
	name := h.Name()
	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	r.handlers[name] = h
	r.order = append(r.order, name)
	return nil
}

// Get returns the handler registered under name.
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Len reports the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Handlers returns the handlers in registration order.
func (r *Registry) Handlers() []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Handler, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.handlers[name])
	}
	return out
}

// Definitions describes every registered tool in registration order.
func (r *Registry) Definitions(ctx context.Context, prompt string) []Definition {
	handlers := r.Handlers()
	defs := make([]Definition, 0, len(handlers))
	for _, h := range handlers {
		defs = append(defs, h.Definition(ctx, prompt))
	}
	return defs
}

// Call dispatches a JSON payload to the named tool.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error) {
	h, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return h.CallJSON(ctx, args)
}
