package logs

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charliek/logview/internal/domain"
)

// Registry holds named providers. Providers are registered at startup and
// read concurrently by request handlers afterwards.
type Registry struct {
	mu          sync.RWMutex
	providers   map[string]Provider
	order       []string
	defaultName string

	// keys is computed on first use and never refreshed; providers
	// registered after the first Keys call are not listed.
	keys func() []string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	r := &Registry{providers: make(map[string]Provider)}
	r.keys = sync.OnceValue(r.snapshotKeys)
	return r
}

// Register adds a named provider. The first registered provider is the
// default unless SetDefault is called.
func (r *Registry) Register(name string, p Provider) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: provider name cannot be empty", domain.ErrInvalidConfig)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateProvider, name)
	}
	r.providers[name] = p
	r.order = append(r.order, name)
	return nil
}

// SetDefault selects the provider used when a request names none.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownProvider, name)
	}
	r.defaultName = name
	return nil
}

// Keys returns provider names in registration order. The list is cached
// on the first call.
func (r *Registry) Keys() []string {
	cached := r.keys()
	out := make([]string, len(cached))
	copy(out, cached)
	return out
}

func (r *Registry) snapshotKeys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// Lookup returns the provider registered under name.
func (r *Registry) Lookup(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownProvider, name)
	}
	return p, nil
}

// Default returns the default provider and its name.
func (r *Registry) Default() (Provider, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name := r.defaultName
	if name == "" {
		if len(r.order) == 0 {
			return nil, "", domain.ErrNoProviders
		}
		name = r.order[0]
	}
	return r.providers[name], name, nil
}

// Close closes every provider that holds resources and returns the first error.
func (r *Registry) Close() error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var first error
	for _, name := range r.order {
		if c, ok := r.providers[name].(Closer); ok {
			if err := c.Close(); err != nil && first == nil {
				first = fmt.Errorf("closing provider %s: %w", name, err)
			}
		}
	}
	return first
}

// NewSession starts a request-scoped facade over the registry.
func (r *Registry) NewSession() *Session {
	return &Session{registry: r}
}
