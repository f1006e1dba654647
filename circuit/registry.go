package circuit

import (
	"sync"

	"go.uber.org/zap"
)

// Registry owns one breaker per service name, created lazily on first
// lookup. Breakers live for the registry's lifetime; callers only ever hold
// references.
type Registry struct {
	mu       sync.RWMutex
	breakers map[string]*Breaker
	logger   *zap.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger handed to breakers the registry creates.
func WithRegistryLogger(l *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		breakers: make(map[string]*Breaker),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetOrCreate returns the breaker for service, creating it on first lookup.
// cfg applies only at creation; later callers receive the existing instance
// regardless of the config they pass.
func (r *Registry) GetOrCreate(service string, cfg Config) *Breaker {
	r.mu.RLock()
	b, ok := r.breakers[service]
	r.mu.RUnlock()
	if ok {
		return b
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double check
	if b, ok := r.breakers[service]; ok {
		return b
	}

	b = NewBreaker(service, cfg, WithLogger(r.logger))
	r.breakers[service] = b
	return b
}

// Get returns the breaker for service if one exists.
func (r *Registry) Get(service string) (*Breaker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.breakers[service]
	return b, ok
}

// ResetAll forces every breaker closed. Administrative and test use only.
func (r *Registry) ResetAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.breakers {
		b.Reset()
	}
}

// Status snapshots every breaker, keyed by service name. Intended for health
// and metrics endpoints.
func (r *Registry) Status() map[string]Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Status, len(r.breakers))
	for name, b := range r.breakers {
		out[name] = b.Status()
	}
	return out
}
