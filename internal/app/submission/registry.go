package submission

import (
	"sync"

	"go.uber.org/zap"
)

// Registry hands out one Coordinator per open view, keyed by the caller
// (the view server uses the problem slug). Coordinators never share state.
type Registry struct {
	api    SubmitAPI
	logger *zap.Logger
	opts   []Option

	mu     sync.Mutex
	byView map[string]*Coordinator
}

func NewRegistry(api SubmitAPI, logger *zap.Logger, opts ...Option) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{api: api, logger: logger, opts: opts, byView: make(map[string]*Coordinator)}
}

// Get returns the coordinator for key, creating it on first use.
func (r *Registry) Get(key string) *Coordinator {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byView[key]
	if !ok {
		c = NewCoordinator(r.api, r.logger.With(zap.String("view", key)), r.opts...)
		r.byView[key] = c
	}
	return c
}

// Lookup returns the coordinator for key without creating one.
func (r *Registry) Lookup(key string) (*Coordinator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byView[key]
	return c, ok
}

// Release closes and forgets the coordinator for key.
func (r *Registry) Release(key string) {
	r.mu.Lock()
	c, ok := r.byView[key]
	delete(r.byView, key)
	r.mu.Unlock()

	if ok {
		c.Close()
	}
}

// ReleaseAll closes every coordinator, e.g. on logout.
func (r *Registry) ReleaseAll() {
	r.mu.Lock()
	all := r.byView
	r.byView = make(map[string]*Coordinator)
	r.mu.Unlock()

	for _, c := range all {
		c.Close()
	}
}
