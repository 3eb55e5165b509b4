package envoy

import (
	stdErrors "errors"
	"sync"
)

// RegisterFunc adds extensions to a module.
type RegisterFunc func(m *Module) error

// Registrar collects registrations that may happen before the dispatcher
// is installed.
//
// Registrations made before Start are queued. Start applies each queued
// registration to its own fragment and merges every fragment into the
// module in registration order, so no registration replaces another.
// Registrations made after Start are applied at once.
//
// A RegisterFunc must not call back into its Registrar.
type Registrar struct {
	module   *Module
	pending  []RegisterFunc
	startErr error
	mu       sync.Mutex
	started  bool
}

// NewRegistrar creates a registrar with an empty module.
func NewRegistrar() *Registrar {
	return &Registrar{module: NewModule()}
}

// Register applies fn if the registrar has started, and queues it otherwise.
// The returned error is always nil for a queued registration; its errors
// are reported by Start.
func (r *Registrar) Register(fn RegisterFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		r.pending = append(r.pending, fn)
		return nil
	}
	return r.apply(fn)
}

// Start drains the pending registrations into the module. It is idempotent:
// later calls return the result of the first one.
func (r *Registrar) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return r.startErr
	}

	var errs []error
	for _, fn := range r.pending {
		if err := r.apply(fn); err != nil {
			errs = append(errs, err)
		}
	}
	r.pending = nil
	r.started = true
	r.startErr = stdErrors.Join(errs...)
	return r.startErr
}

// apply runs fn against a fresh fragment and merges the fragment. Whatever
// fn managed to register before failing is kept.
func (r *Registrar) apply(fn RegisterFunc) error {
	fragment := NewModule()
	err := fn(fragment)
	return stdErrors.Join(err, r.module.Merge(fragment))
}

// Started reports whether Start has been called.
func (r *Registrar) Started() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

// Pending returns the number of queued registrations.
func (r *Registrar) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Module returns the module registrations are merged into.
func (r *Registrar) Module() *Module {
	return r.module
}
