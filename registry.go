// Package resolve provides lazy, cached, single-flight service resolution.
//
// A Registry maps service names to producers. Types declare named bindings
// from attributes to services once at definition time, and each owning object
// resolves a bound attribute at most once: the first reader invokes the
// producer, concurrent readers join the in-flight resolution, and the result
// is cached for the lifetime of the object. Failures are never cached; the
// next read retries from scratch.
package resolve

import (
	"context"
	"sync"
)

// Producer supplies a dependency's value. It has two variants behind one
// invocation path: an immediate producer returns without suspension, a
// suspending producer may block until its value is available. The zero
// Producer is invalid and rejected at registration.
type Producer struct {
	immediate  func() (interface{}, error)
	suspending func(ctx context.Context) (interface{}, error)
}

// Immediate wraps a producer whose value is available without suspension.
func Immediate(fn func() (interface{}, error)) Producer {
	return Producer{immediate: fn}
}

// Suspending wraps a producer that may block before returning its value.
// It receives the context of the reader that initiated the resolution.
func Suspending(fn func(ctx context.Context) (interface{}, error)) Producer {
	return Producer{suspending: fn}
}

// Value wraps a fixed, already-constructed value as an immediate producer.
func Value(v interface{}) Producer {
	return Producer{immediate: func() (interface{}, error) { return v, nil }}
}

func (p Producer) isZero() bool {
	return p.immediate == nil && p.suspending == nil
}

// invoke runs the producer. Both variants go through this single path so the
// coordinator never branches on producer kind.
func (p Producer) invoke(ctx context.Context) (interface{}, error) {
	if p.immediate != nil {
		return p.immediate()
	}
	return p.suspending(ctx)
}

// Registry is a table of service names to producers. Entries are added by
// Register and never removed; registering under an existing name overwrites
// the previous producer without invalidating cells that already resolved
// against it. Registration is expected to stabilize before concurrent
// resolution begins.
type Registry struct {
	mu        sync.RWMutex
	producers map[string]Producer
}

// NewRegistry returns an empty, isolated registry. Tests use this to avoid
// sharing state through the process-wide default.
func NewRegistry() *Registry {
	return &Registry{
		producers: make(map[string]Producer, 16),
	}
}

// Register stores or overwrites the producer for name.
// Returns NilProducerError if the producer is the zero value.
func (r *Registry) Register(name string, producer Producer) error {
	if producer.isZero() {
		return &NilProducerError{Service: name}
	}
	r.mu.Lock()
	r.producers[name] = producer
	r.mu.Unlock()
	return nil
}

// Lookup returns the producer registered under name.
// Returns NotFoundError if no producer has been registered.
func (r *Registry) Lookup(name string) (Producer, error) {
	r.mu.RLock()
	producer, ok := r.producers[name]
	r.mu.RUnlock()
	if !ok {
		return Producer{}, &NotFoundError{Service: name}
	}
	return producer, nil
}

var (
	once            sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, initialized on first access.
func Default() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Register stores or overwrites a producer in the default registry.
func Register(name string, producer Producer) error {
	return Default().Register(name, producer)
}

// Reset clears the default registry.
// This function is intended for testing purposes only.
func Reset() {
	r := Default()
	r.mu.Lock()
	r.producers = make(map[string]Producer, 16)
	r.mu.Unlock()
}
