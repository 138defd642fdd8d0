package mock

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	resolve "github.com/centraunit/goallin_resolve"
)

// App is the shared owning type used across the test suites.
type App struct {
	resolve.Host
}

// AppBindings declares the bindings the scenario tests resolve:
// db -> "database", cache -> "cache" (defaulted name).
func AppBindings(registry *resolve.Registry) *resolve.Bindings {
	return resolve.Declare(registry).
		Bind("db", "database").
		Bind("cache")
}

// CountingProducer records how many times it was invoked before returning a
// fixed value. Used to assert single-flight and cache idempotence.
type CountingProducer struct {
	calls int32
	value interface{}
}

func NewCounting(value interface{}) *CountingProducer {
	return &CountingProducer{value: value}
}

func (p *CountingProducer) Producer() resolve.Producer {
	return resolve.Immediate(func() (interface{}, error) {
		atomic.AddInt32(&p.calls, 1)
		return p.value, nil
	})
}

func (p *CountingProducer) Calls() int32 {
	return atomic.LoadInt32(&p.calls)
}

// GatedProducer suspends until released, so tests can pile concurrent readers
// onto one in-flight resolution before letting it complete.
type GatedProducer struct {
	calls   int32
	started chan struct{}
	release chan struct{}
	value   interface{}
	err     error
}

func NewGated(value interface{}) *GatedProducer {
	return &GatedProducer{
		started: make(chan struct{}, 16),
		release: make(chan struct{}),
		value:   value,
	}
}

// NewGatedFailure is a gated producer that fails with err once released.
func NewGatedFailure(err error) *GatedProducer {
	g := NewGated(nil)
	g.err = err
	return g
}

func (p *GatedProducer) Producer() resolve.Producer {
	return resolve.Suspending(func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&p.calls, 1)
		p.started <- struct{}{}
		select {
		case <-p.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if p.err != nil {
			return nil, p.err
		}
		return p.value, nil
	})
}

// Started blocks until an invocation has entered the producer.
func (p *GatedProducer) Started() {
	<-p.started
}

// Release lets every current and future invocation complete.
func (p *GatedProducer) Release() {
	close(p.release)
}

func (p *GatedProducer) Calls() int32 {
	return atomic.LoadInt32(&p.calls)
}

// FlakyProducer fails its first Failures invocations, then succeeds.
// Used to assert the retry-after-failure policy.
type FlakyProducer struct {
	calls    int32
	Failures int32
	value    interface{}
}

func NewFlaky(value interface{}, failures int32) *FlakyProducer {
	return &FlakyProducer{Failures: failures, value: value}
}

func (p *FlakyProducer) Producer() resolve.Producer {
	return resolve.Immediate(func() (interface{}, error) {
		n := atomic.AddInt32(&p.calls, 1)
		if n <= p.Failures {
			return nil, fmt.Errorf("simulated producer failure %d", n)
		}
		return p.value, nil
	})
}

func (p *FlakyProducer) Calls() int32 {
	return atomic.LoadInt32(&p.calls)
}

// Delayed returns a suspending producer that waits d before producing value,
// matching the "database connection after a simulated delay" scenario.
func Delayed(value interface{}, d time.Duration) resolve.Producer {
	return resolve.Suspending(func(ctx context.Context) (interface{}, error) {
		select {
		case <-time.After(d):
			return value, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
}
