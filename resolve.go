package resolve

import (
	"context"
	"reflect"
	"sort"
)

// Resolvable is the capability exposed per bound attribute: a uniform get
// operation that consults the owning object's resolution cell.
type Resolvable interface {
	// Binding returns the descriptor this capability resolves.
	Binding() Binding

	// Get returns the resolved value for host, blocking until the single
	// in-flight resolution completes if one is needed.
	Get(ctx context.Context, host *Host) (interface{}, error)
}

// Resolve returns the resolved value of the bound attribute on host.
//
// The first reader invokes the registered producer; readers arriving while
// that invocation is in flight join it and receive the identical outcome.
// Once resolved, reads return the cached value without blocking and without
// re-invoking the producer. On failure (producer error or NotFoundError) the
// cell reverts so the next read retries.
func (bs *Bindings) Resolve(ctx context.Context, host *Host, attribute string) (interface{}, error) {
	binding, err := bs.Describe(attribute)
	if err != nil {
		return nil, err
	}
	return bs.resolveBinding(ctx, host, binding)
}

func (bs *Bindings) resolveBinding(ctx context.Context, host *Host, binding Binding) (interface{}, error) {
	c := host.cell(binding.attribute)
	return c.resolve(ctx, func(ctx context.Context) (interface{}, error) {
		// The producer is looked up at resolution time, not declaration
		// time, so registering after a NotFoundError repairs the next read.
		producer, err := bs.registry.Lookup(binding.service)
		if err != nil {
			return nil, err
		}
		value, err := producer.invoke(ctx)
		if err != nil {
			return nil, &ProducerError{Service: binding.service, Err: err}
		}
		return value, nil
	})
}

// Resolvable returns the per-attribute capability for attribute.
// Returns UnboundAttributeError if the attribute was never declared.
func (bs *Bindings) Resolvable(attribute string) (Resolvable, error) {
	binding, err := bs.Describe(attribute)
	if err != nil {
		return nil, err
	}
	return &boundAttribute{bindings: bs, binding: binding}, nil
}

type boundAttribute struct {
	bindings *Bindings
	binding  Binding
}

func (a *boundAttribute) Binding() Binding {
	return a.binding
}

func (a *boundAttribute) Get(ctx context.Context, host *Host) (interface{}, error) {
	return a.bindings.resolveBinding(ctx, host, a.binding)
}

// ResolveAs resolves the bound attribute and asserts the value to T.
// Returns TypeMismatchError if the resolved value is not a T.
func ResolveAs[T any](ctx context.Context, bs *Bindings, host *Host, attribute string) (T, error) {
	var zero T
	value, err := bs.Resolve(ctx, host, attribute)
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		// Producers may legitimately resolve to nil; reflect.TypeOf(nil)
		// has no String.
		got := "<nil>"
		if value != nil {
			got = reflect.TypeOf(value).String()
		}
		return zero, &TypeMismatchError{
			Expected: reflect.TypeOf((*T)(nil)).Elem().String(),
			Got:      got,
		}
	}
	return typed, nil
}

// Warm eagerly resolves every declared binding on host, in attribute order,
// stopping at the first error. Cache semantics are identical to lazy reads:
// attributes that already resolved are skipped by the cell, and a failed
// attribute remains retryable.
func (bs *Bindings) Warm(ctx context.Context, host *Host) error {
	attributes := make([]string, 0, len(bs.byAttr))
	for attribute := range bs.byAttr {
		attributes = append(attributes, attribute)
	}
	sort.Strings(attributes)

	for _, attribute := range attributes {
		if _, err := bs.Resolve(ctx, host, attribute); err != nil {
			return err
		}
	}
	return nil
}
