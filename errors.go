package resolve

import "fmt"

// NotFoundError represents a resolution attempt against a service name with
// no registered producer.
type NotFoundError struct {
	Service string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no producer registered for service: %s", e.Service)
}

// NilProducerError represents an attempt to register the zero Producer.
type NilProducerError struct {
	Service string
}

func (e *NilProducerError) Error() string {
	return fmt.Sprintf("nil producer provided for service: %s", e.Service)
}

// UnboundAttributeError represents a read of an attribute that has no
// declared binding.
type UnboundAttributeError struct {
	Attribute string
}

func (e *UnboundAttributeError) Error() string {
	return fmt.Sprintf("no binding declared for attribute: %s", e.Attribute)
}

// ProducerError represents a producer failure during invocation.
type ProducerError struct {
	Service string
	Err     error
}

func (e *ProducerError) Error() string {
	return fmt.Sprintf("producer failed for service %s: %v", e.Service, e.Err)
}

func (e *ProducerError) Unwrap() error {
	return e.Err
}

// TypeMismatchError represents a type assertion failure in the typed accessor.
type TypeMismatchError struct {
	Expected string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Expected, e.Got)
}
