package mediator

import (
	"errors"
	"fmt"
	"reflect"
)

// Kind distinguishes command dispatch from query dispatch.
type Kind string

const (
	KindCommand Kind = "command"
	KindQuery   Kind = "query"
)

// ErrFrozen indicates registration was attempted after Freeze.
var ErrFrozen = errors.New("mediator is frozen")

// NotRegisteredError indicates a message was dispatched before any
// handler was registered for its exact type. This is a configuration
// defect, not a runtime condition: it fails loudly at the first
// dispatch rather than being silently ignored.
type NotRegisteredError struct {
	Kind        Kind
	MessageType reflect.Type
}

// Error implements the error interface.
func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("no %s handler registered for %s", e.Kind, e.MessageType)
}

// InvalidMessageError indicates a handler received a message of an
// unexpected type. With exact-type keyed dispatch this can only happen
// through a mis-wired manual registration.
type InvalidMessageError struct {
	Expected reflect.Type
	Actual   reflect.Type
}

// Error implements the error interface.
func (e *InvalidMessageError) Error() string {
	return fmt.Sprintf("expected message of type %s, got %s", e.Expected, e.Actual)
}
