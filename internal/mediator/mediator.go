// Package mediator routes typed command and query messages to their
// registered handlers. It is the only routing authority between the
// transport layer and the services: callers construct a message, hand
// it to the mediator, and never see a concrete handler.
//
// Keying is by exact runtime type. Registering a handler for one
// message type says nothing about any other type, including types that
// embed it; explicit registration is preferred over implicit matching.
package mediator

import (
	"context"
	"reflect"
	"sync"

	"github.com/rs/zerolog"
)

// HandlerFunc processes one dispatched message.
type HandlerFunc func(ctx context.Context, msg any) (any, error)

// Observer is notified about every dispatch. Implemented by the
// metrics package; a nil observer disables observation.
type Observer interface {
	ObserveDispatch(kind Kind, messageType string, err error)
}

// Mediator is an explicitly constructed handler registry. It is wired
// once at startup, frozen, and then shared read-only between requests:
// after Freeze the maps are never written again, so concurrent dispatch
// needs no locking.
//
// Commands and queries live in separate maps because their contracts
// differ: a command type may fan out to any number of handlers, a query
// type binds to exactly one.
type Mediator struct {
	mu       sync.Mutex
	frozen   bool
	commands map[reflect.Type][]HandlerFunc
	queries  map[reflect.Type]HandlerFunc
	observer Observer
	logger   zerolog.Logger
}

// Option configures a Mediator.
type Option func(*Mediator)

// WithObserver attaches a dispatch observer.
func WithObserver(o Observer) Option {
	return func(m *Mediator) { m.observer = o }
}

// New creates an empty Mediator.
func New(logger zerolog.Logger, opts ...Option) *Mediator {
	m := &Mediator{
		commands: make(map[reflect.Type][]HandlerFunc),
		queries:  make(map[reflect.Type]HandlerFunc),
		logger:   logger.With().Str("component", "mediator").Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RegisterCommand appends handlers for the given command type.
// Repeated registration accumulates handlers; dispatch invokes them in
// registration order.
func (m *Mediator) RegisterCommand(commandType reflect.Type, handlers ...HandlerFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.frozen {
		return ErrFrozen
	}
	m.commands[commandType] = append(m.commands[commandType], handlers...)
	return nil
}

// RegisterQuery binds the single handler for the given query type.
// Re-registration overwrites the previous handler.
func (m *Mediator) RegisterQuery(queryType reflect.Type, handler HandlerFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.frozen {
		return ErrFrozen
	}
	m.queries[queryType] = handler
	return nil
}

// Freeze completes startup registration. After Freeze any Register call
// fails with ErrFrozen and the registry may be read concurrently.
func (m *Mediator) Freeze() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frozen = true

	m.logger.Info().
		Int("commands", len(m.commands)).
		Int("queries", len(m.queries)).
		Msg("mediator frozen")
}

// Send dispatches a command to every handler registered for its exact
// type and collects one result per handler, in registration order.
// A command type with zero registered handlers is a wiring defect and
// fails with *NotRegisteredError.
func (m *Mediator) Send(ctx context.Context, command any) ([]any, error) {
	commandType := reflect.TypeOf(command)

	handlers, ok := m.commandHandlers(commandType)
	if !ok {
		err := &NotRegisteredError{Kind: KindCommand, MessageType: commandType}
		m.observe(KindCommand, commandType, err)
		return nil, err
	}

	results := make([]any, 0, len(handlers))
	for _, handler := range handlers {
		result, err := handler(ctx, command)
		if err != nil {
			m.observe(KindCommand, commandType, err)
			return nil, err
		}
		results = append(results, result)
	}

	m.observe(KindCommand, commandType, nil)
	return results, nil
}

// Ask dispatches a query to its single registered handler and returns
// the result directly. A query type with no handler fails with
// *NotRegisteredError.
func (m *Mediator) Ask(ctx context.Context, query any) (any, error) {
	queryType := reflect.TypeOf(query)

	handler, ok := m.queryHandler(queryType)
	if !ok {
		err := &NotRegisteredError{Kind: KindQuery, MessageType: queryType}
		m.observe(KindQuery, queryType, err)
		return nil, err
	}

	result, err := handler(ctx, query)
	m.observe(KindQuery, queryType, err)
	return result, err
}

func (m *Mediator) commandHandlers(t reflect.Type) ([]HandlerFunc, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	handlers, ok := m.commands[t]
	return handlers, ok && len(handlers) > 0
}

func (m *Mediator) queryHandler(t reflect.Type) (HandlerFunc, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	handler, ok := m.queries[t]
	return handler, ok
}

func (m *Mediator) observe(kind Kind, t reflect.Type, err error) {
	if m.observer != nil {
		m.observer.ObserveDispatch(kind, t.String(), err)
	}
}

// =============================================================================
// Typed registration and dispatch helpers
// =============================================================================

func typeOf[M any]() reflect.Type {
	return reflect.TypeOf((*M)(nil)).Elem()
}

func adapt[M any](handler func(ctx context.Context, msg M) (any, error)) HandlerFunc {
	return func(ctx context.Context, msg any) (any, error) {
		typed, ok := msg.(M)
		if !ok {
			return nil, &InvalidMessageError{
				Expected: typeOf[M](),
				Actual:   reflect.TypeOf(msg),
			}
		}
		return handler(ctx, typed)
	}
}

// RegisterCommand registers typed handlers for command type C.
func RegisterCommand[C any](m *Mediator, handlers ...func(ctx context.Context, cmd C) (any, error)) error {
	adapted := make([]HandlerFunc, len(handlers))
	for i, handler := range handlers {
		adapted[i] = adapt(handler)
	}
	return m.RegisterCommand(typeOf[C](), adapted...)
}

// RegisterQuery registers the typed handler for query type Q.
func RegisterQuery[Q any](m *Mediator, handler func(ctx context.Context, query Q) (any, error)) error {
	return m.RegisterQuery(typeOf[Q](), adapt(handler))
}

// Ask dispatches a query and asserts its result type.
func Ask[Q any, R any](ctx context.Context, m *Mediator, query Q) (R, error) {
	var zero R
	result, err := m.Ask(ctx, query)
	if err != nil {
		return zero, err
	}
	typed, ok := result.(R)
	if !ok {
		return zero, &InvalidMessageError{
			Expected: typeOf[R](),
			Actual:   reflect.TypeOf(result),
		}
	}
	return typed, nil
}
