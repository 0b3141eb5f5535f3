package mediator

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

type createWidget struct {
	Name string
}

type renameWidget struct {
	Name string
}

type widgetByName struct {
	Name string
}

type widgetCount struct{}

func TestSendFansOutInRegistrationOrder(t *testing.T) {
	m := New(zerolog.Nop())

	err := RegisterCommand(m, func(ctx context.Context, cmd createWidget) (any, error) {
		return "first:" + cmd.Name, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = RegisterCommand(m, func(ctx context.Context, cmd createWidget) (any, error) {
		return "second:" + cmd.Name, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m.Freeze()

	results, err := m.Send(context.Background(), createWidget{Name: "pump"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0] != "first:pump" || results[1] != "second:pump" {
		t.Errorf("results out of registration order: %v", results)
	}
}

func TestSendStopsAtFirstHandlerError(t *testing.T) {
	m := New(zerolog.Nop())
	handlerErr := errors.New("handler failed")
	secondRan := false

	RegisterCommand(m, func(ctx context.Context, cmd createWidget) (any, error) {
		return nil, handlerErr
	})
	RegisterCommand(m, func(ctx context.Context, cmd createWidget) (any, error) {
		secondRan = true
		return nil, nil
	})
	m.Freeze()

	results, err := m.Send(context.Background(), createWidget{})
	if !errors.Is(err, handlerErr) {
		t.Errorf("expected handler error, got %v", err)
	}
	if results != nil {
		t.Errorf("expected nil results on error, got %v", results)
	}
	if secondRan {
		t.Error("second handler must not run after the first fails")
	}
}

func TestSendNotRegistered(t *testing.T) {
	m := New(zerolog.Nop())
	RegisterCommand(m, func(ctx context.Context, cmd createWidget) (any, error) {
		return nil, nil
	})
	m.Freeze()

	// Registration for one type says nothing about another.
	_, err := m.Send(context.Background(), renameWidget{})

	var notRegistered *NotRegisteredError
	if !errors.As(err, &notRegistered) {
		t.Fatalf("expected NotRegisteredError, got %v", err)
	}
	if notRegistered.Kind != KindCommand {
		t.Errorf("expected kind %q, got %q", KindCommand, notRegistered.Kind)
	}
	if notRegistered.MessageType.Name() != "renameWidget" {
		t.Errorf("expected message type renameWidget, got %s", notRegistered.MessageType)
	}
}

func TestAskNotRegistered(t *testing.T) {
	m := New(zerolog.Nop())
	m.Freeze()

	_, err := m.Ask(context.Background(), widgetByName{Name: "pump"})

	var notRegistered *NotRegisteredError
	if !errors.As(err, &notRegistered) {
		t.Fatalf("expected NotRegisteredError, got %v", err)
	}
	if notRegistered.Kind != KindQuery {
		t.Errorf("expected kind %q, got %q", KindQuery, notRegistered.Kind)
	}
}

func TestRegisterQueryOverwrites(t *testing.T) {
	m := New(zerolog.Nop())

	RegisterQuery(m, func(ctx context.Context, q widgetByName) (any, error) {
		return "old", nil
	})
	RegisterQuery(m, func(ctx context.Context, q widgetByName) (any, error) {
		return "new", nil
	})
	m.Freeze()

	result, err := m.Ask(context.Background(), widgetByName{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "new" {
		t.Errorf("expected re-registration to overwrite, got %v", result)
	}
}

func TestRegisterAfterFreeze(t *testing.T) {
	m := New(zerolog.Nop())
	m.Freeze()

	err := RegisterCommand(m, func(ctx context.Context, cmd createWidget) (any, error) {
		return nil, nil
	})
	if !errors.Is(err, ErrFrozen) {
		t.Errorf("expected ErrFrozen, got %v", err)
	}

	err = RegisterQuery(m, func(ctx context.Context, q widgetByName) (any, error) {
		return nil, nil
	})
	if !errors.Is(err, ErrFrozen) {
		t.Errorf("expected ErrFrozen, got %v", err)
	}
}

func TestTypedAsk(t *testing.T) {
	m := New(zerolog.Nop())
	RegisterQuery(m, func(ctx context.Context, q widgetCount) (any, error) {
		return int64(42), nil
	})
	m.Freeze()

	count, err := Ask[widgetCount, int64](context.Background(), m, widgetCount{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 42 {
		t.Errorf("expected 42, got %d", count)
	}

	// Asking for the wrong result type fails instead of panicking.
	_, err = Ask[widgetCount, string](context.Background(), m, widgetCount{})
	var invalid *InvalidMessageError
	if !errors.As(err, &invalid) {
		t.Errorf("expected InvalidMessageError, got %v", err)
	}
}

type recordingObserver struct {
	kinds    []Kind
	types    []string
	failures int
}

func (o *recordingObserver) ObserveDispatch(kind Kind, messageType string, err error) {
	o.kinds = append(o.kinds, kind)
	o.types = append(o.types, messageType)
	if err != nil {
		o.failures++
	}
}

func TestObserverSeesEveryDispatch(t *testing.T) {
	obs := &recordingObserver{}
	m := New(zerolog.Nop(), WithObserver(obs))

	RegisterCommand(m, func(ctx context.Context, cmd createWidget) (any, error) {
		return nil, nil
	})
	m.Freeze()

	m.Send(context.Background(), createWidget{})
	m.Ask(context.Background(), widgetByName{})

	if len(obs.kinds) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(obs.kinds))
	}
	if obs.kinds[0] != KindCommand || obs.kinds[1] != KindQuery {
		t.Errorf("unexpected kinds: %v", obs.kinds)
	}
	if obs.failures != 1 {
		t.Errorf("expected 1 failed dispatch, got %d", obs.failures)
	}
}
