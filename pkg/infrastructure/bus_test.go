package infrastructure

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mateusmacedo/bus-booking-bff/pkg/application"
	"github.com/mateusmacedo/bus-booking-bff/pkg/domain"
	zapAdapter "github.com/mateusmacedo/bus-booking-bff/pkg/infrastructure/zaplogger/adapter"
)

type commandHandlerFunc func(ctx context.Context, command domain.Command[string]) error

func (f commandHandlerFunc) Handle(ctx context.Context, command domain.Command[string]) error {
	return f(ctx, command)
}

type queryHandlerFunc func(ctx context.Context, query domain.Query[string]) (int, error)

func (f queryHandlerFunc) Handle(ctx context.Context, query domain.Query[string]) (int, error) {
	return f(ctx, query)
}

func TestSimpleCommandBus(t *testing.T) {
	bus := NewSimpleCommandBus[domain.Command[string], string](zapAdapter.NewNopAppLogger())

	var got string
	bus.RegisterHandler("Greet", commandHandlerFunc(func(_ context.Context, command domain.Command[string]) error {
		got = command.Payload()
		return nil
	}))

	if err := bus.Dispatch(context.Background(), domain.NewCommand("Greet", "hello")); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got != "hello" {
		t.Errorf("handler received %q", got)
	}

	if err := bus.Dispatch(context.Background(), domain.NewCommand("Unknown", "x")); !errors.Is(err, ErrNoHandler) {
		t.Errorf("expected ErrNoHandler, got %v", err)
	}
}

func TestSimpleQueryBus(t *testing.T) {
	bus := NewSimpleQueryBus[domain.Query[string], string, int](zapAdapter.NewNopAppLogger())
	bus.RegisterHandler("Length", queryHandlerFunc(func(_ context.Context, query domain.Query[string]) (int, error) {
		return len(query.Payload()), nil
	}))

	n, err := bus.Dispatch(context.Background(), domain.NewQuery("Length", "four"))
	if err != nil || n != 4 {
		t.Fatalf("unexpected result %d, %v", n, err)
	}

	if _, err := bus.Dispatch(context.Background(), domain.NewQuery("Unknown", "x")); !errors.Is(err, ErrNoHandler) {
		t.Errorf("expected ErrNoHandler, got %v", err)
	}
}

func TestSimpleQueryBusReturnsOnCancellation(t *testing.T) {
	bus := NewSimpleQueryBus[domain.Query[string], string, int](zapAdapter.NewNopAppLogger())
	release := make(chan struct{})
	defer close(release)
	bus.RegisterHandler("Slow", queryHandlerFunc(func(context.Context, domain.Query[string]) (int, error) {
		<-release
		return 1, nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := bus.Dispatch(ctx, domain.NewQuery("Slow", "")); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestSimpleEventBus(t *testing.T) {
	bus := NewSimpleEventBus[domain.Event[string], string](zapAdapter.NewNopAppLogger())

	var calls int32
	handler := application.EventHandlerFunc[domain.Event[string], string](func(context.Context, domain.Event[string]) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	bus.RegisterHandler("Happened", handler)
	bus.RegisterHandler("Happened", handler)

	if err := bus.Publish(context.Background(), domain.NewEvent("Happened", "x")); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("expected both handlers to run, got %d", n)
	}

	if err := bus.Publish(context.Background(), domain.NewEvent("Nobody", "x")); err != nil {
		t.Errorf("event without handlers should not fail, got %v", err)
	}
}

func TestSimpleEventBusJoinsErrors(t *testing.T) {
	bus := NewSimpleEventBus[domain.Event[string], string](zapAdapter.NewNopAppLogger())
	first := errors.New("first")
	second := errors.New("second")
	bus.RegisterHandler("Happened", application.EventHandlerFunc[domain.Event[string], string](func(context.Context, domain.Event[string]) error { return first }))
	bus.RegisterHandler("Happened", application.EventHandlerFunc[domain.Event[string], string](func(context.Context, domain.Event[string]) error { return second }))

	err := bus.Publish(context.Background(), domain.NewEvent("Happened", "x"))
	if !errors.Is(err, first) || !errors.Is(err, second) {
		t.Fatalf("expected both errors, got %v", err)
	}
}

func TestNewUUIDGenerator(t *testing.T) {
	generate := NewUUIDGenerator()
	if a, b := generate(), generate(); a == "" || a == b {
		t.Errorf("expected unique ids, got %q and %q", a, b)
	}
}
