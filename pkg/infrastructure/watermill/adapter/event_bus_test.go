package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/mateusmacedo/bus-booking-bff/pkg/application"
	"github.com/mateusmacedo/bus-booking-bff/pkg/domain"
	channelsAdapter "github.com/mateusmacedo/bus-booking-bff/pkg/infrastructure/channels/adapter"
	zapAdapter "github.com/mateusmacedo/bus-booking-bff/pkg/infrastructure/zaplogger/adapter"
)

type notice struct {
	Text string `json:"text"`
}

type received struct {
	name      string
	payload   notice
	requestID string
}

func newChannelBus(t *testing.T) *WatermillEventBus[domain.Event[notice], notice] {
	t.Helper()
	appLogger := zapAdapter.NewNopAppLogger()
	pubSub := channelsAdapter.NewGoChannelPubSub(NewWatermillLoggerAdapter(appLogger))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = pubSub.Close()
	})
	return NewWatermillEventBus[domain.Event[notice], notice](ctx, pubSub, pubSub, appLogger)
}

func TestWatermillEventBusDeliversEvent(t *testing.T) {
	bus := newChannelBus(t)

	got := make(chan received, 1)
	bus.RegisterHandler("NoticePosted", application.EventHandlerFunc[domain.Event[notice], notice](func(ctx context.Context, event domain.Event[notice]) error {
		got <- received{name: event.EventName(), payload: event.Payload(), requestID: middleware.GetReqID(ctx)}
		return nil
	}))

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-9")
	if err := bus.Publish(ctx, domain.NewEvent("NoticePosted", notice{Text: "hello"})); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case r := <-got:
		if r.name != "NoticePosted" || r.payload.Text != "hello" {
			t.Errorf("unexpected event %+v", r)
		}
		if r.requestID != "req-9" {
			t.Errorf("request id not propagated, got %q", r.requestID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestWatermillEventBusRedeliversOnHandlerError(t *testing.T) {
	bus := newChannelBus(t)

	attempts := make(chan int, 4)
	count := 0
	bus.RegisterHandler("NoticePosted", application.EventHandlerFunc[domain.Event[notice], notice](func(context.Context, domain.Event[notice]) error {
		count++
		attempts <- count
		if count == 1 {
			return errors.New("temporary")
		}
		return nil
	}))

	if err := bus.Publish(context.Background(), domain.NewEvent("NoticePosted", notice{Text: "retry"})); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	for want := 1; want <= 2; want++ {
		select {
		case n := <-attempts:
			if n != want {
				t.Fatalf("expected attempt %d, got %d", want, n)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("attempt %d not delivered", want)
		}
	}
}
