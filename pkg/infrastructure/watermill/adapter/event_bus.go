package adapter

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mateusmacedo/bus-booking-bff/pkg/application"
	"github.com/mateusmacedo/bus-booking-bff/pkg/domain"
	"github.com/mateusmacedo/bus-booking-bff/pkg/infrastructure/tracing"
)

const requestIDMetadataKey = "request_id"

// WatermillEventBus publica eventos em qualquer transporte do watermill
// (gochannel, Redis Streams, Kafka) e consome o mesmo tópico para entregá-los
// aos handlers registrados. Cada nome de evento é um tópico.
type WatermillEventBus[E domain.Event[D], D any] struct {
	ctx        context.Context
	publisher  message.Publisher
	subscriber message.Subscriber
	handlers   map[string][]application.EventHandler[E, D]
	mu         sync.RWMutex
	logger     application.AppLogger
}

// NewWatermillEventBus cria o barramento. As assinaturas vivem até ctx ser
// cancelado ou o subscriber ser fechado.
func NewWatermillEventBus[E domain.Event[D], D any](ctx context.Context, publisher message.Publisher, subscriber message.Subscriber, logger application.AppLogger) *WatermillEventBus[E, D] {
	return &WatermillEventBus[E, D]{
		ctx:        ctx,
		publisher:  publisher,
		subscriber: subscriber,
		handlers:   make(map[string][]application.EventHandler[E, D]),
		logger:     logger,
	}
}

func (bus *WatermillEventBus[E, D]) RegisterHandler(eventName string, handler application.EventHandler[E, D]) {
	bus.mu.Lock()
	_, subscribed := bus.handlers[eventName]
	bus.handlers[eventName] = append(bus.handlers[eventName], handler)
	bus.mu.Unlock()

	if subscribed {
		return
	}

	// A assinatura é feita aqui, de forma síncrona, para que nenhum evento
	// publicado logo após o registro seja perdido pelo gochannel.
	messages, err := bus.subscriber.Subscribe(bus.ctx, eventName)
	if err != nil {
		application.LogError(bus.ctx, bus.logger, "Erro ao assinar evento", err, map[string]interface{}{
			"event_name": eventName,
		})
		return
	}

	go bus.consume(eventName, messages)
}

func (bus *WatermillEventBus[E, D]) consume(eventName string, messages <-chan *message.Message) {
	for msg := range messages {
		ctx := tracing.Extract(bus.ctx, msg.Metadata)
		if requestID := msg.Metadata.Get(requestIDMetadataKey); requestID != "" {
			ctx = context.WithValue(ctx, middleware.RequestIDKey, requestID)
		}

		payload, err := application.UnmarshalPayload[D](msg.Payload)
		if err != nil {
			application.LogError(ctx, bus.logger, "Erro ao decodificar payload do evento", err, map[string]interface{}{
				"event_name": eventName,
				"message_id": msg.UUID,
			})
			// payload inválido nunca vai ser processado; não adianta reentregar
			msg.Ack()
			continue
		}

		typedEvent, ok := domain.NewEvent(eventName, payload).(E)
		if !ok {
			application.LogError(ctx, bus.logger, "Erro ao converter tipo do evento", nil, map[string]interface{}{
				"event_name": eventName,
			})
			msg.Ack()
			continue
		}

		if err := bus.dispatch(ctx, eventName, typedEvent); err != nil {
			application.LogError(ctx, bus.logger, "Erro ao processar evento", err, map[string]interface{}{
				"event_name": eventName,
				"message_id": msg.UUID,
			})
			msg.Nack()
			continue
		}

		application.LogDebug(ctx, bus.logger, "Evento processado", map[string]interface{}{
			"event_name": eventName,
			"message_id": msg.UUID,
		})
		msg.Ack()
	}
}

func (bus *WatermillEventBus[E, D]) dispatch(ctx context.Context, eventName string, event E) error {
	bus.mu.RLock()
	handlers := append([]application.EventHandler[E, D](nil), bus.handlers[eventName]...)
	bus.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler.Handle(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (bus *WatermillEventBus[E, D]) Publish(ctx context.Context, event E) error {
	eventName := event.EventName()

	payload, err := application.MarshalPayload(event.Payload())
	if err != nil {
		application.LogError(ctx, bus.logger, "Erro ao codificar payload do evento", err, map[string]interface{}{
			"event_name": eventName,
		})
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	tracing.Inject(ctx, msg.Metadata)
	if requestID := middleware.GetReqID(ctx); requestID != "" {
		msg.Metadata.Set(requestIDMetadataKey, requestID)
	}

	if err := bus.publisher.Publish(eventName, msg); err != nil {
		application.LogError(ctx, bus.logger, "Erro ao publicar evento", err, map[string]interface{}{
			"event_name": eventName,
		})
		return err
	}

	application.LogDebug(ctx, bus.logger, "Evento publicado com sucesso", map[string]interface{}{
		"event_name": eventName,
		"message_id": msg.UUID,
	})
	return nil
}
