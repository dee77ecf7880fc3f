package application

import (
	"context"
	"time"

	"github.com/mateusmacedo/bus-booking-bff/internal/activity/domain"
	pkgApp "github.com/mateusmacedo/bus-booking-bff/pkg/application"
	pkgDomain "github.com/mateusmacedo/bus-booking-bff/pkg/domain"
)

// Event e EventBus fixam os genéricos do pkg para o payload de atividade.
type (
	Event    = pkgDomain.Event[domain.Activity]
	EventBus = pkgApp.EventBus[Event, domain.Activity]
)

// NewActivityEvent cria o evento; ID e RequestID são preenchidos ao registrar.
func NewActivityEvent(kind, subject, outcome string, occurredAt time.Time) Event {
	return pkgDomain.NewEvent(kind, domain.Activity{
		Kind:       kind,
		Subject:    subject,
		Outcome:    outcome,
		OccurredAt: occurredAt.UTC(),
	})
}

// PublishBestEffort publica o evento e só registra a falha: o resultado da
// operação principal não depende do rastro de atividade.
func PublishBestEffort(ctx context.Context, bus EventBus, logger pkgApp.AppLogger, event Event) {
	if bus == nil {
		return
	}
	if err := bus.Publish(ctx, event); err != nil {
		pkgApp.LogWarn(ctx, logger, "Evento de atividade não publicado", err, map[string]interface{}{
			"event_name": event.EventName(),
		})
	}
}
