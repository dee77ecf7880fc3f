package application

import (
	"context"
	"errors"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/mateusmacedo/bus-booking-bff/internal/activity/domain"
	pkgApp "github.com/mateusmacedo/bus-booking-bff/pkg/application"
	pkgDomain "github.com/mateusmacedo/bus-booking-bff/pkg/domain"
)

type (
	RecordActivityCommandBus = pkgApp.CommandBus[pkgDomain.Command[RecordActivityData], RecordActivityData]
	FindActivityQueryBus     = pkgApp.QueryBus[pkgDomain.Query[FindActivityData], FindActivityData, []domain.Activity]
)

type recordActivityHandler struct {
	repository  domain.ActivityRepository
	idGenerator pkgDomain.IDGenerator[string]
	logger      pkgApp.AppLogger
}

func (h *recordActivityHandler) Handle(ctx context.Context, command pkgDomain.Command[RecordActivityData]) error {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return ctx.Err()
	}

	activity := command.Payload().Activity
	if activity.ID == "" {
		activity.ID = h.idGenerator()
	}
	if activity.RequestID == "" {
		activity.RequestID = middleware.GetReqID(ctx)
	}

	if err := h.repository.Save(ctx, activity); err != nil {
		pkgApp.LogError(ctx, h.logger, "Erro ao salvar atividade", err, map[string]interface{}{
			"kind": activity.Kind,
			"id":   activity.ID,
		})
		return err
	}

	pkgApp.LogDebug(ctx, h.logger, "Atividade registrada com sucesso", map[string]interface{}{
		"kind": activity.Kind,
		"id":   activity.ID,
	})
	return nil
}

func NewRecordActivityHandler(repo domain.ActivityRepository, idGenerator pkgDomain.IDGenerator[string], logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[RecordActivityData], RecordActivityData] {
	return &recordActivityHandler{
		repository:  repo,
		idGenerator: idGenerator,
		logger:      logger,
	}
}

type findActivityHandler struct {
	repository domain.ActivityRepository
	logger     pkgApp.AppLogger
}

func (h *findActivityHandler) Handle(ctx context.Context, query pkgDomain.Query[FindActivityData]) ([]domain.Activity, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	requestID := query.Payload().RequestID
	activities, err := h.repository.FindByRequestID(ctx, requestID)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "Erro ao buscar atividade", err, map[string]interface{}{
			"request_id_filter": requestID,
		})
		return nil, err
	}
	if activities == nil {
		activities = []domain.Activity{}
	}
	return activities, nil
}

func NewFindActivityHandler(repo domain.ActivityRepository, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[FindActivityData], FindActivityData, []domain.Activity] {
	return &findActivityHandler{
		repository: repo,
		logger:     logger,
	}
}

type activityEventHandler struct {
	commandBus RecordActivityCommandBus
	logger     pkgApp.AppLogger
}

// Handle transforma o evento em um comando de gravação. Falhas de gravação
// ficam no log: reentregar o evento não deve travar o consumidor.
func (h *activityEventHandler) Handle(ctx context.Context, event Event) error {
	err := h.commandBus.Dispatch(ctx, NewRecordActivityCommand(RecordActivityData{Activity: event.Payload()}))
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	pkgApp.LogWarn(ctx, h.logger, "Atividade descartada", err, map[string]interface{}{
		"event_name": event.EventName(),
	})
	return nil
}

func NewActivityEventHandler(commandBus RecordActivityCommandBus, logger pkgApp.AppLogger) pkgApp.EventHandler[Event, domain.Activity] {
	return &activityEventHandler{
		commandBus: commandBus,
		logger:     logger,
	}
}
