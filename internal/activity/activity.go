package activity

import (
	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/bus-booking-bff/internal/activity/application"
	"github.com/mateusmacedo/bus-booking-bff/internal/activity/domain"
	"github.com/mateusmacedo/bus-booking-bff/internal/activity/infrastructure"
	pkgApp "github.com/mateusmacedo/bus-booking-bff/pkg/application"
	pkgDomain "github.com/mateusmacedo/bus-booking-bff/pkg/domain"
)

// ActivitySlice grava os eventos das outras slices e os expõe por request id.
type ActivitySlice struct {
	httpHandler *infrastructure.ActivityHTTPHandler
}

func NewActivitySlice(
	commandBus application.RecordActivityCommandBus,
	queryBus application.FindActivityQueryBus,
	eventBus application.EventBus,
	repository domain.ActivityRepository,
	idGenerator pkgDomain.IDGenerator[string],
	logger pkgApp.AppLogger,
	jwtSecret string,
) *ActivitySlice {
	commandBus.RegisterHandler(application.RecordActivityCommandName, application.NewRecordActivityHandler(repository, idGenerator, logger))
	queryBus.RegisterHandler(application.FindActivityQueryName, application.NewFindActivityHandler(repository, logger))

	eventHandler := application.NewActivityEventHandler(commandBus, logger)
	for _, eventName := range []string{
		domain.EventTripsSearched,
		domain.EventPaymentConfirmed,
		domain.EventPaymentFailed,
	} {
		eventBus.RegisterHandler(eventName, eventHandler)
	}

	return &ActivitySlice{
		httpHandler: infrastructure.NewActivityHTTPHandler(queryBus, jwtSecret),
	}
}

func (s *ActivitySlice) RegisterRoutes(router chi.Router) {
	s.httpHandler.RegisterRoutes(router)
}
