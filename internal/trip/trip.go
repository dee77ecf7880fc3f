package trip

import (
	"github.com/go-chi/chi/v5"

	activityApp "github.com/mateusmacedo/bus-booking-bff/internal/activity/application"
	"github.com/mateusmacedo/bus-booking-bff/internal/trip/application"
	"github.com/mateusmacedo/bus-booking-bff/internal/trip/domain"
	"github.com/mateusmacedo/bus-booking-bff/internal/trip/infrastructure"
	pkgApp "github.com/mateusmacedo/bus-booking-bff/pkg/application"
)

// TripSlice agrupa busca de viagens e de cidades.
type TripSlice struct {
	httpHandler *infrastructure.TripHTTPHandler
}

func NewTripSlice(
	tripQueryBus infrastructure.TripQueryBus,
	cityQueryBus infrastructure.CityQueryBus,
	searcher domain.TripSearcher,
	eventBus activityApp.EventBus,
	logger pkgApp.AppLogger,
) *TripSlice {
	tripQueryBus.RegisterHandler(application.SearchTripsQueryName, application.NewSearchTripsHandler(searcher, eventBus, logger))
	cityQueryBus.RegisterHandler(application.SearchCitiesQueryName, application.NewSearchCitiesHandler(searcher, logger))

	return &TripSlice{
		httpHandler: infrastructure.NewTripHTTPHandler(tripQueryBus, cityQueryBus),
	}
}

func (s *TripSlice) RegisterRoutes(router chi.Router) {
	s.httpHandler.RegisterRoutes(router)
}
