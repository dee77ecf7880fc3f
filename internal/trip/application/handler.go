package application

import (
	"context"
	"fmt"
	"time"

	activityApp "github.com/mateusmacedo/bus-booking-bff/internal/activity/application"
	activityDomain "github.com/mateusmacedo/bus-booking-bff/internal/activity/domain"
	"github.com/mateusmacedo/bus-booking-bff/internal/trip/domain"
	pkgApp "github.com/mateusmacedo/bus-booking-bff/pkg/application"
	pkgDomain "github.com/mateusmacedo/bus-booking-bff/pkg/domain"
)

type searchTripsHandler struct {
	searcher domain.TripSearcher
	eventBus activityApp.EventBus
	logger   pkgApp.AppLogger
	now      func() time.Time
}

func (h *searchTripsHandler) Handle(ctx context.Context, query pkgDomain.Query[SearchTripsData]) ([]domain.Trip, error) {
	if ctx.Err() != nil {
		pkgApp.LogError(ctx, h.logger, "Contexto cancelado", ctx.Err(), nil)
		return nil, ctx.Err()
	}

	criteria := query.Payload().Criteria
	subject := fmt.Sprintf("%s -> %s on %s", criteria.DepartureCity, criteria.ArrivalCity, criteria.FormattedDate())
	if returnDate := criteria.FormattedReturnDate(); returnDate != "" {
		subject += ", back on " + returnDate
	}

	trips, err := h.searcher.SearchTrips(ctx, criteria)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "Erro ao buscar viagens", err, map[string]interface{}{
			"subject": subject,
		})
		if !domain.IsValidation(err) {
			activityApp.PublishBestEffort(ctx, h.eventBus, h.logger,
				activityApp.NewActivityEvent(activityDomain.EventTripsSearched, subject, "failed: "+err.Error(), h.now()))
		}
		return nil, err
	}

	activityApp.PublishBestEffort(ctx, h.eventBus, h.logger,
		activityApp.NewActivityEvent(activityDomain.EventTripsSearched, subject, fmt.Sprintf("%d trips", len(trips)), h.now()))

	return trips, nil
}

func NewSearchTripsHandler(searcher domain.TripSearcher, eventBus activityApp.EventBus, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[SearchTripsData], SearchTripsData, []domain.Trip] {
	return &searchTripsHandler{
		searcher: searcher,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

type searchCitiesHandler struct {
	searcher domain.TripSearcher
	logger   pkgApp.AppLogger
}

func (h *searchCitiesHandler) Handle(ctx context.Context, query pkgDomain.Query[SearchCitiesData]) ([]domain.City, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	term := query.Payload().Term
	cities, err := h.searcher.SearchCities(ctx, term)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "Erro ao buscar cidades", err, map[string]interface{}{
			"term": term,
		})
		return nil, err
	}

	pkgApp.LogDebug(ctx, h.logger, "Cidades encontradas", map[string]interface{}{
		"term":    term,
		"results": len(cities),
	})
	return cities, nil
}

func NewSearchCitiesHandler(searcher domain.TripSearcher, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[SearchCitiesData], SearchCitiesData, []domain.City] {
	return &searchCitiesHandler{
		searcher: searcher,
		logger:   logger,
	}
}
