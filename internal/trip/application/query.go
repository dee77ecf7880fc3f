package application

import (
	"github.com/mateusmacedo/bus-booking-bff/internal/trip/domain"
	pkgDomain "github.com/mateusmacedo/bus-booking-bff/pkg/domain"
)

const (
	SearchTripsQueryName  = "SearchTrips"
	SearchCitiesQueryName = "SearchCities"
)

type SearchTripsData struct {
	Criteria domain.SearchCriteria
}

func NewSearchTripsQuery(data SearchTripsData) pkgDomain.Query[SearchTripsData] {
	return pkgDomain.NewQuery(SearchTripsQueryName, data)
}

type SearchCitiesData struct {
	Term string
}

func NewSearchCitiesQuery(data SearchCitiesData) pkgDomain.Query[SearchCitiesData] {
	return pkgDomain.NewQuery(SearchCitiesQueryName, data)
}
