package infrastructure

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mateusmacedo/bus-booking-bff/internal/trip/application"
	"github.com/mateusmacedo/bus-booking-bff/internal/trip/domain"
	pkgApp "github.com/mateusmacedo/bus-booking-bff/pkg/application"
	pkgDomain "github.com/mateusmacedo/bus-booking-bff/pkg/domain"
	"github.com/mateusmacedo/bus-booking-bff/pkg/infrastructure/web"
)

type (
	TripQueryBus = pkgApp.QueryBus[pkgDomain.Query[application.SearchTripsData], application.SearchTripsData, []domain.Trip]
	CityQueryBus = pkgApp.QueryBus[pkgDomain.Query[application.SearchCitiesData], application.SearchCitiesData, []domain.City]
)

type searchTripsRequest struct {
	DepartureCity string `query:"departure_city" validate:"required"`
	ArrivalCity   string `query:"arrival_city" validate:"required"`
	Date          string `query:"date" validate:"required,datetime=2006-01-02"`
	ReturnDate    string `query:"return_date" validate:"omitempty,datetime=2006-01-02"`
	RoundTrip     string `query:"round_trip" validate:"omitempty,boolean"`
}

type TripHTTPHandler struct {
	tripQueryBus TripQueryBus
	cityQueryBus CityQueryBus
	validate     *validator.Validate
}

func NewTripHTTPHandler(tripQueryBus TripQueryBus, cityQueryBus CityQueryBus) *TripHTTPHandler {
	return &TripHTTPHandler{
		tripQueryBus: tripQueryBus,
		cityQueryBus: cityQueryBus,
		validate:     web.NewValidator(),
	}
}

func (h *TripHTTPHandler) HandleSearchTrips(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := searchTripsRequest{
		DepartureCity: strings.TrimSpace(q.Get("departure_city")),
		ArrivalCity:   strings.TrimSpace(q.Get("arrival_city")),
		Date:          strings.TrimSpace(q.Get("date")),
		ReturnDate:    strings.TrimSpace(q.Get("return_date")),
		RoundTrip:     strings.TrimSpace(q.Get("round_trip")),
	}
	if err := h.validate.Struct(req); err != nil {
		web.WriteError(w, r, http.StatusBadRequest, "validation_error", web.ValidationMessage(err))
		return
	}

	criteria, err := req.toCriteria()
	if err != nil {
		web.WriteError(w, r, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	trips, err := h.tripQueryBus.Dispatch(r.Context(), application.NewSearchTripsQuery(application.SearchTripsData{Criteria: criteria}))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	web.WriteJSON(w, http.StatusOK, trips)
}

func (h *TripHTTPHandler) HandleSearchCities(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("search"))

	cities, err := h.cityQueryBus.Dispatch(r.Context(), application.NewSearchCitiesQuery(application.SearchCitiesData{Term: term}))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	web.WriteJSON(w, http.StatusOK, cities)
}

func (h *TripHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Get("/trips/search", h.HandleSearchTrips)
	router.Get("/cities", h.HandleSearchCities)
}

// O site mostra uma mensagem genérica; detalhes do upstream ficam no log.
func (h *TripHTTPHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case domain.IsValidation(err):
		web.WriteError(w, r, http.StatusBadRequest, "validation_error", err.Error())
	case domain.IsRequestFailed(err):
		web.WriteError(w, r, http.StatusBadGateway, "request_failed", "could not load data, please try again")
	default:
		web.WriteError(w, r, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}

func (req searchTripsRequest) toCriteria() (domain.SearchCriteria, error) {
	date, err := time.Parse(domain.DateLayout, req.Date)
	if err != nil {
		return domain.SearchCriteria{}, domain.ValidationError{Field: "date", Msg: "is not a valid date"}
	}

	criteria := domain.SearchCriteria{
		DepartureCity: req.DepartureCity,
		ArrivalCity:   req.ArrivalCity,
		Date:          date,
		RoundTrip:     req.ReturnDate != "",
	}
	if req.RoundTrip != "" {
		criteria.RoundTrip, _ = strconv.ParseBool(req.RoundTrip)
	}

	if req.ReturnDate != "" {
		returnDate, err := time.Parse(domain.DateLayout, req.ReturnDate)
		if err != nil {
			return domain.SearchCriteria{}, domain.ValidationError{Field: "return_date", Msg: "is not a valid date"}
		}
		criteria.ReturnDate = &returnDate
	}

	return criteria, criteria.Validate()
}
