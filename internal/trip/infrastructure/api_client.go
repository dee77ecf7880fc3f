package infrastructure

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/mateusmacedo/bus-booking-bff/internal/trip/domain"
	"github.com/mateusmacedo/bus-booking-bff/pkg/application"
)

const (
	tripsSearchPath = "trips/search/"
	citiesPath      = "cities/"

	operationTripsSearch = "trips search"
	operationCities      = "cities lookup"
)

// APIClient fala com a API de viagens. Uma chamada por operação: sem retry,
// sem cache e sem timeout além do que o transporte e o contexto impõem.
type APIClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     application.AppLogger
	tracer     trace.Tracer
}

func NewAPIClient(baseURL string, httpClient *http.Client, logger application.AppLogger) (*APIClient, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid api base url %q: %w", baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q: scheme and host are required", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &APIClient{
		baseURL:    parsed,
		httpClient: httpClient,
		logger:     logger,
		tracer:     otel.Tracer("github.com/mateusmacedo/bus-booking-bff/internal/trip/infrastructure"),
	}, nil
}

func (c *APIClient) SearchTrips(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Trip, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("departure_city", strings.TrimSpace(criteria.DepartureCity))
	params.Set("arrival_city", strings.TrimSpace(criteria.ArrivalCity))
	params.Set("date", criteria.FormattedDate())
	if returnDate := criteria.FormattedReturnDate(); returnDate != "" {
		params.Set("return_date", returnDate)
	}

	ctx, span := c.tracer.Start(ctx, "APIClient.SearchTrips", trace.WithAttributes(
		attribute.String("trip.departure_city", criteria.DepartureCity),
		attribute.String("trip.arrival_city", criteria.ArrivalCity),
		attribute.Bool("trip.round_trip", criteria.RoundTrip),
	))
	defer span.End()

	body, status, err := c.get(ctx, operationTripsSearch, tripsSearchPath, params)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	dtos, err := decodeList[tripDTO](body)
	if err != nil {
		return nil, c.decodeFailure(ctx, span, operationTripsSearch, status, err)
	}

	trips := make([]domain.Trip, 0, len(dtos))
	for _, dto := range dtos {
		trip, err := dto.toDomain()
		if err != nil {
			return nil, c.decodeFailure(ctx, span, operationTripsSearch, status, err)
		}
		trips = append(trips, trip)
	}

	span.SetAttributes(attribute.Int("trip.results", len(trips)))
	application.LogInfo(ctx, c.logger, "Viagens carregadas", map[string]interface{}{
		"departure_city": criteria.DepartureCity,
		"arrival_city":   criteria.ArrivalCity,
		"date":           criteria.FormattedDate(),
		"results":        len(trips),
	})
	return trips, nil
}

func (c *APIClient) SearchCities(ctx context.Context, term string) ([]domain.City, error) {
	params := url.Values{}
	params.Set("search", strings.TrimSpace(term))

	ctx, span := c.tracer.Start(ctx, "APIClient.SearchCities")
	defer span.End()

	body, status, err := c.get(ctx, operationCities, citiesPath, params)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	dtos, err := decodeList[cityDTO](body)
	if err != nil {
		return nil, c.decodeFailure(ctx, span, operationCities, status, err)
	}

	cities := make([]domain.City, 0, len(dtos))
	for _, dto := range dtos {
		cities = append(cities, dto.toDomain())
	}
	return cities, nil
}

func (c *APIClient) get(ctx context.Context, operation, path string, params url.Values) ([]byte, int, error) {
	endpoint := c.baseURL.JoinPath(path)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, 0, domain.RequestFailedError{Operation: operation, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	application.LogTrace(ctx, c.logger, "Requisição à API", map[string]interface{}{
		"operation": operation,
		"url":       endpoint.Redacted(),
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		application.LogError(ctx, c.logger, "Falha na requisição à API", err, map[string]interface{}{
			"operation": operation,
			"url":       endpoint.Redacted(),
		})
		return nil, 0, domain.RequestFailedError{Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		application.LogError(ctx, c.logger, "API respondeu com status de erro", nil, map[string]interface{}{
			"operation": operation,
			"url":       endpoint.Redacted(),
			"status":    resp.StatusCode,
		})
		return nil, resp.StatusCode, domain.RequestFailedError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}
	if err != nil {
		return nil, resp.StatusCode, domain.RequestFailedError{Operation: operation, StatusCode: resp.StatusCode, Err: err}
	}

	return body, resp.StatusCode, nil
}

func (c *APIClient) decodeFailure(ctx context.Context, span trace.Span, operation string, status int, err error) error {
	application.LogError(ctx, c.logger, "Resposta da API não pôde ser decodificada", err, map[string]interface{}{
		"operation": operation,
	})
	failure := domain.RequestFailedError{Operation: operation, StatusCode: status, Err: err}
	recordError(span, failure)
	return failure
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
