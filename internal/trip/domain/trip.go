package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout é o formato de data esperado pela API de viagens.
const DateLayout = "2006-01-02"

type TripType string

const (
	TripTypeVIP     TripType = "VIP"
	TripTypeRegular TripType = "REGULAR"
)

func ParseTripType(value string) (TripType, error) {
	switch TripType(strings.ToUpper(strings.TrimSpace(value))) {
	case TripTypeVIP:
		return TripTypeVIP, nil
	case TripTypeRegular:
		return TripTypeRegular, nil
	default:
		return "", fmt.Errorf("unknown trip type %q", value)
	}
}

// Price guarda o valor como decimal; nunca passa por float.
type Price struct {
	Amount   decimal.Decimal
	Currency string
}

// MarshalJSON emite amount como número JSON, não como string.
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   json.Number `json:"amount"`
		Currency string      `json:"currency"`
	}{
		Amount:   json.Number(p.Amount.String()),
		Currency: p.Currency,
	})
}

type Route struct {
	DeparturePoint string
	ArrivalPoint   string
	Duration       *time.Duration
	Distance       *decimal.Decimal
}

func (r Route) MarshalJSON() ([]byte, error) {
	out := struct {
		DeparturePoint  string       `json:"departurePoint"`
		ArrivalPoint    string       `json:"arrivalPoint"`
		DurationMinutes *int64       `json:"durationMinutes,omitempty"`
		Distance        *json.Number `json:"distance,omitempty"`
	}{
		DeparturePoint: r.DeparturePoint,
		ArrivalPoint:   r.ArrivalPoint,
	}
	if r.Duration != nil {
		minutes := int64(r.Duration.Minutes())
		out.DurationMinutes = &minutes
	}
	if r.Distance != nil {
		distance := json.Number(r.Distance.String())
		out.Distance = &distance
	}
	return json.Marshal(out)
}

type Agency struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Logo     *string  `json:"logo,omitempty"`
	Services []string `json:"services"`
}

type Trip struct {
	ID             string     `json:"id"`
	StartsAt       time.Time  `json:"startsAt"`
	EndsAt         *time.Time `json:"endsAt,omitempty"`
	PassengerCount int        `json:"passengerCount"`
	Price          Price      `json:"price"`
	Route          Route      `json:"route"`
	Agency         Agency     `json:"agency"`
	Type           TripType   `json:"type"`
}

type City struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	PostalCode *string `json:"postalCode,omitempty"`
	Country    *string `json:"country,omitempty"`
}

// TripSearcher é a porta para a API de viagens.
type TripSearcher interface {
	SearchTrips(ctx context.Context, criteria SearchCriteria) ([]Trip, error)
	SearchCities(ctx context.Context, term string) ([]City, error)
}
