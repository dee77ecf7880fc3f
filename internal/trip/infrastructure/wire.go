package infrastructure

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mateusmacedo/bus-booking-bff/internal/trip/domain"
)

// Formato do corpo de /trips/search/ e /cities/ na API de viagens.

type flexibleString string

// UnmarshalJSON aceita identificadores enviados como texto ou número.
func (s *flexibleString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexibleString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("identifier %s: %w", data, err)
	}
	*s = flexibleString(n.String())
	return nil
}

type priceDTO struct {
	Amount   json.RawMessage `json:"amount"`
	Currency string          `json:"currency"`
}

type routeDTO struct {
	DeparturePoint string          `json:"departure_point"`
	ArrivalPoint   string          `json:"arrival_point"`
	Duration       json.RawMessage `json:"duration"`
	Distance       json.RawMessage `json:"distance"`
}

type agencyDTO struct {
	ID       flexibleString `json:"id"`
	Name     string         `json:"name"`
	Logo     *string        `json:"logo"`
	Services []string       `json:"services"`
}

type tripDTO struct {
	ID             flexibleString `json:"id"`
	StartDate      string         `json:"start_date"`
	EndDate        *string        `json:"end_date"`
	PassengerCount int            `json:"passenger_count"`
	Price          priceDTO       `json:"price"`
	Route          routeDTO       `json:"route"`
	Agency         agencyDTO      `json:"agency"`
	TripType       string         `json:"trip_type"`
}

type cityDTO struct {
	ID         flexibleString `json:"id"`
	Name       string         `json:"name"`
	PostalCode *string        `json:"postal_code"`
	Country    *string        `json:"country"`
}

// decodeList aceita tanto um array quanto o envelope {"results": [...]}.
// Nenhuma página adicional é buscada.
func decodeList[T any](body []byte) ([]T, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("empty body")
	}

	switch body[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		return items, nil
	case '{':
		var envelope struct {
			Results *[]T `json:"results"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, err
		}
		if envelope.Results == nil {
			return nil, fmt.Errorf("object body without results")
		}
		return *envelope.Results, nil
	default:
		return nil, fmt.Errorf("unexpected body starting with %q", body[0])
	}
}

func (d tripDTO) toDomain() (domain.Trip, error) {
	id := strings.TrimSpace(string(d.ID))
	if id == "" {
		return domain.Trip{}, fmt.Errorf("trip without id")
	}

	startsAt, err := parseDateTime(d.StartDate)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("trip %s start_date: %w", id, err)
	}

	var endsAt *time.Time
	if d.EndDate != nil && strings.TrimSpace(*d.EndDate) != "" {
		parsed, err := parseDateTime(*d.EndDate)
		if err != nil {
			return domain.Trip{}, fmt.Errorf("trip %s end_date: %w", id, err)
		}
		endsAt = &parsed
	}

	amount, err := ParseAmount(d.Price.Amount)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("trip %s price: %w", id, err)
	}

	tripType, err := domain.ParseTripType(d.TripType)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("trip %s: %w", id, err)
	}

	distance, err := parseOptionalAmount(d.Route.Distance)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("trip %s distance: %w", id, err)
	}

	duration, err := parseDuration(d.Route.Duration)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("trip %s duration: %w", id, err)
	}

	services := d.Agency.Services
	if services == nil {
		services = []string{}
	}

	return domain.Trip{
		ID:             id,
		StartsAt:       startsAt,
		EndsAt:         endsAt,
		PassengerCount: d.PassengerCount,
		Price:          domain.Price{Amount: amount, Currency: strings.ToUpper(strings.TrimSpace(d.Price.Currency))},
		Route: domain.Route{
			DeparturePoint: d.Route.DeparturePoint,
			ArrivalPoint:   d.Route.ArrivalPoint,
			Duration:       duration,
			Distance:       distance,
		},
		Agency: domain.Agency{
			ID:       string(d.Agency.ID),
			Name:     d.Agency.Name,
			Logo:     d.Agency.Logo,
			Services: append([]string{}, services...),
		},
		Type: tripType,
	}, nil
}

func (d cityDTO) toDomain() domain.City {
	return domain.City{
		ID:         string(d.ID),
		Name:       d.Name,
		PostalCode: d.PostalCode,
		Country:    d.Country,
	}
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

func parseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date time %q", value)
}

// Formato de DurationField: "[D ]HH:MM:SS[.ffffff]".
var clockDuration = regexp.MustCompile(`^(?:(\d+) )?(\d{1,2}):(\d{2}):(\d{2})(?:\.\d+)?$`)

// parseDuration aceita minutos (número), "[D ]HH:MM:SS" ou uma duração Go ("2h30m").
func parseDuration(raw json.RawMessage) (*time.Duration, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] != '"' {
		minutes, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %s", raw)
		}
		d := time.Duration(minutes * float64(time.Minute))
		return &d, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	if m := clockDuration.FindStringSubmatch(text); m != nil {
		days, _ := strconv.Atoi(m[1])
		hours, _ := strconv.Atoi(m[2])
		minutes, _ := strconv.Atoi(m[3])
		seconds, _ := strconv.Atoi(m[4])
		d := time.Duration(days)*24*time.Hour +
			time.Duration(hours)*time.Hour +
			time.Duration(minutes)*time.Minute +
			time.Duration(seconds)*time.Second
		return &d, nil
	}

	d, err := time.ParseDuration(text)
	if err != nil {
		return nil, fmt.Errorf("invalid duration %q", text)
	}
	return &d, nil
}
