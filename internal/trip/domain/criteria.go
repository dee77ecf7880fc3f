package domain

import (
	"strings"
	"time"
)

// SearchCriteria são os filtros do formulário de busca.
// ReturnDate só existe quando RoundTrip é verdadeiro.
type SearchCriteria struct {
	DepartureCity string
	ArrivalCity   string
	Date          time.Time
	ReturnDate    *time.Time
	RoundTrip     bool
}

func (c SearchCriteria) Validate() error {
	if strings.TrimSpace(c.DepartureCity) == "" {
		return ValidationError{Field: "departure_city", Msg: "is required"}
	}
	if strings.TrimSpace(c.ArrivalCity) == "" {
		return ValidationError{Field: "arrival_city", Msg: "is required"}
	}
	if c.Date.IsZero() {
		return ValidationError{Field: "date", Msg: "is required"}
	}
	if c.RoundTrip && c.ReturnDate == nil {
		return ValidationError{Field: "return_date", Msg: "is required for round trips"}
	}
	if !c.RoundTrip && c.ReturnDate != nil {
		return ValidationError{Field: "return_date", Msg: "is only allowed for round trips"}
	}
	if c.ReturnDate != nil && c.ReturnDate.Before(c.Date) {
		return ValidationError{Field: "return_date", Msg: "must not be before date"}
	}
	return nil
}

// FormattedDate devolve a data de ida no formato da API.
func (c SearchCriteria) FormattedDate() string {
	return c.Date.Format(DateLayout)
}

// FormattedReturnDate devolve "" quando a busca não é de ida e volta.
func (c SearchCriteria) FormattedReturnDate() string {
	if !c.RoundTrip || c.ReturnDate == nil {
		return ""
	}
	return c.ReturnDate.Format(DateLayout)
}
