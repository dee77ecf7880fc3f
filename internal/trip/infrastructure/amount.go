package infrastructure

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var errAmountMissing = errors.New("amount is missing")

// ParseAmount converte um valor monetário vindo da API para decimal. O backend
// serializa campos decimais como texto ("1500.00"), mas também aceitamos números
// JSON. A conversão é feita direto do texto, sem passar por float64.
func ParseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Decimal{}, errAmountMissing
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Decimal{}, fmt.Errorf("amount %s: %w", raw, err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return decimal.Decimal{}, errAmountMissing
		}
	}

	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount %q: %w", text, err)
	}
	return amount, nil
}

// parseOptionalAmount é ParseAmount para campos que podem faltar.
func parseOptionalAmount(raw json.RawMessage) (*decimal.Decimal, error) {
	amount, err := ParseAmount(raw)
	if errors.Is(err, errAmountMissing) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &amount, nil
}
