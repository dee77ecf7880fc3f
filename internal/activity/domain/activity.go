package domain

import (
	"context"
	"time"
)

// Nomes dos eventos que viram registros de atividade.
const (
	EventTripsSearched    = "TripsSearched"
	EventPaymentConfirmed = "PaymentConfirmed"
	EventPaymentFailed    = "PaymentFailed"
)

// Activity é o rastro de uma operação do BFF. Não guarda segredos de
// pagamento, listas de viagens nem o payment intent em si.
type Activity struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	Kind       string    `json:"kind" gorm:"size:64;index"`
	RequestID  string    `json:"requestId" gorm:"size:128;index"`
	Subject    string    `json:"subject" gorm:"size:255"`
	Outcome    string    `json:"outcome" gorm:"size:255"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (Activity) TableName() string {
	return "activities"
}

type ActivityRepository interface {
	Save(ctx context.Context, activity Activity) error
	FindByRequestID(ctx context.Context, requestID string) ([]Activity, error)
}
