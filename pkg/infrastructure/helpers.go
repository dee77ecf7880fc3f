package infrastructure

import (
	"errors"

	"github.com/google/uuid"

	"github.com/mateusmacedo/bus-booking-bff/pkg/domain"
)

var ErrNoHandler = errors.New("no handler registered")

func GenerateUUID() string {
	return uuid.New().String()
}

// NewUUIDGenerator devolve um IDGenerator baseado em UUID v4.
func NewUUIDGenerator() domain.IDGenerator[string] {
	return GenerateUUID
}
