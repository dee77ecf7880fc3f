package domain

import (
	"errors"
	"fmt"
)

type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s %s", e.Field, e.Msg)
}

// RequestFailedError cobre status não-2xx, falhas de rede e corpos ilegíveis.
// StatusCode é 0 quando nenhuma resposta chegou.
type RequestFailedError struct {
	Operation  string
	StatusCode int
	Err        error
}

func (e RequestFailedError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s request failed", e.Operation)
	}
	return fmt.Sprintf("%s request failed with status %d", e.Operation, e.StatusCode)
}

func (e RequestFailedError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsRequestFailed(err error) bool {
	var target RequestFailedError
	return errors.As(err, &target)
}
