package domain

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

type IntentStatus string

const (
	StatusSucceeded             IntentStatus = "succeeded"
	StatusProcessing            IntentStatus = "processing"
	StatusRequiresAction        IntentStatus = "requires_action"
	StatusRequiresPaymentMethod IntentStatus = "requires_payment_method"
	StatusRequiresConfirmation  IntentStatus = "requires_confirmation"
	StatusRequiresCapture       IntentStatus = "requires_capture"
	StatusCanceled              IntentStatus = "canceled"
)

// ConfirmationRequest identifica um pagamento pendente pelo client secret.
type ConfirmationRequest struct {
	ClientSecret string
	ReturnURL    string
}

// IntentResult é o registro devolvido pelo provedor. RedirectURL vem
// preenchido quando o provedor pede que o navegador seja redirecionado.
type IntentResult struct {
	ID          string       `json:"id"`
	Status      IntentStatus `json:"status"`
	RedirectURL *string      `json:"redirectUrl,omitempty"`
}

// Gateway é a porta para o provedor de pagamentos.
type Gateway interface {
	ConfirmIntent(ctx context.Context, req ConfirmationRequest) (IntentResult, error)
}

var intentIDPattern = regexp.MustCompile(`^pi_[A-Za-z0-9]+$`)

// IntentIDFromSecret extrai o id do intent ("pi_123" de "pi_123_secret_abc").
// O id vai para o path da URL do provedor, então só aceita o formato pi_<alfanumérico>.
func IntentIDFromSecret(clientSecret string) (string, bool) {
	id, _, found := strings.Cut(clientSecret, "_secret_")
	if !found || !intentIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

var (
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	ErrMissingClientSecret = errors.New("client secret is required")
	ErrInvalidClientSecret = errors.New("client secret is malformed")
)

// PaymentError carrega a mensagem do provedor sem alterações, pronta para o
// usuário. Code e DeclineCode são repassados quando o provedor os envia.
type PaymentError struct {
	Message     string
	Code        string
	DeclineCode string
	Err         error
}

func (e PaymentError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "payment failed"
}

func (e PaymentError) Unwrap() error { return e.Err }

func IsPaymentError(err error) bool {
	var target PaymentError
	return errors.As(err, &target)
}

func IsProviderUnavailable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable)
}

// IsRejectedInput indica falha detectada antes de qualquer chamada ao provedor.
func IsRejectedInput(err error) bool {
	return errors.Is(err, ErrMissingClientSecret) || errors.Is(err, ErrInvalidClientSecret)
}
