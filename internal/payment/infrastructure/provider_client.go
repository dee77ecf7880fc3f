package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mateusmacedo/bus-booking-bff/internal/payment/domain"
	"github.com/mateusmacedo/bus-booking-bff/pkg/application"
)

type ProviderConfig struct {
	BaseURL   string
	PublicKey string
}

// ProviderClient confirma payment intents com a chave pública, do mesmo jeito
// que o SDK do navegador faria. É construído uma vez e injetado.
type ProviderClient struct {
	baseURL    *url.URL
	publicKey  string
	httpClient *http.Client
	logger     application.AppLogger
	tracer     trace.Tracer
}

// NewProviderClient falha com ErrProviderUnavailable quando a configuração
// não permite falar com o provedor.
func NewProviderClient(cfg ProviderConfig, httpClient *http.Client, logger application.AppLogger) (*ProviderClient, error) {
	publicKey := strings.TrimSpace(cfg.PublicKey)
	if publicKey == "" {
		return nil, fmt.Errorf("%w: public key is not configured", domain.ErrProviderUnavailable)
	}

	baseURL, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil || baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("%w: invalid provider url %q", domain.ErrProviderUnavailable, cfg.BaseURL)
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &ProviderClient{
		baseURL:    baseURL,
		publicKey:  publicKey,
		httpClient: httpClient,
		logger:     logger,
		tracer:     otel.Tracer("github.com/mateusmacedo/bus-booking-bff/internal/payment/infrastructure"),
	}, nil
}

type providerErrorDTO struct {
	Message     string `json:"message"`
	Code        string `json:"code"`
	DeclineCode string `json:"decline_code"`
	Type        string `json:"type"`
}

type intentDTO struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	NextAction *struct {
		Type          string `json:"type"`
		RedirectToURL *struct {
			URL string `json:"url"`
		} `json:"redirect_to_url"`
	} `json:"next_action"`
	LastPaymentError *providerErrorDTO `json:"last_payment_error"`
	Error            *providerErrorDTO `json:"error"`
}

// ConfirmIntent faz uma única tentativa. Confirmação nunca é repetida aqui:
// uma segunda chamada poderia gerar cobrança em dobro.
func (c *ProviderClient) ConfirmIntent(ctx context.Context, req domain.ConfirmationRequest) (domain.IntentResult, error) {
	clientSecret := strings.TrimSpace(req.ClientSecret)
	if clientSecret == "" {
		return domain.IntentResult{}, domain.PaymentError{Message: domain.ErrMissingClientSecret.Error(), Err: domain.ErrMissingClientSecret}
	}
	intentID, ok := domain.IntentIDFromSecret(clientSecret)
	if !ok {
		return domain.IntentResult{}, domain.PaymentError{Message: domain.ErrInvalidClientSecret.Error(), Err: domain.ErrInvalidClientSecret}
	}

	// Uma vez enviada, a confirmação vai até o fim mesmo que o navegador desconecte.
	ctx = context.WithoutCancel(ctx)

	ctx, span := c.tracer.Start(ctx, "ProviderClient.ConfirmIntent", trace.WithAttributes(
		attribute.String("payment.intent_id", intentID),
	))
	defer span.End()

	result, err := c.confirm(ctx, intentID, clientSecret, req.ReturnURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		application.LogError(ctx, c.logger, "Falha na confirmação do pagamento", err, map[string]interface{}{
			"intent_id": intentID,
		})
		return domain.IntentResult{}, err
	}

	span.SetAttributes(attribute.String("payment.status", string(result.Status)))
	application.LogInfo(ctx, c.logger, "Pagamento confirmado", map[string]interface{}{
		"intent_id": result.ID,
		"status":    result.Status,
	})
	return result, nil
}

func (c *ProviderClient) confirm(ctx context.Context, intentID, clientSecret, returnURL string) (domain.IntentResult, error) {
	form := url.Values{}
	form.Set("client_secret", clientSecret)
	if returnURL != "" {
		form.Set("return_url", returnURL)
	}

	endpoint := c.baseURL.JoinPath("v1", "payment_intents", url.PathEscape(intentID), "confirm")
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return domain.IntentResult{}, domain.PaymentError{Message: err.Error(), Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.publicKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return domain.IntentResult{}, domain.PaymentError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.IntentResult{}, domain.PaymentError{Message: err.Error(), Err: err}
	}

	var dto intentDTO
	decodeErr := json.Unmarshal(body, &dto)

	if dto.Error != nil {
		return domain.IntentResult{}, providerError(*dto.Error, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.IntentResult{}, domain.PaymentError{
			Message: http.StatusText(resp.StatusCode),
			Err:     fmt.Errorf("provider responded with status %d", resp.StatusCode),
		}
	}
	if decodeErr != nil {
		return domain.IntentResult{}, domain.PaymentError{Message: decodeErr.Error(), Err: decodeErr}
	}
	if dto.LastPaymentError != nil && domain.IntentStatus(dto.Status) == domain.StatusRequiresPaymentMethod {
		return domain.IntentResult{}, providerError(*dto.LastPaymentError, resp.StatusCode)
	}

	result := domain.IntentResult{
		ID:     dto.ID,
		Status: domain.IntentStatus(dto.Status),
	}
	if result.ID == "" {
		result.ID = intentID
	}
	if dto.NextAction != nil && dto.NextAction.RedirectToURL != nil && dto.NextAction.RedirectToURL.URL != "" {
		redirect := dto.NextAction.RedirectToURL.URL
		result.RedirectURL = &redirect
	}
	return result, nil
}

func providerError(e providerErrorDTO, status int) domain.PaymentError {
	message := e.Message
	if message == "" {
		message = http.StatusText(status)
	}
	return domain.PaymentError{
		Message:     message,
		Code:        e.Code,
		DeclineCode: e.DeclineCode,
		Err:         fmt.Errorf("provider %s error (status %d)", e.Type, status),
	}
}

// UnavailableGateway substitui o ProviderClient quando ele não pôde ser
// construído: toda confirmação falha com ErrProviderUnavailable.
type UnavailableGateway struct {
	Cause error
}

func (g UnavailableGateway) ConfirmIntent(_ context.Context, req domain.ConfirmationRequest) (domain.IntentResult, error) {
	if strings.TrimSpace(req.ClientSecret) == "" {
		return domain.IntentResult{}, domain.PaymentError{Message: domain.ErrMissingClientSecret.Error(), Err: domain.ErrMissingClientSecret}
	}
	return domain.IntentResult{}, g.unavailable()
}

func (g UnavailableGateway) unavailable() error {
	err := domain.ErrProviderUnavailable
	if g.Cause != nil {
		err = fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, g.Cause)
	}
	return domain.PaymentError{Message: domain.ErrProviderUnavailable.Error(), Err: err}
}
