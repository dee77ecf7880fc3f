package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mateusmacedo/bus-booking-bff/internal/payment/domain"
	"github.com/mateusmacedo/bus-booking-bff/pkg/infrastructure/web"
)

// Confirmer é o caso de uso exposto pelo handler.
type Confirmer interface {
	Confirm(ctx context.Context, clientSecret string) (domain.IntentResult, error)
}

type confirmPaymentRequest struct {
	ClientSecret string `json:"clientSecret" validate:"required"`
}

type PaymentHTTPHandler struct {
	confirmer Confirmer
	validate  *validator.Validate
}

func NewPaymentHTTPHandler(confirmer Confirmer) *PaymentHTTPHandler {
	return &PaymentHTTPHandler{
		confirmer: confirmer,
		validate:  web.NewValidator(),
	}
}

func (h *PaymentHTTPHandler) HandleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req confirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, r, http.StatusBadRequest, "invalid_body", "request body must be JSON")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		web.WriteError(w, r, http.StatusBadRequest, "validation_error", web.ValidationMessage(err))
		return
	}

	result, err := h.confirmer.Confirm(r.Context(), req.ClientSecret)
	if err != nil {
		switch {
		case domain.IsRejectedInput(err):
			web.WriteError(w, r, http.StatusBadRequest, "validation_error", err.Error())
		case domain.IsProviderUnavailable(err):
			web.WriteError(w, r, http.StatusServiceUnavailable, "provider_unavailable", err.Error())
		default:
			// Mensagem do provedor repassada sem alteração.
			web.WriteError(w, r, http.StatusPaymentRequired, "payment_failed", err.Error())
		}
		return
	}

	web.WriteJSON(w, http.StatusOK, result)
}

func (h *PaymentHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Post("/payments/confirm", h.HandleConfirmPayment)
}
