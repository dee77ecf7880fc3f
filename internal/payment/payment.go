package payment

import (
	"context"

	"github.com/go-chi/chi/v5"

	activityApp "github.com/mateusmacedo/bus-booking-bff/internal/activity/application"
	"github.com/mateusmacedo/bus-booking-bff/internal/payment/application"
	"github.com/mateusmacedo/bus-booking-bff/internal/payment/domain"
	"github.com/mateusmacedo/bus-booking-bff/internal/payment/infrastructure"
	pkgApp "github.com/mateusmacedo/bus-booking-bff/pkg/application"
)

type PaymentSlice struct {
	httpHandler *infrastructure.PaymentHTTPHandler
}

func NewPaymentSlice(gateway domain.Gateway, eventBus activityApp.EventBus, logger pkgApp.AppLogger, siteOrigin string) *PaymentSlice {
	service := application.NewConfirmationService(gateway, eventBus, logger, siteOrigin)
	return &PaymentSlice{
		httpHandler: infrastructure.NewPaymentHTTPHandler(service),
	}
}

// NewGateway constrói o cliente do provedor. Se a configuração não permitir,
// devolve um gateway que falha toda confirmação com ErrProviderUnavailable.
func NewGateway(ctx context.Context, cfg infrastructure.ProviderConfig, logger pkgApp.AppLogger) domain.Gateway {
	client, err := infrastructure.NewProviderClient(cfg, nil, logger)
	if err != nil {
		pkgApp.LogWarn(ctx, logger, "Provedor de pagamento desativado", err, nil)
		return infrastructure.UnavailableGateway{Cause: err}
	}
	return client
}

func (s *PaymentSlice) RegisterRoutes(router chi.Router) {
	s.httpHandler.RegisterRoutes(router)
}
