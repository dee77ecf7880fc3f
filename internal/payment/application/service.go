package application

import (
	"context"
	"strings"
	"time"

	activityApp "github.com/mateusmacedo/bus-booking-bff/internal/activity/application"
	activityDomain "github.com/mateusmacedo/bus-booking-bff/internal/activity/domain"
	"github.com/mateusmacedo/bus-booking-bff/internal/payment/domain"
	pkgApp "github.com/mateusmacedo/bus-booking-bff/pkg/application"
)

// ReturnPath é para onde o provedor devolve o navegador após uma autenticação.
const ReturnPath = "/payment/success"

type ConfirmationService struct {
	gateway   domain.Gateway
	eventBus  activityApp.EventBus
	logger    pkgApp.AppLogger
	returnURL string
	now       func() time.Time
}

func NewConfirmationService(gateway domain.Gateway, eventBus activityApp.EventBus, logger pkgApp.AppLogger, siteOrigin string) *ConfirmationService {
	return &ConfirmationService{
		gateway:   gateway,
		eventBus:  eventBus,
		logger:    logger,
		returnURL: strings.TrimRight(siteOrigin, "/") + ReturnPath,
		now:       time.Now,
	}
}

// Confirm pede ao provedor a confirmação do pagamento identificado pelo
// client secret. O segredo nunca é logado nem gravado na atividade.
func (s *ConfirmationService) Confirm(ctx context.Context, clientSecret string) (domain.IntentResult, error) {
	clientSecret = strings.TrimSpace(clientSecret)
	if clientSecret == "" {
		return domain.IntentResult{}, domain.PaymentError{Message: domain.ErrMissingClientSecret.Error(), Err: domain.ErrMissingClientSecret}
	}

	// A confirmação não é cancelada junto com a requisição do navegador.
	ctx = context.WithoutCancel(ctx)

	intentID, ok := domain.IntentIDFromSecret(clientSecret)
	if !ok {
		intentID = "unknown"
	}

	result, err := s.gateway.ConfirmIntent(ctx, domain.ConfirmationRequest{
		ClientSecret: clientSecret,
		ReturnURL:    s.returnURL,
	})
	if err != nil {
		if domain.IsRejectedInput(err) {
			return domain.IntentResult{}, err
		}
		pkgApp.LogWarn(ctx, s.logger, "Pagamento não confirmado", err, map[string]interface{}{
			"intent_id": intentID,
		})
		activityApp.PublishBestEffort(ctx, s.eventBus, s.logger,
			activityApp.NewActivityEvent(activityDomain.EventPaymentFailed, intentID, err.Error(), s.now()))
		return domain.IntentResult{}, err
	}

	activityApp.PublishBestEffort(ctx, s.eventBus, s.logger,
		activityApp.NewActivityEvent(activityDomain.EventPaymentConfirmed, result.ID, string(result.Status), s.now()))

	return result, nil
}
