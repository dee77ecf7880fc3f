package infrastructure

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/mateusmacedo/bus-booking-bff/internal/payment/domain"
	zapAdapter "github.com/mateusmacedo/bus-booking-bff/pkg/infrastructure/zaplogger/adapter"
)

func newProvider(t *testing.T, handler http.HandlerFunc) (*ProviderClient, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := NewProviderClient(ProviderConfig{BaseURL: server.URL, PublicKey: "pk_test_123"}, nil, zapAdapter.NewNopAppLogger())
	if err != nil {
		t.Fatalf("NewProviderClient: %v", err)
	}
	return client, &calls
}

func TestConfirmIntentSucceeded(t *testing.T) {
	client, calls := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/payment_intents/pi_123/confirm" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer pk_test_123" {
			t.Errorf("unexpected authorization %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Error(err)
		}
		if r.PostForm.Get("client_secret") != "pi_123_secret_abc" || r.PostForm.Get("return_url") != "http://localhost:3000/payment/success" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "pi_123", "object": "payment_intent", "status": "succeeded"}`))
	})

	result, err := client.ConfirmIntent(context.Background(), domain.ConfirmationRequest{
		ClientSecret: "pi_123_secret_abc",
		ReturnURL:    "http://localhost:3000/payment/success",
	})
	if err != nil {
		t.Fatalf("ConfirmIntent: %v", err)
	}
	if result.ID != "pi_123" || result.Status != domain.StatusSucceeded || result.RedirectURL != nil {
		t.Errorf("unexpected result %+v", result)
	}
	if n := atomic.LoadInt32(calls); n != 1 {
		t.Errorf("expected exactly one call, got %d", n)
	}
}

func TestConfirmIntentRequiresAction(t *testing.T) {
	client, _ := newProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": "pi_123", "status": "requires_action", "next_action": {"type": "redirect_to_url", "redirect_to_url": {"url": "https://hooks.example/3ds"}}}`))
	})

	result, err := client.ConfirmIntent(context.Background(), domain.ConfirmationRequest{ClientSecret: "pi_123_secret_abc"})
	if err != nil {
		t.Fatalf("ConfirmIntent: %v", err)
	}
	if result.Status != domain.StatusRequiresAction || result.RedirectURL == nil || *result.RedirectURL != "https://hooks.example/3ds" {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestConfirmIntentProviderErrorMessageVerbatim(t *testing.T) {
	client, calls := newProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error": {"type": "card_error", "code": "card_declined", "decline_code": "insufficient_funds", "message": "Your card has insufficient funds."}}`))
	})

	_, err := client.ConfirmIntent(context.Background(), domain.ConfirmationRequest{ClientSecret: "pi_123_secret_abc"})
	var paymentErr domain.PaymentError
	if !errors.As(err, &paymentErr) {
		t.Fatalf("expected PaymentError, got %v", err)
	}
	if err.Error() != "Your card has insufficient funds." {
		t.Errorf("message must be passed through verbatim, got %q", err.Error())
	}
	if paymentErr.Code != "card_declined" || paymentErr.DeclineCode != "insufficient_funds" {
		t.Errorf("unexpected codes %+v", paymentErr)
	}
	if n := atomic.LoadInt32(calls); n != 1 {
		t.Errorf("failed confirmation must not be retried, got %d calls", n)
	}
}

func TestConfirmIntentLastPaymentError(t *testing.T) {
	client, _ := newProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": "pi_123", "status": "requires_payment_method", "last_payment_error": {"message": "Your card was declined.", "code": "card_declined"}}`))
	})

	_, err := client.ConfirmIntent(context.Background(), domain.ConfirmationRequest{ClientSecret: "pi_123_secret_abc"})
	if !domain.IsPaymentError(err) || err.Error() != "Your card was declined." {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestConfirmIntentRejectsSecretWithoutCalling(t *testing.T) {
	client, calls := newProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for secret, want := range map[string]error{
		"":                                 domain.ErrMissingClientSecret,
		"   ":                              domain.ErrMissingClientSecret,
		"not-a-secret":                     domain.ErrInvalidClientSecret,
		"../../v1/tokens/tok_1_secret_abc": domain.ErrInvalidClientSecret,
		"pi_1/../../v1/tokens_secret_abc":  domain.ErrInvalidClientSecret,
	} {
		_, err := client.ConfirmIntent(context.Background(), domain.ConfirmationRequest{ClientSecret: secret})
		if !errors.Is(err, want) {
			t.Errorf("secret %q: expected %v, got %v", secret, want, err)
		}
		if !domain.IsRejectedInput(err) {
			t.Errorf("secret %q: expected rejected input", secret)
		}
	}
	if n := atomic.LoadInt32(calls); n != 0 {
		t.Errorf("expected no provider calls, got %d", n)
	}
}

func TestConfirmIntentNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client, err := NewProviderClient(ProviderConfig{BaseURL: baseURL, PublicKey: "pk_test_123"}, nil, zapAdapter.NewNopAppLogger())
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.ConfirmIntent(context.Background(), domain.ConfirmationRequest{ClientSecret: "pi_123_secret_abc"})
	if !domain.IsPaymentError(err) || err.Error() == "" {
		t.Fatalf("expected PaymentError with a message, got %v", err)
	}
}

func TestConfirmIntentIgnoresCallerCancellation(t *testing.T) {
	client, calls := newProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id": "pi_123", "status": "processing"}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := client.ConfirmIntent(ctx, domain.ConfirmationRequest{ClientSecret: "pi_123_secret_abc"})
	if err != nil || result.Status != domain.StatusProcessing {
		t.Fatalf("confirmation should complete, got %+v, %v", result, err)
	}
	if n := atomic.LoadInt32(calls); n != 1 {
		t.Errorf("expected one call, got %d", n)
	}
}

func TestNewProviderClientUnavailable(t *testing.T) {
	for _, cfg := range []ProviderConfig{
		{BaseURL: "https://api.stripe.com"},
		{BaseURL: "://bad", PublicKey: "pk_test_123"},
	} {
		_, err := NewProviderClient(cfg, nil, zapAdapter.NewNopAppLogger())
		if !domain.IsProviderUnavailable(err) {
			t.Errorf("config %+v: expected ErrProviderUnavailable, got %v", cfg, err)
		}
	}
}

func TestUnavailableGateway(t *testing.T) {
	gateway := UnavailableGateway{Cause: errors.New("no key")}

	_, err := gateway.ConfirmIntent(context.Background(), domain.ConfirmationRequest{ClientSecret: "pi_123_secret_abc"})
	if !domain.IsProviderUnavailable(err) || !domain.IsPaymentError(err) {
		t.Fatalf("expected unavailable PaymentError, got %v", err)
	}

	_, err = gateway.ConfirmIntent(context.Background(), domain.ConfirmationRequest{})
	if !errors.Is(err, domain.ErrMissingClientSecret) {
		t.Fatalf("expected missing secret, got %v", err)
	}
}
