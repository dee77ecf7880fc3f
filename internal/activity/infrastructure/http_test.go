package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/mateusmacedo/bus-booking-bff/internal/activity/application"
	"github.com/mateusmacedo/bus-booking-bff/internal/activity/domain"
	pkgDomain "github.com/mateusmacedo/bus-booking-bff/pkg/domain"
	pkgInfra "github.com/mateusmacedo/bus-booking-bff/pkg/infrastructure"
	zapAdapter "github.com/mateusmacedo/bus-booking-bff/pkg/infrastructure/zaplogger/adapter"
)

const testJWTSecret = "s3cr3t"

func newActivityRouter(t *testing.T, jwtSecret string) chi.Router {
	t.Helper()
	logger := zapAdapter.NewNopAppLogger()
	repo := NewInMemoryActivityRepository(logger)
	_ = repo.Save(context.Background(), domain.Activity{
		ID:         "a-1",
		Kind:       domain.EventTripsSearched,
		RequestID:  "req-1",
		Subject:    "1 -> 2 on 2024-07-10",
		Outcome:    "3 trips",
		OccurredAt: time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC),
	})

	queryBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.FindActivityData], application.FindActivityData, []domain.Activity](logger)
	queryBus.RegisterHandler(application.FindActivityQueryName, application.NewFindActivityHandler(repo, logger))

	router := chi.NewRouter()
	NewActivityHTTPHandler(queryBus, jwtSecret).RegisterRoutes(router)
	return router
}

func signToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "ops",
		"exp": expiresAt.Unix(),
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func authorizedRequest(t *testing.T, path string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testJWTSecret, time.Now().Add(time.Hour)))
	return req
}

func TestHandleFindActivity(t *testing.T) {
	router := newActivityRouter(t, testJWTSecret)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authorizedRequest(t, "/activity/req-1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var activities []domain.Activity
	if err := json.Unmarshal(rec.Body.Bytes(), &activities); err != nil {
		t.Fatal(err)
	}
	if len(activities) != 1 || activities[0].Outcome != "3 trips" {
		t.Errorf("unexpected body %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authorizedRequest(t, "/activity/other"))
	if rec.Code != http.StatusOK || rec.Body.String() != "[]\n" {
		t.Errorf("expected empty list, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestHandleFindActivityRequiresToken(t *testing.T) {
	router := newActivityRouter(t, testJWTSecret)
	valid := signToken(t, testJWTSecret, time.Now().Add(time.Hour))

	for name, header := range map[string]string{
		"missing":      "",
		"garbage":      "Bearer nope",
		"not bearer":   valid,
		"wrong secret": "Bearer " + signToken(t, "other", time.Now().Add(time.Hour)),
		"expired":      "Bearer " + signToken(t, testJWTSecret, time.Now().Add(-time.Hour)),
	} {
		req := httptest.NewRequest(http.MethodGet, "/activity/req-1", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", name, rec.Code)
		}
		if strings.Contains(rec.Body.String(), "3 trips") {
			t.Errorf("%s: activity leaked in body %q", name, rec.Body.String())
		}
	}
}

func TestActivityRouteDisabledWithoutToken(t *testing.T) {
	router := newActivityRouter(t, "  ")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authorizedRequest(t, "/activity/req-1"))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 when no secret is configured, got %d", rec.Code)
	}
}
