package infrastructure

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/mateusmacedo/bus-booking-bff/internal/activity/application"
	"github.com/mateusmacedo/bus-booking-bff/pkg/infrastructure/web"
)

// ActivityHTTPHandler expõe a trilha para operação interna. A rota só é
// montada com um segredo configurado e exige um JWT HS256 assinado com ele.
type ActivityHTTPHandler struct {
	queryBus  application.FindActivityQueryBus
	jwtSecret []byte
}

func NewActivityHTTPHandler(queryBus application.FindActivityQueryBus, jwtSecret string) *ActivityHTTPHandler {
	return &ActivityHTTPHandler{
		queryBus:  queryBus,
		jwtSecret: []byte(strings.TrimSpace(jwtSecret)),
	}
}

func (h *ActivityHTTPHandler) HandleFindActivity(w http.ResponseWriter, r *http.Request) {
	requestID := strings.TrimSpace(chi.URLParam(r, "requestID"))
	if requestID == "" {
		web.WriteError(w, r, http.StatusBadRequest, "validation_error", "requestID is required")
		return
	}

	activities, err := h.queryBus.Dispatch(r.Context(), application.NewFindActivityQuery(application.FindActivityData{RequestID: requestID}))
	if err != nil {
		web.WriteError(w, r, http.StatusInternalServerError, "internal_error", "could not load activity")
		return
	}

	web.WriteJSON(w, http.StatusOK, activities)
}

func (h *ActivityHTTPHandler) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			h.unauthorized(w, r, "authorization header format must be Bearer {token}")
			return
		}

		token, err := jwt.Parse(parts[1], func(*jwt.Token) (interface{}, error) {
			return h.jwtSecret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
		if err != nil || !token.Valid {
			h.unauthorized(w, r, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *ActivityHTTPHandler) unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	web.WriteError(w, r, http.StatusUnauthorized, "unauthorized", message)
}

// RegisterRoutes não monta nada sem segredo.
func (h *ActivityHTTPHandler) RegisterRoutes(router chi.Router) {
	if len(h.jwtSecret) == 0 {
		return
	}
	router.Group(func(r chi.Router) {
		r.Use(h.requireToken)
		r.Get("/activity/{requestID}", h.HandleFindActivity)
	})
}
