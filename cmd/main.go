package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/mateusmacedo/bus-booking-bff/internal/activity"
	activityApp "github.com/mateusmacedo/bus-booking-bff/internal/activity/application"
	activityDomain "github.com/mateusmacedo/bus-booking-bff/internal/activity/domain"
	activityInfra "github.com/mateusmacedo/bus-booking-bff/internal/activity/infrastructure"
	"github.com/mateusmacedo/bus-booking-bff/internal/config"
	"github.com/mateusmacedo/bus-booking-bff/internal/payment"
	paymentInfra "github.com/mateusmacedo/bus-booking-bff/internal/payment/infrastructure"
	"github.com/mateusmacedo/bus-booking-bff/internal/trip"
	tripApp "github.com/mateusmacedo/bus-booking-bff/internal/trip/application"
	tripDomain "github.com/mateusmacedo/bus-booking-bff/internal/trip/domain"
	tripInfra "github.com/mateusmacedo/bus-booking-bff/internal/trip/infrastructure"
	pkgApp "github.com/mateusmacedo/bus-booking-bff/pkg/application"
	pkgDomain "github.com/mateusmacedo/bus-booking-bff/pkg/domain"
	pkgInfra "github.com/mateusmacedo/bus-booking-bff/pkg/infrastructure"
	"github.com/mateusmacedo/bus-booking-bff/pkg/infrastructure/tracing"
	"github.com/mateusmacedo/bus-booking-bff/pkg/infrastructure/web"
	zapAdapter "github.com/mateusmacedo/bus-booking-bff/pkg/infrastructure/zaplogger/adapter"
)

func main() {
	dotEnvLoaded := config.LoadDotEnv()
	cfg := config.Load()

	appLogger, err := zapAdapter.NewZapAppLogger(zapAdapter.Config{App: cfg.ServiceName, Level: cfg.LogLevel})
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := cfg.Validate(); err != nil {
		pkgApp.LogError(ctx, appLogger, "Configuração inválida", err, nil)
		os.Exit(1)
	}
	pkgApp.LogInfo(ctx, appLogger, "Configuração carregada", map[string]interface{}{
		"dotenv":     dotEnvLoaded,
		"event_bus":  cfg.EventBusDriver,
		"api_base":   cfg.APIBaseURL,
		"persistent": cfg.DatabaseDSN != "",
	})

	shutdownTracing, err := tracing.Init(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		pkgApp.LogError(ctx, appLogger, "Erro ao iniciar o tracing", err, nil)
		os.Exit(1)
	}

	eventBus, closers, err := newActivityEventBus(ctx, cfg, appLogger)
	if err != nil {
		pkgApp.LogError(ctx, appLogger, "Erro ao criar o barramento de eventos", err, map[string]interface{}{
			"driver": cfg.EventBusDriver,
		})
		os.Exit(1)
	}

	var activityRepo activityDomain.ActivityRepository
	if cfg.DatabaseDSN != "" {
		activityRepo, err = activityInfra.NewGormActivityRepository(cfg.DatabaseDSN, appLogger)
		if err != nil {
			pkgApp.LogError(ctx, appLogger, "Erro ao inicializar o repositório de atividades", err, nil)
			os.Exit(1)
		}
	} else {
		activityRepo = activityInfra.NewInMemoryActivityRepository(appLogger)
	}

	apiClient, err := tripInfra.NewAPIClient(cfg.APIBaseURL, nil, appLogger)
	if err != nil {
		pkgApp.LogError(ctx, appLogger, "URL base da API inválida", err, nil)
		os.Exit(1)
	}

	activitySlice := activity.NewActivitySlice(
		pkgInfra.NewSimpleCommandBus[pkgDomain.Command[activityApp.RecordActivityData], activityApp.RecordActivityData](appLogger),
		pkgInfra.NewSimpleQueryBus[pkgDomain.Query[activityApp.FindActivityData], activityApp.FindActivityData, []activityDomain.Activity](appLogger),
		eventBus,
		activityRepo,
		pkgInfra.NewUUIDGenerator(),
		appLogger,
		cfg.ActivityJWTSecret,
	)

	tripSlice := trip.NewTripSlice(
		pkgInfra.NewSimpleQueryBus[pkgDomain.Query[tripApp.SearchTripsData], tripApp.SearchTripsData, []tripDomain.Trip](appLogger),
		pkgInfra.NewSimpleQueryBus[pkgDomain.Query[tripApp.SearchCitiesData], tripApp.SearchCitiesData, []tripDomain.City](appLogger),
		apiClient,
		eventBus,
		appLogger,
	)

	gateway := payment.NewGateway(ctx, paymentInfra.ProviderConfig{
		BaseURL:   cfg.PaymentAPIURL,
		PublicKey: cfg.PaymentPublicKey,
	}, appLogger)
	paymentSlice := payment.NewPaymentSlice(gateway, eventBus, appLogger, cfg.SiteOrigin)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		web.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	tripSlice.RegisterRoutes(router)
	paymentSlice.RegisterRoutes(router)
	activitySlice.RegisterRoutes(router)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
	})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		appLogger.Info(ctx, "Sinal capturado", map[string]interface{}{"signal": sig.String()})
		cancel()
	}()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           corsHandler.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info(ctx, "Servidor iniciando em "+cfg.HTTPAddr, nil)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			pkgApp.LogError(ctx, appLogger, "Erro ao iniciar o servidor", err, nil)
			cancel()
		}
	}()

	<-ctx.Done()
	appLogger.Info(context.Background(), "Encerrando servidor...", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		pkgApp.LogError(shutdownCtx, appLogger, "Erro ao encerrar servidor", err, nil)
	}
	closeAll(shutdownCtx, appLogger, closers)
	if err := shutdownTracing(shutdownCtx); err != nil {
		pkgApp.LogError(shutdownCtx, appLogger, "Erro ao descarregar os traces", err, nil)
	}

	appLogger.Info(context.Background(), "Servidor encerrado", nil)
	// stdout costuma devolver EINVAL no Sync; não há o que fazer com o erro.
	_ = zapAdapter.Flush(appLogger)
}

func closeAll(ctx context.Context, appLogger pkgApp.AppLogger, closers []io.Closer) {
	for _, closer := range closers {
		if err := closer.Close(); err != nil {
			pkgApp.LogWarn(ctx, appLogger, "Erro ao fechar recurso do barramento de eventos", err, nil)
		}
	}
}
