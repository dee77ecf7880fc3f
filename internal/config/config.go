package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverMemory  = "memory"
	DriverChannel = "channel"
	DriverRedis   = "redis"
	DriverKafka   = "kafka"
)

// Config reúne tudo que o BFF lê do ambiente.
type Config struct {
	ServiceName string
	HTTPAddr    string
	LogLevel    string

	APIBaseURL string

	PaymentPublicKey string
	PaymentAPIURL    string
	SiteOrigin       string

	CORSAllowedOrigins []string

	EventBusDriver     string
	EventConsumerGroup string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	KafkaBrokers       []string

	DatabaseDSN  string
	OTLPEndpoint string

	// ActivityJWTSecret assina os tokens de GET /activity; vazio desliga a rota.
	ActivityJWTSecret string
}

// LoadDotEnv carrega um .env quando existe. Variáveis já definidas no
// ambiente não são sobrescritas. Devolve false se não havia arquivo.
func LoadDotEnv(filenames ...string) bool {
	return godotenv.Load(filenames...) == nil
}

func Load() Config {
	siteOrigin := strings.TrimRight(getEnv("SITE_ORIGIN", "http://localhost:3000"), "/")

	return Config{
		ServiceName: getEnv("SERVICE_NAME", "bus-booking-bff"),
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		APIBaseURL: getEnv("API_BASE_URL", "http://127.0.0.1:8000/api"),

		PaymentPublicKey: getEnv("PAYMENT_PUBLIC_KEY", ""),
		PaymentAPIURL:    getEnv("PAYMENT_API_URL", "https://api.stripe.com"),
		SiteOrigin:       siteOrigin,

		CORSAllowedOrigins: getStringSliceEnv("CORS_ALLOWED_ORIGINS", []string{siteOrigin}),

		EventBusDriver:     strings.ToLower(getEnv("EVENT_BUS_DRIVER", DriverMemory)),
		EventConsumerGroup: getEnv("EVENT_CONSUMER_GROUP", "bus-booking-bff"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getIntEnv("REDIS_DB", 0),
		KafkaBrokers:       getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),

		DatabaseDSN:  getEnv("DATABASE_DSN", ""),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		ActivityJWTSecret: getEnv("ACTIVITY_JWT_SECRET", ""),
	}
}

var ErrUnknownDriver = errors.New("unknown event bus driver")

// Validate só rejeita o que impede o processo de subir. Chave de pagamento
// ausente não é erro aqui: a confirmação é que falha.
func (c Config) Validate() error {
	switch c.EventBusDriver {
	case DriverMemory, DriverChannel, DriverRedis, DriverKafka:
	default:
		return ErrUnknownDriver
	}
	if c.APIBaseURL == "" {
		return errors.New("API_BASE_URL must not be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getStringSliceEnv lê uma lista separada por vírgulas.
func getStringSliceEnv(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		var result []string
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
