package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mateusmacedo/bus-booking-bff/pkg/application"
)

func TestZapAppLoggerAddsRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewFromZap(zap.New(core))

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-7")
	logger.Warn(ctx, "Evento de atividade não publicado", map[string]interface{}{
		"event_name": "TripsSearched",
		"cause":      errors.New("broker down"),
	})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Level != zapcore.WarnLevel || entry.Message != "Evento de atividade não publicado" {
		t.Errorf("unexpected entry %+v", entry.Entry)
	}
	fields := entry.ContextMap()
	if fields["request_id"] != "req-7" || fields["event_name"] != "TripsSearched" || fields["cause"] != "broker down" {
		t.Errorf("unexpected fields %v", fields)
	}
}

func TestZapAppLoggerRespectsLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := NewFromZap(zap.New(core))

	logger.Debug(context.Background(), "hidden", nil)
	logger.Info(context.Background(), "shown", nil)

	if logs.Len() != 1 || logs.All()[0].Message != "shown" {
		t.Fatalf("unexpected entries %+v", logs.All())
	}
	if _, ok := logs.All()[0].ContextMap()["request_id"]; ok {
		t.Error("request_id should be absent")
	}
}

func TestNewZapAppLoggerFallsBackToInfo(t *testing.T) {
	if _, err := NewZapAppLogger(Config{App: "test", Level: "loud"}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestLogTraceWritesAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewFromZap(zap.New(core))

	fields := map[string]interface{}{"operation": "trips search"}
	application.LogTrace(context.Background(), logger, "Requisição à API", fields)

	if logs.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Level != zapcore.DebugLevel || entry.ContextMap()["operation"] != "trips search" {
		t.Errorf("unexpected entry %+v", entry)
	}
	if len(fields) != 1 {
		t.Errorf("caller fields must not be modified, got %v", fields)
	}
}

type unbufferedLogger struct {
	application.AppLogger
}

func TestFlush(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	if err := Flush(NewFromZap(zap.New(core))); err != nil {
		t.Errorf("unexpected error %v", err)
	}
	if err := Flush(unbufferedLogger{}); err != nil {
		t.Errorf("loggers without Sync should be ignored, got %v", err)
	}
}
