package infrastructure

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mateusmacedo/bus-booking-bff/internal/activity/domain"
	zapAdapter "github.com/mateusmacedo/bus-booking-bff/pkg/infrastructure/zaplogger/adapter"
)

func TestInMemoryActivityRepository(t *testing.T) {
	repo := NewInMemoryActivityRepository(zapAdapter.NewNopAppLogger())
	ctx := context.Background()
	base := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

	for _, activity := range []domain.Activity{
		{ID: "b", RequestID: "req-1", Kind: domain.EventPaymentFailed, OccurredAt: base.Add(time.Minute)},
		{ID: "a", RequestID: "req-1", Kind: domain.EventTripsSearched, OccurredAt: base},
		{ID: "c", RequestID: "req-2", Kind: domain.EventTripsSearched, OccurredAt: base},
	} {
		if err := repo.Save(ctx, activity); err != nil {
			t.Fatalf("Save(%s): %v", activity.ID, err)
		}
	}

	if err := repo.Save(ctx, domain.Activity{ID: "a"}); !errors.Is(err, ErrActivityExists) {
		t.Errorf("expected ErrActivityExists, got %v", err)
	}

	got, err := repo.FindByRequestID(ctx, "req-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("expected [a b] in order, got %+v", got)
	}

	none, err := repo.FindByRequestID(ctx, "unknown")
	if err != nil || none == nil || len(none) != 0 {
		t.Errorf("expected empty list, got %v, %v", none, err)
	}
	if repo.Len() != 3 {
		t.Errorf("expected 3 stored activities, got %d", repo.Len())
	}
}
