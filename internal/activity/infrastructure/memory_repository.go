package infrastructure

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/mateusmacedo/bus-booking-bff/internal/activity/domain"
	"github.com/mateusmacedo/bus-booking-bff/pkg/application"
)

var ErrActivityExists = errors.New("activity already exists")

// InMemoryActivityRepository guarda a atividade enquanto o processo vive.
type InMemoryActivityRepository struct {
	mu     sync.RWMutex
	data   map[string]domain.Activity
	logger application.AppLogger
}

func NewInMemoryActivityRepository(logger application.AppLogger) *InMemoryActivityRepository {
	return &InMemoryActivityRepository{
		data:   make(map[string]domain.Activity),
		logger: logger,
	}
}

func (r *InMemoryActivityRepository) Save(ctx context.Context, activity domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[activity.ID]; exists {
		application.LogWarn(ctx, r.logger, "Atividade não salva", ErrActivityExists, map[string]interface{}{
			"activity_id": activity.ID,
		})
		return ErrActivityExists
	}
	r.data[activity.ID] = activity
	return nil
}

func (r *InMemoryActivityRepository) FindByRequestID(_ context.Context, requestID string) ([]domain.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activities := []domain.Activity{}
	for _, activity := range r.data {
		if activity.RequestID == requestID {
			activities = append(activities, activity)
		}
	}
	sort.Slice(activities, func(i, j int) bool {
		return activities[i].OccurredAt.Before(activities[j].OccurredAt)
	})
	return activities, nil
}

func (r *InMemoryActivityRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}
