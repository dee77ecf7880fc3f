package infrastructure

import (
	"context"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mateusmacedo/bus-booking-bff/internal/activity/domain"
	"github.com/mateusmacedo/bus-booking-bff/pkg/application"
)

type gormActivityRepository struct {
	db     *gorm.DB
	logger application.AppLogger
}

func NewGormActivityRepository(dsn string, logger application.AppLogger) (domain.ActivityRepository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err = db.AutoMigrate(&domain.Activity{}); err != nil {
		return nil, err
	}

	return NewGormActivityRepositoryFromDB(db, logger), nil
}

// NewGormActivityRepositoryFromDB usa uma conexão já aberta e migrada.
func NewGormActivityRepositoryFromDB(db *gorm.DB, logger application.AppLogger) domain.ActivityRepository {
	return &gormActivityRepository{
		db:     db,
		logger: logger,
	}
}

func (r *gormActivityRepository) Save(ctx context.Context, activity domain.Activity) error {
	if err := r.db.WithContext(ctx).Create(&activity).Error; err != nil {
		application.LogError(ctx, r.logger, "Erro ao salvar atividade", err, map[string]interface{}{
			"activity_id": activity.ID,
			"kind":        activity.Kind,
		})
		return err
	}

	application.LogDebug(ctx, r.logger, "Atividade salva", map[string]interface{}{
		"activity_id": activity.ID,
	})
	return nil
}

func (r *gormActivityRepository) FindByRequestID(ctx context.Context, requestID string) ([]domain.Activity, error) {
	var activities []domain.Activity

	if err := r.db.WithContext(ctx).Where("request_id = ?", requestID).Order("occurred_at").Find(&activities).Error; err != nil {
		application.LogError(ctx, r.logger, "Erro ao buscar atividades", err, map[string]interface{}{
			"request_id_filter": requestID,
		})
		return nil, err
	}

	return activities, nil
}
