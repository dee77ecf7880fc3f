package main

import (
	"context"
	"fmt"
	"io"

	"github.com/ThreeDotsLabs/watermill/message"

	activityApp "github.com/mateusmacedo/bus-booking-bff/internal/activity/application"
	activityDomain "github.com/mateusmacedo/bus-booking-bff/internal/activity/domain"
	"github.com/mateusmacedo/bus-booking-bff/internal/config"
	pkgApp "github.com/mateusmacedo/bus-booking-bff/pkg/application"
	pkgInfra "github.com/mateusmacedo/bus-booking-bff/pkg/infrastructure"
	channelsAdapter "github.com/mateusmacedo/bus-booking-bff/pkg/infrastructure/channels/adapter"
	kafkaAdapter "github.com/mateusmacedo/bus-booking-bff/pkg/infrastructure/kafka/adapter"
	redisAdapter "github.com/mateusmacedo/bus-booking-bff/pkg/infrastructure/redis/adapter"
	watermillAdapter "github.com/mateusmacedo/bus-booking-bff/pkg/infrastructure/watermill/adapter"
)

// newActivityEventBus escolhe o transporte dos eventos de atividade. Os
// closers devolvidos devem ser fechados no encerramento, na ordem dada.
func newActivityEventBus(ctx context.Context, cfg config.Config, appLogger pkgApp.AppLogger) (activityApp.EventBus, []io.Closer, error) {
	if cfg.EventBusDriver == config.DriverMemory {
		return pkgInfra.NewSimpleEventBus[activityApp.Event, activityDomain.Activity](appLogger), nil, nil
	}

	wmLogger := watermillAdapter.NewWatermillLoggerAdapter(appLogger)
	consumer := cfg.ServiceName + "-" + pkgInfra.GenerateUUID()

	var (
		publisher  message.Publisher
		subscriber message.Subscriber
		closers    []io.Closer
	)

	switch cfg.EventBusDriver {
	case config.DriverChannel:
		pubSub := channelsAdapter.NewGoChannelPubSub(wmLogger)
		publisher, subscriber = pubSub, pubSub
		closers = append(closers, pubSub)

	case config.DriverRedis:
		redisCfg := redisAdapter.Config{
			Addr:          cfg.RedisAddr,
			Password:      cfg.RedisPassword,
			DB:            cfg.RedisDB,
			ConsumerGroup: cfg.EventConsumerGroup,
			Consumer:      consumer,
		}
		client, err := redisAdapter.NewRedisClient(ctx, redisCfg)
		if err != nil {
			return nil, nil, err
		}
		pub, sub, err := redisAdapter.NewStreamPubSub(client, redisCfg, wmLogger)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		publisher, subscriber = pub, sub
		closers = append(closers, sub, pub, client)

	case config.DriverKafka:
		pub, sub, err := kafkaAdapter.NewKafkaPubSub(kafkaAdapter.Config{
			Brokers:       cfg.KafkaBrokers,
			ConsumerGroup: cfg.EventConsumerGroup,
			ClientID:      consumer,
		}, wmLogger)
		if err != nil {
			return nil, nil, err
		}
		publisher, subscriber = pub, sub
		closers = append(closers, sub, pub)

	default:
		return nil, nil, fmt.Errorf("%w: %s", config.ErrUnknownDriver, cfg.EventBusDriver)
	}

	pkgApp.LogInfo(ctx, appLogger, "Barramento de eventos pronto", map[string]interface{}{
		"driver": cfg.EventBusDriver,
	})
	return watermillAdapter.NewWatermillEventBus[activityApp.Event, activityDomain.Activity](ctx, publisher, subscriber, appLogger), closers, nil
}
