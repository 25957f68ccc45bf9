package integration

import (
	"context"
	"time"

	kafkatc "github.com/testcontainers/testcontainers-go/modules/kafka"
	postgrestc "github.com/testcontainers/testcontainers-go/modules/postgres"
	redistc "github.com/testcontainers/testcontainers-go/modules/redis"
)

type Env struct {
	PG    *postgrestc.PostgresContainer
	Kafka *kafkatc.KafkaContainer
	Redis *redistc.RedisContainer

	PGURL     string
	KafkaAddr []string
	RedisURL  string

	cancel context.CancelFunc
}

func Setup(ctx context.Context) (*Env, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)

	pgC, err := postgrestc.Run(ctx,
		"postgres:16-alpine",
		postgrestc.WithDatabase("orderflow"),
		postgrestc.WithUsername("postgres"),
		postgrestc.WithPassword("postgres"),
		postgrestc.BasicWaitStrategies(),
	)
	if err != nil {
		cancel()
		return nil, err
	}

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		cancel()
		return nil, err
	}

	kafkaC, err := kafkatc.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		kafkatc.WithClusterID("orderflow-test"),
	)
	if err != nil {
		cancel()
		return nil, err
	}

	brokers, err := kafkaC.Brokers(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	redisC, err := redistc.Run(ctx, "redis:7-alpine")
	if err != nil {
		cancel()
		return nil, err
	}

	redisURL, err := redisC.ConnectionString(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	return &Env{
		PG:        pgC,
		Kafka:     kafkaC,
		Redis:     redisC,
		PGURL:     pgURL,
		KafkaAddr: brokers,
		RedisURL:  redisURL,
		cancel:    cancel,
	}, nil
}

func (e *Env) Teardown(ctx context.Context) {
	e.cancel()
	_ = e.Redis.Terminate(ctx)
	_ = e.Kafka.Terminate(ctx)
	_ = e.PG.Terminate(ctx)
}
