package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"

	"github.com/aniruddhha/orderflow/internal/fulfillment/application"
	fulfillmenthttp "github.com/aniruddhha/orderflow/internal/fulfillment/infrastructure/http"
	fulfillmentpg "github.com/aniruddhha/orderflow/internal/fulfillment/infrastructure/postgres"
	"github.com/aniruddhha/orderflow/pkg/config"
	"github.com/aniruddhha/orderflow/pkg/idempotency"
	"github.com/aniruddhha/orderflow/pkg/logging"
	"github.com/aniruddhha/orderflow/pkg/outbox"
	"github.com/aniruddhha/orderflow/pkg/shutdown"
	"github.com/aniruddhha/orderflow/pkg/tracing"
)

func main() {
	cfg := config.Load()
	log := logging.New("fulfillment-service", cfg.LogLevel)

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	tp, err := tracing.Init(ctx, "fulfillment-service", cfg.OTLPAddr, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	pool, err := pgxpool.New(ctx, cfg.PGURL)
	if err != nil {
		log.Error("pg connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := fulfillmentpg.Migrate(ctx, pool); err != nil {
		log.Error("migrate failed", "err", err)
		os.Exit(1)
	}
	if cfg.SeedOnStart {
		if err := fulfillmentpg.Seed(ctx, pool); err != nil {
			log.Error("seed failed", "err", err)
			os.Exit(1)
		}
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() { _ = rdb.Close() }()
	idem := idempotency.NewStore(rdb, 24*time.Hour)

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaAddr),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
	}
	defer func() { _ = writer.Close() }()

	repo := fulfillmentpg.NewRepository(log, pool)
	store := fulfillmentpg.NewOutboxStore(log, pool)
	dispatch := outbox.NewDispatcher(log, writer, cfg.OutboxTopic)
	relay := outbox.NewRelay(log, store, dispatch, "fulfillment-relay")

	svc := application.NewService(log, repo)
	handler := fulfillmenthttp.NewHandler(log, svc)

	r := chi.NewRouter()
	r.Use(idempotency.Middleware(log, idem))
	r.Mount("/", handler.Routes())

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return relay.Run(ctx)
	})
	g.Go(func() error {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("service stopped with error", "err", err)
		os.Exit(1)
	}
	log.Info("fulfillment-service shutdown complete")
}
