package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abgdnv/products/internal/config"
	"github.com/abgdnv/products/internal/store"
	"github.com/abgdnv/products/pkg/bootstrap"
	pkgconfig "github.com/abgdnv/products/pkg/config"
	"github.com/abgdnv/products/pkg/messaging"
	"github.com/abgdnv/products/pkg/nats"
)

// NewProductStore opens the configured store. For postgres it applies pending migrations
// when database.migrate is set. The returned func releases the store's resources.
func NewProductStore(ctx context.Context, cfg pkgconfig.DatabaseConfig, logger *slog.Logger) (store.ProductStore, func(), error) {
	if cfg.Driver == pkgconfig.DriverMemory {
		logger.Warn("Using in-memory product store, data is lost on restart")
		return store.NewMemoryStore(), func() {}, nil
	}

	if cfg.Migrate {
		version, err := store.Migrate(cfg.URL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Database schema is up to date", slog.Uint64("version", uint64(version)))
	}

	dbPool, err := bootstrap.NewDbPool(ctx, cfg.URL, cfg.Timeout)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Successfully connected to the database!")
	return store.NewPgStore(dbPool), dbPool.Close, nil
}

// NewPublisher connects to NATS JetStream and returns a retrying publisher behind a
// circuit breaker. When NATS is disabled events are dropped.
func NewPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.NATS.Enabled {
		logger.Info("NATS is disabled, product events are not published")
		return messaging.NoopPublisher{}, func() {}, nil
	}

	nc, err := nats.NewClient(cfg.NATS.Url, cfg.NATS.Timeout)
	if err != nil {
		return nil, nil, err
	}
	js, err := nats.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, err
	}
	if err := nats.EnsureStream(ctx, js, cfg.NATS.Stream, messaging.ProductsSubjects); err != nil {
		nc.Close()
		return nil, nil, err
	}
	logger.Info("Connected to NATS", slog.String("stream", cfg.NATS.Stream))

	publisher := nats.NewNatsPublisher(js, cfg.Resilience.Retry.MaxAttempts, cfg.Resilience.Retry.InitialBackoff)
	breaker := messaging.NewBreakerPublisher(fmt.Sprintf("nats-%s", cfg.NATS.Stream), publisher, cfg.Resilience.CircuitBreaker)
	return breaker, func() { _ = nc.Drain() }, nil
}
