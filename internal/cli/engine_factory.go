package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/bayesnet"
	"github.com/aretw0/bayesnet/internal/config"
	"github.com/aretw0/bayesnet/pkg/adapters/file"
	"github.com/aretw0/bayesnet/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/bayesnet/pkg/adapters/redis"
	"github.com/aretw0/bayesnet/pkg/observability"
	"github.com/aretw0/bayesnet/pkg/persistence/middleware"
	"github.com/aretw0/bayesnet/pkg/ports"
	"github.com/aretw0/bayesnet/pkg/sampling"
)

// Closer releases whatever the engine factory opened (e.g. a Redis connection).
type Closer func() error

// NewEngine initializes an engine from the configuration with standard CLI conventions.
// When reg is not nil, run and cache metrics are registered with it.
func NewEngine(ctx context.Context, cfg config.Config, logger *slog.Logger, reg prometheus.Registerer) (*bayesnet.Engine, Closer, error) {
	alg, err := sampling.ParseAlgorithm(cfg.Algorithm)
	if err != nil {
		return nil, nil, err
	}

	opts := []bayesnet.Option{
		bayesnet.WithLogger(logger),
		bayesnet.WithDefaultAlgorithm(alg),
		bayesnet.WithDefaultSamples(cfg.Samples),
		bayesnet.WithMaxSamples(cfg.MaxSamples),
		bayesnet.WithSeed(cfg.Seed),
		bayesnet.WithWorkers(cfg.Workers),
		bayesnet.WithBurnIn(cfg.BurnIn),
	}
	if reg != nil {
		opts = append(opts, bayesnet.WithObserver(observability.NewMetrics(reg)))
	}

	var store ports.ResultStore
	closer := Closer(func() error { return nil })
	switch cfg.Cache.Backend {
	case config.CacheNone:
	case config.CacheFile:
		store = file.NewStore(cfg.Cache.File.Dir, file.WithTTL(cfg.Cache.TTL))
		logger.Debug("Using file result cache", "dir", cfg.Cache.File.Dir)
	case config.CacheRedis:
		prefix := cfg.Cache.Redis.Prefix
		if prefix == "" {
			prefix = redisAdapter.DefaultPrefix
		}
		rdb := redisAdapter.New(cfg.Cache.Redis.Addr, "", 0,
			redisAdapter.WithPrefix(prefix),
			redisAdapter.WithTTL(cfg.Cache.TTL),
		)
		if err := rdb.Ping(ctx); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Cache.Redis.Addr, err)
		}
		store = rdb
		opts = append(opts, bayesnet.WithLocker(redisAdapter.NewLocker(rdb.Client(), prefix)))
		closer = rdb.Close
		logger.Debug("Using redis result cache", "addr", cfg.Cache.Redis.Addr, "prefix", prefix)
	default:
		store = memory.NewStore(memory.WithTTL(cfg.Cache.TTL))
	}

	if store != nil && cfg.Cache.EncryptionKey != "" {
		key, err := middleware.ParseKey(cfg.Cache.EncryptionKey)
		if err != nil {
			_ = closer()
			return nil, nil, err
		}
		store = middleware.Chain(store, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}
	opts = append(opts, bayesnet.WithStore(store))

	engine, err := bayesnet.New(opts...)
	if err != nil {
		_ = closer()
		return nil, nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, closer, nil
}
