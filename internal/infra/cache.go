package infra

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/Alturino/perfumery/internal/config"
	"github.com/Alturino/perfumery/internal/log"
	"github.com/Alturino/perfumery/internal/otel"
)

const cachePingTimeout = 5 * time.Second

var (
	cacheOnce sync.Once
	cache     *redis.Client
)

// NewCache connects an instrumented redis client used for the catalog cache and
// the order-created channel.
func NewCache(c context.Context, cacheConfig config.Cache) (*redis.Client, error) {
	c, span := otel.Tracer.Start(c, "infra NewCache")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "infra NewCache").
		Str(log.KeyRequestHost, cacheConfig.Host).
		Logger()

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cacheConfig.Host, cacheConfig.Port),
		Password: cacheConfig.Password,
		DB:       cacheConfig.Database,
	})

	logger = logger.With().Str(log.KeyProcess, "instrumenting redis client").Logger()
	logger.Info().Msg("instrumenting redis client")
	if err := redisotel.InstrumentTracing(client, redisotel.WithAttributes(semconv.DBSystemRedis)); err != nil {
		_ = client.Close()
		err = fmt.Errorf("failed instrumenting redis tracing with error=%w", err)
		otel.RecordError(err, span)
		return nil, err
	}
	if err := redisotel.InstrumentMetrics(client, redisotel.WithAttributes(semconv.DBSystemRedis)); err != nil {
		_ = client.Close()
		err = fmt.Errorf("failed instrumenting redis metrics with error=%w", err)
		otel.RecordError(err, span)
		return nil, err
	}
	logger.Info().Msg("instrumented redis client")

	logger = logger.With().Str(log.KeyProcess, "pinging redis").Logger()
	logger.Info().Msg("pinging redis")
	pingCtx, cancel := context.WithTimeout(c, cachePingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		err = fmt.Errorf("failed pinging redis with error=%w", err)
		otel.RecordError(err, span)
		return nil, err
	}
	logger.Info().Msg("pinged redis")

	return client, nil
}

// NewCacheClient returns the process wide redis client and exits when redis is unreachable.
func NewCacheClient(c context.Context, cacheConfig config.Cache) *redis.Client {
	cacheOnce.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyTag, "main NewCacheClient").
			Str(log.KeyProcess, "connecting to redis").
			Logger()

		logger.Info().Msg("connecting to redis")
		client, err := NewCache(logger.WithContext(c), cacheConfig)
		if err != nil {
			err = fmt.Errorf("failed connecting to redis with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		cache = client
		logger.Info().Msg("connected to redis")
	})
	return cache
}
