package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	cartCmd "github.com/Alturino/perfumery/cart/cmd"
	"github.com/Alturino/perfumery/internal/config"
	"github.com/Alturino/perfumery/internal/constants"
	"github.com/Alturino/perfumery/internal/infra"
	"github.com/Alturino/perfumery/internal/log"
	"github.com/Alturino/perfumery/internal/metrics"
	"github.com/Alturino/perfumery/internal/otel"
	"github.com/Alturino/perfumery/internal/remote"
	"github.com/Alturino/perfumery/internal/remote/postgrest"
	"github.com/Alturino/perfumery/internal/repository"
	"github.com/Alturino/perfumery/internal/session"
	orderCmd "github.com/Alturino/perfumery/order/cmd"
	productCmd "github.com/Alturino/perfumery/product/cmd"
)

const shutdownTimeout = 10 * time.Second

func runStorefront(c context.Context) {
	c, span := otel.Tracer.Start(c, "main runStorefront")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyAppName, constants.APP_STOREFRONT).
		Str(log.KeyTag, "main runStorefront").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.Get(c, constants.APP_STOREFRONT)
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	shutdownFuncs, err := otel.InitOtelSdk(c, constants.APP_STOREFRONT, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("initialized otel sdk")
	defer func() {
		logger := logger.With().Str(log.KeyProcess, "shutting down otel").Logger()
		logger.Info().Msg("shutting down otel")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(c), shutdownTimeout)
		defer cancel()
		if err := otel.ShutdownOtel(shutdownCtx, shutdownFuncs); err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()

	logger = logger.With().
		Str(log.KeyProcess, "initializing remote store").
		Str(log.KeyRemoteBackend, cfg.Remote.Backend).
		Logger()
	logger.Info().Msg("initializing remote store")
	c = logger.WithContext(c)
	var store remote.Store
	switch cfg.Remote.Backend {
	case config.RemoteBackendPostgrest:
		store = postgrest.NewClient(cfg.Remote)
	case config.RemoteBackendPostgres:
		db := infra.NewDatabaseClient(c, cfg.Database)
		defer func() {
			logger := logger.With().Str(log.KeyProcess, "shutting down database connection").Logger()
			logger.Info().Msg("shutting down database connection")
			db.Close()
			logger.Info().Msg("shutdown database connection")
		}()
		store = repository.NewStore(db)
	default:
		err = fmt.Errorf("unknown remote backend=%s", cfg.Remote.Backend)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("initialized remote store")

	logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	c = logger.WithContext(c)
	cache := infra.NewCacheClient(c, cfg.Cache)
	logger.Info().Msg("initialized cache")
	defer func() {
		logger := logger.With().Str(log.KeyProcess, "shutting down cache connection").Logger()
		logger.Info().Msg("shutting down cache connection")
		if err := cache.Close(); err != nil {
			err = fmt.Errorf("failed closing cache with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown cache connection")
	}()

	logger = logger.With().Str(log.KeyProcess, "initializing metrics").Logger()
	logger.Info().Msg("initializing metrics")
	storefrontMetrics := metrics.NewStorefront(prometheus.DefaultRegisterer)
	logger.Info().Msg("initialized metrics")

	logger = logger.With().Str(log.KeyProcess, "initializing session registry").Logger()
	logger.Info().Msg("initializing session registry")
	registry := session.NewRegistry(
		store,
		session.WithIdleTimeout(cfg.Session.IdleTimeout),
		session.WithSweepInterval(cfg.Session.SweepInterval),
		session.WithDismissDelay(cfg.Checkout.DismissDelay),
		session.WithCurrency(cfg.Checkout.Currency),
		session.WithMetrics(storefrontMetrics),
	)
	c = logger.WithContext(c)
	go registry.Run(c)
	logger.Info().Msg("initialized session registry")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := mux.NewRouter()
	router.StrictSlash(true)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	logger.Info().Msg("initialized router")

	// checkout routes share the /carts prefix and must be matched first
	c = logger.WithContext(c)
	orderCmd.AttachOrderService(c, router, registry, cache)
	cartCmd.AttachCartService(c, router, registry, store)
	productCmd.AttachProductService(c, router, store, cache, cfg.Cache, storefrontMetrics)

	logger = logger.With().Str(log.KeyProcess, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	server := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Remote.Timeout * 3,
	}
	logger.Info().Msg("initialized server")

	c, cancelServe := context.WithCancel(c)
	defer cancelServe()
	go func() {
		logger := logger.With().Str(log.KeyProcess, "start server").Logger()
		logger.Info().Msgf("start listening request at %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("encounter error=%w while running server", err)
			logger.Error().Err(err).Msg(err.Error())
			cancelServe()
			return
		}
		logger.Info().Msg("shutdown server")
	}()

	<-c.Done()
	logger = logger.With().Str(log.KeyProcess, "shutdown server").Logger()
	logger.Info().Msg("received interuption signal shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(c), shutdownTimeout)
	defer cancel()
	if err = server.Shutdown(shutdownCtx); err != nil {
		err = fmt.Errorf("failed shutting down server with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("server completely shutdown")
}
