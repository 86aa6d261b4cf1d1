package cmd

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/perfumery/internal/config"
	"github.com/Alturino/perfumery/internal/log"
	"github.com/Alturino/perfumery/internal/metrics"
	"github.com/Alturino/perfumery/internal/remote"
	"github.com/Alturino/perfumery/product/internal/controller"
	"github.com/Alturino/perfumery/product/internal/service"
)

func AttachProductService(
	c context.Context,
	router *mux.Router,
	store remote.ProductReader,
	cache *redis.Client,
	cfg config.Cache,
	m *metrics.Storefront,
) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main AttachProductService").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing productService").Logger()
	logger.Info().Msg("initializing productService")
	productService := service.NewProductService(store, cache, cfg.CatalogTTL, m)
	logger.Info().Msg("initialized productService")

	logger = logger.With().Str(log.KeyProcess, "attaching product controller").Logger()
	logger.Info().Msg("attaching product controller")
	controller.AttachProductController(router, productService)
	logger.Info().Msg("attached product controller")
}
