package cmd

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Alturino/perfumery/internal/log"
	"github.com/Alturino/perfumery/internal/session"
	"github.com/Alturino/perfumery/order/internal/controller"
	"github.com/Alturino/perfumery/order/internal/service"
)

func AttachOrderService(
	c context.Context,
	router *mux.Router,
	sessions *session.Registry,
	cache *redis.Client,
) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main AttachOrderService").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing orderService").Logger()
	logger.Info().Msg("initializing orderService")
	orderService := service.NewOrderService(sessions, cache)
	logger.Info().Msg("initialized orderService")

	logger = logger.With().Str(log.KeyProcess, "attaching order controller").Logger()
	logger.Info().Msg("attaching order controller")
	controller.AttachOrderController(router, orderService)
	logger.Info().Msg("attached order controller")
}
