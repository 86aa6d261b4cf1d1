package cmd

import (
	"context"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/perfumery/cart/internal/controller"
	"github.com/Alturino/perfumery/cart/internal/service"
	"github.com/Alturino/perfumery/internal/log"
	"github.com/Alturino/perfumery/internal/remote"
	"github.com/Alturino/perfumery/internal/session"
)

func AttachCartService(
	c context.Context,
	router *mux.Router,
	sessions *session.Registry,
	products remote.ProductReader,
) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "main AttachCartService").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing cartService").Logger()
	logger.Info().Msg("initializing cartService")
	cartService := service.NewCartService(sessions, products)
	logger.Info().Msg("initialized cartService")

	logger = logger.With().Str(log.KeyProcess, "attaching cart controller").Logger()
	logger.Info().Msg("attaching cart controller")
	controller.AttachCartController(router, cartService)
	logger.Info().Msg("attached cart controller")
}
