package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Alturino/perfumery/internal/constants"
	"github.com/Alturino/perfumery/internal/log"
)

func Start() {
	logger := log.Get("/var/log/perfumery.log", os.Getenv("APPLICATION_ENV")).
		With().
		Str(log.KeyAppName, constants.APP_MAIN_PERFUMERY).
		Str(log.KeyTag, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{Use: "perfumery"}
	commands := []*cobra.Command{
		{
			Use:   "storefront",
			Short: "Run storefront serving catalog, carts and checkout",
			Run: func(cmd *cobra.Command, args []string) {
				runStorefront(cmd.Context())
			},
		},
		{
			Use:   "notification",
			Short: "Run notification service",
			Run: func(cmd *cobra.Command, args []string) {
				runNotificationService(cmd.Context())
			},
		},
	}
	rootCmd.AddCommand(commands...)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
