package cmd

import (
	"context"

	"github.com/Alturino/perfumery/notification/cmd"
)

func runNotificationService(c context.Context) {
	cmd.RunNotificationService(c)
}
