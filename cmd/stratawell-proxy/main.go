// Command stratawell-proxy forwards frontend API calls to the backend,
// turning auth cookies into bearer tokens.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dalemusser/stratawell/internal/proxy/bootstrap"
	"github.com/dalemusser/waffle/app"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, bootstrap.Hooks); err != nil {
		logger, _ := zap.NewProduction()
		logger.Fatal("stratawell-proxy exited with error", zap.Error(err))
	}
}
