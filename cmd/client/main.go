package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/gophbudget/internal/client/cli"
	"github.com/dmitrijs2005/gophbudget/internal/client/config"
	"github.com/dmitrijs2005/gophbudget/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel, false)

	app, err := cli.NewApp(ctx, cfg, logger)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error(ctx, "close error", "error", err)
		}
	}()

	app.Run(ctx)

}
