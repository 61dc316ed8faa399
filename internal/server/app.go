// Package server wires the gophbudget server: it selects the document store
// backend, builds the gRPC server, and stops gracefully on SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophbudget/internal/logging"
	"github.com/dmitrijs2005/gophbudget/internal/server/auth"
	"github.com/dmitrijs2005/gophbudget/internal/server/config"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophbudget/internal/server/services"

	gs "github.com/dmitrijs2005/gophbudget/internal/server/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager repomanager.RepositoryManager
	server  *gs.GRPCServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel, true)

	m, err := repomanager.New(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	logger.Info(ctx, "Storage ready", "backend", c.Storage)

	ds := services.NewDocumentService(m.Documents())
	s := gs.NewGRPCServer(c.EndpointAddrGRPC, logger, ds, c.SecretKey)

	return &App{config: c, logger: logger, manager: m, server: s}, nil
}

// IssueToken mints an owner token signed with the configured secret.
func IssueToken(c *config.Config, ownerID string) (string, error) {
	return auth.GenerateToken(ownerID, []byte(c.SecretKey), c.TokenValidityDuration)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is canceled or a signal arrives, then releases the
// storage backend.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.manager.Close(); err != nil {
		app.logger.Error(ctx, "storage close error", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}
