// Package server initializes and runs the filedrop application: it wires
// configuration into the store client and HTTP server and handles graceful
// shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/avetrov/filedrop/internal/logging"
	"github.com/avetrov/filedrop/internal/server/config"
	"github.com/avetrov/filedrop/internal/server/httpapi"
	"github.com/avetrov/filedrop/internal/server/storage"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  storage.BlobStore
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	store, err := storage.NewS3Store(ctx, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Region, cfg.S3BaseEndpoint)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	return &App{config: cfg, logger: logger, store: store}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config, app.logger, app.store)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
