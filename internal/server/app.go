// Package server initializes and runs the trove server: it builds the
// configuration, opens the database and applies migrations, wires the
// services, and runs the HTTP endpoint until shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/mpetrovs/trove/internal/logging"
	"github.com/mpetrovs/trove/internal/server/auth"
	"github.com/mpetrovs/trove/internal/server/config"
	"github.com/mpetrovs/trove/internal/server/filestore"
	httpserver "github.com/mpetrovs/trove/internal/server/http"
	"github.com/mpetrovs/trove/internal/server/repositories/repomanager"
	"github.com/mpetrovs/trove/internal/server/services"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	userService  *services.UserService
	troveService *services.TroveService
}

func NewApp(cfg *config.Config) (*App, error) {

	log := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := repomanager.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	hasher := auth.NewHasher(cfg.SecretKey)
	files := filestore.NewS3Storage(cfg)

	us := services.NewUserService(db, rm, hasher, cfg)
	ts := services.NewTroveService(db, rm, files)

	return &App{config: cfg, logger: log, userService: us, troveService: ts}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpserver.NewServer(app.config.EndpointAddr, app.logger, app.userService, app.troveService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

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
