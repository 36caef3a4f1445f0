// Package server initializes and runs the main application server.
// It validates configuration, connects storage backends, handles graceful
// shutdown, and starts the HTTP server for the login flow and guarded pages.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/admingate/internal/logging"
	"github.com/dmitrijs2005/admingate/internal/server/config"
	"github.com/dmitrijs2005/admingate/internal/server/httpapi"
	"github.com/dmitrijs2005/admingate/internal/server/limiter"
	"github.com/dmitrijs2005/admingate/internal/server/services"
	"github.com/dmitrijs2005/admingate/internal/server/shared/db"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	repos      db.RepositoryManager
	redis      *redis.Client
	httpServer *httpapi.HTTPServer
}

func NewApp(c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	rm, err := db.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
	lim := limiter.New(redisClient, limiter.Config{
		MaxAttempts: c.MaxLoginAttempts,
		Window:      c.LoginAttemptWindow,
	})

	loginService, err := services.NewLoginService(rm.Users(), lim, logger, c)
	if err != nil {
		return nil, fmt.Errorf("login service init error: %w", err)
	}

	httpServer := httpapi.NewHTTPServer(c, logger, loginService)

	return &App{config: c, logger: logger, repos: rm, redis: redisClient, httpServer: httpServer}, nil
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
	if err := app.httpServer.Run(ctx); err != nil {
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

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
	if err := app.redis.Close(); err != nil {
		app.logger.Error(ctx, "redis close error", "error", err.Error())
	}
}
