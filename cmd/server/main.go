package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/commander-tracker/internal/api"
	"github.com/mcoot/commander-tracker/internal/config"
	"github.com/mcoot/commander-tracker/internal/factory"
	"github.com/mcoot/commander-tracker/internal/web"
)

// Hubs left without watchers for this long are shut down
const hubIdleTimeout = 5 * time.Minute

func main() {
	env, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: env.LogLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, env, logger)
	stop()
	if err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// run serves until ctx is cancelled. Storage is closed before it returns.
func run(ctx context.Context, env config.Config, logger *slog.Logger) error {
	app, err := factory.New(factory.ConfigFromEnv(env, logger))
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("close storage", slog.String("error", err.Error()))
		}
	}()

	// API routes first so /api paths never fall through to the pages
	router := mux.NewRouter()
	api.Mount(router, api.RouterConfig{
		Logger:           logger,
		GameController:   app.GameController,
		CommanderService: app.CommanderService,
		CardClient:       app.CardClient,
	})
	web.Mount(router, web.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
		HubManager:     app.HubManager,
		Broadcaster:    app.Broadcaster,

		CardClient:       app.CardClient,
		CommanderService: app.CommanderService,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = env.Host
	serverConfig.Port = env.Port
	server := api.NewServer(router, serverConfig, logger)

	// Open event streams would otherwise hold shutdown until the timeout
	server.OnShutdown(app.HubManager.Close)

	go app.HubManager.RunCleanup(ctx, hubIdleTimeout)

	logger.Info("server starting",
		slog.String("addr", server.Addr()),
		slog.String("storage", env.StorageType),
	)
	return server.Run(ctx)
}
