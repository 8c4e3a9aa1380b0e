package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/commander-tracker/internal/config"
	"github.com/mcoot/commander-tracker/internal/dependencies/clock"
	"github.com/mcoot/commander-tracker/internal/dependencies/random"
	"github.com/mcoot/commander-tracker/internal/services/cards"
	"github.com/mcoot/commander-tracker/internal/services/commanders"
	"github.com/mcoot/commander-tracker/internal/services/game"
	"github.com/mcoot/commander-tracker/internal/storage"
	"github.com/mcoot/commander-tracker/internal/storage/memory"
	redisstorage "github.com/mcoot/commander-tracker/internal/storage/redis"
	"github.com/mcoot/commander-tracker/internal/storage/sqlite"
	"github.com/mcoot/commander-tracker/internal/web/sse"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	CardClient       *cards.Client
	CommanderService *commanders.Service
	GameController   *game.Controller

	// Live updates
	HubManager  *sse.HubManager
	Broadcaster *sse.Broadcaster

	Logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend: memory, redis or sqlite
	// If empty, defaults to memory
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is redis)
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is sqlite)
	SQLitePath string
	// Cards configures the card database client
	// If BaseURL is empty, cards.DefaultConfig() is used
	Cards cards.Config
}

// ConfigFromEnv maps the environment configuration onto a factory Config
func ConfigFromEnv(env config.Config, logger *slog.Logger) Config {
	cfg := Config{
		Logger:      logger,
		StorageType: env.StorageType,
		SQLitePath:  env.SQLitePath,
		Cards:       cards.DefaultConfig(),
	}
	if env.StorageType == config.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = env.RedisURL
		if env.GameTTL > 0 {
			redisCfg.GameTTL = env.GameTTL
		}
		if env.CommanderTTL > 0 {
			redisCfg.CommanderTTL = env.CommanderTTL
		}
		cfg.RedisConfig = &redisCfg
	}
	if env.ScryfallBaseURL != "" {
		cfg.Cards.BaseURL = env.ScryfallBaseURL
	}
	if env.ScryfallTimeout > 0 {
		cfg.Cards.Timeout = env.ScryfallTimeout
	}
	return cfg
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	cardsCfg := cfg.Cards
	if cardsCfg.BaseURL == "" {
		cardsCfg = cards.DefaultConfig()
	}

	return newWithDependencies(store, clock.New(), random.New(), cardsCfg, logger), nil
}

func newStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = config.StorageTypeMemory
	}

	switch storageType {
	case config.StorageTypeMemory:
		return memory.New(), nil
	case config.StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		store, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, fmt.Errorf("open redis storage: %w", err)
		}
		return store, nil
	case config.StorageTypeSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be memory, redis or sqlite", storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, cardsCfg cards.Config, logger *slog.Logger) *App {
	cardClient := cards.NewClient(cardsCfg, logger)
	commanderService := commanders.New(store, cardClient, clk, logger)
	gameController := game.NewController(store, clk, rnd, logger)
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)
	gameController.SetNotifier(broadcaster)

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		CardClient:       cardClient,
		CommanderService: commanderService,
		GameController:   gameController,
		HubManager:       hubManager,
		Broadcaster:      broadcaster,
		Logger:           logger,
	}
}

// Close disconnects live streams and releases the storage backend
func (a *App) Close() error {
	a.HubManager.Close()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
