package game

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mcoot/commander-tracker/internal/dependencies/clock"
	"github.com/mcoot/commander-tracker/internal/dependencies/random"
	"github.com/mcoot/commander-tracker/internal/model"
	"github.com/mcoot/commander-tracker/internal/services/session"
	"github.com/mcoot/commander-tracker/internal/storage"
)

// gameIDLength is the number of characters in a generated game ID
const gameIDLength = 8

// Notifier is told about every successful change to a game
type Notifier interface {
	GameUpdated(ctx context.Context, game *model.Game)
	GameDeleted(ctx context.Context, gameID model.GameID)
}

// Controller loads games from storage, applies a change through a session
// store and saves the result. Changes to the same game are serialised.
type Controller struct {
	storage  storage.Storage
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
	notifier Notifier

	locksMu sync.Mutex
	locks   map[model.GameID]*sync.Mutex
}

// NewController creates a new GameController
func NewController(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
		locks:   make(map[model.GameID]*sync.Mutex),
	}
}

// SetNotifier sets the notifier called after each change
func (c *Controller) SetNotifier(n Notifier) {
	c.notifier = n
}

// CreateGame starts a new game with playerCount fresh players
func (c *Controller) CreateGame(ctx context.Context, playerCount int) (*model.Game, error) {
	if playerCount < model.MinPlayers || playerCount > model.MaxPlayers {
		return nil, model.ErrInvalidPlayerCount
	}

	gameID := model.GameID(c.random.String(gameIDLength, random.IDAlphabet))
	store := session.New(gameID, c.clock)
	store.StartGame(playerCount)
	game := store.Snapshot()

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(gameID)),
		slog.Int("player_count", playerCount),
	)

	c.notify(ctx, game)
	return game, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, gameID)
}

// ListGames returns a summary of every stored game
func (c *Controller) ListGames(ctx context.Context) ([]model.GameSummary, error) {
	return c.storage.ListGames(ctx)
}

// DeleteGame removes a game
func (c *Controller) DeleteGame(ctx context.Context, gameID model.GameID) error {
	lock := c.lockFor(gameID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := c.storage.GetGame(ctx, gameID); err != nil {
		c.forgetIfMissing(gameID, err)
		return err
	}
	if err := c.storage.DeleteGame(ctx, gameID); err != nil {
		return err
	}
	c.forget(gameID)

	c.logger.Info("game deleted", slog.String("game_id", string(gameID)))
	if c.notifier != nil {
		c.notifier.GameDeleted(ctx, gameID)
	}
	return nil
}

// GetLog returns the event log of a game, oldest first
func (c *Controller) GetLog(ctx context.Context, gameID model.GameID) ([]model.LogEntry, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return game.Log, nil
}

// SetLife sets a player's life total
func (c *Controller) SetLife(ctx context.Context, gameID model.GameID, playerID model.PlayerID, value int) (*model.Game, error) {
	return c.mutate(ctx, gameID, "set life", func(s *session.Store) error {
		return s.SetLife(playerID, value)
	})
}

// AdjustLife changes a player's life total by delta
func (c *Controller) AdjustLife(ctx context.Context, gameID model.GameID, playerID model.PlayerID, delta int) (*model.Game, error) {
	return c.mutate(ctx, gameID, "adjust life", func(s *session.Store) error {
		return s.AdjustLife(playerID, delta)
	})
}

// SetPoison sets a player's poison counters
func (c *Controller) SetPoison(ctx context.Context, gameID model.GameID, playerID model.PlayerID, value int) (*model.Game, error) {
	return c.mutate(ctx, gameID, "set poison", func(s *session.Store) error {
		return s.SetPoison(playerID, value)
	})
}

// AdjustPoison changes a player's poison counters by delta
func (c *Controller) AdjustPoison(ctx context.Context, gameID model.GameID, playerID model.PlayerID, delta int) (*model.Game, error) {
	return c.mutate(ctx, gameID, "adjust poison", func(s *session.Store) error {
		return s.AdjustPoison(playerID, delta)
	})
}

// SetCommanderDamage sets the commander damage a player has taken from an opponent
func (c *Controller) SetCommanderDamage(ctx context.Context, gameID model.GameID, playerID, opponentID model.PlayerID, value int) (*model.Game, error) {
	return c.mutate(ctx, gameID, "set commander damage", func(s *session.Store) error {
		return s.SetCommanderDamage(playerID, opponentID, value)
	})
}

// AdjustCommanderDamage changes the commander damage a player has taken from an opponent
func (c *Controller) AdjustCommanderDamage(ctx context.Context, gameID model.GameID, playerID, opponentID model.PlayerID, delta int) (*model.Game, error) {
	return c.mutate(ctx, gameID, "adjust commander damage", func(s *session.Store) error {
		return s.AdjustCommanderDamage(playerID, opponentID, delta)
	})
}

// AssignCommander sets a player's main or partner commander
func (c *Controller) AssignCommander(ctx context.Context, gameID model.GameID, playerID model.PlayerID, slot model.CommanderSlot, commander model.Commander) (*model.Game, error) {
	return c.mutate(ctx, gameID, "assign commander", func(s *session.Store) error {
		return s.AssignCommander(playerID, slot, commander)
	})
}

// AdvanceTurn passes the turn to the next player
func (c *Controller) AdvanceTurn(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.mutate(ctx, gameID, "advance turn", func(s *session.Store) error {
		return s.AdvanceTurn()
	})
}

// PreviousTurn passes the turn back to the previous player
func (c *Controller) PreviousTurn(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.mutate(ctx, gameID, "previous turn", func(s *session.Store) error {
		return s.PreviousTurn()
	})
}

// StartGame restarts an existing game with playerCount fresh players
func (c *Controller) StartGame(ctx context.Context, gameID model.GameID, playerCount int) (*model.Game, error) {
	if playerCount < model.MinPlayers || playerCount > model.MaxPlayers {
		return nil, model.ErrInvalidPlayerCount
	}
	return c.mutate(ctx, gameID, "start game", func(s *session.Store) error {
		s.StartGame(playerCount)
		return nil
	})
}

// EndGame marks a game as ended
func (c *Controller) EndGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.mutate(ctx, gameID, "end game", func(s *session.Store) error {
		s.EndGame()
		return nil
	})
}

// ResetGame returns a game to its initial, empty state
func (c *Controller) ResetGame(ctx context.Context, gameID model.GameID) (*model.Game, error) {
	return c.mutate(ctx, gameID, "reset game", func(s *session.Store) error {
		s.ResetGame()
		return nil
	})
}

// mutate applies fn to the stored game and saves the result.
// When fn fails nothing is written.
func (c *Controller) mutate(ctx context.Context, gameID model.GameID, action string, fn func(*session.Store) error) (*model.Game, error) {
	lock := c.lockFor(gameID)
	lock.Lock()
	defer lock.Unlock()

	saved, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		c.forgetIfMissing(gameID, err)
		return nil, err
	}

	store := session.Restore(saved, c.clock)
	if err := fn(store); err != nil {
		c.logger.Debug("game change rejected",
			slog.String("game_id", string(gameID)),
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	game := store.Snapshot()
	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.logger.Error("failed to save game",
			slog.String("game_id", string(gameID)),
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Debug("game updated",
		slog.String("game_id", string(gameID)),
		slog.String("action", action),
	)

	c.notify(ctx, game)
	return game, nil
}

func (c *Controller) lockFor(gameID model.GameID) *sync.Mutex {
	c.locksMu.Lock()
	defer c.locksMu.Unlock()
	lock, ok := c.locks[gameID]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[gameID] = lock
	}
	return lock
}

func (c *Controller) forget(gameID model.GameID) {
	c.locksMu.Lock()
	delete(c.locks, gameID)
	c.locksMu.Unlock()
}

// forgetIfMissing drops the lock taken for an ID that has no stored game
func (c *Controller) forgetIfMissing(gameID model.GameID, err error) {
	if errors.Is(err, model.ErrGameNotFound) {
		c.forget(gameID)
	}
}

func (c *Controller) notify(ctx context.Context, game *model.Game) {
	if c.notifier != nil {
		c.notifier.GameUpdated(ctx, game)
	}
}
