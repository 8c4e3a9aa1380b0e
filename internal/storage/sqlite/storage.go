package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mcoot/commander-tracker/internal/model"
	"github.com/mcoot/commander-tracker/internal/storage"
	"github.com/mcoot/commander-tracker/internal/storage/sqlite/migrations"
)

// Storage is a SQLite-backed implementation of the storage interface.
// Games are stored as JSON documents with a few columns pulled out for listing.
type Storage struct {
	sqlDB *sql.DB
}

// Open opens and migrates a SQLite database at path
func Open(path string) (*Storage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single writer avoids SQLITE_BUSY under concurrent saves
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Storage{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite connection
func (s *Storage) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO games (id, player_count, started, turn_number, state_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		    player_count = excluded.player_count,
		    started = excluded.started,
		    turn_number = excluded.turn_number,
		    state_json = excluded.state_json,
		    updated_at = excluded.updated_at`,
		string(game.ID),
		len(game.Players),
		boolToInt(game.Started),
		game.TurnNumber,
		data,
		timeToUnixMillis(game.CreatedAt),
		timeToUnixMillis(game.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	var data []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT state_json FROM games WHERE id = ?`, string(id)).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrGameNotFound
		}
		return nil, fmt.Errorf("get game: %w", err)
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, string(id)); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}

func (s *Storage) ListGames(ctx context.Context) ([]model.GameSummary, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, player_count, started, turn_number, updated_at
		 FROM games
		 ORDER BY updated_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	summaries := make([]model.GameSummary, 0)
	for rows.Next() {
		var (
			summary   model.GameSummary
			id        string
			started   int64
			updatedAt int64
		)
		if err := rows.Scan(&id, &summary.PlayerCount, &started, &summary.TurnNumber, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan game summary: %w", err)
		}
		summary.ID = model.GameID(id)
		summary.Started = started != 0
		summary.UpdatedAt = unixMillisToTime(updatedAt)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate game summaries: %w", err)
	}
	return summaries, nil
}

// Commander cache operations

func (s *Storage) SaveCommanderCard(ctx context.Context, card *model.CommanderCard) error {
	data, err := json.Marshal(card)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO commander_cards (card_key, name, payload_json, cached_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(card_key) DO UPDATE SET
		    name = excluded.name,
		    payload_json = excluded.payload_json,
		    cached_at = excluded.cached_at`,
		storage.CardKey(card.Name),
		card.Name,
		data,
		timeToUnixMillis(card.CachedAt),
	)
	if err != nil {
		return fmt.Errorf("save commander card: %w", err)
	}
	return nil
}

func (s *Storage) GetCommanderCard(ctx context.Context, name string) (*model.CommanderCard, error) {
	var data []byte
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT payload_json FROM commander_cards WHERE card_key = ?`,
		storage.CardKey(name),
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrCommanderMissing
		}
		return nil, fmt.Errorf("get commander card: %w", err)
	}

	var card model.CommanderCard
	if err := json.Unmarshal(data, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func boolToInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}

func timeToUnixMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func unixMillisToTime(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}
