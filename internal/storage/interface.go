package storage

import (
	"context"
	"sort"
	"strings"

	"github.com/mcoot/commander-tracker/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	DeleteGame(ctx context.Context, id model.GameID) error
	ListGames(ctx context.Context) ([]model.GameSummary, error)

	// Commander cache operations, keyed by CardKey(name)
	SaveCommanderCard(ctx context.Context, card *model.CommanderCard) error
	GetCommanderCard(ctx context.Context, name string) (*model.CommanderCard, error)
}

// CardKey normalises a card name for cache lookups
func CardKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SortSummaries orders listings most recently updated first
func SortSummaries(summaries []model.GameSummary) {
	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].UpdatedAt.Equal(summaries[j].UpdatedAt) {
			return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
		}
		return summaries[i].ID < summaries[j].ID
	})
}
