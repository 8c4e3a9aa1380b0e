package memory

import (
	"context"
	"sync"

	"github.com/mcoot/commander-tracker/internal/model"
	"github.com/mcoot/commander-tracker/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Values are copied on the way in and out so callers never share state.
type Storage struct {
	mu sync.RWMutex

	games      map[model.GameID]*model.Game
	commanders map[string]model.CommanderCard
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		games:      make(map[model.GameID]*model.Game),
		commanders: make(map[string]model.CommanderCard),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = game.Clone()
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game.Clone(), nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	return nil
}

func (s *Storage) ListGames(ctx context.Context) ([]model.GameSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := make([]model.GameSummary, 0, len(s.games))
	for _, game := range s.games {
		summaries = append(summaries, game.Summary())
	}
	storage.SortSummaries(summaries)
	return summaries, nil
}

// Commander cache operations

func (s *Storage) SaveCommanderCard(ctx context.Context, card *model.CommanderCard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commanders[storage.CardKey(card.Name)] = *card
	return nil
}

func (s *Storage) GetCommanderCard(ctx context.Context, name string) (*model.CommanderCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	card, ok := s.commanders[storage.CardKey(name)]
	if !ok {
		return nil, model.ErrCommanderMissing
	}
	return &card, nil
}
