package commanders

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mcoot/commander-tracker/internal/dependencies/clock"
	"github.com/mcoot/commander-tracker/internal/model"
	"github.com/mcoot/commander-tracker/internal/services/cards"
	"github.com/mcoot/commander-tracker/internal/storage"
)

// Resolver looks up a card by exact name
type Resolver interface {
	Resolve(ctx context.Context, name string) (cards.Result, error)
}

// Service resolves commander cards, keeping eligible ones in the storage cache
type Service struct {
	storage  storage.Storage
	resolver Resolver
	clock    clock.Clock
	logger   *slog.Logger
}

// New creates a new commander service
func New(storage storage.Storage, resolver Resolver, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		resolver: resolver,
		clock:    clock,
		logger:   logger,
	}
}

// Get returns a cached commander without consulting the card database
func (s *Service) Get(ctx context.Context, name string) (*model.CommanderCard, error) {
	return s.storage.GetCommanderCard(ctx, name)
}

// Save stores commander metadata supplied by a caller.
// The type line and oracle text must describe a card that can be a commander.
func (s *Service) Save(ctx context.Context, card model.CommanderCard) (*model.CommanderCard, error) {
	card.Name = strings.TrimSpace(card.Name)
	if card.Name == "" {
		return nil, model.ErrCommanderName
	}
	if !eligible(&card) {
		return nil, model.ErrNotCommander
	}
	if card.ArtworkURL == "" {
		card.ArtworkURL = cards.DefaultArtworkURL
	}
	if card.PreviewURL == "" {
		card.PreviewURL = cards.DefaultPreviewURL
	}
	card.CachedAt = s.clock.Now()

	if err := s.storage.SaveCommanderCard(ctx, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// Resolve returns the commander with the given name, from the cache when
// possible. Cards that are unknown or cannot be a commander are not cached.
func (s *Service) Resolve(ctx context.Context, name string) (*model.CommanderCard, error) {
	cached, err := s.storage.GetCommanderCard(ctx, name)
	if err == nil {
		if !eligible(cached) {
			return nil, model.ErrNotCommander
		}
		return cached, nil
	}
	if !errors.Is(err, model.ErrCommanderMissing) {
		s.logger.Warn("commander cache read failed",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
	}

	result, err := s.resolver.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}

	switch result.Status {
	case cards.StatusNotFound:
		return nil, model.ErrCardNotFound
	case cards.StatusIneligible:
		return nil, model.ErrNotCommander
	}

	card := FromCard(result.Card, s.clock)
	if err := s.storage.SaveCommanderCard(ctx, card); err != nil {
		s.logger.Warn("commander cache write failed",
			slog.String("name", card.Name),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("commander resolved", slog.String("name", card.Name))
	return card, nil
}

func eligible(card *model.CommanderCard) bool {
	return cards.CanBeCommander(&cards.Card{
		Name:       card.Name,
		TypeLine:   card.TypeLine,
		OracleText: card.OracleText,
	})
}

// FromCard converts a card database entry into cached commander metadata
func FromCard(card *cards.Card, clk clock.Clock) *model.CommanderCard {
	return &model.CommanderCard{
		Name:       card.Name,
		TypeLine:   card.TypeLine,
		OracleText: card.OracleText,
		ManaCost:   card.ManaCost,
		ArtworkURL: cards.ArtworkURL(card),
		PreviewURL: cards.PreviewURL(card),
		CachedAt:   clk.Now(),
	}
}
