package factory

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/commander-tracker/internal/config"
	"github.com/mcoot/commander-tracker/internal/model"
	redisstorage "github.com/mcoot/commander-tracker/internal/storage/redis"
	"github.com/mcoot/commander-tracker/internal/testutil/scryfalltest"
	"github.com/mcoot/commander-tracker/internal/web/sse"
)

type IntegrationSuite struct {
	suite.Suite
	scryfall *scryfalltest.Server
	app      *TestApp
	ctx      context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.scryfall = scryfalltest.NewServer(
		scryfalltest.Commander("Atraxa, Praetors' Voice"),
		scryfalltest.NonCommander("Counterspell"),
	)
	s.app = NewTestAppWithCards(s.scryfall.Config())
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	s.scryfall.Close()
	s.Require().NoError(s.app.Close())
}

// Test: full table session from start to end
func (s *IntegrationSuite) TestCompleteGameFlow() {
	s.app.MockRandom.QueueString("TABLE001")

	game, err := s.app.GameController.CreateGame(s.ctx, 4)
	s.Require().NoError(err)
	s.Equal(model.GameID("TABLE001"), game.ID)
	s.Len(game.Players, 4)

	card, err := s.app.CommanderService.Resolve(s.ctx, "Atraxa, Praetors' Voice")
	s.Require().NoError(err)
	_, err = s.app.GameController.AssignCommander(s.ctx, game.ID, 1, model.SlotMain, card.AsCommander())
	s.Require().NoError(err)

	s.app.MockClock.Advance(time.Minute)
	_, err = s.app.GameController.AdjustLife(s.ctx, game.ID, 2, -7)
	s.Require().NoError(err)
	_, err = s.app.GameController.SetCommanderDamage(s.ctx, game.ID, 3, 1, 21)
	s.Require().NoError(err)
	_, err = s.app.GameController.SetPoison(s.ctx, game.ID, 4, 10)
	s.Require().NoError(err)

	for range 4 {
		_, err = s.app.GameController.AdvanceTurn(s.ctx, game.ID)
		s.Require().NoError(err)
	}

	game, err = s.app.GameController.EndGame(s.ctx, game.ID)
	s.Require().NoError(err)

	s.Equal(33, game.GetPlayer(2).Life)
	s.True(game.GetPlayer(3).HasLost())
	s.True(game.GetPlayer(4).IsPoisoned())
	s.Equal(2, game.TurnNumber)
	s.Equal(model.PlayerID(1), game.ActivePlayer)
	s.NotNil(game.EndedAt)
	s.Equal("Atraxa, Praetors' Voice", game.Commanders[1].Main.Name)

	kinds := make([]model.EventKind, len(game.Log))
	for i, e := range game.Log {
		kinds[i] = e.Kind
	}
	s.Equal([]model.EventKind{
		model.EventGameStart,
		model.EventLifeChange,
		model.EventCommanderDamage,
		model.EventPoisonChange,
		model.EventTurnChange, model.EventTurnChange, model.EventTurnChange, model.EventTurnChange,
		model.EventGameEnd,
	}, kinds)
}

// Test: resolution caches eligible cards and rejects the rest
func (s *IntegrationSuite) TestCommanderResolutionUsesCache() {
	_, err := s.app.CommanderService.Resolve(s.ctx, "Atraxa, Praetors' Voice")
	s.Require().NoError(err)
	_, err = s.app.CommanderService.Resolve(s.ctx, "atraxa, praetors' voice")
	s.Require().NoError(err)
	s.Len(s.scryfall.Requests(), 1)

	_, err = s.app.CommanderService.Resolve(s.ctx, "Counterspell")
	s.ErrorIs(err, model.ErrNotCommander)

	_, err = s.app.CommanderService.Resolve(s.ctx, "Not A Card")
	s.ErrorIs(err, model.ErrCardNotFound)
}

// Test: changes reach clients watching the game
func (s *IntegrationSuite) TestMutationsAreBroadcast() {
	game, err := s.app.GameController.CreateGame(s.ctx, 2)
	s.Require().NoError(err)

	hub := s.app.HubManager.GetOrCreateHub(game.ID)
	client := sse.NewClient(hub)
	received := make(chan string, 16)
	s.Require().True(hub.Register(client))
	s.Eventually(func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	go func() {
		for msg := range client.Messages() {
			received <- string(msg)
		}
	}()

	_, err = s.app.GameController.AdjustLife(s.ctx, game.ID, 1, -3)
	s.Require().NoError(err)

	var got []string
	s.Eventually(func() bool {
		for {
			select {
			case msg := <-received:
				got = append(got, msg)
			default:
				return len(got) >= 3
			}
		}
	}, time.Second, 5*time.Millisecond)
	s.True(strings.HasPrefix(got[0], "event: game-update"))
	s.Contains(got[0], `<span class="life">37</span>`)
	s.True(strings.HasPrefix(got[2], "event: state"))
}

func TestNew_StorageSelection(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "default memory", cfg: Config{}},
		{name: "sqlite", cfg: Config{StorageType: config.StorageTypeSQLite, SQLitePath: filepath.Join(t.TempDir(), "games.db")}},
		{name: "redis", cfg: Config{StorageType: config.StorageTypeRedis, RedisConfig: &redisstorage.Config{URL: "redis://" + mr.Addr()}}},
		{name: "redis without config", cfg: Config{StorageType: config.StorageTypeRedis}, wantErr: "RedisConfig required"},
		{name: "sqlite without path", cfg: Config{StorageType: config.StorageTypeSQLite}, wantErr: "open sqlite storage"},
		{name: "unknown", cfg: Config{StorageType: "mongo"}, wantErr: "invalid StorageType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, err := New(tt.cfg)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("New() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			defer app.Close()

			game, err := app.GameController.CreateGame(context.Background(), 3)
			if err != nil {
				t.Fatalf("CreateGame() error = %v", err)
			}
			if _, err := app.GameController.GetGame(context.Background(), game.ID); err != nil {
				t.Fatalf("GetGame() error = %v", err)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	cfg := ConfigFromEnv(config.Config{
		StorageType:     config.StorageTypeRedis,
		RedisURL:        "redis://cache:6379",
		GameTTL:         time.Hour,
		ScryfallBaseURL: "http://cards.local",
		ScryfallTimeout: 3 * time.Second,
	}, nil)

	if cfg.RedisConfig == nil || cfg.RedisConfig.URL != "redis://cache:6379" || cfg.RedisConfig.GameTTL != time.Hour {
		t.Fatalf("unexpected redis config %+v", cfg.RedisConfig)
	}
	if cfg.Cards.BaseURL != "http://cards.local" || cfg.Cards.Timeout != 3*time.Second {
		t.Fatalf("unexpected cards config %+v", cfg.Cards)
	}
}
