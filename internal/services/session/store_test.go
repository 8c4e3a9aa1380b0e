package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/commander-tracker/internal/dependencies/mocks"
	"github.com/mcoot/commander-tracker/internal/model"
)

type StoreSuite struct {
	suite.Suite
	clock *mocks.MockClock
	store *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.store = New("GAME1", s.clock)
}

func (s *StoreSuite) kinds() []model.EventKind {
	var kinds []model.EventKind
	for _, e := range s.store.Snapshot().Log {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

// StartGame tests

func (s *StoreSuite) TestStartGameSeatsPlayers() {
	s.store.StartGame(4)

	g := s.store.Snapshot()
	s.Require().Len(g.Players, 4)
	for i, p := range g.Players {
		s.Equal(model.PlayerID(i+1), p.ID)
		s.Equal(model.StartingLife, p.Life)
		s.Equal(0, p.PoisonCounters)
		s.Empty(p.CommanderDamage)
		s.Equal(BackgroundImage(i), p.BackgroundImage)
	}
	s.Equal("Player 3", g.Players[2].Name)
	s.True(g.Started)
	s.Equal(0, g.TurnIndex)
	s.Equal(1, g.TurnNumber)
	s.Equal(model.PlayerID(1), g.ActivePlayer)
}

func (s *StoreSuite) TestStartGameLogsSingleEntry() {
	s.store.StartGame(3)

	g := s.store.Snapshot()
	s.Require().Len(g.Log, 1)
	s.Equal(model.EventGameStart, g.Log[0].Kind)
	s.Equal("Game started with 3 players", g.Log[0].Details)
	s.Equal(model.PlayerID(1), g.Log[0].PlayerID)
	s.Nil(g.Log[0].Value)
	s.NotEmpty(g.Log[0].ID)
}

func (s *StoreSuite) TestStartGameClearsPreviousSession() {
	s.store.StartGame(2)
	_ = s.store.AdjustLife(1, -3)
	_ = s.store.AssignCommander(1, model.SlotMain, model.Commander{Name: "Edgar Markov"})
	_ = s.store.AdvanceTurn()

	s.store.StartGame(2)

	g := s.store.Snapshot()
	s.Equal(model.StartingLife, g.Players[0].Life)
	s.Empty(g.Commanders)
	s.Len(g.Log, 1)
	s.Equal(0, g.TurnIndex)
}

// Life tests

func (s *StoreSuite) TestAdjustLifeSumsDeltas() {
	s.store.StartGame(2)
	deltas := []int{-5, 3, -20, -30, 7}
	sum := 0
	for _, d := range deltas {
		s.Require().NoError(s.store.AdjustLife(2, d))
		sum += d
	}

	g := s.store.Snapshot()
	s.Equal(model.StartingLife+sum, g.GetPlayer(2).Life)
	s.Len(g.Log, 1+len(deltas))
}

func (s *StoreSuite) TestAdjustLifeAllowsNegativeTotal() {
	s.store.StartGame(2)
	s.Require().NoError(s.store.AdjustLife(1, -45))

	s.Equal(-5, s.store.Snapshot().GetPlayer(1).Life)
}

func (s *StoreSuite) TestAdjustLifeLogsDelta() {
	s.store.StartGame(2)
	_ = s.store.AdjustLife(1, -5)
	_ = s.store.AdjustLife(1, 2)

	log := s.store.Snapshot().Log
	s.Equal("Player 1 lost 5 life", log[1].Details)
	s.Equal(-5, *log[1].Value)
	s.Equal("Player 1 gained 2 life", log[2].Details)
	s.Equal(2, *log[2].Value)
}

func (s *StoreSuite) TestSetLifeLogsDifference() {
	s.store.StartGame(2)
	s.Require().NoError(s.store.SetLife(2, 31))

	g := s.store.Snapshot()
	s.Equal(31, g.GetPlayer(2).Life)
	last := g.Log[len(g.Log)-1]
	s.Equal(model.EventLifeChange, last.Kind)
	s.Equal(model.PlayerID(2), last.PlayerID)
	s.Equal(-9, *last.Value)
	s.Equal("Player 2 lost 9 life", last.Details)
}

func (s *StoreSuite) TestUnknownPlayerIsNoOp() {
	s.store.StartGame(2)
	before := s.store.Snapshot()

	s.ErrorIs(s.store.SetLife(9, 10), model.ErrPlayerNotFound)
	s.ErrorIs(s.store.AdjustLife(0, 10), model.ErrPlayerNotFound)
	s.ErrorIs(s.store.SetPoison(5, 3), model.ErrPlayerNotFound)
	s.ErrorIs(s.store.SetCommanderDamage(3, 1, 4), model.ErrPlayerNotFound)
	s.ErrorIs(s.store.SetCommanderDamage(1, 3, 4), model.ErrPlayerNotFound)
	s.ErrorIs(s.store.AssignCommander(7, model.SlotMain, model.Commander{Name: "X"}), model.ErrPlayerNotFound)

	s.Equal(before, s.store.Snapshot())
}

// Poison tests

func (s *StoreSuite) TestSetPoison() {
	s.store.StartGame(2)
	s.Require().NoError(s.store.SetPoison(1, 4))
	s.Require().NoError(s.store.SetPoison(1, 10))

	g := s.store.Snapshot()
	p := g.GetPlayer(1)
	s.Equal(10, p.PoisonCounters)
	s.True(p.IsPoisoned())
	s.True(p.HasLost())
	last := g.Log[len(g.Log)-1]
	s.Equal(model.EventPoisonChange, last.Kind)
	s.Equal(6, *last.Value)
	s.Equal("Player 1 gained 6 poison counter(s)", last.Details)
}

func (s *StoreSuite) TestSetPoisonClampsAtZero() {
	s.store.StartGame(2)
	_ = s.store.SetPoison(2, 2)
	s.Require().NoError(s.store.SetPoison(2, -4))

	g := s.store.Snapshot()
	s.Equal(0, g.GetPlayer(2).PoisonCounters)
	s.Equal(-2, *g.Log[len(g.Log)-1].Value)
}

func (s *StoreSuite) TestAdjustPoison() {
	s.store.StartGame(2)
	s.Require().NoError(s.store.AdjustPoison(1, 3))
	s.Require().NoError(s.store.AdjustPoison(1, -5))

	g := s.store.Snapshot()
	s.Equal(0, g.GetPlayer(1).PoisonCounters)
	s.Equal("Player 1 lost 3 poison counter(s)", g.Log[len(g.Log)-1].Details)
	s.ErrorIs(s.store.AdjustPoison(4, 1), model.ErrPlayerNotFound)
}

// Commander damage tests

func (s *StoreSuite) TestSetCommanderDamageIsIdempotent() {
	s.store.StartGame(3)
	s.Require().NoError(s.store.SetCommanderDamage(1, 2, 7))
	s.Require().NoError(s.store.SetCommanderDamage(1, 2, 7))

	g := s.store.Snapshot()
	s.Equal(7, g.GetPlayer(1).CommanderDamageFrom(2))
	s.Len(g.Log, 3)
	for _, e := range g.Log[1:] {
		s.Equal(model.EventCommanderDamage, e.Kind)
		s.Equal(7, *e.Value)
		s.Equal("Player 1 took 7 commander damage from Player 2", e.Details)
	}
}

func (s *StoreSuite) TestSetCommanderDamageClampsNegative() {
	s.store.StartGame(2)
	s.Require().NoError(s.store.SetCommanderDamage(2, 1, -3))

	s.Equal(0, s.store.Snapshot().GetPlayer(2).CommanderDamageFrom(1))
}

func (s *StoreSuite) TestAdjustCommanderDamageNeverNegative() {
	s.store.StartGame(2)
	_ = s.store.AdjustCommanderDamage(1, 2, 3)
	s.Require().NoError(s.store.AdjustCommanderDamage(1, 2, -5))

	g := s.store.Snapshot()
	s.Equal(0, g.GetPlayer(1).CommanderDamageFrom(2))
	s.Equal(0, *g.Log[len(g.Log)-1].Value)
}

func (s *StoreSuite) TestCommanderDamageLethalAt21() {
	s.store.StartGame(4)
	_ = s.store.SetCommanderDamage(3, 4, 20)
	p := s.store.Snapshot().GetPlayer(3)
	s.False(p.IsLethalCommanderDamage(4))
	s.False(p.HasLost())

	_ = s.store.AdjustCommanderDamage(3, 4, 1)
	p = s.store.Snapshot().GetPlayer(3)
	s.True(p.IsLethalCommanderDamage(4))
	s.Equal([]model.PlayerID{4}, p.LethalCommanderSources())
	s.True(p.HasLost())
}

func (s *StoreSuite) TestCommanderDamageFromSelfRejected() {
	s.store.StartGame(2)
	s.ErrorIs(s.store.SetCommanderDamage(1, 1, 5), model.ErrSelfCommanderDamage)
	s.Len(s.store.Snapshot().Log, 1)
}

// Commander assignment tests

func (s *StoreSuite) TestAssignCommanderDoesNotLog() {
	s.store.StartGame(2)
	atraxa := model.Commander{Name: "Atraxa, Praetors' Voice", Image: "https://example.test/atraxa.jpg"}
	thrasios := model.Commander{Name: "Thrasios, Triton Hero", Image: "https://example.test/thrasios.jpg"}

	s.Require().NoError(s.store.AssignCommander(1, model.SlotMain, atraxa))
	s.Require().NoError(s.store.AssignCommander(1, model.SlotPartner, thrasios))

	g := s.store.Snapshot()
	s.Len(g.Log, 1)
	s.Equal(atraxa, *g.Commanders[1].Main)
	s.Equal(thrasios, *g.Commanders[1].Partner)
	s.Nil(g.Commanders[2].Main)
}

func (s *StoreSuite) TestAssignCommanderRejectsUnknownSlot() {
	s.store.StartGame(2)
	s.ErrorIs(s.store.AssignCommander(1, "sideboard", model.Commander{}), model.ErrInvalidSlot)
}

// Turn tests

func (s *StoreSuite) TestAdvanceTurnFullRound() {
	s.store.StartGame(4)
	start := s.store.Snapshot()

	for i := 0; i < 4; i++ {
		s.Require().NoError(s.store.AdvanceTurn())
	}

	g := s.store.Snapshot()
	s.Equal(start.ActivePlayer, g.ActivePlayer)
	s.Equal(start.TurnNumber+1, g.TurnNumber)
	s.Equal(0, g.TurnIndex)
}

func (s *StoreSuite) TestAdvanceTurnLogsNextPlayer() {
	s.store.StartGame(2)
	_ = s.store.AdvanceTurn()
	_ = s.store.AdvanceTurn()

	g := s.store.Snapshot()
	s.Equal("Turn 1: Player 2's turn", g.Log[1].Details)
	s.Equal(model.PlayerID(2), g.Log[1].PlayerID)
	s.Equal("Turn 2: Player 1's turn", g.Log[2].Details)
	s.Equal(model.EventTurnChange, g.Log[2].Kind)
}

func (s *StoreSuite) TestAdvanceTurnWithoutPlayers() {
	s.ErrorIs(s.store.AdvanceTurn(), model.ErrNoPlayers)
	s.ErrorIs(s.store.PreviousTurn(), model.ErrNoPlayers)
	s.Empty(s.store.Snapshot().Log)
}

func (s *StoreSuite) TestPreviousTurnWrapsWithoutDecrementingRound() {
	s.store.StartGame(3)
	s.Require().NoError(s.store.PreviousTurn())

	g := s.store.Snapshot()
	s.Equal(2, g.TurnIndex)
	s.Equal(model.PlayerID(3), g.ActivePlayer)
	s.Equal(1, g.TurnNumber)
	s.Equal(model.EventTurnChange, g.Log[len(g.Log)-1].Kind)
}

func (s *StoreSuite) TestTurnIndexStaysInRange() {
	s.store.StartGame(3)
	for i := 0; i < 20; i++ {
		if i%3 == 0 {
			_ = s.store.PreviousTurn()
		} else {
			_ = s.store.AdvanceTurn()
		}
		g := s.store.Snapshot()
		s.GreaterOrEqual(g.TurnIndex, 0)
		s.Less(g.TurnIndex, 3)
		s.Equal(g.Players[g.TurnIndex].ID, g.ActivePlayer)
	}
}

// End and reset tests

func (s *StoreSuite) TestEndGameKeepsPlayers() {
	s.store.StartGame(2)
	_ = s.store.AdjustLife(2, -10)
	_ = s.store.AdvanceTurn()
	s.store.EndGame()

	g := s.store.Snapshot()
	s.False(g.Started)
	s.NotNil(g.EndedAt)
	s.Len(g.Players, 2)
	s.Equal(30, g.GetPlayer(2).Life)
	last := g.Log[len(g.Log)-1]
	s.Equal(model.EventGameEnd, last.Kind)
	s.Equal(model.PlayerID(2), last.PlayerID)
	s.Equal("Game ended", last.Details)
}

func (s *StoreSuite) TestResetGameRestoresInitialState() {
	initial := s.store.Snapshot()

	s.store.StartGame(4)
	_ = s.store.AdjustLife(1, -5)
	_ = s.store.SetPoison(2, 3)
	_ = s.store.SetCommanderDamage(3, 4, 9)
	_ = s.store.AssignCommander(4, model.SlotMain, model.Commander{Name: "Edgar Markov"})
	_ = s.store.AdvanceTurn()
	s.store.EndGame()
	s.clock.Advance(time.Minute)

	s.store.ResetGame()

	s.Equal(initial, s.store.Snapshot())
}

// Snapshot tests

func (s *StoreSuite) TestSnapshotIsIsolated() {
	s.store.StartGame(2)
	g := s.store.Snapshot()
	g.Players[0].Life = 1
	g.Players[0].CommanderDamage[2] = 20
	g.Log = nil

	fresh := s.store.Snapshot()
	s.Equal(model.StartingLife, fresh.Players[0].Life)
	s.Equal(0, fresh.Players[0].CommanderDamageFrom(2))
	s.Len(fresh.Log, 1)
}

func (s *StoreSuite) TestRestoreContinuesFromSavedState() {
	s.store.StartGame(2)
	_ = s.store.AdjustLife(1, -4)

	restored := Restore(s.store.Snapshot(), s.clock)
	s.Require().NoError(restored.AdjustLife(1, -1))

	s.Equal(35, restored.Snapshot().GetPlayer(1).Life)
	s.Equal(36, s.store.Snapshot().GetPlayer(1).Life)
}

func (s *StoreSuite) TestLogTimestampsUseClock() {
	s.store.StartGame(2)
	s.clock.Advance(5 * time.Second)
	_ = s.store.AdjustLife(1, -1)

	log := s.store.Snapshot().Log
	s.Equal(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), log[0].Timestamp)
	s.Equal(time.Date(2024, 1, 1, 12, 0, 5, 0, time.UTC), log[1].Timestamp)
}

// Scenario from the tracker's manual: 4 players, one hit, one commander hit

func (s *StoreSuite) TestFourPlayerScenario() {
	s.store.StartGame(4)
	s.Require().NoError(s.store.AdjustLife(1, -5))
	s.Require().NoError(s.store.SetCommanderDamage(1, 2, 7))

	s.Equal([]model.EventKind{
		model.EventGameStart,
		model.EventLifeChange,
		model.EventCommanderDamage,
	}, s.kinds())
	g := s.store.Snapshot()
	s.Equal(35, g.GetPlayer(1).Life)
	s.Equal(7, g.GetPlayer(1).CommanderDamageFrom(2))
}
