package session

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mcoot/commander-tracker/internal/dependencies/clock"
	"github.com/mcoot/commander-tracker/internal/model"
)

// backgroundImages are assigned to seats by index
var backgroundImages = []string{
	"/images/7c0c5910e664db0fd696ba8a0bdc6c33.jpg",
	"/images/eldraine_art_1600x.webp",
	"/images/magic__the_gathering__mountain_for_m19_standard_by_alayna_dce0noo-fullview.jpg",
	"/images/Simic_Wallpaper_2560x1440.jpg",
}

// BackgroundImage returns the panel background for the seat at index i
func BackgroundImage(i int) string {
	return backgroundImages[i%len(backgroundImages)]
}

// Store owns the state of a single game session.
// All changes go through the mutators below; each one that logs appends its
// entry under the same lock as the state change, so a Snapshot never observes
// one without the other.
type Store struct {
	mu    sync.Mutex
	game  *model.Game
	clock clock.Clock
}

// New creates a store holding an empty, not yet started game
func New(id model.GameID, clk clock.Clock) *Store {
	return &Store{
		game:  model.NewGame(id, clk.Now()),
		clock: clk,
	}
}

// Restore creates a store around a copy of previously saved state
func Restore(game *model.Game, clk clock.Clock) *Store {
	g := game.Clone()
	if g.Commanders == nil {
		g.Commanders = make(map[model.PlayerID]model.CommanderAssignment)
	}
	return &Store{game: g, clock: clk}
}

// Snapshot returns a deep copy of the current state
func (s *Store) Snapshot() *model.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Clone()
}

// SetLife sets a player's life total and logs the difference
func (s *Store) SetLife(id model.PlayerID, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.game.GetPlayer(id)
	if p == nil {
		return model.ErrPlayerNotFound
	}
	delta := value - p.Life
	p.Life = value
	s.appendLog(id, model.EventLifeChange, fmt.Sprintf("%s %s life", p.Name, describeChange(delta)), &delta)
	return nil
}

// AdjustLife changes a player's life total by delta, which may be negative.
// No floor is applied here.
func (s *Store) AdjustLife(id model.PlayerID, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.game.GetPlayer(id)
	if p == nil {
		return model.ErrPlayerNotFound
	}
	p.Life += delta
	s.appendLog(id, model.EventLifeChange, fmt.Sprintf("%s %s life", p.Name, describeChange(delta)), &delta)
	return nil
}

// SetPoison sets a player's poison counters (clamped at 0) and logs the difference
func (s *Store) SetPoison(id model.PlayerID, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.game.GetPlayer(id)
	if p == nil {
		return model.ErrPlayerNotFound
	}
	s.setPoison(p, value)
	return nil
}

// AdjustPoison changes a player's poison counters by delta, never going below 0
func (s *Store) AdjustPoison(id model.PlayerID, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.game.GetPlayer(id)
	if p == nil {
		return model.ErrPlayerNotFound
	}
	s.setPoison(p, p.PoisonCounters+delta)
	return nil
}

func (s *Store) setPoison(p *model.Player, value int) {
	value = max(value, 0)
	delta := value - p.PoisonCounters
	p.PoisonCounters = value
	s.appendLog(p.ID, model.EventPoisonChange,
		fmt.Sprintf("%s %s poison counter(s)", p.Name, describeChange(delta)), &delta)
}

// SetCommanderDamage sets the damage a player has taken from an opponent's commander.
// Negative values are stored as 0. The log carries the new total, not a delta.
func (s *Store) SetCommanderDamage(id, opponent model.PlayerID, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.damageTarget(id, opponent)
	if err != nil {
		return err
	}
	s.setCommanderDamage(p, opponent, value)
	return nil
}

// AdjustCommanderDamage changes commander damage from an opponent by delta, never going below 0
func (s *Store) AdjustCommanderDamage(id, opponent model.PlayerID, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.damageTarget(id, opponent)
	if err != nil {
		return err
	}
	s.setCommanderDamage(p, opponent, p.CommanderDamageFrom(opponent)+delta)
	return nil
}

func (s *Store) damageTarget(id, opponent model.PlayerID) (*model.Player, error) {
	p := s.game.GetPlayer(id)
	if p == nil || s.game.GetPlayer(opponent) == nil {
		return nil, model.ErrPlayerNotFound
	}
	if id == opponent {
		return nil, model.ErrSelfCommanderDamage
	}
	return p, nil
}

func (s *Store) setCommanderDamage(p *model.Player, opponent model.PlayerID, value int) {
	value = max(value, 0)
	if p.CommanderDamage == nil {
		p.CommanderDamage = make(map[model.PlayerID]int)
	}
	p.CommanderDamage[opponent] = value
	s.appendLog(p.ID, model.EventCommanderDamage,
		fmt.Sprintf("%s took %d commander damage from Player %d", p.Name, value, opponent), &value)
}

// AssignCommander sets a player's main or partner commander. Not logged.
func (s *Store) AssignCommander(id model.PlayerID, slot model.CommanderSlot, card model.Commander) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !slot.Valid() {
		return model.ErrInvalidSlot
	}
	if s.game.GetPlayer(id) == nil {
		return model.ErrPlayerNotFound
	}
	a := s.game.Commanders[id]
	c := card
	if slot == model.SlotPartner {
		a.Partner = &c
	} else {
		a.Main = &c
	}
	s.game.Commanders[id] = a
	s.game.UpdatedAt = s.clock.Now()
	return nil
}

// AdvanceTurn passes the turn to the next seat. Wrapping back to seat 0 starts a new round.
func (s *Store) AdvanceTurn() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.game.Players)
	if n == 0 {
		return model.ErrNoPlayers
	}
	next := (s.game.TurnIndex + 1) % n
	if next == 0 {
		s.game.TurnNumber++
	}
	s.setTurn(next)
	return nil
}

// PreviousTurn hands the turn back to the previous seat. The round counter is left alone.
func (s *Store) PreviousTurn() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.game.Players)
	if n == 0 {
		return model.ErrNoPlayers
	}
	s.setTurn((s.game.TurnIndex - 1 + n) % n)
	return nil
}

func (s *Store) setTurn(index int) {
	s.game.TurnIndex = index
	p := &s.game.Players[index]
	s.game.ActivePlayer = p.ID
	s.appendLog(p.ID, model.EventTurnChange,
		fmt.Sprintf("Turn %d: %s's turn", s.game.TurnNumber, p.Name), nil)
}

// StartGame seats playerCount fresh players and clears turns, commanders and the log.
// The 2-4 range is checked by callers.
func (s *Store) StartGame(playerCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	players := make([]model.Player, max(playerCount, 0))
	for i := range players {
		players[i] = model.Player{
			ID:              model.PlayerID(i + 1),
			Name:            fmt.Sprintf("Player %d", i+1),
			Life:            model.StartingLife,
			PoisonCounters:  0,
			CommanderDamage: make(map[model.PlayerID]int),
			BackgroundImage: BackgroundImage(i),
		}
	}

	s.game.Players = players
	s.game.Commanders = make(map[model.PlayerID]model.CommanderAssignment)
	s.game.Log = []model.LogEntry{}
	s.game.TurnIndex = 0
	s.game.ActivePlayer = 1
	s.game.TurnNumber = 1
	s.game.Started = true
	s.game.StartedAt = &now
	s.game.EndedAt = nil
	s.appendLog(1, model.EventGameStart, fmt.Sprintf("Game started with %d players", playerCount), nil)
}

// EndGame logs the end of the game and clears the started flag. Player data is kept.
func (s *Store) EndGame() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.appendLog(s.game.ActivePlayer, model.EventGameEnd, "Game ended", nil)
	now := s.clock.Now()
	s.game.Started = false
	s.game.EndedAt = &now
}

// ResetGame discards all state, returning the session to exactly its initial form
func (s *Store) ResetGame() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.game = model.NewGame(s.game.ID, s.game.CreatedAt)
}

// appendLog must be called with mu held
func (s *Store) appendLog(id model.PlayerID, kind model.EventKind, details string, value *int) {
	now := s.clock.Now()
	var v *int
	if value != nil {
		val := *value
		v = &val
	}
	s.game.Log = append(s.game.Log, model.LogEntry{
		ID:        uuid.NewString(),
		Timestamp: now,
		PlayerID:  id,
		Kind:      kind,
		Details:   details,
		Value:     v,
	})
	s.game.UpdatedAt = now
}

func describeChange(delta int) string {
	if delta >= 0 {
		return fmt.Sprintf("gained %d", delta)
	}
	return fmt.Sprintf("lost %d", -delta)
}
