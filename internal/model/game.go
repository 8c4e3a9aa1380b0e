package model

import "time"

// GameID uniquely identifies a tracked game session
type GameID string

// Game is the full state of one tracked session
type Game struct {
	ID         GameID
	Players    []Player
	Commanders map[PlayerID]CommanderAssignment
	Log        []LogEntry

	// Turn management
	TurnIndex    int      // 0-indexed seat, always < len(Players) when players exist
	ActivePlayer PlayerID // Players[TurnIndex].ID
	TurnNumber   int      // counts rounds, starts at 1

	Started   bool
	StartedAt *time.Time
	EndedAt   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewGame returns an empty session in its initial state
func NewGame(id GameID, now time.Time) *Game {
	return &Game{
		ID:           id,
		Players:      []Player{},
		Commanders:   make(map[PlayerID]CommanderAssignment),
		Log:          []LogEntry{},
		TurnIndex:    0,
		ActivePlayer: 1,
		TurnNumber:   1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// PlayerCount returns the number of seated players
func (g *Game) PlayerCount() int {
	return len(g.Players)
}

// GetPlayer returns the player with the given ID, or nil
func (g *Game) GetPlayer(id PlayerID) *Player {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return &g.Players[i]
		}
	}
	return nil
}

// CurrentPlayer returns the player whose turn it is, or nil if no players are seated
func (g *Game) CurrentPlayer() *Player {
	if len(g.Players) == 0 {
		return nil
	}
	return &g.Players[g.TurnIndex]
}

// Clone returns a deep copy of the game
func (g *Game) Clone() *Game {
	c := *g
	c.Players = make([]Player, len(g.Players))
	for i := range g.Players {
		c.Players[i] = g.Players[i].Clone()
	}
	c.Commanders = make(map[PlayerID]CommanderAssignment, len(g.Commanders))
	for id, a := range g.Commanders {
		c.Commanders[id] = CommanderAssignment{Main: cloneCommander(a.Main), Partner: cloneCommander(a.Partner)}
	}
	c.Log = make([]LogEntry, len(g.Log))
	copy(c.Log, g.Log)
	for i := range c.Log {
		if v := g.Log[i].Value; v != nil {
			val := *v
			c.Log[i].Value = &val
		}
	}
	c.StartedAt = cloneTime(g.StartedAt)
	c.EndedAt = cloneTime(g.EndedAt)
	return &c
}

func cloneCommander(c *Commander) *Commander {
	if c == nil {
		return nil
	}
	cc := *c
	return &cc
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	tt := *t
	return &tt
}

// GameSummary is a lightweight listing record for a session
type GameSummary struct {
	ID          GameID
	PlayerCount int
	Started     bool
	TurnNumber  int
	UpdatedAt   time.Time
}

// Summary returns the listing record for this game
func (g *Game) Summary() GameSummary {
	return GameSummary{
		ID:          g.ID,
		PlayerCount: len(g.Players),
		Started:     g.Started,
		TurnNumber:  g.TurnNumber,
		UpdatedAt:   g.UpdatedAt,
	}
}

// Table size limits enforced at the API boundary
const (
	MinPlayers = 2
	MaxPlayers = 4
)
