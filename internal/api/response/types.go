package response

import (
	"time"

	"github.com/mcoot/commander-tracker/internal/model"
	"github.com/mcoot/commander-tracker/internal/services/cards"
)

// Commander represents an assigned commander
type Commander struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Commanders holds a player's optional main and partner commanders
type Commanders struct {
	Main    *Commander `json:"main,omitempty"`
	Partner *Commander `json:"partner,omitempty"`
}

// CommandersFromModel converts model.CommanderAssignment
func CommandersFromModel(a model.CommanderAssignment) Commanders {
	return Commanders{
		Main:    commanderFromModel(a.Main),
		Partner: commanderFromModel(a.Partner),
	}
}

func commanderFromModel(c *model.Commander) *Commander {
	if c == nil {
		return nil
	}
	return &Commander{Name: c.Name, Image: c.Image}
}

// Player represents a player in API responses
type Player struct {
	ID              int         `json:"id"`
	Name            string      `json:"name"`
	Life            int         `json:"life"`
	PoisonCounters  int         `json:"poison_counters"`
	CommanderDamage map[int]int `json:"commander_damage"`
	BackgroundImage string      `json:"background_image"`
	Commanders      Commanders  `json:"commanders"`

	// Advisory flags; the table decides whether a player is out
	IsPoisoned            bool  `json:"is_poisoned"`
	LethalCommanderDamage []int `json:"lethal_commander_damage_from"`
	HasLost               bool  `json:"has_lost"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player, commanders model.CommanderAssignment) Player {
	damage := make(map[int]int, len(p.CommanderDamage))
	for opponent, v := range p.CommanderDamage {
		damage[int(opponent)] = v
	}
	lethal := make([]int, 0)
	for _, opponent := range p.LethalCommanderSources() {
		lethal = append(lethal, int(opponent))
	}
	return Player{
		ID:                    int(p.ID),
		Name:                  p.Name,
		Life:                  p.Life,
		PoisonCounters:        p.PoisonCounters,
		CommanderDamage:       damage,
		BackgroundImage:       p.BackgroundImage,
		Commanders:            CommandersFromModel(commanders),
		IsPoisoned:            p.IsPoisoned(),
		LethalCommanderDamage: lethal,
		HasLost:               p.HasLost(),
	}
}

// LogEntry represents one game log entry
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	PlayerID  int       `json:"player_id"`
	Kind      string    `json:"kind"`
	Details   string    `json:"details"`
	Value     *int      `json:"value,omitempty"`
}

// LogEntryFromModel converts model.LogEntry
func LogEntryFromModel(e model.LogEntry) LogEntry {
	return LogEntry{
		ID:        e.ID,
		Timestamp: e.Timestamp,
		PlayerID:  int(e.PlayerID),
		Kind:      string(e.Kind),
		Details:   e.Details,
		Value:     e.Value,
	}
}

// Log is the response for the game log endpoint
type Log struct {
	GameID  string     `json:"game_id"`
	Entries []LogEntry `json:"entries"`
}

// LogFromModel converts a list of log entries
func LogFromModel(id model.GameID, entries []model.LogEntry) Log {
	resp := Log{GameID: string(id), Entries: make([]LogEntry, len(entries))}
	for i, e := range entries {
		resp.Entries[i] = LogEntryFromModel(e)
	}
	return resp
}

// Game represents the full state of a game
type Game struct {
	ID           string     `json:"id"`
	Players      []Player   `json:"players"`
	ActivePlayer int        `json:"active_player"`
	TurnIndex    int        `json:"turn_index"`
	TurnNumber   int        `json:"turn_number"`
	Started      bool       `json:"started"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	LogSize      int        `json:"log_size"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// GameFromModel converts a model.Game to a response Game
func GameFromModel(g *model.Game) Game {
	players := make([]Player, len(g.Players))
	for i := range g.Players {
		p := &g.Players[i]
		players[i] = PlayerFromModel(p, g.Commanders[p.ID])
	}
	return Game{
		ID:           string(g.ID),
		Players:      players,
		ActivePlayer: int(g.ActivePlayer),
		TurnIndex:    g.TurnIndex,
		TurnNumber:   g.TurnNumber,
		Started:      g.Started,
		StartedAt:    g.StartedAt,
		EndedAt:      g.EndedAt,
		LogSize:      len(g.Log),
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}

// GameSummary is one entry of the game list
type GameSummary struct {
	ID          string    `json:"id"`
	PlayerCount int       `json:"player_count"`
	Started     bool      `json:"started"`
	TurnNumber  int       `json:"turn_number"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GameList is the response for the game list endpoint
type GameList struct {
	Games []GameSummary `json:"games"`
}

// GameListFromModel converts model.GameSummary values
func GameListFromModel(summaries []model.GameSummary) GameList {
	resp := GameList{Games: make([]GameSummary, len(summaries))}
	for i, s := range summaries {
		resp.Games[i] = GameSummary{
			ID:          string(s.ID),
			PlayerCount: s.PlayerCount,
			Started:     s.Started,
			TurnNumber:  s.TurnNumber,
			UpdatedAt:   s.UpdatedAt,
		}
	}
	return resp
}

// Card represents a card returned by the card database
type Card struct {
	Name       string `json:"name"`
	TypeLine   string `json:"type_line"`
	OracleText string `json:"oracle_text,omitempty"`
	ManaCost   string `json:"mana_cost,omitempty"`
	ArtworkURL string `json:"artwork_url"`
	PreviewURL string `json:"preview_url"`
}

// CardFromLookup converts a cards.Card
func CardFromLookup(c *cards.Card) Card {
	return Card{
		Name:       c.Name,
		TypeLine:   c.TypeLine,
		OracleText: c.OracleText,
		ManaCost:   c.ManaCost,
		ArtworkURL: cards.ArtworkURL(c),
		PreviewURL: cards.PreviewURL(c),
	}
}

// Autocomplete is the response for card name suggestions
type Autocomplete struct {
	Data []string `json:"data"`
}

// ResolvedCard is the response for an exact-name lookup
type ResolvedCard struct {
	Status     string `json:"status"`
	Card       *Card  `json:"card,omitempty"`
	ArtworkURL string `json:"artwork_url"`
	PreviewURL string `json:"preview_url"`
}

// ResolvedCardFromResult converts a cards.Result
func ResolvedCardFromResult(r cards.Result) ResolvedCard {
	resp := ResolvedCard{
		Status:     r.Status.String(),
		ArtworkURL: cards.ArtworkURL(r.Card),
		PreviewURL: cards.PreviewURL(r.Card),
	}
	if r.Card != nil {
		c := CardFromLookup(r.Card)
		resp.Card = &c
	}
	return resp
}

// SearchResult is the response for a commander search
type SearchResult struct {
	TotalCards int    `json:"total_cards"`
	HasMore    bool   `json:"has_more"`
	Data       []Card `json:"data"`
}

// SearchResultFromLookup converts a cards.SearchResult
func SearchResultFromLookup(r *cards.SearchResult) SearchResult {
	resp := SearchResult{TotalCards: r.TotalCards, HasMore: r.HasMore, Data: make([]Card, len(r.Data))}
	for i := range r.Data {
		resp.Data[i] = CardFromLookup(&r.Data[i])
	}
	return resp
}

// CommanderCard represents cached commander metadata
type CommanderCard struct {
	Name       string    `json:"name"`
	TypeLine   string    `json:"type_line,omitempty"`
	OracleText string    `json:"oracle_text,omitempty"`
	ManaCost   string    `json:"mana_cost,omitempty"`
	ArtworkURL string    `json:"artwork_url"`
	PreviewURL string    `json:"preview_url"`
	CachedAt   time.Time `json:"cached_at"`
}

// CommanderCardFromModel converts model.CommanderCard
func CommanderCardFromModel(c *model.CommanderCard) CommanderCard {
	return CommanderCard{
		Name:       c.Name,
		TypeLine:   c.TypeLine,
		OracleText: c.OracleText,
		ManaCost:   c.ManaCost,
		ArtworkURL: c.ArtworkURL,
		PreviewURL: c.PreviewURL,
		CachedAt:   c.CachedAt,
	}
}
