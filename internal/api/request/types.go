package request

import "errors"

var errValueOrDelta = errors.New("exactly one of value or delta is required")

// CreateGameRequest is the request body for creating or restarting a game
type CreateGameRequest struct {
	PlayerCount int `json:"player_count"`
}

// CounterRequest is the request body for changing life or poison.
// Exactly one of Value and Delta must be set.
type CounterRequest struct {
	PlayerID int  `json:"player_id"`
	Value    *int `json:"value,omitempty"`
	Delta    *int `json:"delta,omitempty"`
}

// Validate checks that exactly one of value and delta is set
func (r CounterRequest) Validate() error {
	return valueOrDelta(r.Value, r.Delta)
}

// CommanderDamageRequest is the request body for changing commander damage
type CommanderDamageRequest struct {
	PlayerID   int  `json:"player_id"`
	OpponentID int  `json:"opponent_id"`
	Value      *int `json:"value,omitempty"`
	Delta      *int `json:"delta,omitempty"`
}

// Validate checks that exactly one of value and delta is set
func (r CommanderDamageRequest) Validate() error {
	return valueOrDelta(r.Value, r.Delta)
}

// AssignCommanderRequest is the request body for setting a commander directly
type AssignCommanderRequest struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// ResolveCommanderRequest is the request body for looking up and assigning a commander
type ResolveCommanderRequest struct {
	Name string `json:"name"`
}

// SaveCommanderRequest is the request body for caching commander metadata
type SaveCommanderRequest struct {
	Name       string `json:"name"`
	TypeLine   string `json:"type_line,omitempty"`
	OracleText string `json:"oracle_text,omitempty"`
	ManaCost   string `json:"mana_cost,omitempty"`
	ArtworkURL string `json:"artwork_url,omitempty"`
	PreviewURL string `json:"preview_url,omitempty"`
}

func valueOrDelta(value, delta *int) error {
	if (value == nil) == (delta == nil) {
		return errValueOrDelta
	}
	return nil
}
