package model

import "time"

// EventKind identifies the kind of a game log entry
type EventKind string

const (
	EventLifeChange      EventKind = "life_change"
	EventCommanderDamage EventKind = "commander_damage"
	EventPoisonChange    EventKind = "poison"
	EventTurnChange      EventKind = "turn_change"
	EventGameStart       EventKind = "game_start"
	EventGameEnd         EventKind = "game_end"
)

// LogEntry is an immutable record of one state-changing event
type LogEntry struct {
	ID        string
	Timestamp time.Time
	PlayerID  PlayerID
	Kind      EventKind
	Details   string
	Value     *int // delta, or the new total for commander damage
}
