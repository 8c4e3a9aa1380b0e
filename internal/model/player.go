package model

import "sort"

// PlayerID identifies a seat at the table (1-based, stable for the game)
type PlayerID int

// Game rule thresholds
const (
	StartingLife          = 40
	LethalCommanderDamage = 21
	LethalPoison          = 10
)

// Player is one participant's tracked counters
type Player struct {
	ID              PlayerID
	Name            string
	Life            int
	PoisonCounters  int
	CommanderDamage map[PlayerID]int // keyed by opponent; absent means 0
	BackgroundImage string
}

// CommanderDamageFrom returns the commander damage received from the given opponent
func (p *Player) CommanderDamageFrom(opponent PlayerID) int {
	return p.CommanderDamage[opponent]
}

// IsLethalCommanderDamage reports whether the opponent has dealt 21 or more commander damage
func (p *Player) IsLethalCommanderDamage(opponent PlayerID) bool {
	return p.CommanderDamageFrom(opponent) >= LethalCommanderDamage
}

// LethalCommanderSources returns opponents whose commander damage is lethal, in ID order
func (p *Player) LethalCommanderSources() []PlayerID {
	var sources []PlayerID
	for opponent, dmg := range p.CommanderDamage {
		if dmg >= LethalCommanderDamage {
			sources = append(sources, opponent)
		}
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })
	return sources
}

// IsPoisoned reports whether the player has 10 or more poison counters
func (p *Player) IsPoisoned() bool {
	return p.PoisonCounters >= LethalPoison
}

// HasLost is an advisory flag: lethal commander damage from any single opponent, or lethal poison.
// Life total is not considered; the table decides that.
func (p *Player) HasLost() bool {
	return p.IsPoisoned() || len(p.LethalCommanderSources()) > 0
}

// Clone returns a deep copy of the player
func (p *Player) Clone() Player {
	c := *p
	c.CommanderDamage = make(map[PlayerID]int, len(p.CommanderDamage))
	for k, v := range p.CommanderDamage {
		c.CommanderDamage[k] = v
	}
	return c
}
