package model

import "time"

// CommanderSlot selects which commander of a player is being assigned
type CommanderSlot string

const (
	SlotMain    CommanderSlot = "main"
	SlotPartner CommanderSlot = "partner"
)

// Valid returns true for a known slot
func (s CommanderSlot) Valid() bool {
	return s == SlotMain || s == SlotPartner
}

// Commander is the cosmetic card reference shown on a player's panel
type Commander struct {
	Name  string
	Image string
}

// CommanderAssignment holds a player's optional main and partner commanders
type CommanderAssignment struct {
	Main    *Commander
	Partner *Commander
}

// Get returns the commander in the given slot, or nil
func (a CommanderAssignment) Get(slot CommanderSlot) *Commander {
	if slot == SlotPartner {
		return a.Partner
	}
	return a.Main
}

// CommanderCard is resolved card metadata kept in the commander cache
type CommanderCard struct {
	Name       string
	TypeLine   string
	OracleText string
	ManaCost   string
	ArtworkURL string
	PreviewURL string
	CachedAt   time.Time
}

// AsCommander returns the panel reference for this card
func (c *CommanderCard) AsCommander() Commander {
	return Commander{Name: c.Name, Image: c.ArtworkURL}
}
