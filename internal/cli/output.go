package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/commander-tracker/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	out    io.Writer
	errOut io.Writer
}

// NewOutput creates a new Output formatter writing to the command's streams
func NewOutput(cmd *cobra.Command, format string) *Output {
	return &Output{format: format, out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]any{
			"error": map[string]string{"message": err.Error()},
		})
		_, _ = fmt.Fprintln(o.errOut, string(data))
	} else {
		_, _ = fmt.Fprintf(o.errOut, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.out, string(data))
	} else {
		_, _ = fmt.Fprintln(o.out, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Game:
		o.printGame(v)
	case response.GameList:
		o.printGameList(v)
	case response.Log:
		o.printLog(v)
	case response.Autocomplete:
		o.printNames(v.Data)
	case Suggestions:
		o.printSuggestions(v)
	case response.ResolvedCard:
		o.printResolvedCard(v)
	case response.SearchResult:
		o.printSearchResult(v)
	case response.CommanderCard:
		o.printCommanderCard(v)
	case HealthResult:
		o.printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// Suggestions pairs a typed query with the names suggested for it
type Suggestions struct {
	Query string   `json:"query"`
	Names []string `json:"suggestions"`
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.out, format, args...)
}

func (o *Output) printGame(g response.Game) {
	o.printf("Game: %s\n", g.ID)
	switch {
	case g.EndedAt != nil:
		o.printf("State: ended\n")
	case g.Started:
		o.printf("State: in progress\n")
	default:
		o.printf("State: not started\n")
	}
	o.printf("Turn: %d\n", g.TurnNumber)
	for _, p := range g.Players {
		if p.ID == g.ActivePlayer {
			o.printf("Active: %s\n", p.Name)
		}
	}

	names := make(map[int]string, len(g.Players))
	for _, p := range g.Players {
		names[p.ID] = p.Name
	}

	o.printf("\nPlayers:\n")
	for _, p := range g.Players {
		var flags []string
		if p.ID == g.ActivePlayer && g.Started {
			flags = append(flags, "active")
		}
		if p.IsPoisoned {
			flags = append(flags, "poisoned")
		}
		if len(p.LethalCommanderDamage) > 0 {
			flags = append(flags, "lethal commander damage")
		}
		suffix := ""
		if len(flags) > 0 {
			suffix = " [" + strings.Join(flags, ", ") + "]"
		}
		o.printf("  %d. %s: %d life, %d poison%s\n", p.ID, p.Name, p.Life, p.PoisonCounters, suffix)

		if p.Commanders.Main != nil {
			o.printf("     Commander: %s\n", p.Commanders.Main.Name)
		}
		if p.Commanders.Partner != nil {
			o.printf("     Partner: %s\n", p.Commanders.Partner.Name)
		}

		opponents := make([]int, 0, len(p.CommanderDamage))
		for id, dmg := range p.CommanderDamage {
			if dmg > 0 {
				opponents = append(opponents, id)
			}
		}
		sort.Ints(opponents)
		for _, id := range opponents {
			o.printf("     Commander damage from %s: %d\n", names[id], p.CommanderDamage[id])
		}
	}
}

func (o *Output) printGameList(l response.GameList) {
	if len(l.Games) == 0 {
		o.printf("No games\n")
		return
	}
	for _, g := range l.Games {
		state := "not started"
		if g.Started {
			state = fmt.Sprintf("turn %d", g.TurnNumber)
		}
		o.printf("%s  %d players  %s\n", g.ID, g.PlayerCount, state)
	}
}

func (o *Output) printLog(l response.Log) {
	if len(l.Entries) == 0 {
		o.printf("No events\n")
		return
	}
	for _, e := range l.Entries {
		o.printf("[%s] %s\n", e.Timestamp.Format("15:04:05"), e.Details)
	}
}

func (o *Output) printNames(names []string) {
	if len(names) == 0 {
		o.printf("No suggestions\n")
		return
	}
	for _, n := range names {
		o.printf("%s\n", n)
	}
}

func (o *Output) printSuggestions(s Suggestions) {
	if len(s.Names) == 0 {
		o.printf("%s: no suggestions\n", s.Query)
		return
	}
	o.printf("%s: %s\n", s.Query, strings.Join(s.Names, ", "))
}

func (o *Output) printResolvedCard(r response.ResolvedCard) {
	o.printf("Status: %s\n", r.Status)
	if r.Card != nil {
		o.printCard(*r.Card)
	}
}

func (o *Output) printCard(c response.Card) {
	o.printf("Name: %s\n", c.Name)
	if c.TypeLine != "" {
		o.printf("Type: %s\n", c.TypeLine)
	}
	if c.ManaCost != "" {
		o.printf("Cost: %s\n", c.ManaCost)
	}
	if c.ArtworkURL != "" {
		o.printf("Artwork: %s\n", c.ArtworkURL)
	}
}

func (o *Output) printSearchResult(r response.SearchResult) {
	if len(r.Data) == 0 {
		o.printf("No commanders found\n")
		return
	}
	for _, c := range r.Data {
		o.printf("%s  (%s)\n", c.Name, c.TypeLine)
	}
	if r.HasMore {
		o.printf("... %d cards in total\n", r.TotalCards)
	}
}

func (o *Output) printCommanderCard(c response.CommanderCard) {
	o.printCard(response.Card{
		Name:       c.Name,
		TypeLine:   c.TypeLine,
		ManaCost:   c.ManaCost,
		ArtworkURL: c.ArtworkURL,
	})
	o.printf("Cached: %s\n", c.CachedAt.Format("2006-01-02 15:04:05"))
}
