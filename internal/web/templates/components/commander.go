package components

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/mcoot/commander-tracker/internal/services/cards"
)

// SuggestionsPath serves datalist options for the commander search
const SuggestionsPath = "/cards/suggestions"

// CommanderSuggestions renders datalist options for the names completing a search
func CommanderSuggestions(names []string) templ.Component {
	return build(func(b *strings.Builder) {
		for _, name := range names {
			b.WriteString(`<option value="` + esc(name) + `"></option>`)
		}
	})
}

// writeCommanderSearch writes the search input that suggests card names as the
// player types and assigns the chosen card on submit
func writeCommanderSearch(b *strings.Builder, action, pid string) {
	listID := "commander-suggestions-" + pid
	delay := itoa(int(cards.DefaultDebounceDelay.Milliseconds()))

	b.WriteString(`<form method="post" action="` + esc(action) + `" class="commander-search"`)
	b.WriteString(` hx-post="` + esc(action) + `" hx-target="#` + BoardID + `" hx-swap="innerHTML">`)
	b.WriteString(`<input type="hidden" name="player_id" value="` + pid + `">`)
	b.WriteString(`<select name="slot">`)
	b.WriteString(`<option value="main">Commander</option><option value="partner">Partner</option>`)
	b.WriteString(`</select>`)
	b.WriteString(`<input type="search" name="name" list="` + listID + `" placeholder="Search commanders" autocomplete="off"`)
	b.WriteString(` hx-get="` + SuggestionsPath + `" hx-trigger="input changed delay:` + delay + `ms"`)
	b.WriteString(` hx-target="#` + listID + `" hx-swap="innerHTML" hx-sync="this:replace">`)
	b.WriteString(`<datalist id="` + listID + `"></datalist>`)
	b.WriteString(`<button type="submit">Assign</button>`)
	b.WriteString(`</form>`)
}
