package components

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/mcoot/commander-tracker/internal/model"
)

// GameList renders links to existing sessions
func GameList(games []model.GameSummary) templ.Component {
	return build(func(b *strings.Builder) {
		if len(games) == 0 {
			b.WriteString(`<p class="no-games">No games yet</p>`)
			return
		}
		b.WriteString(`<ul class="game-list">`)
		for _, g := range games {
			id := esc(string(g.ID))
			b.WriteString(`<li class="game-summary" data-game="` + id + `">`)
			b.WriteString(`<a href="/games/` + id + `">` + id + `</a> `)
			b.WriteString(`<span class="player-count">` + itoa(g.PlayerCount) + ` players</span> `)
			if g.Started {
				b.WriteString(`<span class="turn">Turn ` + itoa(g.TurnNumber) + `</span>`)
			}
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul>`)
	})
}

// StartForm renders the form that starts a new game
func StartForm() templ.Component {
	return build(func(b *strings.Builder) {
		b.WriteString(`<form method="post" action="/games" class="start-game">`)
		b.WriteString(`<label for="player_count">Players</label>`)
		b.WriteString(`<select id="player_count" name="player_count">`)
		for n := model.MinPlayers; n <= model.MaxPlayers; n++ {
			b.WriteString(`<option value="` + itoa(n) + `"`)
			if n == model.MaxPlayers {
				b.WriteString(` selected`)
			}
			b.WriteString(`>` + itoa(n) + `</option>`)
		}
		b.WriteString(`</select>`)
		b.WriteString(`<button type="submit">Start game</button>`)
		b.WriteString(`</form>`)
	})
}
