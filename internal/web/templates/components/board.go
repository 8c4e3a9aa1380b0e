package components

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/mcoot/commander-tracker/internal/model"
)

// Board renders the turn tracker and every player panel.
// The caller owns the wrapping element with id BoardID.
func Board(game *model.Game) templ.Component {
	return build(func(b *strings.Builder) {
		writeTurnTracker(b, game)
		b.WriteString(`<div class="players players-` + itoa(game.PlayerCount()) + `">`)
		for i := range game.Players {
			writePlayerPanel(b, game, &game.Players[i])
		}
		b.WriteString(`</div>`)
	})
}

// TurnTracker renders the current turn and the turn controls
func TurnTracker(game *model.Game) templ.Component {
	return build(func(b *strings.Builder) {
		writeTurnTracker(b, game)
	})
}

func writeTurnTracker(b *strings.Builder, game *model.Game) {
	base := "/games/" + string(game.ID)

	b.WriteString(`<div class="turn-tracker">`)
	b.WriteString(`<span class="turn-number">Turn ` + itoa(game.TurnNumber) + `</span> `)
	if current := game.CurrentPlayer(); current != nil {
		b.WriteString(`<span class="active-player">` + esc(current.Name) + `'s turn</span>`)
	}

	switch {
	case game.EndedAt != nil:
		b.WriteString(`<span class="game-status ended">Game over</span>`)
		writeRestartForm(b, base+"/start")
	case !game.Started:
		b.WriteString(`<span class="game-status waiting">Not started</span>`)
		writeRestartForm(b, base+"/start")
	default:
		actionForm(b, base+"/turn/previous", "turn-previous", nil, button{label: "Previous turn"})
		actionForm(b, base+"/turn", "turn-next", nil, button{label: "Next turn"})
		actionForm(b, base+"/end", "game-end", nil, button{label: "End game"})
	}
	actionForm(b, base+"/reset", "game-reset", nil, button{label: "Reset"})
	b.WriteString(`</div>`)
}

func writeRestartForm(b *strings.Builder, action string) {
	b.WriteString(`<form method="post" action="` + esc(action) + `" class="game-start"`)
	b.WriteString(` hx-post="` + esc(action) + `" hx-target="#` + BoardID + `" hx-swap="innerHTML">`)
	for n := model.MinPlayers; n <= model.MaxPlayers; n++ {
		b.WriteString(`<button type="submit" name="player_count" value="` + itoa(n) + `">` + itoa(n) + ` players</button>`)
	}
	b.WriteString(`</form>`)
}
