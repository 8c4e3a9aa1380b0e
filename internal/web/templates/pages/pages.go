package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/commander-tracker/internal/model"
	"github.com/mcoot/commander-tracker/internal/web/templates/components"
	"github.com/mcoot/commander-tracker/internal/web/templates/layout"
)

// HomeData holds the values for the home page
type HomeData struct {
	layout.PageData
	Games []model.GameSummary
}

// GameData holds the values for the tracker page
type GameData struct {
	layout.PageData
	Game *model.Game
}

// ErrorData holds the values for an error page
type ErrorData struct {
	layout.PageData
	Message string
}

// Home renders the start page
func Home(data HomeData) templ.Component {
	return layout.Base(data.PageData, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="new-game"><h1>New game</h1>`); err != nil {
			return err
		}
		if err := components.StartForm().Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</section><section class="games"><h2>Games</h2>`); err != nil {
			return err
		}
		if err := components.GameList(data.Games).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	}))
}

// Game renders the tracker for one session and subscribes it to live updates
func Game(data GameData) templ.Component {
	return layout.Base(data.PageData, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		id := templ.EscapeString(string(data.Game.ID))
		open := `<div class="tracker" data-game="` + id + `" hx-ext="sse" sse-connect="/games/` + id + `/events">` +
			`<div class="sse-sink" sse-swap="game-update,log-update" hx-swap="none"></div>` +
			`<div id="` + components.BoardID + `">`
		if _, err := io.WriteString(w, open); err != nil {
			return err
		}
		if err := components.Board(data.Game).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</div><aside class="log-sidebar"><h2>Log</h2><div id="`+components.LogID+`">`); err != nil {
			return err
		}
		if err := components.GameLog(data.Game.Log).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div></aside></div>`)
		return err
	}))
}

// Error renders a page explaining a failed request
func Error(data ErrorData) templ.Component {
	return layout.Base(data.PageData, templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section class="error"><h1>`+templ.EscapeString(data.Title)+`</h1>`+
			`<p class="error-message">`+templ.EscapeString(data.Message)+`</p>`+
			`<p><a href="/">Return to home</a></p></section>`)
		return err
	}))
}
