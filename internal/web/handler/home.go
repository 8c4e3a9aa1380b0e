package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/commander-tracker/internal/model"
	"github.com/mcoot/commander-tracker/internal/services/game"
	"github.com/mcoot/commander-tracker/internal/web/templates/layout"
	"github.com/mcoot/commander-tracker/internal/web/templates/pages"
)

// HomeHandler handles the start page
type HomeHandler struct {
	gameController *game.Controller
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(gameController *game.Controller) *HomeHandler {
	return &HomeHandler{gameController: gameController}
}

// Home lists games and offers the new game form
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameController.ListGames(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render(w, r, http.StatusOK, pages.Home(pages.HomeData{
		PageData: layout.PageData{Title: "Home"},
		Games:    games,
	}))
}

// Create starts a new game from the form and opens its tracker
func (h *HomeHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderError(w, r, model.ErrInvalidPlayerCount)
		return
	}
	count, err := strconv.Atoi(r.PostFormValue("player_count"))
	if err != nil {
		renderError(w, r, model.ErrInvalidPlayerCount)
		return
	}

	g, err := h.gameController.CreateGame(r.Context(), count)
	if err != nil {
		renderError(w, r, err)
		return
	}
	redirect(w, r, "/games/"+string(g.ID))
}
