package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/commander-tracker/internal/api/apierr"
	"github.com/mcoot/commander-tracker/internal/model"
	"github.com/mcoot/commander-tracker/internal/services/game"
	"github.com/mcoot/commander-tracker/internal/web/sse"
	"github.com/mcoot/commander-tracker/internal/web/templates/components"
	"github.com/mcoot/commander-tracker/internal/web/templates/layout"
	"github.com/mcoot/commander-tracker/internal/web/templates/pages"
)

// GameHandler handles the tracker page, its form actions and its event stream
type GameHandler struct {
	gameController *game.Controller
	hubManager     *sse.HubManager
	broadcaster    *sse.Broadcaster
	logger         *slog.Logger
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(gameController *game.Controller, hubManager *sse.HubManager, broadcaster *sse.Broadcaster, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		gameController: gameController,
		hubManager:     hubManager,
		broadcaster:    broadcaster,
		logger:         logger,
	}
}

// View renders the tracker page
func (h *GameHandler) View(w http.ResponseWriter, r *http.Request) {
	g, err := h.gameController.GetGame(r.Context(), gameID(r))
	if err != nil {
		renderError(w, r, err)
		return
	}

	render(w, r, http.StatusOK, pages.Game(pages.GameData{
		PageData: layout.PageData{Title: "Game " + string(g.ID)},
		Game:     g,
	}))
}

// Events streams live updates for a game, starting with its current state
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	g, err := h.gameController.GetGame(r.Context(), gameID(r))
	if err != nil {
		http.Error(w, "Game not found", apierr.Status(err))
		return
	}

	initial, err := h.broadcaster.Messages(r.Context(), g)
	if err != nil {
		h.logger.Error("sse failed to render initial state",
			slog.String("game_id", string(g.ID)),
			slog.String("error", err.Error()))
		initial = nil
	}

	sse.ServeSSE(w, r, h.hubManager.GetOrCreateHub(g.ID), initial...)
}

// Life applies a life delta from the player panel, or sets the total when a
// value is submitted. Typed totals below zero are raised to zero.
func (h *GameHandler) Life(w http.ResponseWriter, r *http.Request) {
	apply(w, r, func(ctx context.Context, id model.GameID, f form) (*model.Game, error) {
		player := f.player()
		if f.has("value") {
			value := max(f.int("value"), 0)
			if f.err != nil {
				return nil, f.err
			}
			return h.gameController.SetLife(ctx, id, player, value)
		}
		delta := f.delta()
		if f.err != nil {
			return nil, f.err
		}
		return h.gameController.AdjustLife(ctx, id, player, delta)
	})
}

// Poison applies a poison counter delta
func (h *GameHandler) Poison(w http.ResponseWriter, r *http.Request) {
	apply(w, r, func(ctx context.Context, id model.GameID, f form) (*model.Game, error) {
		player, delta := f.player(), f.delta()
		if f.err != nil {
			return nil, f.err
		}
		return h.gameController.AdjustPoison(ctx, id, player, delta)
	})
}

// CommanderDamage applies a commander damage delta from one opponent
func (h *GameHandler) CommanderDamage(w http.ResponseWriter, r *http.Request) {
	apply(w, r, func(ctx context.Context, id model.GameID, f form) (*model.Game, error) {
		player, delta := f.player(), f.delta()
		opponent := model.PlayerID(f.int("opponent_id"))
		if f.err != nil {
			return nil, f.err
		}
		return h.gameController.AdjustCommanderDamage(ctx, id, player, opponent, delta)
	})
}

// AdvanceTurn passes the turn to the next seat
func (h *GameHandler) AdvanceTurn(w http.ResponseWriter, r *http.Request) {
	apply(w, r, func(ctx context.Context, id model.GameID, _ form) (*model.Game, error) {
		return h.gameController.AdvanceTurn(ctx, id)
	})
}

// PreviousTurn hands the turn back to the previous seat
func (h *GameHandler) PreviousTurn(w http.ResponseWriter, r *http.Request) {
	apply(w, r, func(ctx context.Context, id model.GameID, _ form) (*model.Game, error) {
		return h.gameController.PreviousTurn(ctx, id)
	})
}

// Start restarts the game with the submitted player count
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	apply(w, r, func(ctx context.Context, id model.GameID, f form) (*model.Game, error) {
		count := f.int("player_count")
		if f.err != nil {
			return nil, model.ErrInvalidPlayerCount
		}
		return h.gameController.StartGame(ctx, id, count)
	})
}

// End marks the game as over
func (h *GameHandler) End(w http.ResponseWriter, r *http.Request) {
	apply(w, r, func(ctx context.Context, id model.GameID, _ form) (*model.Game, error) {
		return h.gameController.EndGame(ctx, id)
	})
}

// Reset clears the game back to its initial state
func (h *GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	apply(w, r, func(ctx context.Context, id model.GameID, _ form) (*model.Game, error) {
		return h.gameController.ResetGame(ctx, id)
	})
}

type action func(ctx context.Context, id model.GameID, f form) (*model.Game, error)

// apply runs a form action. htmx requests get the re-rendered board,
// plain form posts are redirected back to the tracker.
func apply(w http.ResponseWriter, r *http.Request, fn action) {
	id := gameID(r)
	if err := r.ParseForm(); err != nil {
		renderError(w, r, apierr.NewInvalidRequestError("Invalid form data"))
		return
	}

	g, err := fn(r.Context(), id, form{r: r})
	if err != nil {
		renderError(w, r, err)
		return
	}

	if !isHTMX(r) {
		redirect(w, r, "/games/"+string(id))
		return
	}
	render(w, r, http.StatusOK, components.Board(g))
}

func gameID(r *http.Request) model.GameID {
	return model.GameID(mux.Vars(r)["id"])
}

// form reads integer fields, keeping the first parse failure
type form struct {
	r   *http.Request
	err error
}

func (f *form) int(name string) int {
	v, err := strconv.Atoi(f.r.PostFormValue(name))
	if err != nil && f.err == nil {
		f.err = apierr.NewInvalidRequestError(name + " must be an integer")
	}
	return v
}

func (f *form) has(name string) bool {
	return f.r.PostFormValue(name) != ""
}

func (f *form) player() model.PlayerID {
	return model.PlayerID(f.int("player_id"))
}

func (f *form) delta() int {
	return f.int("delta")
}
