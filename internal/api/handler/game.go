package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/commander-tracker/internal/api/apierr"
	"github.com/mcoot/commander-tracker/internal/api/request"
	"github.com/mcoot/commander-tracker/internal/api/response"
	"github.com/mcoot/commander-tracker/internal/model"
	"github.com/mcoot/commander-tracker/internal/services/commanders"
	"github.com/mcoot/commander-tracker/internal/services/game"
)

// GameHandler handles game-related endpoints
type GameHandler struct {
	gameController   *game.Controller
	commanderService *commanders.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController *game.Controller, commanderService *commanders.Service) *GameHandler {
	return &GameHandler{
		gameController:   gameController,
		commanderService: commanderService,
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Invalid request body"))
		return
	}

	g, err := h.gameController.CreateGame(r.Context(), req.PlayerCount)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.Created(w, "/api/v1/games/"+string(g.ID), response.GameFromModel(g))
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.gameController.ListGames(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameListFromModel(summaries))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	g, err := h.gameController.GetGame(r.Context(), gameID(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// Delete handles DELETE /api/v1/games/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.gameController.DeleteGame(r.Context(), gameID(r)); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Log handles GET /api/v1/games/{id}/log
func (h *GameHandler) Log(w http.ResponseWriter, r *http.Request) {
	id := gameID(r)
	entries, err := h.gameController.GetLog(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LogFromModel(id, entries))
}

// Life handles POST /api/v1/games/{id}/life
func (h *GameHandler) Life(w http.ResponseWriter, r *http.Request) {
	var req request.CounterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError(err.Error()))
		return
	}

	var (
		g   *model.Game
		err error
	)
	pid := model.PlayerID(req.PlayerID)
	if req.Value != nil {
		g, err = h.gameController.SetLife(r.Context(), gameID(r), pid, *req.Value)
	} else {
		g, err = h.gameController.AdjustLife(r.Context(), gameID(r), pid, *req.Delta)
	}
	h.writeGame(w, g, err)
}

// Poison handles POST /api/v1/games/{id}/poison
func (h *GameHandler) Poison(w http.ResponseWriter, r *http.Request) {
	var req request.CounterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError(err.Error()))
		return
	}

	var (
		g   *model.Game
		err error
	)
	pid := model.PlayerID(req.PlayerID)
	if req.Value != nil {
		g, err = h.gameController.SetPoison(r.Context(), gameID(r), pid, *req.Value)
	} else {
		g, err = h.gameController.AdjustPoison(r.Context(), gameID(r), pid, *req.Delta)
	}
	h.writeGame(w, g, err)
}

// CommanderDamage handles POST /api/v1/games/{id}/commander-damage
func (h *GameHandler) CommanderDamage(w http.ResponseWriter, r *http.Request) {
	var req request.CommanderDamageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError(err.Error()))
		return
	}

	var (
		g   *model.Game
		err error
	)
	pid, opponent := model.PlayerID(req.PlayerID), model.PlayerID(req.OpponentID)
	if req.Value != nil {
		g, err = h.gameController.SetCommanderDamage(r.Context(), gameID(r), pid, opponent, *req.Value)
	} else {
		g, err = h.gameController.AdjustCommanderDamage(r.Context(), gameID(r), pid, opponent, *req.Delta)
	}
	h.writeGame(w, g, err)
}

// AssignCommander handles PUT /api/v1/games/{id}/players/{player_id}/commanders/{slot}
func (h *GameHandler) AssignCommander(w http.ResponseWriter, r *http.Request) {
	pid, slot, ok := commanderTarget(w, r)
	if !ok {
		return
	}

	var req request.AssignCommanderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Commander name is required"))
		return
	}

	g, err := h.gameController.AssignCommander(r.Context(), gameID(r), pid, slot,
		model.Commander{Name: req.Name, Image: req.Image})
	h.writeGame(w, g, err)
}

// ResolveCommander handles POST /api/v1/games/{id}/players/{player_id}/commanders/{slot}/resolve
func (h *GameHandler) ResolveCommander(w http.ResponseWriter, r *http.Request) {
	pid, slot, ok := commanderTarget(w, r)
	if !ok {
		return
	}

	var req request.ResolveCommanderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Commander name is required"))
		return
	}

	// Check the game exists before spending a remote lookup on it
	if _, err := h.gameController.GetGame(r.Context(), gameID(r)); err != nil {
		apierr.WriteError(w, err)
		return
	}

	card, err := h.commanderService.Resolve(r.Context(), req.Name)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	g, err := h.gameController.AssignCommander(r.Context(), gameID(r), pid, slot, card.AsCommander())
	h.writeGame(w, g, err)
}

// AdvanceTurn handles POST /api/v1/games/{id}/turn
func (h *GameHandler) AdvanceTurn(w http.ResponseWriter, r *http.Request) {
	g, err := h.gameController.AdvanceTurn(r.Context(), gameID(r))
	h.writeGame(w, g, err)
}

// PreviousTurn handles POST /api/v1/games/{id}/turn/previous
func (h *GameHandler) PreviousTurn(w http.ResponseWriter, r *http.Request) {
	g, err := h.gameController.PreviousTurn(r.Context(), gameID(r))
	h.writeGame(w, g, err)
}

// Start handles POST /api/v1/games/{id}/start
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Invalid request body"))
		return
	}

	g, err := h.gameController.StartGame(r.Context(), gameID(r), req.PlayerCount)
	h.writeGame(w, g, err)
}

// End handles POST /api/v1/games/{id}/end
func (h *GameHandler) End(w http.ResponseWriter, r *http.Request) {
	g, err := h.gameController.EndGame(r.Context(), gameID(r))
	h.writeGame(w, g, err)
}

// Reset handles POST /api/v1/games/{id}/reset
func (h *GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	g, err := h.gameController.ResetGame(r.Context(), gameID(r))
	h.writeGame(w, g, err)
}

func (h *GameHandler) writeGame(w http.ResponseWriter, g *model.Game, err error) {
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.GameFromModel(g))
}

// gameID reads the game ID from the path, falling back to the ?id= query used by legacy routes
func gameID(r *http.Request) model.GameID {
	if id, ok := mux.Vars(r)["id"]; ok {
		return model.GameID(id)
	}
	return model.GameID(r.URL.Query().Get("id"))
}

func commanderTarget(w http.ResponseWriter, r *http.Request) (model.PlayerID, model.CommanderSlot, bool) {
	vars := mux.Vars(r)
	pid, err := strconv.Atoi(vars["player_id"])
	if err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Invalid player ID"))
		return 0, "", false
	}
	slot := model.CommanderSlot(vars["slot"])
	if !slot.Valid() {
		apierr.WriteError(w, model.ErrInvalidSlot)
		return 0, "", false
	}
	return model.PlayerID(pid), slot, true
}
