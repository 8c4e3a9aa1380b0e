package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/commander-tracker/internal/model"
	"github.com/mcoot/commander-tracker/internal/services/game"
	"github.com/mcoot/commander-tracker/internal/web/templates/components"
)

// CardSuggester completes partial card names
type CardSuggester interface {
	Suggest(ctx context.Context, query string) []string
}

// CommanderResolver turns a card name into commander metadata
type CommanderResolver interface {
	Resolve(ctx context.Context, name string) (*model.CommanderCard, error)
}

// CommanderHandler handles the commander search on each player panel
type CommanderHandler struct {
	gameController *game.Controller
	suggester      CardSuggester
	resolver       CommanderResolver
}

// NewCommanderHandler creates a new CommanderHandler
func NewCommanderHandler(gameController *game.Controller, suggester CardSuggester, resolver CommanderResolver) *CommanderHandler {
	return &CommanderHandler{
		gameController: gameController,
		suggester:      suggester,
		resolver:       resolver,
	}
}

// Suggestions renders datalist options completing the typed name
func (h *CommanderHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	names := h.suggester.Suggest(r.Context(), r.URL.Query().Get("name"))
	render(w, r, http.StatusOK, components.CommanderSuggestions(names))
}

// Assign resolves the chosen card and puts it in the player's commander slot
func (h *CommanderHandler) Assign(w http.ResponseWriter, r *http.Request) {
	apply(w, r, func(ctx context.Context, id model.GameID, f form) (*model.Game, error) {
		player := f.player()
		if f.err != nil {
			return nil, f.err
		}
		slot := model.CommanderSlot(f.r.PostFormValue("slot"))
		if slot == "" {
			slot = model.SlotMain
		}
		if !slot.Valid() {
			return nil, model.ErrInvalidSlot
		}
		name := strings.TrimSpace(f.r.PostFormValue("name"))
		if name == "" {
			return nil, model.ErrCommanderName
		}

		// Unknown games fail before the card lookup
		if _, err := h.gameController.GetGame(ctx, id); err != nil {
			return nil, err
		}
		card, err := h.resolver.Resolve(ctx, name)
		if err != nil {
			return nil, err
		}
		return h.gameController.AssignCommander(ctx, id, player, slot, card.AsCommander())
	})
}
