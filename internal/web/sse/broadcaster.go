package sse

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	"github.com/a-h/templ"

	"github.com/mcoot/commander-tracker/internal/api/response"
	"github.com/mcoot/commander-tracker/internal/model"
	"github.com/mcoot/commander-tracker/internal/web/templates/components"
)

// Event names sent on a game stream
const (
	EventGameUpdate = "game-update"
	EventLogUpdate  = "log-update"
	EventState      = "state"
	EventDeleted    = "deleted"
)

// Broadcaster publishes game changes to the clients watching them
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// GameUpdated pushes the re-rendered board, log and JSON state of a game.
// Games nobody is watching are skipped.
func (b *Broadcaster) GameUpdated(ctx context.Context, game *model.Game) {
	hub := b.hubManager.GetHub(game.ID)
	if hub == nil {
		return
	}
	messages, err := b.Messages(ctx, game)
	if err != nil {
		b.logger.Error("sse failed to render game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()))
		return
	}
	for _, msg := range messages {
		hub.Broadcast(msg)
	}
}

// GameDeleted tells watchers the game is gone and closes their streams
func (b *Broadcaster) GameDeleted(_ context.Context, gameID model.GameID) {
	hub := b.hubManager.GetHub(gameID)
	if hub == nil {
		return
	}
	hub.BroadcastEvent(EventDeleted, `{"game_id":"`+string(gameID)+`"}`)
	b.hubManager.RemoveHub(gameID)
}

// Messages renders the full set of stream events describing a game
func (b *Broadcaster) Messages(ctx context.Context, game *model.Game) ([][]byte, error) {
	board, err := renderString(ctx, components.Board(game))
	if err != nil {
		return nil, err
	}
	log, err := renderString(ctx, components.GameLog(game.Log))
	if err != nil {
		return nil, err
	}
	state, err := json.Marshal(response.GameFromModel(game))
	if err != nil {
		return nil, err
	}

	return [][]byte{
		formatSSEMessage(EventGameUpdate, WrapForOOBSwap(components.BoardID, board)),
		formatSSEMessage(EventLogUpdate, WrapForOOBSwap(components.LogID, log)),
		formatSSEMessage(EventState, string(state)),
	}, nil
}

// WrapForOOBSwap wraps HTML so htmx swaps it into the element with the given id
func WrapForOOBSwap(id, html string) string {
	return `<div id="` + id + `" hx-swap-oob="true">` + html + `</div>`
}

func renderString(ctx context.Context, c templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
