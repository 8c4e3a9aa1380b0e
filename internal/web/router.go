package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/commander-tracker/internal/middleware"
	"github.com/mcoot/commander-tracker/internal/services/game"
	"github.com/mcoot/commander-tracker/internal/web/handler"
	webmiddleware "github.com/mcoot/commander-tracker/internal/web/middleware"
	"github.com/mcoot/commander-tracker/internal/web/sse"
	"github.com/mcoot/commander-tracker/internal/web/templates/components"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger         *slog.Logger
	GameController *game.Controller
	HubManager     *sse.HubManager
	Broadcaster    *sse.Broadcaster

	// Card lookups behind the commander search
	CardClient       handler.CardSuggester
	CommanderService handler.CommanderResolver
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	Mount(r, cfg)
	return r
}

// Mount registers the tracker pages on an existing router
func Mount(r *mux.Router, cfg RouterConfig) {
	hubManager := cfg.HubManager
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
	}
	broadcaster := cfg.Broadcaster
	if broadcaster == nil {
		broadcaster = sse.NewBroadcaster(hubManager, cfg.Logger)
	}

	homeHandler := handler.NewHomeHandler(cfg.GameController)
	gameHandler := handler.NewGameHandler(cfg.GameController, hubManager, broadcaster, cfg.Logger)
	commanderHandler := handler.NewCommanderHandler(cfg.GameController, cfg.CardClient, cfg.CommanderService)

	pages := r.NewRoute().Subrouter()
	pages.Use(middleware.RequestID())
	pages.Use(webmiddleware.Recovery(cfg.Logger))
	pages.Use(webmiddleware.Logging(cfg.Logger))

	pages.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	pages.HandleFunc("/games", homeHandler.Create).Methods(http.MethodPost)

	pages.HandleFunc("/games/{id}", gameHandler.View).Methods(http.MethodGet)
	pages.HandleFunc("/games/{id}/events", gameHandler.Events).Methods(http.MethodGet)
	pages.HandleFunc("/games/{id}/life", gameHandler.Life).Methods(http.MethodPost)
	pages.HandleFunc("/games/{id}/poison", gameHandler.Poison).Methods(http.MethodPost)
	pages.HandleFunc("/games/{id}/commander-damage", gameHandler.CommanderDamage).Methods(http.MethodPost)
	pages.HandleFunc("/games/{id}/turn", gameHandler.AdvanceTurn).Methods(http.MethodPost)
	pages.HandleFunc("/games/{id}/turn/previous", gameHandler.PreviousTurn).Methods(http.MethodPost)
	pages.HandleFunc("/games/{id}/start", gameHandler.Start).Methods(http.MethodPost)
	pages.HandleFunc("/games/{id}/end", gameHandler.End).Methods(http.MethodPost)
	pages.HandleFunc("/games/{id}/reset", gameHandler.Reset).Methods(http.MethodPost)
	pages.HandleFunc("/games/{id}/commander", commanderHandler.Assign).Methods(http.MethodPost)
	pages.HandleFunc(components.SuggestionsPath, commanderHandler.Suggestions).Methods(http.MethodGet)
}
