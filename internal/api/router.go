package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/commander-tracker/internal/api/handler"
	apimiddleware "github.com/mcoot/commander-tracker/internal/api/middleware"
	"github.com/mcoot/commander-tracker/internal/middleware"
	"github.com/mcoot/commander-tracker/internal/services/cards"
	"github.com/mcoot/commander-tracker/internal/services/commanders"
	"github.com/mcoot/commander-tracker/internal/services/game"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger           *slog.Logger
	GameController   *game.Controller
	CommanderService *commanders.Service
	CardClient       *cards.Client
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	Mount(r, cfg)
	return r
}

// Mount registers the API routes on an existing router
func Mount(r *mux.Router, cfg RouterConfig) {
	// Create handlers
	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.CommanderService)
	cardsHandler := handler.NewCardsHandler(cfg.CardClient)
	commandersHandler := handler.NewCommandersHandler(cfg.CommanderService)

	// Create middleware
	requestIDMiddleware := middleware.RequestID()
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(requestIDMiddleware)
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Game routes
	api.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", gameHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/games/{id}/log", gameHandler.Log).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/life", gameHandler.Life).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/poison", gameHandler.Poison).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/commander-damage", gameHandler.CommanderDamage).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/players/{player_id}/commanders/{slot}", gameHandler.AssignCommander).Methods(http.MethodPut)
	api.HandleFunc("/games/{id}/players/{player_id}/commanders/{slot}/resolve", gameHandler.ResolveCommander).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/turn", gameHandler.AdvanceTurn).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/turn/previous", gameHandler.PreviousTurn).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/start", gameHandler.Start).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/end", gameHandler.End).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/reset", gameHandler.Reset).Methods(http.MethodPost)

	// Card database proxy
	api.HandleFunc("/cards/autocomplete", cardsHandler.Autocomplete).Methods(http.MethodGet)
	api.HandleFunc("/cards/named", cardsHandler.Named).Methods(http.MethodGet)
	api.HandleFunc("/cards/search", cardsHandler.Search).Methods(http.MethodGet)

	// Commander cache
	api.HandleFunc("/commanders", commandersHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/commanders", commandersHandler.Save).Methods(http.MethodPost)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Older clients use these unversioned paths, with the game ID as ?id=
	legacy := r.PathPrefix("/api").Subrouter()
	legacy.Use(requestIDMiddleware)
	legacy.Use(recoveryMiddleware)
	legacy.Use(loggingMiddleware)
	legacy.HandleFunc("/commanders", commandersHandler.Get).Methods(http.MethodGet)
	legacy.HandleFunc("/commanders", commandersHandler.Save).Methods(http.MethodPost)
	legacy.HandleFunc("/game", gameHandler.Get).Methods(http.MethodGet)
	legacy.HandleFunc("/game", gameHandler.Create).Methods(http.MethodPost)
	legacy.HandleFunc("/game", gameHandler.Delete).Methods(http.MethodDelete)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
