package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/commander-tracker/internal/api/apierr"
	"github.com/mcoot/commander-tracker/internal/api/request"
	"github.com/mcoot/commander-tracker/internal/api/response"
	"github.com/mcoot/commander-tracker/internal/model"
	"github.com/mcoot/commander-tracker/internal/services/commanders"
)

// CommandersHandler serves the commander cache
type CommandersHandler struct {
	service *commanders.Service
}

// NewCommandersHandler creates a new commanders handler
func NewCommandersHandler(service *commanders.Service) *CommandersHandler {
	return &CommandersHandler{service: service}
}

// Get handles GET /api/v1/commanders?name=
// With resolve=true a cache miss is looked up in the card database.
func (h *CommandersHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("name is required"))
		return
	}

	var (
		card *model.CommanderCard
		err  error
	)
	if r.URL.Query().Get("resolve") == "true" {
		card, err = h.service.Resolve(r.Context(), name)
	} else {
		card, err = h.service.Get(r.Context(), name)
	}
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CommanderCardFromModel(card))
}

// Save handles POST /api/v1/commanders
func (h *CommandersHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req request.SaveCommanderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Invalid request body"))
		return
	}

	card, err := h.service.Save(r.Context(), model.CommanderCard{
		Name:       req.Name,
		TypeLine:   req.TypeLine,
		OracleText: req.OracleText,
		ManaCost:   req.ManaCost,
		ArtworkURL: req.ArtworkURL,
		PreviewURL: req.PreviewURL,
	})
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CommanderCardFromModel(card))
}
