package handler

import (
	"net/http"
	"strings"

	"github.com/mcoot/commander-tracker/internal/api/apierr"
	"github.com/mcoot/commander-tracker/internal/api/response"
	"github.com/mcoot/commander-tracker/internal/services/cards"
)

// CardsHandler proxies card database lookups
type CardsHandler struct {
	client *cards.Client
}

// NewCardsHandler creates a new cards handler
func NewCardsHandler(client *cards.Client) *CardsHandler {
	return &CardsHandler{client: client}
}

// Autocomplete handles GET /api/v1/cards/autocomplete?q=
// Lookup failures yield an empty list, the same as no matches.
func (h *CardsHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	names := h.client.Suggest(r.Context(), r.URL.Query().Get("q"))
	response.JSON(w, http.StatusOK, response.Autocomplete{Data: names})
}

// Named handles GET /api/v1/cards/named?exact=
func (h *CardsHandler) Named(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("exact")
	if strings.TrimSpace(name) == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("exact is required"))
		return
	}

	result, err := h.client.Resolve(r.Context(), name)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ResolvedCardFromResult(result))
}

// Search handles GET /api/v1/cards/search?q=
func (h *CardsHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("q is required"))
		return
	}

	result, err := h.client.Search(r.Context(), q)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SearchResultFromLookup(result))
}
