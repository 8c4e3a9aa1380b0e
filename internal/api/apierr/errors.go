package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/commander-tracker/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeNoPlayers           = "NO_PLAYERS"
	CodeSelfCommanderDamage = "SELF_COMMANDER_DAMAGE"
	CodeGameNotFound        = "GAME_NOT_FOUND"
	CodeInvalidPlayerCount  = "INVALID_PLAYER_COUNT"
	CodeInvalidSlot         = "INVALID_SLOT"
	CodeCardNotFound        = "CARD_NOT_FOUND"
	CodeNotACommander       = "NOT_A_COMMANDER"
	CodeCommanderNotCached  = "COMMANDER_NOT_CACHED"
	CodeUpstreamError       = "UPSTREAM_ERROR"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrNoPlayers):
		return &httpError{http.StatusConflict, APIError{CodeNoPlayers, "Game has no players"}}
	case errors.Is(err, model.ErrSelfCommanderDamage):
		return &httpError{http.StatusBadRequest, APIError{CodeSelfCommanderDamage, "Commander damage must come from an opponent"}}
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrInvalidPlayerCount):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPlayerCount, "Player count must be between 2 and 4"}}
	case errors.Is(err, model.ErrInvalidSlot):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidSlot, "Commander slot must be main or partner"}}
	case errors.Is(err, model.ErrCardNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeCardNotFound, "Card not found"}}
	case errors.Is(err, model.ErrNotCommander):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodeNotACommander, "This card cannot be a commander"}}
	case errors.Is(err, model.ErrCommanderMissing):
		return &httpError{http.StatusNotFound, APIError{CodeCommanderNotCached, "Commander not cached"}}
	case errors.Is(err, model.ErrCommanderName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Commander name is required"}}
	case errors.Is(err, model.ErrCardLookup):
		return &httpError{http.StatusBadGateway, APIError{CodeUpstreamError, "Card database unavailable"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
