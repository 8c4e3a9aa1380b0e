package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/commander-tracker/internal/api/apierr"
	"github.com/mcoot/commander-tracker/internal/middleware"
)

// Recovery creates panic recovery middleware that answers with a JSON INTERNAL_ERROR
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger.With(slog.String("surface", "api")), apiPanicHandler)
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
