package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/commander-tracker/internal/middleware"
)

// Logging creates request logging middleware for the tracker pages
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger.With(slog.String("surface", "web")))
}
