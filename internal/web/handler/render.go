package handler

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/commander-tracker/internal/api/apierr"
	"github.com/mcoot/commander-tracker/internal/web/templates/layout"
	"github.com/mcoot/commander-tracker/internal/web/templates/pages"
)

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// renderError shows an error page with the status that matches err
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := apierr.Status(err)
	title := http.StatusText(status)
	render(w, r, status, pages.Error(pages.ErrorData{
		PageData: layout.PageData{Title: title},
		Message:  err.Error(),
	}))
}

// redirect navigates the browser, using HX-Redirect for htmx requests
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}
