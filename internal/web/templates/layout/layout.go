package layout

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

const (
	htmxScript   = "https://unpkg.com/htmx.org@2.0.4"
	htmxSSEExt   = "https://unpkg.com/htmx-ext-sse@2.2.2/sse.js"
	defaultTitle = "Commander Tracker"
)

// PageData holds the values shared by every page
type PageData struct {
	Title string
}

// FullTitle returns the document title for the page
func (p PageData) FullTitle() string {
	if p.Title == "" {
		return defaultTitle
	}
	return p.Title + " | " + defaultTitle
}

// Base wraps page content in the HTML document shell
func Base(data PageData, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
		b.WriteString(`<meta charset="utf-8">`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		b.WriteString("<title>" + templ.EscapeString(data.FullTitle()) + "</title>")
		b.WriteString(`<script src="` + htmxScript + `"></script>`)
		b.WriteString(`<script src="` + htmxSSEExt + `"></script>`)
		b.WriteString("\n</head>\n<body>\n")
		b.WriteString(`<header class="site-header"><a href="/" class="brand">` + defaultTitle + `</a></header>`)
		b.WriteString("\n<main>\n")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}

		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, "\n</main>\n</body>\n</html>\n")
		return err
	})
}
