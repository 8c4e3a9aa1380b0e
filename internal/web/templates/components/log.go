package components

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/mcoot/commander-tracker/internal/model"
)

const logTimeFormat = "15:04:05"

// GameLog renders log entries newest first.
// The caller owns the wrapping element with id LogID.
func GameLog(entries []model.LogEntry) templ.Component {
	return build(func(b *strings.Builder) {
		if len(entries) == 0 {
			b.WriteString(`<p class="log-empty">No events yet</p>`)
			return
		}
		b.WriteString(`<ol class="log-entries" reversed>`)
		for i := len(entries) - 1; i >= 0; i-- {
			e := entries[i]
			b.WriteString(`<li class="log-entry ` + esc(string(e.Kind)) + `" data-id="` + esc(e.ID) + `">`)
			b.WriteString(`<time datetime="` + e.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00") + `">`)
			b.WriteString(e.Timestamp.Format(logTimeFormat) + `</time> `)
			b.WriteString(`<span class="details">` + esc(e.Details) + `</span>`)
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ol>`)
	})
}
