package components

import (
	"context"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// Element IDs targeted by htmx swaps and SSE updates
const (
	BoardID = "game-board"
	LogID   = "game-log"
)

// build returns a component that writes whatever fn appends to the builder
func build(fn func(b *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		fn(&b)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func esc(s string) string {
	return templ.EscapeString(s)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// actionForm writes a POST form that works both as a plain form and through htmx
func actionForm(b *strings.Builder, action, class string, hidden map[string]string, buttons ...button) {
	b.WriteString(`<form method="post" action="` + esc(action) + `" class="` + class + `"`)
	b.WriteString(` hx-post="` + esc(action) + `" hx-target="#` + BoardID + `" hx-swap="innerHTML">`)
	for _, name := range sortedKeys(hidden) {
		b.WriteString(`<input type="hidden" name="` + esc(name) + `" value="` + esc(hidden[name]) + `">`)
	}
	for _, btn := range buttons {
		b.WriteString(`<button type="submit"`)
		if btn.name != "" {
			b.WriteString(` name="` + esc(btn.name) + `" value="` + esc(btn.value) + `"`)
		}
		b.WriteString(`>` + esc(btn.label) + `</button>`)
	}
	b.WriteString(`</form>`)
}

type button struct {
	name  string
	value string
	label string
}

func deltaButtons(deltas ...int) []button {
	buttons := make([]button, 0, len(deltas))
	for _, d := range deltas {
		label := itoa(d)
		if d > 0 {
			label = "+" + label
		}
		buttons = append(buttons, button{name: "delta", value: itoa(d), label: label})
	}
	return buttons
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
