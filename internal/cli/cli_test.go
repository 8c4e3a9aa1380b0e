package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/commander-tracker/internal/api/response"
)

func TestReadEvents(t *testing.T) {
	stream := "retry: 3000\n\n" +
		"event: connected\ndata: {\"status\":\"connected\"}\n\n" +
		": keepalive\n\n" +
		"event: game-update\ndata: <div>\ndata: </div>\n\n" +
		"data: orphan\n\n"

	type event struct{ name, data string }
	var got []event
	err := readEvents(strings.NewReader(stream), func(name, data string) {
		got = append(got, event{name, data})
	})
	require.NoError(t, err)

	assert.Equal(t, []event{
		{"connected", `{"status":"connected"}`},
		{"game-update", "<div>\n</div>"},
	}, got)
}

func TestSummarizeGame(t *testing.T) {
	g := response.Game{
		TurnNumber: 3,
		Players: []response.Player{
			{ID: 1, Name: "Player 1", Life: 40},
			{ID: 2, Name: "Player 2", Life: -2},
		},
	}
	assert.Equal(t, "turn 3: Player 1 40, Player 2 -2", summarizeGame(g))
}

func TestOutputFormats(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	tests := []struct {
		name   string
		format string
		data   any
		want   string
	}{
		{"suggestions", "text", Suggestions{Query: "atra", Names: []string{"A", "B"}}, "atra: A, B\n"},
		{"no suggestions", "text", Suggestions{Query: "a"}, "a: no suggestions\n"},
		{"empty list", "text", response.GameList{}, "No games\n"},
		{"health json", "json", HealthResult{Status: "ok"}, "{\n  \"status\": \"ok\"\n}\n"},
		{"unknown falls back to json", "text", map[string]int{"n": 1}, "{\n  \"n\": 1\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			NewOutput(cmd, tt.format).Print(tt.data)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestStatusError(t *testing.T) {
	err := statusError(404, []byte(`{"error":{"code":"GAME_NOT_FOUND","message":"Game not found"}}`))
	assert.EqualError(t, err, "Game not found (GAME_NOT_FOUND)")

	err = statusError(502, []byte("bad gateway\n"))
	assert.EqualError(t, err, "HTTP 502: bad gateway")
}
