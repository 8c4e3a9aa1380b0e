package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/commander-tracker/internal/api/response"
	"github.com/mcoot/commander-tracker/internal/web/sse"
)

func newGameWatchCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "watch <game-id>",
		Short: "Stream live updates for a game",
		Long: `Connect to the game's event stream and print every change as it happens.

Events include:
  - state: Full game state after a change
  - game-update: Rendered board for browsers
  - log-update: Rendered log for browsers

Browser fragments are only shown with --verbose. Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return streamEvents(ctx, cmd, args[0], jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// SSEEvent represents a parsed SSE event
type SSEEvent struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	Data  string    `json:"data"`
}

func streamEvents(ctx context.Context, cmd *cobra.Command, gameID string, jsonOutput bool) error {
	// The event stream is served by the web router, not the API router
	body, err := client.Stream(ctx, "/games/"+gameID+"/events")
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	out := cmd.OutOrStdout()
	if !jsonOutput {
		_, _ = fmt.Fprintf(out, "Connected to game %s\n", gameID)
	}

	err = readEvents(body, func(event, data string) {
		printEvent(cmd, event, data, jsonOutput)
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream error: %w", err)
	}

	if !jsonOutput {
		_, _ = fmt.Fprintln(out, "Disconnected")
	}
	return nil
}

// readEvents calls fn for each complete event in an SSE stream
func readEvents(r io.Reader, fn func(event, data string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var currentEvent string
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			currentEvent = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		case line == "":
			if currentEvent != "" {
				fn(currentEvent, strings.Join(dataLines, "\n"))
			}
			currentEvent = ""
			dataLines = nil
		}
	}

	return scanner.Err()
}

func printEvent(cmd *cobra.Command, event, data string, jsonOutput bool) {
	out := cmd.OutOrStdout()
	now := time.Now()

	if jsonOutput {
		jsonData, _ := json.Marshal(SSEEvent{Time: now, Event: event, Data: data})
		_, _ = fmt.Fprintln(out, string(jsonData))
		return
	}

	timestamp := now.Format("2006-01-02 15:04:05")
	if event == sse.EventState {
		var g response.Game
		if err := json.Unmarshal([]byte(data), &g); err == nil {
			_, _ = fmt.Fprintf(out, "[%s] %s\n", timestamp, summarizeGame(g))
			return
		}
	}
	if event == sse.EventDeleted {
		_, _ = fmt.Fprintf(out, "[%s] game deleted\n", timestamp)
		return
	}
	if (event == sse.EventGameUpdate || event == sse.EventLogUpdate) && !cfg.Verbose {
		return
	}

	// Truncate data if it's too long for display
	displayData := data
	if len(displayData) > 100 && !cfg.Verbose {
		displayData = displayData[:100] + "..."
	}
	displayData = strings.ReplaceAll(displayData, "\n", " ")
	_, _ = fmt.Fprintf(out, "[%s] %s: %s\n", timestamp, event, displayData)
}

// summarizeGame renders one line per state update
func summarizeGame(g response.Game) string {
	parts := make([]string, 0, len(g.Players))
	for _, p := range g.Players {
		parts = append(parts, fmt.Sprintf("%s %d", p.Name, p.Life))
	}
	return fmt.Sprintf("turn %d: %s", g.TurnNumber, strings.Join(parts, ", "))
}
