package cli

import (
	"bufio"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/commander-tracker/internal/api/response"
	"github.com/mcoot/commander-tracker/internal/dependencies/clock"
	"github.com/mcoot/commander-tracker/internal/services/cards"
)

func newCardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Card database commands",
	}

	cmd.AddCommand(newCardsSuggestCmd())
	cmd.AddCommand(newCardsResolveCmd())
	cmd.AddCommand(newCardsSearchCmd())
	cmd.AddCommand(newCardsWatchCmd())

	return cmd
}

func newCardsSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <query>",
		Short: "Suggest card names completing a partial name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{"q": {strings.Join(args, " ")}}

			var result response.Autocomplete
			if err := client.Get(cmd.Context(), "/api/v1/cards/autocomplete?"+q.Encode(), &result); err != nil {
				return err
			}
			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	}
}

func newCardsResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <name>",
		Short: "Look up a card by exact name and check it can be a commander",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{"exact": {strings.Join(args, " ")}}

			var result response.ResolvedCard
			if err := client.Get(cmd.Context(), "/api/v1/cards/named?"+q.Encode(), &result); err != nil {
				return err
			}
			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	}
}

func newCardsSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search for cards that can be a commander",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{"q": {strings.Join(args, " ")}}

			var result response.SearchResult
			if err := client.Get(cmd.Context(), "/api/v1/cards/search?"+q.Encode(), &result); err != nil {
				return err
			}
			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	}
}

func newCardsWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Suggest card names for each line typed on stdin",
		Long: `Read partial card names from stdin, one per line, and print suggestions.

Lookups go straight to the card database and are debounced: lines that
arrive within the debounce delay of each other only look up the last one.
Queries shorter than three characters print an empty list at once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchSuggestions(cmd)
		},
	}

	cmd.Flags().StringVar(&cfg.ScryfallURL, "scryfall", cfg.ScryfallURL, "Card database URL (env: SCRYFALL_BASE_URL)")
	cmd.Flags().DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "Quiet period before a lookup is sent")

	return cmd
}

func watchSuggestions(cmd *cobra.Command) error {
	ctx := cmd.Context()
	out := NewOutput(cmd, cfg.Output)

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cardCfg := cfg.CardConfig()
	lookup := cards.NewClient(cardCfg, logger)

	var (
		mu     sync.Mutex
		latest string
	)
	// Signalled when the result for the latest query has been printed
	settled := make(chan struct{}, 1)

	suggester := cards.NewSuggester(lookup, cards.NewDebouncer(clock.New(), cfg.Debounce), func(query string, names []string) {
		mu.Lock()
		defer mu.Unlock()
		out.Print(Suggestions{Query: query, Names: names})
		if query == latest {
			select {
			case settled <- struct{}{}:
			default:
			}
		}
	})
	defer suggester.Stop()

	scanner := bufio.NewScanner(cmd.InOrStdin())
	pending := false
	for scanner.Scan() {
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}

		mu.Lock()
		latest = query
		mu.Unlock()
		select {
		case <-settled:
		default:
		}

		pending = true
		suggester.Input(ctx, query)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	if !pending {
		return nil
	}

	// Wait for the final lookup before exiting
	wait := time.NewTimer(cfg.Debounce + cardCfg.Timeout)
	defer wait.Stop()
	select {
	case <-settled:
	case <-wait.C:
	case <-ctx.Done():
	}
	return nil
}
