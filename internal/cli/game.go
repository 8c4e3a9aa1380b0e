package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/commander-tracker/internal/api/request"
	"github.com/mcoot/commander-tracker/internal/api/response"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameStartCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameDeleteCmd())
	cmd.AddCommand(newGameLifeCmd())
	cmd.AddCommand(newGamePoisonCmd())
	cmd.AddCommand(newGameDamageCmd())
	cmd.AddCommand(newGameTurnCmd())
	cmd.AddCommand(newGameEndCmd())
	cmd.AddCommand(newGameResetCmd())
	cmd.AddCommand(newGameLogCmd())
	cmd.AddCommand(newGameCommanderCmd())
	cmd.AddCommand(newGameWatchCmd())

	return cmd
}

func gamePath(id string, parts ...string) string {
	p := "/api/v1/games/" + url.PathEscape(id)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

// counterFlags holds the mutually exclusive --set and --delta flags
type counterFlags struct {
	value int
	delta int
}

func (f *counterFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.value, "set", 0, "Set the counter to this value")
	cmd.Flags().IntVar(&f.delta, "delta", 0, "Change the counter by this amount")
	cmd.MarkFlagsMutuallyExclusive("set", "delta")
	cmd.MarkFlagsOneRequired("set", "delta")
}

// pointers returns the value and delta to send, leaving the unused one nil
func (f *counterFlags) pointers(cmd *cobra.Command) (value, delta *int) {
	if cmd.Flags().Changed("set") {
		v := f.value
		return &v, nil
	}
	d := f.delta
	return nil, &d
}

func parsePlayer(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("player must be a number: %q", arg)
	}
	return id, nil
}

func printGame(cmd *cobra.Command, g response.Game) {
	NewOutput(cmd, cfg.Output).Print(g)
}

func newGameStartCmd() *cobra.Command {
	var players int

	cmd := &cobra.Command{
		Use:   "start [game-id]",
		Short: "Start a new game, or restart an existing one",
		Long: `Start a new game with the given number of players.

With a game ID, the existing game is restarted in place: every counter
and assignment is cleared and the log starts over.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.CreateGameRequest{PlayerCount: players}
			path := "/api/v1/games"
			if len(args) == 1 {
				path = gamePath(args[0], "start")
			}

			var result response.Game
			if err := client.Post(cmd.Context(), path, req, &result); err != nil {
				return err
			}
			printGame(cmd, result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&players, "players", "p", 4, "Number of players (2-4)")

	return cmd
}

func newGameListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.GameList
			if err := client.Get(cmd.Context(), "/api/v1/games", &result); err != nil {
				return err
			}
			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game-id>",
		Short: "Get current game state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game
			if err := client.Get(cmd.Context(), gamePath(args[0]), &result); err != nil {
				return err
			}
			printGame(cmd, result)
			return nil
		},
	}
}

func newGameDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <game-id>",
		Short: "Delete a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), gamePath(args[0])); err != nil {
				return err
			}
			NewOutput(cmd, cfg.Output).PrintMessage(fmt.Sprintf("Deleted game %s", args[0]))
			return nil
		},
	}
}

func newGameLifeCmd() *cobra.Command {
	var counter counterFlags

	cmd := &cobra.Command{
		Use:   "life <game-id> <player>",
		Short: "Set or adjust a player's life total",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := parsePlayer(args[1])
			if err != nil {
				return err
			}
			req := request.CounterRequest{PlayerID: player}
			req.Value, req.Delta = counter.pointers(cmd)

			var result response.Game
			if err := client.Post(cmd.Context(), gamePath(args[0], "life"), req, &result); err != nil {
				return err
			}
			printGame(cmd, result)
			return nil
		},
	}

	counter.register(cmd)

	return cmd
}

func newGamePoisonCmd() *cobra.Command {
	var counter counterFlags

	cmd := &cobra.Command{
		Use:   "poison <game-id> <player>",
		Short: "Set or adjust a player's poison counters",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := parsePlayer(args[1])
			if err != nil {
				return err
			}
			req := request.CounterRequest{PlayerID: player}
			req.Value, req.Delta = counter.pointers(cmd)

			var result response.Game
			if err := client.Post(cmd.Context(), gamePath(args[0], "poison"), req, &result); err != nil {
				return err
			}
			printGame(cmd, result)
			return nil
		},
	}

	counter.register(cmd)

	return cmd
}

func newGameDamageCmd() *cobra.Command {
	var counter counterFlags

	cmd := &cobra.Command{
		Use:   "damage <game-id> <player> <opponent>",
		Short: "Set or adjust commander damage a player took from an opponent",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := parsePlayer(args[1])
			if err != nil {
				return err
			}
			opponent, err := parsePlayer(args[2])
			if err != nil {
				return err
			}
			req := request.CommanderDamageRequest{PlayerID: player, OpponentID: opponent}
			req.Value, req.Delta = counter.pointers(cmd)

			var result response.Game
			if err := client.Post(cmd.Context(), gamePath(args[0], "commander-damage"), req, &result); err != nil {
				return err
			}
			printGame(cmd, result)
			return nil
		},
	}

	counter.register(cmd)

	return cmd
}

func newGameTurnCmd() *cobra.Command {
	var previous bool

	cmd := &cobra.Command{
		Use:   "turn <game-id>",
		Short: "Pass the turn to the next player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := gamePath(args[0], "turn")
			if previous {
				path = gamePath(args[0], "turn", "previous")
			}

			var result response.Game
			if err := client.Post(cmd.Context(), path, nil, &result); err != nil {
				return err
			}
			printGame(cmd, result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&previous, "previous", false, "Hand the turn back to the previous player")

	return cmd
}

func newGameEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <game-id>",
		Short: "End the game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game
			if err := client.Post(cmd.Context(), gamePath(args[0], "end"), nil, &result); err != nil {
				return err
			}
			printGame(cmd, result)
			return nil
		},
	}
}

func newGameResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <game-id>",
		Short: "Reset the game to its initial state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game
			if err := client.Post(cmd.Context(), gamePath(args[0], "reset"), nil, &result); err != nil {
				return err
			}
			printGame(cmd, result)
			return nil
		},
	}
}

func newGameLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log <game-id>",
		Short: "Show the game log, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Log
			if err := client.Get(cmd.Context(), gamePath(args[0], "log"), &result); err != nil {
				return err
			}
			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	}
}

func newGameCommanderCmd() *cobra.Command {
	var (
		slot    string
		image   string
		resolve bool
	)

	cmd := &cobra.Command{
		Use:   "commander <game-id> <player> <name>",
		Short: "Assign a commander to a player",
		Long: `Assign a commander to a player's main or partner slot.

With --resolve the name is looked up in the card database first and the
card's artwork is used; cards that cannot be a commander are rejected.
Without it the name and --image are stored as given.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := parsePlayer(args[1])
			if err != nil {
				return err
			}
			path := gamePath(args[0], "players", strconv.Itoa(player), "commanders", url.PathEscape(slot))

			var result response.Game
			if resolve {
				err = client.Post(cmd.Context(), path+"/resolve", request.ResolveCommanderRequest{Name: args[2]}, &result)
			} else {
				err = client.Put(cmd.Context(), path, request.AssignCommanderRequest{Name: args[2], Image: image}, &result)
			}
			if err != nil {
				return err
			}
			printGame(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&slot, "slot", "main", "Commander slot: main, partner")
	cmd.Flags().StringVar(&image, "image", "", "Artwork URL to store with the commander")
	cmd.Flags().BoolVar(&resolve, "resolve", false, "Look the card up before assigning it")
	cmd.MarkFlagsMutuallyExclusive("image", "resolve")

	return cmd
}
