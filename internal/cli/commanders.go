package cli

import (
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/commander-tracker/internal/api/request"
	"github.com/mcoot/commander-tracker/internal/api/response"
)

func newCommandersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commanders",
		Short: "Commander cache commands",
	}

	cmd.AddCommand(newCommandersGetCmd())
	cmd.AddCommand(newCommandersSaveCmd())

	return cmd
}

func newCommandersGetCmd() *cobra.Command {
	var resolve bool

	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Show cached commander metadata",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{"name": {strings.Join(args, " ")}}
			if resolve {
				q.Set("resolve", "true")
			}

			var result response.CommanderCard
			if err := client.Get(cmd.Context(), "/api/v1/commanders?"+q.Encode(), &result); err != nil {
				return err
			}
			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&resolve, "resolve", false, "Look the card up on a cache miss")

	return cmd
}

func newCommandersSaveCmd() *cobra.Command {
	var req request.SaveCommanderRequest

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Store commander metadata in the cache",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = strings.Join(args, " ")

			var result response.CommanderCard
			if err := client.Post(cmd.Context(), "/api/v1/commanders", req, &result); err != nil {
				return err
			}
			NewOutput(cmd, cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.TypeLine, "type", "", "Type line")
	cmd.Flags().StringVar(&req.ManaCost, "cost", "", "Mana cost")
	cmd.Flags().StringVar(&req.OracleText, "text", "", "Oracle text")
	cmd.Flags().StringVar(&req.ArtworkURL, "artwork", "", "Artwork URL")
	cmd.Flags().StringVar(&req.PreviewURL, "preview", "", "Preview image URL")

	return cmd
}
