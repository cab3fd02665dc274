package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/geoboard/leaderboard/internal/destination"
	"github.com/geoboard/leaderboard/internal/importer"
	"github.com/geoboard/leaderboard/internal/slot"
)

// errReported marks a failure whose message was already printed.
var errReported = errors.New("import failed")

func newImportCmd(a *app) *cobra.Command {
	var (
		boardURL string
		player   string
		board    string
		session  string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Submit the last extracted game to a board",
		Long: `import sends the stored game to the geoboard server. The player and
board come from --board-url, which reads the signed-in player from the board
page like a browser tab would, or from --player and --board.

The stored game is kept after a failed import so it can be retried.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("session") {
				session = a.cfg.Session
			}
			client := importer.NewClient(a.cfg.ServerURL, session, nil)

			dest := destination.Context{PlayerName: player, BoardSlug: board}
			if boardURL != "" {
				fetched, err := client.FetchContext(cmd.Context(), boardURL)
				if err != nil {
					fmt.Fprintln(a.stderr, importer.HumanMessage(err))
					return errReported
				}
				// Explicit flags win over what the page shows.
				if dest.PlayerName == "" {
					dest.PlayerName = fetched.PlayerName
				}
				if dest.BoardSlug == "" {
					dest.BoardSlug = fetched.BoardSlug
				}
			}

			res, err := importer.New(a.slot, client, a.logger).Import(cmd.Context(), dest)
			if err != nil {
				fmt.Fprintln(a.stderr, importer.HumanMessage(err))
				return errReported
			}

			if res.Duplicate {
				fmt.Fprintf(a.stdout, "Already on %s: %d points\n", dest.BoardSlug, res.TotalScore)
			} else {
				fmt.Fprintf(a.stdout, "Imported to %s: %d points\n", dest.BoardSlug, res.TotalScore)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&boardURL, "board-url", "", "board page to read the player and board from")
	f.StringVar(&player, "player", "", "player name on the board")
	f.StringVar(&board, "board", "", "board slug")
	f.StringVar(&session, "session", "", "player_session cookie (GEOBOARD_SESSION)")
	return cmd
}

func newSlotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slot",
		Short: "Inspect or clear the stored game",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the stored game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.slot.Get(cmd.Context())
			if errors.Is(err, slot.ErrEmpty) {
				fmt.Fprintln(a.stdout, "No game stored.")
				return nil
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "mode\t%s\n", s.Mode)
			if id := s.ExternalGameID(); id != nil {
				fmt.Fprintf(w, "game\t%s\n", *id)
			}
			if s.TotalScore != nil {
				fmt.Fprintf(w, "total\t%d\n", *s.TotalScore)
			}
			fmt.Fprintf(w, "rounds\t%d\n", len(s.Rounds))
			for _, r := range s.Rounds {
				score := "-"
				if r.Score != nil {
					score = fmt.Sprint(*r.Score)
				}
				fmt.Fprintf(w, "  round %d\t%s\n", r.RoundNumber, score)
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget the stored game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.slot.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, "Cleared.")
			return nil
		},
	})
	return cmd
}
