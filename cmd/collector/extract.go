package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/geoboard/leaderboard/internal/browser"
	"github.com/geoboard/leaderboard/internal/collector"
	"github.com/geoboard/leaderboard/internal/watch"
)

func newExtractCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <page.html>",
		Short: "Extract the game from a saved results page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading page: %w", err)
			}

			c := collector.New(a.slot, a.logger)
			outcome := c.Handle(cmd.Context(), doc)
			fmt.Fprintln(a.stdout, outcome)
			if outcome != collector.Stored {
				return fmt.Errorf("no game stored from %s (%s)", args[0], outcome)
			}
			return nil
		},
	}
}

func newWatchCmd(a *app) *cobra.Command {
	var (
		pageURL  string
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch [page.html]",
		Short: "Follow a page and keep the latest finished game",
		Long: `watch follows either a file that is re-saved as the game progresses,
or with --browser a live GeoGuessr tab in Chrome. Each time the embedded
game state changes to a new game or round, the game is extracted and kept
for import. Runs until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("debounce") {
				debounce = a.cfg.Debounce
			}

			var src watch.Source
			switch {
			case pageURL != "" && len(args) == 0:
				page := browser.NewPageSource(pageURL, browser.Config{
					ControlURL:   a.cfg.ControlURL,
					Headless:     a.cfg.Headless,
					PollInterval: a.cfg.PollInterval,
				}, a.logger)
				if err := page.Open(cmd.Context()); err != nil {
					return err
				}
				defer page.Close()
				src = page
			case pageURL == "" && len(args) == 1:
				src = watch.NewFileSource(args[0], a.logger)
			default:
				return fmt.Errorf("watch needs exactly one of a file argument or --browser")
			}

			c := collector.New(a.slot, a.logger)
			a.logger.Info("watching", "source", src.Name(), "debounce", debounce)
			return watch.Observe(cmd.Context(), src, debounce, func(ctx context.Context, doc []byte) {
				if o := c.Handle(ctx, doc); o == collector.Stored {
					fmt.Fprintln(a.stdout, "game stored; run `collector import` to submit it")
				}
			})
		},
	}
	cmd.Flags().StringVar(&pageURL, "browser", "", "follow this URL in Chrome instead of a file")
	cmd.Flags().DurationVar(&debounce, "debounce", 300*time.Millisecond, "quiet period before a change is read (GEOBOARD_DEBOUNCE)")
	return cmd
}
