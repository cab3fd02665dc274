// Command collector extracts GeoGuessr results from saved or live pages and
// imports the last one into a geoboard server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/geoboard/leaderboard/internal/config"
	"github.com/geoboard/leaderboard/internal/slot"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// app is the state shared by all subcommands, filled in by the root
// command's PersistentPreRunE.
type app struct {
	stdout io.Writer
	stderr io.Writer

	cfg    *config.Collector
	logger *slog.Logger
	slot   slot.Store

	closers []func() error
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	var (
		envFile   string
		serverURL string
		slotPath  string
		verbose   bool
	)

	root := &cobra.Command{
		Use:   "collector",
		Short: "Collect GeoGuessr results for a geoboard",
		Long: `collector reads the game state embedded in GeoGuessr result pages,
keeps the most recent game, and imports it into a geoboard board.

Configuration comes from the environment (and a .env file if present);
flags override it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("loading %s: %w", envFile, err)
			}

			cfg, err := config.LoadCollector()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if cmd.Flags().Changed("server") {
				cfg.ServerURL = serverURL
			}
			if cmd.Flags().Changed("slot") {
				cfg.SlotPath = slotPath
			}
			if verbose {
				cfg.LogLevel = slog.LevelDebug
			}
			a.cfg = cfg

			a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{
				Level: cfg.LogLevel,
			}))
			return a.openSlot(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&envFile, "env-file", ".env", "dotenv file to load if it exists")
	pf.StringVar(&serverURL, "server", "", "geoboard server URL (GEOBOARD_URL)")
	pf.StringVar(&slotPath, "slot", "", "file holding the last extracted game (GEOBOARD_SLOT)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newExtractCmd(a),
		newWatchCmd(a),
		newImportCmd(a),
		newSlotCmd(a),
	)
	return root
}

// openSlot picks the slot backend: redis when configured, a JSON file
// otherwise.
func (a *app) openSlot(ctx context.Context) error {
	if a.cfg.RedisURL != "" {
		opt, err := redis.ParseURL(a.cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parsing redis url: %w", err)
		}
		rdb := redis.NewClient(opt)
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return fmt.Errorf("pinging redis: %w", err)
		}
		a.closers = append(a.closers, rdb.Close)
		a.slot = slot.NewRedisStore(rdb, "")
		a.logger.Debug("slot in redis", "key", slot.DefaultRedisKey)
		return nil
	}

	path := a.cfg.SlotPath
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("locating config directory: %w", err)
		}
		path = filepath.Join(dir, "geoboard", "last-game.json")
	}
	a.slot = slot.NewFileStore(path)
	a.logger.Debug("slot on disk", "path", path)
	return nil
}

func (a *app) close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	a.closers = nil
	return errors.Join(errs...)
}
