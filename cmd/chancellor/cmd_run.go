package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/talgya/chancellor/internal/autopilot"
	"github.com/talgya/chancellor/internal/collab"
	"github.com/talgya/chancellor/internal/engine"
	"github.com/talgya/chancellor/internal/newsroom"
	"github.com/talgya/chancellor/internal/persistence"
	"github.com/talgya/chancellor/internal/state"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play turns locally and print a report",
	Long: `Play a session in-process. Without --autopilot the government makes no
decisions and the economy runs on its opening budget.

Examples:
  chancellor run --turns 24
  chancellor run --autopilot --strict --paper
  chancellor run --resume 0b6c...  # continue a saved session`,
	RunE: runGame,
}

var (
	runTurns     int
	runAutopilot bool
	runStrict    bool
	runPaper     bool
	runNoSave    bool
	runResume    string
	runInterval  time.Duration
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&runTurns, "turns", 0, "Turns to play (default from config)")
	runCmd.Flags().BoolVar(&runAutopilot, "autopilot", false, "Let the autopilot make decisions")
	runCmd.Flags().BoolVar(&runStrict, "strict", false, "Validate the snapshot after every stage")
	runCmd.Flags().BoolVar(&runPaper, "paper", false, "Print the final month's front page")
	runCmd.Flags().BoolVar(&runNoSave, "no-save", false, "Keep the session in memory only")
	runCmd.Flags().StringVar(&runResume, "resume", "", "Session ID to continue (\"latest\" for the most recent)")
	runCmd.Flags().DurationVar(&runInterval, "interval", 0, "Pause between turns")
}

// openDB opens the configured database, creating its directory.
func openDB() (*persistence.DB, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	slog.Info("database opened", "path", cfg.DBPath)
	return db, nil
}

// loadOrCreate resumes the named session or starts a new one.
func loadOrCreate(db *persistence.DB, resume string) (string, *state.Snapshot, error) {
	if resume != "" {
		id := resume
		if resume == "latest" {
			latest, err := db.LatestSession()
			if err != nil {
				return "", nil, err
			}
			id = latest
		}
		s, err := db.LoadLatest(id)
		if err != nil {
			return "", nil, fmt.Errorf("resume %s: %w", id, err)
		}
		slog.Info("session resumed", "session", id, "turn", s.Meta.Turn)
		return id, s, nil
	}

	s, err := newGame()
	if err != nil {
		return "", nil, err
	}
	if db == nil {
		return "", s, nil
	}
	id, err := db.CreateSession(s)
	return id, s, err
}

func newGame() (*state.Snapshot, error) {
	return engine.NewGame(engine.GameConfig{
		Difficulty: difficulty(),
		FiscalRule: cfg.FiscalRule,
		Seed:       cfg.Seed,
	})
}

// saver persists every completed turn. Observers cannot fail a turn, so
// errors are logged and counted.
func saver(db *persistence.DB, id string, failures *int) engine.Observer {
	return func(prev, next *state.Snapshot, took time.Duration) {
		if err := db.SaveTurn(id, next); err != nil {
			*failures++
			slog.Error("save failed", "session", id, "turn", next.Meta.Turn, "error", err)
		}
	}
}

func runGame(cmd *cobra.Command, args []string) error {
	turns := cfg.Turns
	if runTurns > 0 {
		turns = runTurns
	}
	strict := cfg.Strict || runStrict
	pilotOn := cfg.Autopilot || runAutopilot

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db *persistence.DB
	if !runNoSave {
		var err error
		if db, err = openDB(); err != nil {
			return err
		}
		defer db.Close()
	} else if runResume != "" {
		return errors.New("--resume needs the database; drop --no-save")
	}

	id, s, err := loadOrCreate(db, runResume)
	if err != nil {
		return err
	}
	start := s

	opts := []engine.Option{
		engine.WithStrict(strict),
		engine.WithInterval(runInterval),
	}
	var saveFailures int
	if db != nil {
		opts = append(opts, engine.WithObserver(saver(db, id, &saveFailures)))
	}
	eng := engine.New(opts...)

	var driver engine.Driver
	var pilot *autopilot.Pilot
	if pilotOn {
		pilot = autopilot.New(eng.Collaborators().Manifesto)
		driver = pilot
	}

	prev := s
	final, runErr := eng.Run(ctx, s, turns, engine.DriverFunc(func(ctx context.Context, cur *state.Snapshot) (*state.Snapshot, error) {
		prev = cur
		if driver == nil {
			return cur, nil
		}
		return driver.BetweenTurns(ctx, cur)
	}))
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		slog.Error("run stopped", "turn", final.Meta.Turn, "error", runErr)
	}

	out := cmd.OutOrStdout()
	printSummary(out, id, start, final)
	if pilot != nil {
		fmt.Fprintf(out, "\nAutopilot: %s\n", pilot.Memory.Summary(6))
	}
	if runPaper {
		fmt.Fprintln(out)
		fmt.Fprint(out, frontPage(prev, final))
	}
	if saveFailures > 0 {
		return fmt.Errorf("%d turns failed to save", saveFailures)
	}
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

func frontPage(prev, final *state.Snapshot) string {
	if prev == final {
		prev = nil
	}
	return newsroom.FrontPage(collab.NewPublicView(prev, final), final.Events)
}
