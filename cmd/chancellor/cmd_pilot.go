package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/talgya/chancellor/internal/autopilot"
)

var pilotCmd = &cobra.Command{
	Use:   "pilot",
	Short: "Steer a running server with the autopilot",
	Long: `Observe a chancellor server over its API, decide a cautious policy each
month, apply it and advance the turn. Needs the server's admin key.

Examples:
  chancellor pilot --url http://localhost:8080 --turns 12`,
	RunE: runPilot,
}

var (
	pilotURL   string
	pilotTurns int
	pilotWait  time.Duration
)

func init() {
	rootCmd.AddCommand(pilotCmd)

	pilotCmd.Flags().StringVar(&pilotURL, "url", "", "Server base URL (default http://localhost:<api.port>)")
	pilotCmd.Flags().IntVar(&pilotTurns, "turns", 0, "Turns to play (default from config)")
	pilotCmd.Flags().DurationVar(&pilotWait, "wait", 5*time.Minute, "How long to wait for the server to come up")
}

func runPilot(cmd *cobra.Command, args []string) error {
	if cfg.API.AdminKey == "" {
		return errors.New("CHANCELLOR_ADMIN_KEY is required")
	}
	url := pilotURL
	if url == "" {
		url = fmt.Sprintf("http://localhost:%d", cfg.API.Port)
	}
	turns := cfg.Turns
	if pilotTurns > 0 {
		turns = pilotTurns
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := autopilot.NewClient(url, cfg.API.AdminKey)
	waitCtx, cancel := context.WithTimeout(ctx, pilotWait)
	defer cancel()
	if err := client.WaitReady(waitCtx); err != nil {
		return err
	}

	pilot := autopilot.New(nil)
	if err := pilot.Drive(ctx, client, turns); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Autopilot: %s\n", pilot.Memory.Summary(6))
	return nil
}
