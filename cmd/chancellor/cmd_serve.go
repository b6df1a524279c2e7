package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/talgya/chancellor/internal/api"
	"github.com/talgya/chancellor/internal/engine"
	"github.com/talgya/chancellor/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host a game over the HTTP API",
	Long: `Serve one session over HTTP. GET endpoints are public; POST endpoints
(turn, policy, pm/resolve) need CHANCELLOR_ADMIN_KEY as a bearer token.

Examples:
  chancellor serve
  chancellor serve --port 9000 --resume latest`,
	RunE: runServe,
}

var (
	servePort   int
	serveResume string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default from config)")
	serveCmd.Flags().StringVar(&serveResume, "resume", "", "Session ID to host (\"latest\" for the most recent)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if servePort > 0 {
		cfg.API.Port = servePort
	}
	if cfg.API.AdminKey == "" {
		slog.Warn("CHANCELLOR_ADMIN_KEY not set; POST endpoints will be disabled")
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	id, s, err := loadOrCreate(db, serveResume)
	if err != nil {
		return err
	}

	reg := metrics.New()
	srv := &api.Server{
		Engine:          engine.New(engine.WithStrict(cfg.Strict), engine.WithObserver(reg.Observe)),
		DB:              db,
		Metrics:         reg,
		Port:            cfg.API.Port,
		AdminKey:        cfg.API.AdminKey,
		TurnRatePerHour: cfg.API.TurnRatePerHour,
	}
	srv.Attach(id, s)
	httpSrv := srv.Start()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	slog.Info("shutting down", "session", id, "turn", srv.Current().Meta.Turn)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
