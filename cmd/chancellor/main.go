// Command chancellor plays the UK Chancellor simulation: locally, as an HTTP
// game server, or as an autopilot steering a running server.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/talgya/chancellor/internal/config"
	"github.com/talgya/chancellor/internal/state"
)

var (
	configPath string
	cfg        config.Config
)

// rootCmd is the base command for the chancellor CLI.
var rootCmd = &cobra.Command{
	Use:   "chancellor",
	Short: "Monthly UK fiscal and political simulation",
	Long: `chancellor simulates the UK economy one month at a time: growth,
inflation, the Bank of England, gilt markets, public services and the
politics of keeping the Prime Minister on side.

Settings come from a YAML file, then CHANCELLOR_* environment variables,
then flags.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "chancellor.yaml", "Path to the YAML config file")
	pf.Int64("seed", 0, "Session seed (0 draws a fresh one)")
	pf.String("difficulty", "", "Difficulty: easy, standard or hard")
	pf.String("rule", "", "Fiscal rule ID")
	pf.String("db", "", "SQLite database path")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.String("log-format", "", "Log format: text or json")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads the config, applies flags over it and installs the logger.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetInt64("seed")
	}
	overrides := map[string]*string{
		"difficulty": &cfg.Difficulty,
		"rule":       &cfg.FiscalRule,
		"db":         &cfg.DBPath,
		"log-level":  &cfg.LogLevel,
		"log-format": &cfg.LogFormat,
	}
	for name, dst := range overrides {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(os.Stderr, cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}

func newLogger(w io.Writer, c config.Config) (*slog.Logger, error) {
	level, err := config.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func difficulty() state.Difficulty {
	return state.Difficulty(cfg.Difficulty)
}
