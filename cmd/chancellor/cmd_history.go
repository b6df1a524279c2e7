package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [session]",
	Short: "List saved sessions or show one session's monthly log",
	Long: `Without an argument, list saved sessions newest first. With a session ID
(or "latest"), print that session's monthly history.

Examples:
  chancellor history
  chancellor history latest --limit 12
  chancellor history 0b6c... --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var (
	historyLimit  int
	historyFormat string
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "Most recent months to show (0 for all)")
	historyCmd.Flags().StringVar(&historyFormat, "format", "table", "Output format (table|json)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if historyFormat != "table" && historyFormat != "json" {
		return fmt.Errorf("unknown format %q", historyFormat)
	}
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	if len(args) == 0 {
		sessions, err := db.Sessions()
		if err != nil {
			return err
		}
		if historyFormat == "json" {
			return enc.Encode(sessions)
		}
		printSessions(out, sessions)
		return nil
	}

	id := args[0]
	if id == "latest" {
		if id, err = db.LatestSession(); err != nil {
			return err
		}
	}
	entries, err := db.History(id, historyLimit)
	if err != nil {
		return err
	}
	if historyFormat == "json" {
		return enc.Encode(entries)
	}
	printHistory(out, entries)
	return nil
}
