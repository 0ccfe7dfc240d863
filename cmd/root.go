package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/timestables/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "timestables",
	Short: "Times tables trainer with spaced repetition",
	Long:  "TimesTables — terminal trainer that teaches the multiplication facts 1-12 using spaced repetition, unlocking tables as you master them.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides TIMESTABLES_DB env var)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then TIMESTABLES_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
