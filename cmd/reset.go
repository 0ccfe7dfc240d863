package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/timestables/internal/app"
	"github.com/abhisek/timestables/internal/progress"
	"github.com/abhisek/timestables/internal/store"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner data",
	Long:  "Erases the local learner's practice progress. The answer history is kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			fmt.Println("This erases all practice progress. Re-run with --yes to confirm.")
			return nil
		}

		ctx := cmd.Context()
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		user, err := app.EnsureLocalUser(ctx, st.Users())
		if err != nil {
			return fmt.Errorf("ensure local user: %w", err)
		}

		now := time.Now()
		if err := st.Progress().Save(ctx, user.ID, progress.New(now), now); err != nil {
			return fmt.Errorf("save progress: %w", err)
		}
		fmt.Println("Progress reset. The first table is waiting for you.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "Skip the confirmation prompt")
}
