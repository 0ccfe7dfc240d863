package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/timestables/internal/app"
	"github.com/abhisek/timestables/internal/export"
	"github.com/abhisek/timestables/internal/progress"
	"github.com/abhisek/timestables/internal/store"
)

// exportHistoryLimit caps how many answers land in the workbook.
const exportHistoryLimit = 5000

var statsExportPath string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
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
		prog, err := st.Progress().Load(ctx, user.ID)
		if errors.Is(err, store.ErrNotFound) {
			prog = progress.New(now)
		} else if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}

		printSummary(prog, now)

		if statsExportPath != "" {
			events, err := st.Events().ListForUser(ctx, user.ID, exportHistoryLimit)
			if err != nil {
				return fmt.Errorf("load history: %w", err)
			}
			report := export.Report{
				Username: user.Username,
				Progress: prog,
				Events:   events,
				Now:      now,
			}
			if err := export.Write(statsExportPath, report); err != nil {
				return fmt.Errorf("write workbook: %w", err)
			}
			fmt.Println()
			fmt.Println("Workbook written to", statsExportPath)
		}
		return nil
	},
}

func printSummary(prog *progress.Progress, now time.Time) {
	sum := prog.Summarize(now)

	tables := make([]string, 0, len(sum.UnlockedTables))
	for _, table := range sum.UnlockedTables {
		tables = append(tables, fmt.Sprintf("×%d", table))
	}
	next := "all tables open"
	if table, ok := prog.NextTableToUnlock(); ok {
		next = fmt.Sprintf("×%d", table)
	}

	fmt.Printf("Tables open:     %s\n", strings.Join(tables, " "))
	fmt.Printf("Next table:      %s\n", next)
	fmt.Printf("Facts unlocked:  %d\n", sum.UnlockedCount)
	fmt.Printf("Facts mastered:  %d\n", sum.MasteredCount)
	fmt.Printf("Due now:         %d\n", sum.DueCount)
	fmt.Printf("Total answered:  %d (%d correct, %d wrong)\n",
		sum.TotalAnswered, prog.TotalCorrect(), prog.TotalWrong())
}

func init() {
	statsCmd.Flags().StringVar(&statsExportPath, "export", "", "Write an .xlsx workbook to this path")
}
