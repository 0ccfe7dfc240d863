// Package export renders a learner's progress as an .xlsx workbook:
// a summary sheet, a per-fact schedule sheet, and the answer history.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/timestables/internal/engine"
	"github.com/abhisek/timestables/internal/progress"
	"github.com/abhisek/timestables/internal/store"
)

const (
	summarySheet = "Summary"
	factsSheet   = "Facts"
	historySheet = "History"

	timeLayout = "2006-01-02 15:04"
)

// Report bundles everything that lands in the workbook.
type Report struct {
	Username string
	Progress *progress.Progress
	Events   []store.AnswerEvent
	Now      time.Time
}

// Write renders the report to path, overwriting any existing file.
func Write(path string, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", summarySheet)
	if err := writeSummary(f, r); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	if err := writeFacts(f, r); err != nil {
		return fmt.Errorf("facts sheet: %w", err)
	}
	if err := writeHistory(f, r); err != nil {
		return fmt.Errorf("history sheet: %w", err)
	}

	if idx, err := f.GetSheetIndex(summarySheet); err == nil {
		f.SetActiveSheet(idx)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, r Report) error {
	sum := r.Progress.Summarize(r.Now)

	nextTable := "all open"
	if table, ok := r.Progress.NextTableToUnlock(); ok {
		nextTable = fmt.Sprintf("%d", table)
	}
	tables := make([]string, 0, len(sum.UnlockedTables))
	for _, table := range sum.UnlockedTables {
		tables = append(tables, fmt.Sprintf("%d", table))
	}

	rows := [][]any{
		{"Times Tables Progress"},
		{"Learner", r.Username},
		{"Exported", r.Now.Format(timeLayout)},
		{},
		{"Unlocked facts", sum.UnlockedCount},
		{"Mastered facts", sum.MasteredCount},
		{"Due now", sum.DueCount},
		{"Total answered", sum.TotalAnswered},
		{"Correct", r.Progress.TotalCorrect()},
		{"Wrong", r.Progress.TotalWrong()},
		{"Unlocked tables", strings.Join(tables, ", ")},
		{"Next table", nextTable},
	}
	for i, row := range rows {
		if err := setRow(f, summarySheet, i+1, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(summarySheet, "A", "B", 18)
}

func writeFacts(f *excelize.File, r Report) error {
	if _, err := f.NewSheet(factsSheet); err != nil {
		return err
	}

	header := []any{"Fact", "Ease", "Interval (days)", "Next review", "Correct", "Wrong", "Streak", "Unlocked", "Mastered", "Due"}
	if err := setRow(f, factsSheet, 1, header); err != nil {
		return err
	}

	row := 2
	for _, prob := range engine.AllProblems() {
		s, ok := r.Progress.Fact(prob)
		if !ok {
			continue
		}
		values := []any{
			prob.Key(),
			s.EaseFactor,
			s.IntervalDays,
			s.NextReview.Format(timeLayout),
			s.TimesCorrect,
			s.TimesWrong,
			s.ConsecutiveCorrect,
			prob.IsUnlocked(r.Progress.UnlockedCount),
			s.IsMastered(),
			s.IsDue(r.Now),
		}
		if err := setRow(f, factsSheet, row, values); err != nil {
			return err
		}
		row++
	}
	return f.SetColWidth(factsSheet, "A", "J", 14)
}

func writeHistory(f *excelize.File, r Report) error {
	if _, err := f.NewSheet(historySheet); err != nil {
		return err
	}

	header := []any{"When", "Fact", "Answer", "Correct", "Seconds"}
	if err := setRow(f, historySheet, 1, header); err != nil {
		return err
	}

	for i, ev := range r.Events {
		values := []any{
			ev.CreatedAt.Format(timeLayout),
			fmt.Sprintf("%dx%d", ev.A, ev.B),
			ev.Answer,
			ev.Correct,
			ev.ResponseSeconds,
		}
		if err := setRow(f, historySheet, i+2, values); err != nil {
			return err
		}
	}
	return f.SetColWidth(historySheet, "A", "E", 16)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}
