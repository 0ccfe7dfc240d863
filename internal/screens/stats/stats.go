package stats

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/timestables/internal/engine"
	"github.com/abhisek/timestables/internal/progress"
	"github.com/abhisek/timestables/internal/router"
	"github.com/abhisek/timestables/internal/screen"
	"github.com/abhisek/timestables/internal/store"
	"github.com/abhisek/timestables/internal/ui/components"
	"github.com/abhisek/timestables/internal/ui/layout"
	"github.com/abhisek/timestables/internal/ui/theme"
)

const recentWindow = 50

type statsLoadedMsg struct {
	Progress *progress.Progress
	Recent   []store.AnswerEvent
	Err      error
}

// StatsScreen shows the learner's progress: aggregate counters, a bar
// per table, and a toggleable fact grid.
type StatsScreen struct {
	progressRepo store.ProgressRepo
	eventRepo    store.EventRepo
	userID       string

	prog     *progress.Progress
	recent   []store.AnswerEvent
	loaded   bool
	showGrid bool
	errMsg   string
}

var _ screen.Screen = (*StatsScreen)(nil)
var _ screen.KeyHintProvider = (*StatsScreen)(nil)
var _ screen.StatsProvider = (*StatsScreen)(nil)

// New creates a stats screen for the given learner.
func New(progressRepo store.ProgressRepo, eventRepo store.EventRepo, userID string) *StatsScreen {
	return &StatsScreen{
		progressRepo: progressRepo,
		eventRepo:    eventRepo,
		userID:       userID,
	}
}

func (s *StatsScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		now := time.Now()
		prog, err := s.progressRepo.Load(ctx, s.userID)
		if errors.Is(err, store.ErrNotFound) {
			prog = progress.New(now)
			err = nil
		}
		if err != nil {
			return statsLoadedMsg{Err: err}
		}
		prog.InitializeMissing(now)

		// Recent history is decoration; ignore a failed read.
		recent, _ := s.eventRepo.ListForUser(ctx, s.userID, recentWindow)

		return statsLoadedMsg{Progress: prog, Recent: recent}
	}
}

func (s *StatsScreen) Title() string {
	return "Progress"
}

func (s *StatsScreen) HeaderStats() layout.HeaderStats {
	if s.prog == nil {
		return layout.HeaderStats{}
	}
	return layout.HeaderStats{
		Due:      s.prog.DueCount(time.Now()),
		Mastered: s.prog.MasteredCount(),
	}
}

func (s *StatsScreen) KeyHints() []layout.KeyHint {
	gridHint := "Fact grid"
	if s.showGrid {
		gridHint = "Table bars"
	}
	return []layout.KeyHint{
		{Key: "G", Description: gridHint},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *StatsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.prog = msg.Progress
			s.recent = msg.Recent
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "g", "tab":
			s.showGrid = !s.showGrid
			return s, nil
		}
	}
	return s, nil
}

func (s *StatsScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading progress...")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.renderSummary(width))
	b.WriteString("\n\n")

	if s.showGrid {
		b.WriteString(s.renderFactGrid(width))
	} else {
		b.WriteString(s.renderTableBars(width))
	}

	return b.String()
}

// renderSummary renders the aggregate counter block.
func (s *StatsScreen) renderSummary(width int) string {
	now := time.Now()
	sum := s.prog.Summarize(now)
	cw := components.ContentWidth(width)

	line1 := fmt.Sprintf("Mastered %d of %d unlocked facts   ●  %d due now",
		sum.MasteredCount, sum.UnlockedCount, sum.DueCount)

	correct := s.prog.TotalCorrect()
	line2 := fmt.Sprintf("%d answers recorded", sum.TotalAnswered)
	if sum.TotalAnswered > 0 {
		line2 += fmt.Sprintf("   %.0f%% correct overall", float64(correct)/float64(sum.TotalAnswered)*100)
	}
	if acc, ok := recentAccuracy(s.recent); ok {
		line2 += fmt.Sprintf("   %.0f%% in the last %d", acc*100, len(s.recent))
	}

	tables := make([]string, 0, len(sum.UnlockedTables))
	for _, t := range sum.UnlockedTables {
		tables = append(tables, fmt.Sprintf("×%d", t))
	}
	line3 := "Tables open: " + strings.Join(tables, " ")
	if next, ok := s.prog.NextTableToUnlock(); ok {
		line3 += fmt.Sprintf("   next up ×%d", next)
	} else {
		line3 += "   all twelve open!"
	}

	content := lipgloss.NewStyle().Foreground(theme.Text).Render(line1) + "\n" +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(line2) + "\n" +
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(line3) + "\n\n" +
		s.renderUnlockBar(sum, cw)

	return components.CenterBlock(components.Card(content, cw), width)
}

// renderUnlockBar shows how close the mastered fraction is to the
// three-quarters mark that opens the next table.
func (s *StatsScreen) renderUnlockBar(sum progress.Summary, cw int) string {
	frac := 0.0
	if sum.UnlockedCount > 0 {
		frac = float64(sum.MasteredCount) / float64(sum.UnlockedCount)
	}

	bar := components.NewProgressBar("", frac, true, cw-12)
	caption := "every table is open"
	if next, ok := s.prog.NextTableToUnlock(); ok {
		caption = fmt.Sprintf("75%% mastered opens ×%d", next)
	}
	return bar.View() + "\n" +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(caption)
}

// renderTableBars renders one mastery bar per table, in unlock order.
func (s *StatsScreen) renderTableBars(width int) string {
	var b strings.Builder
	barWidth := min(width-20, 48)

	for i, table := range engine.TableOrder {
		unlocked := i < s.prog.UnlockedCount
		label := fmt.Sprintf("×%-2d", table)

		if !unlocked {
			line := lipgloss.NewStyle().Foreground(theme.TextDim).
				Render(fmt.Sprintf("%s  %s", label, strings.Repeat("░", barWidth)) + "  locked")
			b.WriteString(components.CenterBlock(line, width))
			b.WriteString("\n")
			continue
		}

		mastered, total := s.tableMastery(table)
		percent := 0.0
		if total > 0 {
			percent = float64(mastered) / float64(total)
		}
		bar := components.NewProgressBar(label, percent, false, barWidth+len(label)+2)
		line := bar.View() + lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d/%d", mastered, total))
		b.WriteString(components.CenterBlock(line, width))
		b.WriteString("\n")
	}

	return b.String()
}

// tableMastery counts mastered and total unlocked facts in one table's
// row: fixed first factor, every open second factor.
func (s *StatsScreen) tableMastery(table int) (mastered, total int) {
	for _, fs := range s.prog.Facts {
		if fs.Problem.A != table || !fs.Problem.IsUnlocked(s.prog.UnlockedCount) {
			continue
		}
		total++
		if fs.IsMastered() {
			mastered++
		}
	}
	return mastered, total
}

// renderFactGrid renders the full 12×12 fact map.
func (s *StatsScreen) renderFactGrid(width int) string {
	now := time.Now()
	var b strings.Builder

	// Column header.
	header := "     "
	for bFactor := engine.MinFactor; bFactor <= engine.MaxFactor; bFactor++ {
		header += fmt.Sprintf("%3d", bFactor)
	}
	b.WriteString(components.CenterBlock(
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(header), width))
	b.WriteString("\n")

	for a := engine.MinFactor; a <= engine.MaxFactor; a++ {
		row := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("  ×%-2d", a))
		for bFactor := engine.MinFactor; bFactor <= engine.MaxFactor; bFactor++ {
			prob := engine.Problem{A: a, B: bFactor}
			row += "  " + s.factCell(prob, now)
		}
		b.WriteString(components.CenterBlock(row, width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	legend := theme.Mastered.Render("■ mastered") + "   " +
		theme.Due.Render("◆ due") + "   " +
		theme.Learning.Render("· learning") + "   " +
		theme.Locked.Render("░ locked")
	b.WriteString(components.CenterBlock(legend, width))
	b.WriteString("\n")

	return b.String()
}

// factCell picks the one-character state marker for a fact.
func (s *StatsScreen) factCell(prob engine.Problem, now time.Time) string {
	if !prob.IsUnlocked(s.prog.UnlockedCount) {
		return theme.Locked.Render("░")
	}
	fs, ok := s.prog.Fact(prob)
	if !ok {
		return theme.Locked.Render("░")
	}
	switch {
	case fs.IsMastered():
		return theme.Mastered.Render("■")
	case fs.IsDue(now):
		return theme.Due.Render("◆")
	default:
		return theme.Learning.Render("·")
	}
}

// recentAccuracy computes the correct fraction of the recent events.
func recentAccuracy(events []store.AnswerEvent) (float64, bool) {
	if len(events) == 0 {
		return 0, false
	}
	correct := 0
	for _, ev := range events {
		if ev.Correct {
			correct++
		}
	}
	return float64(correct) / float64(len(events)), true
}
