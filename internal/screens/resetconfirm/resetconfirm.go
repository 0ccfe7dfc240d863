package resetconfirm

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/timestables/internal/progress"
	"github.com/abhisek/timestables/internal/router"
	"github.com/abhisek/timestables/internal/screen"
	"github.com/abhisek/timestables/internal/store"
	"github.com/abhisek/timestables/internal/ui/components"
	"github.com/abhisek/timestables/internal/ui/layout"
	"github.com/abhisek/timestables/internal/ui/theme"
)

type step int

const (
	stepWarn step = iota
	stepArm
	stepDone
)

type resetDoneMsg struct {
	Err error
}

// ResetScreen wipes the learner's scheduling state behind a two-step
// confirmation. The answer history is left alone.
type ResetScreen struct {
	progressRepo store.ProgressRepo
	userID       string

	step   step
	errMsg string
}

var _ screen.Screen = (*ResetScreen)(nil)
var _ screen.KeyHintProvider = (*ResetScreen)(nil)

// New creates a reset confirmation screen for the given learner.
func New(progressRepo store.ProgressRepo, userID string) *ResetScreen {
	return &ResetScreen{
		progressRepo: progressRepo,
		userID:       userID,
	}
}

func (s *ResetScreen) Init() tea.Cmd {
	return nil
}

func (s *ResetScreen) Title() string {
	return "Reset"
}

func (s *ResetScreen) KeyHints() []layout.KeyHint {
	switch s.step {
	case stepWarn:
		return []layout.KeyHint{
			{Key: "Y", Description: "Continue"},
			{Key: "N", Description: "Cancel"},
		}
	case stepArm:
		return []layout.KeyHint{
			{Key: "R", Description: "Reset now"},
			{Key: "Any key", Description: "Cancel"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Any key", Description: "Back"},
		}
	}
}

func (s *ResetScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resetDoneMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		}
		s.step = stepDone
		return s, nil

	case tea.KeyMsg:
		switch s.step {
		case stepWarn:
			switch msg.String() {
			case "y", "Y":
				s.step = stepArm
				return s, nil
			default:
				return s, popCmd()
			}

		case stepArm:
			if msg.String() == "r" || msg.String() == "R" {
				return s, s.resetProgress()
			}
			return s, popCmd()

		case stepDone:
			return s, popCmd()
		}
	}
	return s, nil
}

// resetProgress writes a fresh progress blob over the old one.
func (s *ResetScreen) resetProgress() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		now := time.Now()
		fresh := progress.New(now)
		return resetDoneMsg{Err: s.progressRepo.Save(ctx, s.userID, fresh, now)}
	}
}

func (s *ResetScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n\n")

	cw := components.ContentWidth(width)
	centered := lipgloss.NewStyle().Width(cw - 6).Align(lipgloss.Center)

	var content string
	switch s.step {
	case stepWarn:
		content = centered.Foreground(theme.Accent).Bold(true).Render("Reset all progress?") + "\n\n" +
			centered.Foreground(theme.Text).Render("Every fact goes back to the start and only the ×1 table\nstays open. Your answer history is kept.") + "\n\n" +
			centered.Foreground(theme.TextDim).Render("[Y] Continue    [N] Cancel")

	case stepArm:
		content = centered.Foreground(theme.Error).Bold(true).Render("Last chance!") + "\n\n" +
			centered.Foreground(theme.Text).Render("Press R to wipe your progress for good.\nAny other key cancels.")

	case stepDone:
		if s.errMsg != "" {
			content = centered.Foreground(theme.Error).Bold(true).Render("Reset failed") + "\n\n" +
				centered.Foreground(theme.Text).Render(fmt.Sprintf("%s\n\nPress any key to go back.", s.errMsg))
		} else {
			content = centered.Foreground(theme.Success).Bold(true).Render("Progress reset") + "\n\n" +
				centered.Foreground(theme.Text).Render("Back to the ×1 table. Press any key to return.")
		}
	}

	b.WriteString(components.CenterBlock(components.Dialog(content, cw), width))
	return b.String()
}

func popCmd() tea.Cmd {
	return func() tea.Msg { return router.PopScreenMsg{} }
}
