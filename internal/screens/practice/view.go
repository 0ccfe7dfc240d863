package practice

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/timestables/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	switch s.phase {
	case phaseLoading:
		return renderLoading(width)
	case phaseError:
		return renderError(width, s.errMsg)
	case phaseQuitConfirm:
		return s.renderQuitConfirm(width)
	case phaseFeedback:
		return s.renderFeedback(width)
	case phaseCorrection:
		return s.renderCorrection(width)
	default:
		return s.renderQuestion(width)
	}
}

// renderQuestion renders the active question display.
func (s *PracticeScreen) renderQuestion(width int) string {
	var b strings.Builder

	// Info line: table on the left, session tallies on the right.
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Table ×%d", s.current.A))

	due := 0
	if s.prog != nil {
		due = s.prog.DueCount(time.Now())
	}
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s %d/%d  %s %d  %s %d due  %s",
			lipgloss.NewStyle().Foreground(theme.Success).Render("✔"),
			s.correct,
			s.answered,
			lipgloss.NewStyle().Foreground(theme.Accent).Render("✦"),
			s.correctRun,
			lipgloss.NewStyle().Foreground(theme.Primary).Render("●"),
			due,
			formatElapsed(s.elapsed),
		))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}

	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n\n")

	// The question itself, big and centered.
	questionStyle := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true)
	b.WriteString(questionStyle.Render(fmt.Sprintf("%d × %d = ?", s.current.A, s.current.B)))
	b.WriteString("\n\n")

	answerLine := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render("Answer: " + s.input.View())
	b.WriteString(answerLine)

	return b.String()
}

// renderFeedback renders the correct-answer overlay.
func (s *PracticeScreen) renderFeedback(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")

	centered := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	b.WriteString(centered.
		Foreground(theme.Success).
		Bold(true).
		Render(fmt.Sprintf("Correct!  %d × %d = %d", s.current.A, s.current.B, s.current.Answer())))
	b.WriteString("\n\n")

	// Where this fact lands on the review schedule.
	b.WriteString(centered.
		Foreground(theme.TextDim).
		Render(scheduleLine(s.lastFact.IntervalDays, s.lastFact.ConsecutiveCorrect, s.lastFact.IsMastered())))
	b.WriteString("\n")

	if s.unlockedTable != 0 {
		b.WriteString("\n")
		b.WriteString(centered.
			Foreground(theme.Accent).
			Bold(true).
			Render(fmt.Sprintf("New table unlocked: ×%d!", s.unlockedTable)))
		b.WriteString("\n")
	}

	if s.saveErr != nil {
		b.WriteString("\n")
		b.WriteString(centered.
			Foreground(theme.Error).
			Render(fmt.Sprintf("Warning: progress not saved (%s)", s.saveErr)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centered.
		Foreground(theme.TextDim).
		Render("Press any key to continue..."))

	return b.String()
}

// renderCorrection renders the missed-answer overlay: the learner types
// the correct product to move on.
func (s *PracticeScreen) renderCorrection(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")

	centered := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	b.WriteString(centered.
		Foreground(theme.Error).
		Bold(true).
		Render("Not quite"))
	b.WriteString("\n")
	b.WriteString(centered.
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("You said %d — the answer is %d × %d = %d",
			s.lastGiven, s.current.A, s.current.B, s.current.Answer())))
	b.WriteString("\n\n")

	b.WriteString(centered.
		Foreground(theme.Text).
		Render(fmt.Sprintf("Type it to continue:  %d × %d = %s",
			s.current.A, s.current.B, s.input.View())))
	b.WriteString("\n")

	if s.correctionTries > 0 {
		b.WriteString("\n")
		b.WriteString(centered.
			Foreground(theme.Accent).
			Render("Still not it — look at the answer above."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centered.
		Foreground(theme.TextDim).
		Render(scheduleLine(s.lastFact.IntervalDays, s.lastFact.ConsecutiveCorrect, s.lastFact.IsMastered())))

	if s.saveErr != nil {
		b.WriteString("\n\n")
		b.WriteString(centered.
			Foreground(theme.Error).
			Render(fmt.Sprintf("Warning: progress not saved (%s)", s.saveErr)))
	}

	return b.String()
}

// renderQuitConfirm renders the end-practice confirmation dialog.
func (s *PracticeScreen) renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	centered := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	b.WriteString(centered.
		Foreground(theme.Text).
		Bold(true).
		Render("End practice?"))
	b.WriteString("\n")
	b.WriteString(centered.
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d answered, %d correct this round. Everything is saved.",
			s.answered, s.correct)))
	b.WriteString("\n\n")

	b.WriteString(centered.
		Foreground(theme.Success).
		Render("[Y] Yes, I'm done"))
	b.WriteString("\n")
	b.WriteString(centered.
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return b.String()
}

// renderLoading renders the loading state.
func renderLoading(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  Loading your progress...")
}

// renderError renders an error message.
func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}

// scheduleLine describes when the fact comes back and how close it is
// to mastery.
func scheduleLine(intervalDays float64, streak int, mastered bool) string {
	var when string
	switch {
	case intervalDays <= 0:
		when = "due again right away"
	case intervalDays < 1.5:
		when = "back tomorrow"
	default:
		when = fmt.Sprintf("back in %.0f days", intervalDays)
	}
	if mastered {
		return fmt.Sprintf("Mastered — %s", when)
	}
	return fmt.Sprintf("Streak %d/3 — %s", streak, when)
}

func formatElapsed(d time.Duration) string {
	secs := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
