package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/timestables/internal/router"
	"github.com/abhisek/timestables/internal/screen"
	"github.com/abhisek/timestables/internal/store"
	"github.com/abhisek/timestables/internal/ui/layout"
	"github.com/abhisek/timestables/internal/ui/theme"
)

const pageSize = 100

type historyLoadedMsg struct {
	Events []store.AnswerEvent
	Total  int
	Err    error
}

// HistoryScreen lists the learner's recent answers, newest first.
type HistoryScreen struct {
	eventRepo store.EventRepo
	userID    string

	events       []store.AnswerEvent
	total        int
	selected     int
	scrollOffset int
	loaded       bool
	errMsg       string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a history screen for the given learner.
func New(eventRepo store.EventRepo, userID string) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		userID:    userID,
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		events, err := s.eventRepo.ListForUser(ctx, s.userID, pageSize)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		total, err := s.eventRepo.CountForUser(ctx, s.userID)
		if err != nil {
			total = len(events)
		}
		return historyLoadedMsg{Events: events, Total: total}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
			s.total = msg.Total
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.events) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No answers yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")

	headline := fmt.Sprintf("%d answers on record", s.total)
	if s.total > len(s.events) {
		headline += fmt.Sprintf(", showing the latest %d", len(s.events))
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(headline)))
	b.WriteString("\n\n")

	rows := height - 4
	if rows < 1 {
		rows = 1
	}
	s.adjustScroll(rows)

	for i := s.scrollOffset; i < len(s.events) && i < s.scrollOffset+rows; i++ {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderRow(i)))
		b.WriteString("\n")
	}

	return b.String()
}

// renderRow formats one answer line.
func (s *HistoryScreen) renderRow(i int) string {
	ev := s.events[i]

	prefix := "  "
	if i == s.selected {
		prefix = "> "
	}

	mark := lipgloss.NewStyle().Foreground(theme.Success).Render("✔")
	if !ev.Correct {
		mark = lipgloss.NewStyle().Foreground(theme.Error).Render("✘")
	}

	line := fmt.Sprintf("%s%s  %2d × %-2d = %-3d  %s  %4.1fs",
		prefix,
		ev.CreatedAt.Local().Format("Jan 02 15:04"),
		ev.A, ev.B, ev.Answer,
		mark,
		ev.ResponseSeconds,
	)

	style := lipgloss.NewStyle().Foreground(theme.Text)
	if i == s.selected {
		style = style.Foreground(theme.Primary).Bold(true)
	}
	return style.Render(line)
}

// adjustScroll keeps the selected row inside the visible window.
func (s *HistoryScreen) adjustScroll(rows int) {
	if s.selected < s.scrollOffset {
		s.scrollOffset = s.selected
	}
	if s.selected >= s.scrollOffset+rows {
		s.scrollOffset = s.selected - rows + 1
	}
	if s.scrollOffset < 0 {
		s.scrollOffset = 0
	}
}
