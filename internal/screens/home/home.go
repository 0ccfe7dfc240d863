package home

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/timestables/internal/progress"
	"github.com/abhisek/timestables/internal/router"
	"github.com/abhisek/timestables/internal/screen"
	"github.com/abhisek/timestables/internal/screens/history"
	"github.com/abhisek/timestables/internal/screens/practice"
	"github.com/abhisek/timestables/internal/screens/resetconfirm"
	"github.com/abhisek/timestables/internal/screens/stats"
	"github.com/abhisek/timestables/internal/store"
	"github.com/abhisek/timestables/internal/ui/components"
	"github.com/abhisek/timestables/internal/ui/layout"
	"github.com/abhisek/timestables/internal/ui/theme"
)

const logo = ` _   _                      _        _     _
| |_(_)_ __ ___   ___  ___ | |_ __ _| |__ | | ___  ___
| __| | '_ ` + "`" + ` _ \ / _ \/ __|| __/ _` + "`" + ` | '_ \| |/ _ \/ __|
| |_| | | | | | |  __/\__ \| || (_| | |_) | |  __/\__ \
 \__|_|_| |_| |_|\___||___/ \__\__,_|_.__/|_|\___||___/`

type summaryLoadedMsg struct {
	Summary progress.Summary
	Err     error
}

// HomeScreen is the main menu. It shows the learner's headline numbers
// and routes into practice, progress, and reset.
type HomeScreen struct {
	progressRepo store.ProgressRepo
	eventRepo    store.EventRepo
	userID       string

	menu    components.Menu
	summary progress.Summary
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.StatsProvider = (*HomeScreen)(nil)
var _ screen.Refresher = (*HomeScreen)(nil)

// New creates the home screen for the given learner.
func New(progressRepo store.ProgressRepo, eventRepo store.EventRepo, userID string) *HomeScreen {
	h := &HomeScreen{
		progressRepo: progressRepo,
		eventRepo:    eventRepo,
		userID:       userID,
	}

	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "PRACTICE", Hint: "review what's due", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: practice.New(h.progressRepo, h.eventRepo, h.userID),
				}
			}
		}},
		{Label: "PROGRESS", Hint: "tables and the fact grid", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: stats.New(h.progressRepo, h.eventRepo, h.userID),
				}
			}
		}},
		{Label: "HISTORY", Hint: "recent answers", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: history.New(h.eventRepo, h.userID),
				}
			}
		}},
		{Label: "RESET", Hint: "start over", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: resetconfirm.New(h.progressRepo, h.userID),
				}
			}
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	})

	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadSummary()
}

// Refresh reloads the headline numbers when a child screen pops back.
func (h *HomeScreen) Refresh() tea.Cmd {
	return h.loadSummary()
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) HeaderStats() layout.HeaderStats {
	return layout.HeaderStats{
		Due:      h.summary.DueCount,
		Mastered: h.summary.MasteredCount,
	}
}

func (h *HomeScreen) loadSummary() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		now := time.Now()
		prog, err := h.progressRepo.Load(ctx, h.userID)
		if errors.Is(err, store.ErrNotFound) {
			prog = progress.New(now)
			err = nil
		}
		if err != nil {
			return summaryLoadedMsg{Err: err}
		}
		prog.InitializeMissing(now)
		return summaryLoadedMsg{Summary: prog.Summarize(now)}
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryLoadedMsg:
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
		} else {
			h.summary = msg.Summary
			h.errMsg = ""
		}
		h.loaded = true
		return h, nil

	case tea.KeyMsg:
		var cmd tea.Cmd
		h.menu, cmd = h.menu.Update(msg)
		return h, cmd
	}
	return h, nil
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height + layout.HeaderHeight + layout.FooterHeight)
	cw := components.ContentWidth(width)

	var sections []string

	if !compact {
		sections = append(sections,
			lipgloss.NewStyle().Foreground(theme.Primary).Render(logo))
		sections = append(sections,
			theme.Subtitle.Render("multiplication facts that stick"))
	} else {
		sections = append(sections,
			theme.Title.Render("timestables"))
	}

	sections = append(sections, components.Card(h.renderSummary(), cw))
	sections = append(sections, components.Card(strings.TrimRight(h.menu.View(), "\n"), cw))

	if h.errMsg != "" {
		sections = append(sections,
			theme.Hint.Render(fmt.Sprintf("couldn't load progress: %s", h.errMsg)))
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, section := range sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(components.CenterBlock(section, width))
	}
	return b.String()
}

// renderSummary renders the headline numbers inside the stats card.
func (h *HomeScreen) renderSummary() string {
	if !h.loaded {
		return theme.Hint.Render("loading...")
	}

	line1 := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).
		Render(fmt.Sprintf("● %d due now", h.summary.DueCount)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("    ") +
		lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
			Render(fmt.Sprintf("★ %d of %d mastered", h.summary.MasteredCount, h.summary.UnlockedCount))

	tables := make([]string, 0, len(h.summary.UnlockedTables))
	for _, t := range h.summary.UnlockedTables {
		tables = append(tables, fmt.Sprintf("×%d", t))
	}
	line2 := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render("tables open: " + strings.Join(tables, " "))

	return line1 + "\n" + line2
}
