package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/timestables/internal/router"
	"github.com/abhisek/timestables/internal/screen"
	"github.com/abhisek/timestables/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	totalDur     = 1500 * time.Millisecond
)

var facts = []string{
	"7 × 8 = 56", "6 × 9 = 54", "12 × 12 = 144", "11 × 11 = 121",
}

type tickMsg time.Time

// WelcomeScreen shows a short splash before handing over to the home
// screen. Any key skips ahead once the animation has played.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that transitions to the screen produced
// by homeFactory.
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		w.tickCount++
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
			return w, tea.Tick(tickInterval, func(t time.Time) tea.Msg {
				return tickMsg(t)
			})
		}
		// Animation done: move on without waiting for a key.
		return w, w.transition()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	homeScreen := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: homeScreen}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	title := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("timestables")

	fact := facts[(w.tickCount/3)%len(facts)]
	factLine := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Render(fact)

	hint := ""
	if w.elapsed >= totalDur/2 {
		hint = theme.Hint.Render("press any key")
	}

	block := strings.Join([]string{title, "", factLine, "", hint}, "\n")
	centered := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(block)

	pad := (height - lipgloss.Height(centered)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", pad) + centered
}
