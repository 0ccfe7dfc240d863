// Package app owns the root Bubble Tea model: it frames every screen
// with the header and footer, routes navigation, and binds the terminal
// app to the local learner account.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/google/uuid"

	"github.com/abhisek/timestables/internal/router"
	"github.com/abhisek/timestables/internal/screen"
	"github.com/abhisek/timestables/internal/screens/home"
	"github.com/abhisek/timestables/internal/screens/welcome"
	"github.com/abhisek/timestables/internal/store"
	"github.com/abhisek/timestables/internal/ui/layout"
)

// LocalUsername is the account the terminal app plays under. It is
// created on first run and never logs in over the API.
const LocalUsername = "local"

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel: a short splash, then home.
func newAppModel(st *store.Store, userID string) AppModel {
	splash := welcome.New(func() screen.Screen {
		return home.New(st.Progress(), st.Events(), userID)
	})
	return AppModel{
		router: router.New(splash),
	}
}

func (m AppModel) Init() tea.Cmd {
	active := m.router.Active()
	if active == nil {
		return nil
	}
	return active.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	var stats layout.HeaderStats
	if provider, ok := active.(screen.StatsProvider); ok {
		stats = provider.HeaderStats()
	}
	header := layout.RenderHeader(title, stats, m.width)

	footerHints := m.footerHints(active)
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// footerHints asks the active screen first, then falls back to the
// stock navigation hints.
func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if provider, ok := active.(screen.KeyHintProvider); ok {
		if hints := provider.KeyHints(); len(hints) > 0 {
			return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// EnsureLocalUser finds or creates the account used by the terminal
// app.
func EnsureLocalUser(ctx context.Context, users store.UserRepo) (*store.User, error) {
	u, err := users.ByUsername(ctx, LocalUsername)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	u = &store.User{
		ID:        uuid.NewString(),
		Username:  LocalUsername,
		CreatedAt: time.Now(),
	}
	// Empty hash: bcrypt never matches it, so this account stays
	// terminal-only.
	if err := users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Run binds the store to the root model and starts the Bubble Tea
// program.
func Run(st *store.Store) error {
	user, err := EnsureLocalUser(context.Background(), st.Users())
	if err != nil {
		return fmt.Errorf("ensure local user: %w", err)
	}

	p := tea.NewProgram(newAppModel(st, user.ID))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
