package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/timestables/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used by boxed sections,
// so stacked cards on a screen line up.
func ContentWidth(frameWidth int) int {
	// Leave room for the border (2) plus inner padding (4)
	w := frameWidth - 6
	if w > 64 {
		w = 64
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded-border card at the given content width.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// Dialog wraps content in a highlighted card used for confirmation prompts.
func Dialog(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Accent).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// CenterBlock places a block centered horizontally within width.
func CenterBlock(content string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}
