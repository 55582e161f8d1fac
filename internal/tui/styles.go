package tui

import (
	"github.com/charmbracelet/lipgloss"

	"chorely/internal/ui"
)

const (
	boxChecked   = "☑"
	boxUnchecked = "☐"
)

// Colors is the palette one theme renders with.
type Colors struct {
	Accent  lipgloss.Color
	Success lipgloss.Color
	Pending lipgloss.Color
	Error   lipgloss.Color
	Border  lipgloss.Color
	IsDark  bool
}

// DarkColors is the palette for dark terminals.
func DarkColors() Colors {
	return Colors{
		Accent:  lipgloss.Color("12"),
		Success: lipgloss.Color("42"),
		Pending: lipgloss.Color("214"),
		Error:   lipgloss.Color("9"),
		Border:  lipgloss.Color("8"),
		IsDark:  true,
	}
}

// LightColors is the palette for light terminals.
func LightColors() Colors {
	return Colors{
		Accent:  lipgloss.Color("26"),
		Success: lipgloss.Color("28"),
		Pending: lipgloss.Color("166"),
		Error:   lipgloss.Color("124"),
		Border:  lipgloss.Color("250"),
		IsDark:  false,
	}
}

// ColorsByName maps a configured theme name to a palette. "auto" asks
// the terminal.
func ColorsByName(name string) Colors {
	switch name {
	case "light":
		return LightColors()
	case "dark":
		return DarkColors()
	default:
		if ui.DetectDark() {
			return DarkColors()
		}
		return LightColors()
	}
}

// Styles holds the prebuilt lipgloss styles the views render with.
type Styles struct {
	Title    lipgloss.Style
	Clock    lipgloss.Style
	Success  lipgloss.Style
	Pending  lipgloss.Style
	Accent   lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Selected lipgloss.Style
	Done     lipgloss.Style
	Active   lipgloss.Style
	Overdue  lipgloss.Style
	Help     lipgloss.Style
	Panel    lipgloss.Style
	Input    lipgloss.Style
}

// NewStyles builds the style set from a palette.
func NewStyles(c Colors) Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true),
		Clock:    lipgloss.NewStyle().Foreground(c.Accent),
		Success:  lipgloss.NewStyle().Foreground(c.Success),
		Pending:  lipgloss.NewStyle().Foreground(c.Pending),
		Accent:   lipgloss.NewStyle().Foreground(c.Accent),
		Muted:    lipgloss.NewStyle().Faint(true),
		Error:    lipgloss.NewStyle().Foreground(c.Error).Bold(true),
		Selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		Done:     lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Active:   lipgloss.NewStyle().Foreground(c.Pending).Bold(true),
		Overdue:  lipgloss.NewStyle().Foreground(c.Error),
		Help:     lipgloss.NewStyle().Faint(true),
		Panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c.Border).Padding(0, 1),
		Input:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c.Border).Padding(0, 1),
	}
}
