package terminal

import "github.com/charmbracelet/lipgloss"

var (
	green = lipgloss.AdaptiveColor{Light: "#1E7B34", Dark: "#5AD27A"}
	red   = lipgloss.AdaptiveColor{Light: "#B02A37", Dark: "#FF7A85"}
	amber = lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#FFD166"}
	ink   = lipgloss.AdaptiveColor{Light: "#1B1F23", Dark: "#EEF1F4"}
	grey  = lipgloss.AdaptiveColor{Light: "#5F6B76", Dark: "#A3ADB7"}
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(ink).Bold(true).Underline(true)
	nameStyle  = lipgloss.NewStyle().Foreground(ink).Width(24)
	dimStyle   = lipgloss.NewStyle().Foreground(grey)
	pathStyle  = dimStyle.Italic(true)
	goodStyle  = lipgloss.NewStyle().Foreground(green).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(amber)

	errorTitle = lipgloss.NewStyle().Foreground(red).Bold(true)
	errorBox   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(red).
			Padding(0, 1)
)

type mark struct {
	glyph string
	style lipgloss.Style
}

// statusMarks is keyed by feature status; anything else renders as unresolved
var statusMarks = map[string]mark{
	"enabled":    {glyph: "✓", style: goodStyle},
	"disabled":   {glyph: "○", style: dimStyle},
	"unresolved": {glyph: "?", style: warnStyle},
}

// linkMarks distinguishes archive paths from plain -l tokens in a report
var linkMarks = map[bool]mark{
	true:  {glyph: "●", style: goodStyle},
	false: {glyph: "○", style: dimStyle},
}

func (m mark) render() string {
	return m.style.Render(m.glyph)
}
