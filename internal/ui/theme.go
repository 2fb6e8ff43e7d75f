package ui

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors and styles for the UI. Colors are hex strings so
// they can feed both lipgloss styles and the pixel canvas.
type Theme struct {
	Name string

	Background string
	Surface    string

	SelectionBg   string
	SelectionText string

	Border string

	Text    string
	Muted   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// Overlay colors, keyed by object role on the canvas.
	Movable    string
	Structural string
	Selected   string
	Locked     string
	MaskBrush  string
}

var themes = []Theme{
	{
		Name:          "Studio",
		Background:    "#1a1b26",
		Surface:       "#24283b",
		SelectionBg:   "#364a82",
		SelectionText: "#c0caf5",
		Border:        "#3b4261",
		Text:          "#c0caf5",
		Muted:         "#565f89",
		Accent:        "#7aa2f7",
		Success:       "#9ece6a",
		Warning:       "#e0af68",
		Danger:        "#f7768e",
		Info:          "#7dcfff",
		Movable:       "#9ece6a",
		Structural:    "#565f89",
		Selected:      "#7aa2f7",
		Locked:        "#f7768e",
		MaskBrush:     "#f7768e",
	},
	{
		Name:          "Blueprint",
		Background:    "#0f1c2e",
		Surface:       "#16293f",
		SelectionBg:   "#1d4e89",
		SelectionText: "#e8f1f8",
		Border:        "#2a4a6b",
		Text:          "#dbe9f4",
		Muted:         "#5d7f9e",
		Accent:        "#4fc3f7",
		Success:       "#81c784",
		Warning:       "#ffcc80",
		Danger:        "#ef5350",
		Info:          "#b3e5fc",
		Movable:       "#81c784",
		Structural:    "#5d7f9e",
		Selected:      "#4fc3f7",
		Locked:        "#ef5350",
		MaskBrush:     "#ef5350",
	},
}

// GetTheme returns the theme with the given name, falling back to the
// first theme when the name is unknown.
func GetTheme(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

// NextTheme returns the name of the theme after the given one, wrapping
// around at the end.
func NextTheme(name string) string {
	for i, t := range themes {
		if t.Name == name {
			return themes[(i+1)%len(themes)].Name
		}
	}
	return themes[0].Name
}

// Styles returns lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		MutedText:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		AccentText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		SuccessText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Bold(true),
		WarningText: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		DangerText:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)).Bold(true),
		InfoText:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info)),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),
	}
}

// Styles contains pre-built lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header   lipgloss.Style
	Footer   lipgloss.Style
	Title    lipgloss.Style
	Selected lipgloss.Style
	Panel    lipgloss.Style
}

// parseHexColor converts a "#rrggbb" string to an opaque RGBA color.
// Malformed input yields black.
func parseHexColor(s string) color.RGBA {
	c := color.RGBA{A: 0xff}
	if len(s) != 7 || s[0] != '#' {
		return c
	}
	hex := func(hi, lo byte) uint8 {
		return hexDigit(hi)<<4 | hexDigit(lo)
	}
	c.R = hex(s[1], s[2])
	c.G = hex(s[3], s[4])
	c.B = hex(s[5], s[6])
	return c
}

func hexDigit(b byte) uint8 {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}
