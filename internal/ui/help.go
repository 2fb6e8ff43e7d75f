package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHelp draws the full-screen help overlay. Any key closes it.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	sections := []struct {
		title string
		keys  [][2]string
	}{
		{"Global", [][2]string{
			{"tab", "next step (when ready)"},
			{"esc", "previous step"},
			{"R", "start over"},
			{"T", "cycle theme"},
			{"?", "toggle this help"},
			{"q / ctrl+c", "quit"},
		}},
		{"Review objects", [][2]string{
			{"click", "select an object"},
			{"right-click", "lock / unlock"},
			{"j / k", "move in the list"},
			{"enter", "select the listed object"},
			{"l", "lock the listed object"},
			{"a", "re-run detection"},
			{"g", "generate layout options"},
		}},
		{"Preview", [][2]string{
			{"m", "enter mask mode"},
			{"drag", "paint an edit region"},
			{"enter", "queue the painted edit"},
			{"d", "remove a queued edit"},
			{"x", "apply all queued edits"},
		}},
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render("room studio · keys") + "\n\n")
	for _, sec := range sections {
		b.WriteString(styles.AccentText.Render(sec.title) + "\n")
		for _, k := range sec.keys {
			b.WriteString("  " + styles.Text.Render(padRight(k[0], 14)) + styles.MutedText.Render(k[1]) + "\n")
		}
		b.WriteByte('\n')
	}
	b.WriteString(styles.MutedText.Render("press any key to close"))

	box := styles.Panel.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
