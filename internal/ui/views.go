package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"roomstudio/internal/canvas"
	"roomstudio/internal/pipeline"
)

var stageOrder = []pipeline.Stage{
	pipeline.StageUpload,
	pipeline.StageAnalyze,
	pipeline.StageLayouts,
	pipeline.StagePerspective,
	pipeline.StageChat,
	pipeline.StageShop,
}

func (m Model) renderMain() string {
	var body string
	switch m.snapshot.Stage {
	case pipeline.StageUpload:
		body = m.renderUpload()
	case pipeline.StageAnalyze:
		body = m.renderAnalyze()
	case pipeline.StageLayouts:
		body = m.renderLayouts()
	case pipeline.StagePerspective:
		body = m.renderPerspective()
	case pipeline.StageChat:
		body = m.renderChat()
	case pipeline.StageShop:
		body = m.renderShop()
	}

	bodyHeight := m.height - canvasTop - footerRows
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderNotice(),
		body,
		m.renderFooter(),
	)
}

// renderHeader shows the app name and the stage breadcrumb with the
// current stage highlighted.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	crumbs := make([]string, 0, len(stageOrder))
	for _, s := range stageOrder {
		name := s.String()
		if s == m.snapshot.Stage {
			name = styles.AccentText.Bold(true).Render(name)
		} else {
			name = styles.MutedText.Render(name)
		}
		crumbs = append(crumbs, name)
	}
	left := styles.Title.Render("room studio") + "  " + strings.Join(crumbs, styles.MutedText.Render(" › "))
	return styles.Header.Width(m.width).Render(left)
}

// renderNotice shows the transient status line: local guard rejections
// first, then the pipeline notice, then a loading hint.
func (m Model) renderNotice() string {
	styles := m.theme.Styles()
	switch {
	case m.flash != "":
		return styles.WarningText.Render(" " + m.flash)
	case m.snapshot.Notice != "":
		return styles.InfoText.Render(" " + m.snapshot.Notice)
	case m.snapshot.Loading.Any():
		return styles.MutedText.Render(" working…")
	}
	return ""
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	var hints string
	switch m.snapshot.Stage {
	case pipeline.StageUpload:
		hints = "enter open photo · ? help · ctrl+c quit"
	case pipeline.StageAnalyze:
		hints = "click select · right-click lock · j/k + enter/l list · a re-analyze · g layouts · esc back"
	case pipeline.StageLayouts:
		hints = "j/k choose · enter preview · g regenerate · esc back"
	case pipeline.StagePerspective:
		if m.maskMode {
			hints = "drag paint region · type instruction + enter queue · esc cancel"
		} else {
			hints = "m mask an edit · d remove mask · x apply edits · tab refine · esc back"
		}
	case pipeline.StageChat:
		hints = "type a change + enter · tab shop · esc back"
	case pipeline.StageShop:
		hints = "budget + enter search · esc back · R start over"
	}
	return styles.Footer.Width(m.width).Render(hints)
}

func (m Model) renderUpload() string {
	styles := m.theme.Styles()
	lines := []string{
		styles.Title.Render(m.snapshot.Stage.Title()),
		"",
		styles.Text.Render("Point me at a photo of your room and I will take it from there."),
		"",
		m.pathInput.View(),
	}
	box := styles.Panel.Width(min(m.width-4, 72)).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.height-canvasTop-footerRows, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderAnalyze() string {
	cw, ch := m.canvasSize()
	side := m.renderAnalyzeSidebar(m.width - cw - 1)
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderCanvas(cw, ch), " ", side)
}

func (m Model) renderAnalyzeSidebar(width int) string {
	styles := m.theme.Styles()
	st := m.snapshot
	var b strings.Builder

	b.WriteString(styles.Title.Render(st.Stage.Title()) + "\n")
	if st.HasDimensions {
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("room %.0f × %.0f ft", st.RoomDimensions.Width, st.RoomDimensions.Height)) + "\n")
	}
	b.WriteByte('\n')

	switch {
	case st.Loading.Analyze:
		b.WriteString(styles.MutedText.Render("detecting objects…") + "\n")
	case len(st.Objects) == 0:
		b.WriteString(styles.MutedText.Render("press a to analyze the photo") + "\n")
	default:
		ov := canvas.NewOverlayModel(st.Objects, st.SelectedObjectID)
		for i, obj := range st.Objects {
			marker := "  "
			if i == m.cursor {
				marker = "❯ "
			}
			lock := " "
			if obj.Locked {
				lock = "•"
			}
			line := fmt.Sprintf("%s%s %-18s %s", marker, lock, truncate(obj.Label, 18), obj.Kind)
			switch ov.RoleFor(obj.ID) {
			case canvas.RoleLocked:
				line = styles.DangerText.Render(line)
			case canvas.RoleSelected:
				line = styles.AccentText.Render(line)
			case canvas.RoleStructural:
				line = styles.MutedText.Render(line)
			default:
				line = styles.Text.Render(line)
			}
			if i == m.cursor {
				line = styles.Selected.Render(line)
			}
			b.WriteString(line + "\n")
		}
	}

	if len(st.DetectedIssues) > 0 {
		b.WriteByte('\n')
		b.WriteString(styles.WarningText.Render("issues") + "\n")
		for _, issue := range st.DetectedIssues {
			b.WriteString(styles.MutedText.Render("· "+truncate(issue.Description, width-4)) + "\n")
		}
	}

	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func (m Model) renderLayouts() string {
	styles := m.theme.Styles()
	st := m.snapshot
	var b strings.Builder
	b.WriteString(styles.Title.Render(st.Stage.Title()) + "\n\n")

	if st.Loading.Optimize {
		_, label, fraction := m.sim.StepAt(time.Now())
		b.WriteString(styles.Text.Render(label) + "\n\n")
		b.WriteString(m.bar.ViewAs(fraction) + "\n")
		return b.String()
	}

	if len(st.Variations) == 0 {
		b.WriteString(styles.MutedText.Render("no layout options yet; press g to generate") + "\n")
		return b.String()
	}

	for i, v := range st.Variations {
		marker := "  "
		if i == m.cursor {
			marker = "❯ "
		}
		name := styles.AccentText.Render(v.Name)
		if i == m.cursor {
			name = styles.Selected.Render(v.Name)
		}
		b.WriteString(marker + name + "\n")
		desc := lipgloss.NewStyle().Width(min(m.width-6, 80)).Foreground(lipgloss.Color(m.theme.Muted)).Render(v.Description)
		b.WriteString(indent(desc, 4) + "\n\n")
	}
	return b.String()
}

func (m Model) renderPerspective() string {
	cw, ch := m.canvasSize()
	side := m.renderPerspectiveSidebar(m.width - cw - 1)
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderCanvas(cw, ch), " ", side)
}

func (m Model) renderPerspectiveSidebar(width int) string {
	styles := m.theme.Styles()
	st := m.snapshot
	var b strings.Builder

	b.WriteString(styles.Title.Render(st.Stage.Title()) + "\n")
	if st.Loading.Perspective {
		b.WriteString(styles.MutedText.Render("rendering the view…") + "\n")
	}
	b.WriteByte('\n')

	if m.maskMode {
		b.WriteString(styles.AccentText.Render("mask mode") + "\n")
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("strokes buffered: %d", m.mask.StrokeCount())) + "\n\n")
		b.WriteString(m.maskInput.View() + "\n")
	} else {
		b.WriteString(styles.MutedText.Render("press m to paint an edit region") + "\n")
	}
	b.WriteByte('\n')

	if len(st.PendingMasks) > 0 {
		b.WriteString(styles.Text.Render(fmt.Sprintf("queued edits (%d)", len(st.PendingMasks))) + "\n")
		for i, mask := range st.PendingMasks {
			marker := "  "
			if i == m.cursor && !m.maskMode {
				marker = "❯ "
			}
			line := marker + truncate(mask.Instruction, width-4)
			if i == m.cursor && !m.maskMode {
				line = styles.Selected.Render(line)
			} else {
				line = styles.Text.Render(line)
			}
			b.WriteString(line + "\n")
		}
	}

	if st.Loading.Render {
		b.WriteString("\n" + styles.MutedText.Render("applying edits…") + "\n")
	} else if st.FinalImage != "" {
		b.WriteString("\n" + styles.SuccessText.Render("edits applied") + "\n")
	}

	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func (m Model) renderChat() string {
	styles := m.theme.Styles()
	st := m.snapshot

	var transcript strings.Builder
	for _, msg := range st.Messages {
		var who string
		if msg.Role == pipeline.RoleUser {
			who = styles.AccentText.Render("you")
		} else {
			who = styles.SuccessText.Render("studio")
		}
		text := lipgloss.NewStyle().Width(m.chatView.Width - 2).Render(msg.Text)
		transcript.WriteString(who + "\n" + text + "\n\n")
	}
	if st.Loading.Chat {
		transcript.WriteString(styles.MutedText.Render("thinking…") + "\n")
	}
	if len(st.Messages) == 0 && !st.Loading.Chat {
		transcript.WriteString(styles.MutedText.Render("Tell me what to change and I will update the design.") + "\n")
	}

	view := m.chatView
	view.SetContent(transcript.String())
	view.GotoBottom()

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render(st.Stage.Title()),
		view.View(),
		"",
		m.chatInput.View(),
	)
}

func (m Model) renderShop() string {
	styles := m.theme.Styles()
	st := m.snapshot
	var b strings.Builder

	b.WriteString(styles.Title.Render(st.Stage.Title()) + "\n")
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("budget $%.0f (min $%d)", st.Budget, pipeline.MinBudget)) + "\n\n")
	b.WriteString(m.budgetInput.View() + "\n\n")

	switch {
	case st.Loading.Shop:
		b.WriteString(styles.MutedText.Render("finding products…") + "\n")
	case st.ShopResult == nil:
		b.WriteString(styles.MutedText.Render("press enter to shop the current layout") + "\n")
	default:
		res := st.ShopResult
		for _, item := range res.Items {
			b.WriteString(styles.AccentText.Render(item.FurnitureLabel) +
				styles.MutedText.Render(fmt.Sprintf("  $%.0f allocated", item.BudgetAllocated)) + "\n")
			if item.Error != "" {
				b.WriteString(styles.WarningText.Render("  "+item.Error) + "\n")
				continue
			}
			for _, p := range item.Products {
				price := p.PriceRaw
				if price == "" && p.Price != nil {
					price = fmt.Sprintf("$%.2f", *p.Price)
				}
				b.WriteString(styles.Text.Render("  · "+truncate(p.Title, m.width-30)) +
					styles.MutedText.Render(fmt.Sprintf("  %s  %s", price, p.Source)) + "\n")
			}
		}
		b.WriteByte('\n')
		b.WriteString(styles.Text.Render(fmt.Sprintf("estimated $%.0f of $%.0f", res.TotalEstimated, res.TotalBudget)) + "\n")
		if res.Message != "" {
			b.WriteString(styles.MutedText.Render(res.Message) + "\n")
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	if n < 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}
