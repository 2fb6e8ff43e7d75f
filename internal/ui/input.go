package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"roomstudio/internal/canvas"
	"roomstudio/internal/pipeline"
	"roomstudio/internal/prefs"
)

// handleKey processes keyboard input. Text inputs own the keyboard while
// focused; only enter, esc and a few control chords bypass them.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	m.flash = ""

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if input := m.focusedInput(); input != nil {
		switch msg.String() {
		case "enter":
			return m.handleSubmit()
		case "esc":
			return m.handleEscape()
		default:
			var cmd tea.Cmd
			*input, cmd = input.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "T":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, BrushPx: m.brushPx})
		}
		return m, nil

	case "R":
		m.machine.Reset()
		m.maskMode = false
		m.mask.Clear()
		m.cursor = 0
		return m, m.refreshCmd()

	case "tab":
		if err := m.machine.Enter(m.snapshot.Stage + 1); err != nil {
			m.flash = err.Error()
			return m, nil
		}
		return m, m.refreshCmd()

	case "esc":
		return m.handleEscape()
	}

	switch m.snapshot.Stage {
	case pipeline.StageAnalyze:
		return m.handleAnalyzeKey(msg)
	case pipeline.StageLayouts:
		return m.handleLayoutsKey(msg)
	case pipeline.StagePerspective:
		return m.handlePerspectiveKey(msg)
	}

	return m, nil
}

// focusedInput returns the text input that currently owns the keyboard.
func (m *Model) focusedInput() *textinput.Model {
	switch {
	case m.pathInput.Focused():
		return &m.pathInput
	case m.chatInput.Focused():
		return &m.chatInput
	case m.budgetInput.Focused():
		return &m.budgetInput
	case m.maskInput.Focused():
		return &m.maskInput
	}
	return nil
}

// handleSubmit routes enter on the focused input.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	switch {
	case m.pathInput.Focused():
		path := strings.TrimSpace(m.pathInput.Value())
		if path == "" {
			m.flash = "enter a photo path"
			return m, nil
		}
		return m, loadImageCmd(m.machine, path)

	case m.chatInput.Focused():
		text := strings.TrimSpace(m.chatInput.Value())
		if text == "" {
			return m, nil
		}
		m.chatInput.SetValue("")
		return m, tea.Batch(m.opCmd(pipeline.OpChat, text), m.refreshCmd())

	case m.budgetInput.Focused():
		if raw := strings.TrimSpace(m.budgetInput.Value()); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				m.flash = "budget must be a number"
				return m, nil
			}
			m.machine.SetBudget(v)
		}
		return m, tea.Batch(m.opCmd(pipeline.OpShop), m.refreshCmd())

	case m.maskInput.Focused():
		instruction := strings.TrimSpace(m.maskInput.Value())
		if instruction == "" {
			m.flash = "describe the edit for the painted region"
			return m, nil
		}
		mask, ok := m.mask.Commit(instruction)
		if !ok {
			m.flash = "paint a region on the photo first"
			return m, nil
		}
		m.machine.QueueMask(*mask)
		m.maskInput.SetValue("")
		return m, m.refreshCmd()
	}
	return m, nil
}

// handleEscape cancels mask mode when active, otherwise steps back one
// stage. Backward navigation keeps all accumulated data.
func (m Model) handleEscape() (tea.Model, tea.Cmd) {
	if m.maskMode {
		m.maskMode = false
		m.dragging = false
		m.mask.Clear()
		m.maskInput.Blur()
		m.maskInput.SetValue("")
		return m, nil
	}
	if m.snapshot.Stage == pipeline.StageUpload {
		return m, nil
	}
	m.machine.Back()
	return m, m.refreshCmd()
}

func (m Model) handleAnalyzeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.snapshot.Objects)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter", " ":
		if id, ok := m.objectAtCursor(); ok {
			m.machine.SelectObject(id)
			return m, m.refreshCmd()
		}
	case "l":
		if id, ok := m.objectAtCursor(); ok {
			m.machine.ToggleLock(id)
			return m, m.refreshCmd()
		}
	case "a":
		return m, m.opCmd(pipeline.OpAnalyze)
	case "g":
		return m, tea.Batch(m.opCmd(pipeline.OpOptimize), m.refreshCmd())
	}
	return m, nil
}

func (m Model) handleLayoutsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.snapshot.Variations)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if len(m.snapshot.Variations) > 0 {
			return m, tea.Batch(m.opCmd(pipeline.OpPerspective, m.cursor), m.refreshCmd())
		}
	case "g":
		return m, tea.Batch(m.opCmd(pipeline.OpOptimize), m.refreshCmd())
	}
	return m, nil
}

func (m Model) handlePerspectiveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "m":
		m.maskMode = true
		m.maskInput.Focus()
		return m, nil
	case "j", "down":
		if m.cursor < len(m.snapshot.PendingMasks)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "d":
		if len(m.snapshot.PendingMasks) > 0 {
			m.machine.RemoveMask(m.cursor)
			if m.cursor > 0 {
				m.cursor--
			}
			return m, m.refreshCmd()
		}
	case "x":
		return m, tea.Batch(m.opCmd(pipeline.OpRender), m.refreshCmd())
	}
	return m, nil
}

func (m Model) objectAtCursor() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snapshot.Objects) {
		return "", false
	}
	return m.snapshot.Objects[m.cursor].ID, true
}

// handleMouse drives the canvas: hover and select/lock while reviewing
// objects, freehand strokes in mask mode.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.stageHasCanvas() {
		return m, nil
	}
	cw, ch := m.canvasSize()
	cx, cy := msg.X, msg.Y-canvasTop
	inside := cx >= 0 && cx < cw && cy >= 0 && cy < ch
	dp := displayPoint(cx, cy)

	switch msg.Action {
	case tea.MouseActionMotion:
		if m.maskMode && m.dragging {
			if !inside {
				// Leaving the pane ends the stroke; re-entering must not
				// bridge the gap with a straight segment.
				m.mask.EndStroke()
				m.dragging = false
				return m, nil
			}
			m.mask.ExtendStroke(dp)
			return m, nil
		}
		if m.stageShowsObjects() {
			m.hoverID = ""
			if inside {
				ov := canvas.NewOverlayModel(m.snapshot.Objects, m.snapshot.SelectedObjectID)
				if id, ok := ov.HitTest(m.tf.ToNatural(dp)); ok {
					m.hoverID = id
				}
			}
		}

	case tea.MouseActionPress:
		if !inside {
			return m, nil
		}
		if m.maskMode {
			if msg.Button == tea.MouseButtonLeft {
				m.mask.BeginStroke(dp)
				m.dragging = true
			}
			return m, nil
		}
		if m.stageShowsObjects() {
			ov := canvas.NewOverlayModel(m.snapshot.Objects, m.snapshot.SelectedObjectID)
			id, ok := ov.HitTest(m.tf.ToNatural(dp))
			if !ok {
				return m, nil
			}
			switch msg.Button {
			case tea.MouseButtonLeft:
				m.machine.SelectObject(id)
			case tea.MouseButtonRight:
				m.machine.ToggleLock(id)
			}
			return m, m.refreshCmd()
		}

	case tea.MouseActionRelease:
		if m.dragging {
			m.mask.EndStroke()
			m.dragging = false
		}
	}

	return m, nil
}
