package ui

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"roomstudio/internal/pipeline"
)

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 0x80, A: 0xff})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func testModel(t *testing.T) Model {
	t.Helper()
	machine := pipeline.NewMachine(pipeline.NewStore(), nil)
	m := New(Options{
		Machine:   machine,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	m.width = 100
	m.height = 40
	m.ready = true
	m.snapshot = machine.Store().Snapshot()
	return m
}

func TestNew_Defaults(t *testing.T) {
	m := testModel(t)
	if m.theme.Name != "Studio" {
		t.Fatalf("theme = %q, want Studio", m.theme.Name)
	}
	if !m.pathInput.Focused() {
		t.Fatalf("path input not focused on a fresh model")
	}
}

func TestUpdate_WindowSizeMarksReady(t *testing.T) {
	m := New(Options{Machine: pipeline.NewMachine(pipeline.NewStore(), nil)})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	got := next.(Model)
	if !got.ready || got.width != 80 || got.height != 24 {
		t.Fatalf("model after resize = ready=%v %dx%d", got.ready, got.width, got.height)
	}
}

func TestHandleKey_HelpTogglesAndCloses(t *testing.T) {
	m := testModel(t)
	m.pathInput.Blur()

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = next.(Model)
	if !m.showHelp {
		t.Fatalf("? did not open help")
	}
	next, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = next.(Model)
	if m.showHelp {
		t.Fatalf("help did not close on keypress")
	}
}

func TestHandleKey_ThemeCyclePersists(t *testing.T) {
	m := testModel(t)
	m.pathInput.Blur()

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'T'}})
	m = next.(Model)
	if m.theme.Name != "Blueprint" {
		t.Fatalf("theme after cycle = %q, want Blueprint", m.theme.Name)
	}
}

func TestHandleKey_ForwardGuardRejectedShowsFlash(t *testing.T) {
	m := testModel(t)
	m.pathInput.Blur()

	// No photo uploaded, so tab into analyze must be refused client-side.
	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	if m.flash == "" {
		t.Fatalf("guard rejection did not set the flash notice")
	}
	if m.machine.Store().Snapshot().Stage != pipeline.StageUpload {
		t.Fatalf("stage advanced past a failed guard")
	}
}

func TestHandleEscape_UploadIsNoop(t *testing.T) {
	m := testModel(t)
	next, _ := m.handleEscape()
	m = next.(Model)
	if got := m.machine.Store().Snapshot().Stage; got != pipeline.StageUpload {
		t.Fatalf("stage = %v, want upload", got)
	}
}

func TestRenderMain_ShowsStageBreadcrumb(t *testing.T) {
	m := testModel(t)
	m.syncLayout()
	out := m.renderMain()
	for _, name := range []string{"upload", "analyze", "layouts", "perspective", "chat", "shop"} {
		if !strings.Contains(out, name) {
			t.Fatalf("main view missing breadcrumb %q", name)
		}
	}
}

func TestHandleMouse_LeavingCanvasEndsStroke(t *testing.T) {
	m := testModel(t)
	if err := m.machine.SetImage(encodeTestPNG(t, 80, 60)); err != nil {
		t.Fatalf("SetImage: %v", err)
	}
	m.snapshot = m.machine.Store().Snapshot()
	m.syncLayout()
	m.maskMode = true

	press := tea.MouseMsg{X: 5, Y: canvasTop + 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	next, _ := m.handleMouse(press)
	m = next.(Model)
	if !m.dragging || m.mask.StrokeCount() != 1 {
		t.Fatalf("press did not start a stroke: dragging=%v strokes=%d", m.dragging, m.mask.StrokeCount())
	}

	inside := tea.MouseMsg{X: 8, Y: canvasTop + 6, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
	next, _ = m.handleMouse(inside)
	m = next.(Model)

	// Dragging off the pane must end the stroke, not pause it.
	outside := tea.MouseMsg{X: -3, Y: canvasTop + 6, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
	next, _ = m.handleMouse(outside)
	m = next.(Model)
	if m.dragging || m.mask.Drawing() {
		t.Fatalf("stroke still active after leaving the canvas: dragging=%v drawing=%v", m.dragging, m.mask.Drawing())
	}

	// A later press inside starts a fresh stroke instead of extending
	// the old one across the gap.
	next, _ = m.handleMouse(press)
	m = next.(Model)
	if m.mask.StrokeCount() != 2 {
		t.Fatalf("strokes = %d, want 2 after re-entering", m.mask.StrokeCount())
	}
}

func TestRenderHelp_UsesPlainSeparators(t *testing.T) {
	m := testModel(t)
	out := m.renderHelp()
	if !strings.Contains(out, "room studio · keys") {
		t.Fatalf("help overlay missing title")
	}
	if strings.Contains(out, "—") {
		t.Fatalf("help overlay contains an em-dash")
	}
}
