// Package ui provides the Bubble Tea terminal interface for roomstudio.
package ui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"roomstudio/internal/canvas"
	"roomstudio/internal/config"
	"roomstudio/internal/logger"
	"roomstudio/internal/pipeline"
	"roomstudio/internal/prefs"
)

// Canvas pane geometry. The canvas starts below the header and notice
// lines and leaves room for the footer.
const (
	canvasTop    = 2
	footerRows   = 1
	sidePanelMin = 34
)

const tickInterval = 250 * time.Millisecond

// Options configures the UI.
type Options struct {
	Context   context.Context
	Machine   *pipeline.Machine
	Config    *config.Config
	ThemeName string
	PrefsPath string
	BrushPx   float64
	ImagePath string // photo to load on startup, optional
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	machine   *pipeline.Machine
	config    *config.Config
	prefsPath string

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	flash    string // local notice for guard rejections
	cursor   int    // list cursor for the current stage

	// Data state
	snapshot pipeline.State

	// Canvas state
	tf       *canvas.Transformer
	mask     *canvas.MaskEngine
	preview  *previewCache
	brushPx  float64
	hoverID  string
	maskMode bool
	dragging bool

	// Layout-generation wait narration
	sim *pipeline.ProgressSimulator
	bar progress.Model

	// Inputs
	pathInput   textinput.Model
	chatInput   textinput.Model
	budgetInput textinput.Model
	maskInput   textinput.Model

	chatView viewport.Model

	pendingImage string // startup photo path, loaded on Init
}

// Messages.
type tickMsg time.Time

type snapshotMsg pipeline.State

type opDoneMsg struct {
	op  pipeline.OpKind
	err error
}

type imageLoadedMsg struct {
	path string
	err  error
}

// New creates the root model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Studio"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	brushPx := opts.BrushPx
	if brushPx <= 0 {
		brushPx = canvas.DefaultBrushPx
	}

	tf := &canvas.Transformer{}

	pathInput := textinput.New()
	pathInput.Placeholder = "path to a room photo (png or jpeg)"
	pathInput.Focus()

	chatInput := textinput.New()
	chatInput.Placeholder = "describe a change, e.g. \"make the walls sage green\""

	budgetInput := textinput.New()
	budgetInput.Placeholder = fmt.Sprintf("budget in USD, minimum %d", pipeline.MinBudget)

	maskInput := textinput.New()
	maskInput.Placeholder = "what should happen in the painted region?"

	return Model{
		ctx:          ctx,
		machine:      opts.Machine,
		config:       opts.Config,
		prefsPath:    prefsPath,
		theme:        GetTheme(themeName),
		tf:           tf,
		mask:         canvas.NewMaskEngine(tf, brushPx),
		preview:      &previewCache{},
		brushPx:      brushPx,
		sim:          pipeline.NewProgressSimulator(nil),
		bar:          progress.New(progress.WithDefaultGradient()),
		pathInput:    pathInput,
		chatInput:    chatInput,
		budgetInput:  budgetInput,
		maskInput:    maskInput,
		chatView:     viewport.New(0, 0),
		pendingImage: opts.ImagePath,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(),
	}
	if m.machine != nil {
		cmds = append(cmds, m.refreshCmd())
		if m.pendingImage != "" {
			cmds = append(cmds, loadImageCmd(m.machine, m.pendingImage))
		}
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.syncLayout()
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if m.machine != nil {
			cmds = append(cmds, m.refreshCmd())
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		prevStage := m.snapshot.Stage
		m.snapshot = pipeline.State(msg)
		if prevStage != m.snapshot.Stage {
			m.cursor = 0
			m.syncFocus()
		}
		m.syncLayout()
		m.syncProgress()
		return m, nil

	case opDoneMsg:
		if msg.err != nil {
			m.flash = msg.err.Error()
			logger.Sugar.Warnw("operation failed", "op", int(msg.op), "error", msg.err)
		}
		return m, m.refreshCmd()

	case imageLoadedMsg:
		if msg.err != nil {
			m.flash = fmt.Sprintf("could not load %s: %v", msg.path, msg.err)
			return m, nil
		}
		m.flash = ""
		return m, tea.Batch(m.refreshCmd(), m.opCmd(pipeline.OpAnalyze))
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// syncLayout pushes the current sizes into the shared transformer and
// sub-components.
func (m *Model) syncLayout() {
	m.tf.SetImageSize(m.snapshot.ImageW, m.snapshot.ImageH)
	cw, ch := m.canvasSize()
	m.tf.SetContainerSize(float64(cw), float64(ch*2))
	m.bar.Width = max(10, m.width-20)
	m.chatView.Width = max(10, m.width-4)
	m.chatView.Height = max(1, m.height-canvasTop-footerRows-3)
}

// syncProgress keeps the cosmetic wait narration in step with the real
// layout-generation call.
func (m *Model) syncProgress() {
	if m.snapshot.Loading.Optimize {
		if !m.sim.Running() {
			m.sim.Start(time.Now())
		}
		return
	}
	if m.sim.Running() {
		m.sim.Reset()
	}
}

// syncFocus moves keyboard focus to the text input the new stage owns.
func (m *Model) syncFocus() {
	m.pathInput.Blur()
	m.chatInput.Blur()
	m.budgetInput.Blur()
	m.maskInput.Blur()
	switch m.snapshot.Stage {
	case pipeline.StageUpload:
		m.pathInput.Focus()
	case pipeline.StageChat:
		m.chatInput.Focus()
	case pipeline.StageShop:
		m.budgetInput.Focus()
	}
	if m.snapshot.Stage != pipeline.StagePerspective {
		m.maskMode = false
		m.mask.Clear()
	}
}

// canvasSize returns the canvas pane size in cells for stages that show
// the photo.
func (m Model) canvasSize() (w, h int) {
	side := sidePanelMin
	w = m.width - side - 1
	h = m.height - canvasTop - footerRows
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func (m Model) stageShowsObjects() bool {
	return m.snapshot.Stage == pipeline.StageAnalyze
}

func (m Model) stageShowsPerspective() bool {
	return m.snapshot.Stage == pipeline.StagePerspective
}

func (m Model) stageHasCanvas() bool {
	return m.stageShowsObjects() || m.stageShowsPerspective()
}

// Commands.

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) refreshCmd() tea.Cmd {
	store := m.machine.Store()
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// opCmd runs one machine operation off the event loop.
func (m Model) opCmd(op pipeline.OpKind, args ...any) tea.Cmd {
	mach, ctx := m.machine, m.ctx
	return func() tea.Msg {
		var err error
		switch op {
		case pipeline.OpAnalyze:
			err = mach.Analyze(ctx)
		case pipeline.OpOptimize:
			err = mach.GenerateLayouts(ctx)
		case pipeline.OpPerspective:
			err = mach.SelectVariation(ctx, args[0].(int))
		case pipeline.OpChat:
			err = mach.ChatSend(ctx, args[0].(string))
		case pipeline.OpShop:
			err = mach.Shop(ctx)
		case pipeline.OpRender:
			err = mach.ApplyEdits(ctx)
		}
		return opDoneMsg{op: op, err: err}
	}
}

func loadImageCmd(mach *pipeline.Machine, path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err == nil {
			err = mach.SetImage(data)
		}
		return imageLoadedMsg{path: path, err: err}
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithMouseAllMotion())
	if opts.Context != nil {
		go func() {
			<-opts.Context.Done()
			p.Quit()
		}()
	}
	_, err := p.Run()
	return err
}
