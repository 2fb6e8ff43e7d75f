package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"roomstudio/internal/api"
	"roomstudio/internal/canvas"
)

// OpKind classifies the asynchronous operations. One operation per kind
// may be in flight at a time.
type OpKind int

const (
	OpAnalyze OpKind = iota
	OpOptimize
	OpPerspective
	OpChat
	OpShop
	OpRender
)

// now is stubbed in tests.
var now = time.Now

// ErrBusy is returned when an operation of the same kind is already in
// flight. The trigger is rejected; nothing reaches the network layer.
var ErrBusy = errors.New("operation already in progress")

// PreconditionError marks a client-side guard violation. These never
// reach the network layer.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

func precondition(format string, args ...any) error {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}

// Machine drives the pipeline: it owns every state mutation entry point,
// enforces per-stage guards, and runs the six service operations with
// duplicate-trigger rejection and stale-response discard.
//
// Each dispatch records a token; a completion whose token no longer
// matches (because the session was reset underneath it) is dropped
// whole, so a late response for an abandoned session can never overwrite
// current state.
type Machine struct {
	store *Store
	svc   api.Designer

	mu       sync.Mutex
	inflight map[OpKind]string
}

// NewMachine wires a machine over its store and the design service.
func NewMachine(store *Store, svc api.Designer) *Machine {
	return &Machine{
		store:    store,
		svc:      svc,
		inflight: make(map[OpKind]string),
	}
}

// Store exposes the underlying store for snapshot reads.
func (m *Machine) Store() *Store {
	return m.store
}

// begin checks the guard, marks the operation in flight, applies the
// optional dispatch mutation, and returns the token plus a snapshot taken
// atomically with the flag flip.
func (m *Machine) begin(op OpKind, guard func(State) error, dispatch func(*State)) (string, State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var snap State
	var gerr error
	m.store.apply(func(st *State) {
		if flagFor(&st.Loading, op) != nil && *flagFor(&st.Loading, op) {
			gerr = ErrBusy
			return
		}
		if guard != nil {
			if err := guard(*st); err != nil {
				gerr = err
				return
			}
		}
		*flagFor(&st.Loading, op) = true
		if dispatch != nil {
			dispatch(st)
		}
		snap = st.clone()
	})
	if gerr != nil {
		return "", State{}, gerr
	}
	token := uuid.NewString()
	m.inflight[op] = token
	return token, snap, nil
}

// finish applies a completion if its token is still current. Stale
// completions are discarded entirely, including their loading-flag
// clear, because a newer dispatch or reset owns the flag by then.
func (m *Machine) finish(op OpKind, token string, apply func(*State)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.inflight[op] != token {
		return
	}
	delete(m.inflight, op)
	m.store.apply(func(st *State) {
		*flagFor(&st.Loading, op) = false
		if apply != nil {
			apply(st)
		}
	})
}

func flagFor(l *LoadingFlags, op OpKind) *bool {
	switch op {
	case OpAnalyze:
		return &l.Analyze
	case OpOptimize:
		return &l.Optimize
	case OpPerspective:
		return &l.Perspective
	case OpChat:
		return &l.Chat
	case OpShop:
		return &l.Shop
	case OpRender:
		return &l.Render
	default:
		return nil
	}
}

// fail records the operation's error as the transient notice.
func (m *Machine) fail(op OpKind, token string, err error) {
	msg := api.Message(err)
	m.finish(op, token, func(st *State) {
		st.Notice = msg
	})
}

// SetImage stores an uploaded photo, decodes its natural size, and moves
// to the analyze stage with all downstream state cleared.
func (m *Machine) SetImage(data []byte) error {
	_, w, h, err := canvas.DecodeImage(data)
	if err != nil {
		return fmt.Errorf("read photo: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inflight = make(map[OpKind]string)
	m.store.apply(func(st *State) {
		budget := st.Budget
		*st = initialState()
		st.Budget = budget
		st.Stage = StageAnalyze
		st.ImageData = append([]byte(nil), data...)
		st.ImageB64 = base64.StdEncoding.EncodeToString(data)
		st.ImageW = w
		st.ImageH = h
	})
	return nil
}

// Analyze runs object detection on the uploaded photo. The stage does not
// advance; the user reviews and locks objects before generating layouts.
func (m *Machine) Analyze(ctx context.Context) error {
	token, snap, err := m.begin(OpAnalyze, func(st State) error {
		if !st.HasImage() {
			return precondition("upload a photo first")
		}
		return nil
	}, nil)
	if err != nil {
		return err
	}

	resp, err := m.svc.Analyze(ctx, api.AnalyzeRequest{Image: snap.ImageB64})
	if err != nil {
		m.fail(OpAnalyze, token, err)
		return err
	}
	m.finish(OpAnalyze, token, func(st *State) {
		st.RoomDimensions = resp.RoomDimensions
		st.HasDimensions = true
		st.Objects = cloneObjects(resp.Objects)
		st.OriginalLayout = cloneObjects(resp.Objects)
		st.DetectedIssues = resp.DetectedIssues
		st.SelectedObjectID = ""
		st.Notice = fmt.Sprintf("detected %d objects", len(resp.Objects))
	})
	return nil
}

// SelectObject toggles single-selection on an object overlay.
func (m *Machine) SelectObject(id string) {
	m.store.apply(func(st *State) {
		ov := canvas.NewOverlayModel(st.Objects, st.SelectedObjectID)
		ov.Select(id)
		st.SelectedObjectID = ov.SelectedID()
	})
}

// ToggleLock flips the lock on one object. The flag lives on the object
// itself, so any later layout serialization carries it.
func (m *Machine) ToggleLock(id string) {
	m.store.apply(func(st *State) {
		canvas.NewOverlayModel(st.Objects, st.SelectedObjectID).ToggleLock(id)
	})
}

// GenerateLayouts requests layout variations with every locked or
// structural object pinned. On success the pipeline advances to the
// layouts stage.
func (m *Machine) GenerateLayouts(ctx context.Context) error {
	token, snap, err := m.begin(OpOptimize, func(st State) error {
		if !st.HasDimensions {
			return precondition("analyze the room first")
		}
		if len(st.Objects) == 0 {
			return precondition("no objects detected yet")
		}
		return nil
	}, nil)
	if err != nil {
		return err
	}

	locked := canvas.NewOverlayModel(snap.Objects, "").LockedOrStructuralIDs()
	resp, err := m.svc.Optimize(ctx, api.OptimizeRequest{
		CurrentLayout:  snap.Objects,
		LockedIDs:      locked,
		RoomDimensions: snap.RoomDimensions,
		Image:          snap.ImageB64,
	})
	if err != nil {
		m.fail(OpOptimize, token, err)
		return err
	}
	m.finish(OpOptimize, token, func(st *State) {
		st.Variations = resp.Variations
		st.SelectedVariation = -1
		st.Stage = StageLayouts
		st.Notice = fmt.Sprintf("%d layout options ready", len(resp.Variations))
	})
	return nil
}

// SelectVariation chooses one variation, makes its layout the working
// layout, and renders a perspective view. The pipeline advances to the
// perspective stage even when the render sub-call fails; the failure is
// reported but never blocks navigation.
func (m *Machine) SelectVariation(ctx context.Context, index int) error {
	var chosen api.LayoutVariation
	token, snap, err := m.begin(OpPerspective, func(st State) error {
		if index < 0 || index >= len(st.Variations) {
			return precondition("no such layout option")
		}
		return nil
	}, func(st *State) {
		st.SelectedVariation = index
		chosen = st.Variations[index]
		st.CurrentLayout = cloneObjects(chosen.Layout)
	})
	if err != nil {
		return err
	}

	resp, err := m.svc.RenderPerspective(ctx, api.PerspectiveRequest{
		Layout:         chosen.Layout,
		RoomDimensions: snap.RoomDimensions,
		Style:          "photorealistic",
		ViewAngle:      "eye level",
		Image:          snap.ImageB64,
		LayoutPlan:     chosen.LayoutPlan,
		DoorInfo:       chosen.DoorInfo,
		WindowInfo:     chosen.WindowInfo,
	})
	m.finish(OpPerspective, token, func(st *State) {
		st.Stage = StagePerspective
		if err != nil {
			st.Notice = api.Message(err)
			return
		}
		if resp.Image != "" {
			st.PerspectiveImage = resp.Image
		}
		st.Notice = ""
	})
	return err
}

// ChatSend interprets one natural-language command against the current
// layout and render. An omitted updated image in the response means the
// previous perspective stays; an omitted layout keeps the current one.
// The stage does not change per command.
func (m *Machine) ChatSend(ctx context.Context, command string) error {
	command = strings.TrimSpace(command)
	token, snap, err := m.begin(OpChat, func(st State) error {
		if !st.ReachedPerspective() {
			return precondition("generate a perspective view first")
		}
		if command == "" {
			return precondition("empty command")
		}
		return nil
	}, func(st *State) {
		st.Messages = append(st.Messages, ChatMessage{Role: RoleUser, Text: command, At: now()})
	})
	if err != nil {
		return err
	}

	resp, err := m.svc.ChatEdit(ctx, api.ChatEditRequest{
		Command:        command,
		CurrentLayout:  snap.CurrentLayout,
		RoomDimensions: snap.RoomDimensions,
		CurrentImage:   snap.PerspectiveImage,
	})
	if err != nil {
		m.fail(OpChat, token, err)
		return err
	}
	m.finish(OpChat, token, func(st *State) {
		if resp.UpdatedLayout != nil {
			st.CurrentLayout = cloneObjects(resp.UpdatedLayout)
		}
		if resp.UpdatedImage != "" {
			st.PerspectiveImage = resp.UpdatedImage
		}
		st.Messages = append(st.Messages, ChatMessage{Role: RoleAssistant, Text: resp.Explanation, At: now()})
	})
	return nil
}

// SetBudget stores the shopping budget, clamped to the floor.
func (m *Machine) SetBudget(v float64) {
	m.store.apply(func(st *State) {
		st.Budget = ClampBudget(v)
	})
}

// Shop searches products for the working layout within the stored
// budget. The stage does not change per search.
func (m *Machine) Shop(ctx context.Context) error {
	token, snap, err := m.begin(OpShop, func(st State) error {
		if len(st.CurrentLayout) == 0 {
			return precondition("no layout to shop for")
		}
		return nil
	}, nil)
	if err != nil {
		return err
	}

	resp, err := m.svc.Shop(ctx, api.ShopRequest{
		CurrentLayout:    snap.CurrentLayout,
		TotalBudget:      snap.Budget,
		PerspectiveImage: snap.PerspectiveImage,
	})
	if err != nil {
		m.fail(OpShop, token, err)
		return err
	}
	m.finish(OpShop, token, func(st *State) {
		st.ShopResult = resp
		st.Notice = ""
	})
	return nil
}

// QueueMask appends a committed edit mask to the pending queue.
func (m *Machine) QueueMask(mask api.EditMask) {
	m.store.apply(func(st *State) {
		st.PendingMasks = append(st.PendingMasks, mask)
	})
}

// RemoveMask drops one pending mask by index. Masks are immutable once
// created; removal is the only mutation.
func (m *Machine) RemoveMask(index int) {
	m.store.apply(func(st *State) {
		if index < 0 || index >= len(st.PendingMasks) {
			return
		}
		st.PendingMasks = append(st.PendingMasks[:index], st.PendingMasks[index+1:]...)
	})
}

// ApplyEdits sends the original photo, the queued masks, and the layout
// delta to the final render operation. On success the queue is cleared.
func (m *Machine) ApplyEdits(ctx context.Context) error {
	token, snap, err := m.begin(OpRender, func(st State) error {
		if !st.HasImage() {
			return precondition("upload a photo first")
		}
		if len(st.PendingMasks) == 0 && len(st.CurrentLayout) == 0 {
			return precondition("nothing to apply")
		}
		return nil
	}, nil)
	if err != nil {
		return err
	}

	resp, err := m.svc.Render(ctx, api.RenderRequest{
		OriginalImage:  snap.ImageB64,
		Masks:          snap.PendingMasks,
		FinalLayout:    snap.CurrentLayout,
		OriginalLayout: snap.OriginalLayout,
	})
	if err != nil {
		m.fail(OpRender, token, err)
		return err
	}
	m.finish(OpRender, token, func(st *State) {
		if resp.Image != "" {
			st.FinalImage = resp.Image
			st.PerspectiveImage = resp.Image
		}
		st.PendingMasks = nil
		st.Notice = resp.Message
	})
	return nil
}

// CanEnter checks the entry precondition for a forward stage transition.
func (m *Machine) CanEnter(target Stage) error {
	return canEnter(m.store.Snapshot(), target)
}

func canEnter(st State, target Stage) error {
	if target < StageUpload || target > StageShop {
		return precondition("no such stage")
	}
	switch target {
	case StageUpload:
		return nil
	case StageAnalyze:
		if !st.HasImage() {
			return precondition("upload a photo first")
		}
	case StageLayouts:
		if !st.HasDimensions || len(st.Objects) == 0 {
			return precondition("analyze the room first")
		}
	case StagePerspective:
		if !st.ReachedPerspective() {
			return precondition("choose a layout first")
		}
	case StageChat:
		if !st.ReachedPerspective() {
			return precondition("generate a perspective view first")
		}
	case StageShop:
		if len(st.CurrentLayout) == 0 {
			return precondition("no layout to shop for")
		}
	}
	return nil
}

// Enter moves forward to a stage after its guard passes. Only the stage
// changes; data accumulation happens in the operations.
func (m *Machine) Enter(target Stage) error {
	var gerr error
	m.store.apply(func(st *State) {
		if err := canEnter(*st, target); err != nil {
			gerr = err
			return
		}
		st.Stage = target
	})
	return gerr
}

// Back steps to the previous stage. Unguarded: only the stage changes,
// accumulated data stays, so forward re-entry resumes where it left off.
func (m *Machine) Back() {
	m.store.apply(func(st *State) {
		if st.Stage > StageUpload {
			st.Stage--
		}
	})
}

// Reset unconditionally returns to the initial snapshot and invalidates
// every in-flight operation token, so late responses land nowhere.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inflight = make(map[OpKind]string)
	m.store.apply(func(st *State) {
		*st = initialState()
	})
}

// ClearNotice drops the transient status line.
func (m *Machine) ClearNotice() {
	m.store.apply(func(st *State) {
		st.Notice = ""
	})
}
