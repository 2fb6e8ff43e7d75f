package pipeline

import (
	"time"

	"roomstudio/internal/api"
)

// MinBudget is the floor for the shopping budget in USD. Any lower input,
// including negative values, is clamped up to it.
const MinBudget = 100

// DefaultBudget seeds the shopping stage before the user types anything.
const DefaultBudget = 500

// Chat transcript roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one entry of the refinement transcript.
type ChatMessage struct {
	Role string
	Text string
	At   time.Time
}

// LoadingFlags tracks which operation classes are in flight. Exactly one
// operation per class may run at a time; triggers consult these flags and
// reject duplicates.
type LoadingFlags struct {
	Analyze     bool
	Optimize    bool
	Perspective bool
	Chat        bool
	Shop        bool
	Render      bool
}

// Any reports whether any operation is in flight.
func (l LoadingFlags) Any() bool {
	return l.Analyze || l.Optimize || l.Perspective || l.Chat || l.Shop || l.Render
}

// State is the accumulated session data for the whole pipeline. It is
// owned exclusively by the Store; everything else sees cloned snapshots
// and requests mutation through Machine entry points.
type State struct {
	Stage Stage

	// Uploaded photo. ImageB64 is what crosses the API boundary.
	ImageData []byte
	ImageB64  string
	ImageW    int
	ImageH    int

	// Analysis results.
	RoomDimensions api.RoomDimensions
	HasDimensions  bool
	Objects        []api.RoomObject
	DetectedIssues []api.DetectedIssue
	OriginalLayout []api.RoomObject

	SelectedObjectID string

	// Layout generation.
	Variations        []api.LayoutVariation
	SelectedVariation int // index into Variations, -1 when none chosen
	CurrentLayout     []api.RoomObject

	// Rendering and refinement.
	PerspectiveImage string
	Messages         []ChatMessage
	PendingMasks     []api.EditMask
	FinalImage       string

	// Shopping.
	Budget     float64
	ShopResult *api.ShopResponse

	Loading LoadingFlags

	// Notice is the transient, human-readable status line. Errors land
	// here; it never carries raw transport detail.
	Notice string
}

func initialState() State {
	return State{
		Stage:             StageUpload,
		SelectedVariation: -1,
		Budget:            DefaultBudget,
	}
}

// ClampBudget enforces the budget floor.
func ClampBudget(v float64) float64 {
	if v < MinBudget {
		return MinBudget
	}
	return v
}

// HasImage reports whether a photo has been uploaded and decoded.
func (s State) HasImage() bool {
	return len(s.ImageData) > 0 && s.ImageW > 0 && s.ImageH > 0
}

// ReachedPerspective reports whether a variation was ever chosen, which
// is what gates the refinement stage. Backward navigation keeps this
// true, so forward re-entry resumes from prior artifacts.
func (s State) ReachedPerspective() bool {
	return s.SelectedVariation >= 0
}

func (s State) clone() State {
	out := s
	out.ImageData = append([]byte(nil), s.ImageData...)
	out.Objects = cloneObjects(s.Objects)
	out.DetectedIssues = append([]api.DetectedIssue(nil), s.DetectedIssues...)
	out.OriginalLayout = cloneObjects(s.OriginalLayout)
	out.Variations = append([]api.LayoutVariation(nil), s.Variations...)
	out.CurrentLayout = cloneObjects(s.CurrentLayout)
	out.Messages = append([]ChatMessage(nil), s.Messages...)
	out.PendingMasks = append([]api.EditMask(nil), s.PendingMasks...)
	if s.ShopResult != nil {
		dup := *s.ShopResult
		dup.Items = append([]api.ShopItem(nil), s.ShopResult.Items...)
		out.ShopResult = &dup
	}
	return out
}

func cloneObjects(objs []api.RoomObject) []api.RoomObject {
	if objs == nil {
		return nil
	}
	return append([]api.RoomObject(nil), objs...)
}
