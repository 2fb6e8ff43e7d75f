package canvas

import "roomstudio/internal/api"

// StyleRole decides the outward appearance of an object overlay. When
// several states apply at once the highest priority wins: locked beats
// selected beats structural beats movable.
type StyleRole int

const (
	RoleMovable StyleRole = iota
	RoleStructural
	RoleSelected
	RoleLocked
)

// Stroke widths per role; hover adds one on top.
const (
	widthDefault  = 1
	widthSelected = 2
	widthLocked   = 3
)

// OverlayModel holds the detected objects plus selection state for the
// canvas. At most one object is selected at a time; any number may be
// locked. The model mutates the objects it was given, so lock toggles are
// visible to whoever serializes the layout afterwards.
type OverlayModel struct {
	objects    []api.RoomObject
	selectedID string
}

// NewOverlayModel wraps an object slice. The slice is not copied.
func NewOverlayModel(objects []api.RoomObject, selectedID string) *OverlayModel {
	return &OverlayModel{objects: objects, selectedID: selectedID}
}

// Objects returns the underlying object slice.
func (m *OverlayModel) Objects() []api.RoomObject {
	return m.objects
}

// SelectedID returns the currently selected object id, empty when none.
func (m *OverlayModel) SelectedID() string {
	return m.selectedID
}

// Select toggles single-selection: reselecting the current id clears it,
// selecting a different id replaces it.
func (m *OverlayModel) Select(id string) {
	if m.selectedID == id {
		m.selectedID = ""
		return
	}
	m.selectedID = id
}

// ToggleLock flips the locked flag on exactly one object and reports the
// new value. Selection is untouched. Unknown ids are ignored.
func (m *OverlayModel) ToggleLock(id string) bool {
	for i := range m.objects {
		if m.objects[i].ID == id {
			m.objects[i].Locked = !m.objects[i].Locked
			return m.objects[i].Locked
		}
	}
	return false
}

// IsLocked reports the lock state for an id.
func (m *OverlayModel) IsLocked(id string) bool {
	for i := range m.objects {
		if m.objects[i].ID == id {
			return m.objects[i].Locked
		}
	}
	return false
}

// LockedOrStructuralIDs returns every id the optimizer must treat as
// immovable, in layout order.
func (m *OverlayModel) LockedOrStructuralIDs() []string {
	var ids []string
	for i := range m.objects {
		if m.objects[i].Locked || m.objects[i].Kind == api.KindStructural {
			ids = append(ids, m.objects[i].ID)
		}
	}
	return ids
}

// RoleFor resolves the style priority for one object.
func (m *OverlayModel) RoleFor(id string) StyleRole {
	for i := range m.objects {
		if m.objects[i].ID != id {
			continue
		}
		switch {
		case m.objects[i].Locked:
			return RoleLocked
		case m.selectedID == id:
			return RoleSelected
		case m.objects[i].Kind == api.KindStructural:
			return RoleStructural
		}
		return RoleMovable
	}
	return RoleMovable
}

// StrokeWidth derives the overlay stroke width from the role, with a
// uniform +1 while hovered.
func (m *OverlayModel) StrokeWidth(id string, hovered bool) int {
	w := widthDefault
	switch m.RoleFor(id) {
	case RoleLocked:
		w = widthLocked
	case RoleSelected:
		w = widthSelected
	}
	if hovered {
		w++
	}
	return w
}

// HitTest returns the id of the topmost object containing the given
// natural-space point. Later objects paint on top, so the scan runs back
// to front.
func (m *OverlayModel) HitTest(p Point) (string, bool) {
	for i := len(m.objects) - 1; i >= 0; i-- {
		b := m.objects[i].BBox
		if (Rect{X: b[0], Y: b[1], W: b[2], H: b[3]}).Contains(p) {
			return m.objects[i].ID, true
		}
	}
	return "", false
}
