package pipeline

// Stage is one discrete step of the design pipeline. Stages are ordered;
// forward entry is guarded by preconditions on accumulated data, backward
// navigation is free and never discards data.
type Stage int

const (
	StageUpload Stage = iota
	StageAnalyze
	StageLayouts
	StagePerspective
	StageChat
	StageShop
)

func (s Stage) String() string {
	switch s {
	case StageUpload:
		return "upload"
	case StageAnalyze:
		return "analyze"
	case StageLayouts:
		return "layouts"
	case StagePerspective:
		return "perspective"
	case StageChat:
		return "chat"
	case StageShop:
		return "shop"
	default:
		return "unknown"
	}
}

// Title returns the human heading used by the UI.
func (s Stage) Title() string {
	switch s {
	case StageUpload:
		return "Upload a room photo"
	case StageAnalyze:
		return "Review detected objects"
	case StageLayouts:
		return "Choose a layout"
	case StagePerspective:
		return "Preview"
	case StageChat:
		return "Refine"
	case StageShop:
		return "Shop the room"
	default:
		return ""
	}
}
