package api

import "encoding/json"

// Object kinds reported by the analyzer.
const (
	KindMovable    = "movable"
	KindStructural = "structural"
)

// RoomObject is a single detected piece of furniture or structure.
// BBox is [x, y, width, height] in natural-image pixels; display-space
// values are never serialized.
type RoomObject struct {
	ID           string     `json:"id"`
	Label        string     `json:"label"`
	BBox         [4]float64 `json:"bbox"`
	Kind         string     `json:"type"`
	Orientation  int        `json:"orientation"`
	Locked       bool       `json:"locked"`
	ZIndex       string     `json:"z_index,omitempty"`
	MaterialHint string     `json:"material_hint,omitempty"`
}

// RoomDimensions is the estimated physical room size in feet.
type RoomDimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DetectedIssue flags a problem the analyzer noticed in the room.
type DetectedIssue struct {
	Severity    string `json:"severity"`
	Description string `json:"description"`
	ObjectID    string `json:"object_id,omitempty"`
}

// LayoutVariation is one proposed arrangement of the room.
//
// LayoutPlan, DoorInfo and WindowInfo are opaque payloads owned by the
// design service. They are held as raw JSON so they round-trip to later
// requests byte for byte.
type LayoutVariation struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Layout      []RoomObject    `json:"layout"`
	Thumbnail   string          `json:"thumbnail_base64,omitempty"`
	LayoutPlan  json.RawMessage `json:"layout_plan,omitempty"`
	DoorInfo    json.RawMessage `json:"door_info,omitempty"`
	WindowInfo  json.RawMessage `json:"window_info,omitempty"`
}

// EditMask pairs a free-text instruction with a rasterized region mask.
// RegionMask is a base64 PNG at the source image's natural resolution,
// white background with the edit region painted black.
type EditMask struct {
	Instruction string `json:"instruction"`
	RegionMask  string `json:"region_mask"`
}

// Product is a single shopping result.
type Product struct {
	Title     string   `json:"title"`
	Price     *float64 `json:"price,omitempty"`
	PriceRaw  string   `json:"price_raw"`
	Link      string   `json:"link"`
	Thumbnail string   `json:"thumbnail"`
	Source    string   `json:"source"`
	Rating    *float64 `json:"rating,omitempty"`
	Reviews   *int     `json:"reviews,omitempty"`
}

// ShopItem groups the products found for one furniture piece.
type ShopItem struct {
	FurnitureID     string    `json:"furniture_id"`
	FurnitureLabel  string    `json:"furniture_label"`
	SearchQuery     string    `json:"search_query"`
	BudgetAllocated float64   `json:"budget_allocated"`
	Products        []Product `json:"products"`
	Error           string    `json:"error,omitempty"`
}

// AnalyzeRequest is the body for POST /analyze.
type AnalyzeRequest struct {
	Image string `json:"image"`
}

// AnalyzeResponse is the reply from POST /analyze.
type AnalyzeResponse struct {
	RoomDimensions RoomDimensions  `json:"room_dimensions"`
	Objects        []RoomObject    `json:"objects"`
	DetectedIssues []DetectedIssue `json:"detected_issues"`
}

// OptimizeRequest is the body for POST /optimize. LockedIDs carries every
// object the optimizer must leave in place (user-locked plus structural).
type OptimizeRequest struct {
	CurrentLayout  []RoomObject   `json:"current_layout"`
	LockedIDs      []string       `json:"locked_object_ids"`
	RoomDimensions RoomDimensions `json:"room_dimensions"`
	Image          string         `json:"image,omitempty"`
}

// OptimizeResponse is the reply from POST /optimize.
type OptimizeResponse struct {
	Variations []LayoutVariation `json:"variations"`
}

// PerspectiveRequest is the body for POST /render/perspective.
type PerspectiveRequest struct {
	Layout         []RoomObject    `json:"layout"`
	RoomDimensions RoomDimensions  `json:"room_dimensions"`
	Style          string          `json:"style"`
	ViewAngle      string          `json:"view_angle"`
	Image          string          `json:"image,omitempty"`
	LayoutPlan     json.RawMessage `json:"layout_plan,omitempty"`
	DoorInfo       json.RawMessage `json:"door_info,omitempty"`
	WindowInfo     json.RawMessage `json:"window_info,omitempty"`
}

// PerspectiveResponse is the reply from POST /render/perspective.
type PerspectiveResponse struct {
	Image string `json:"image,omitempty"`
}

// ChatEditRequest is the body for POST /chat/edit.
type ChatEditRequest struct {
	Command        string         `json:"command"`
	CurrentLayout  []RoomObject   `json:"current_layout"`
	RoomDimensions RoomDimensions `json:"room_dimensions"`
	CurrentImage   string         `json:"current_image,omitempty"`
}

// ChatEditResponse is the reply from POST /chat/edit. UpdatedLayout and
// UpdatedImage are both optional; an omitted image means the previous
// render is still valid.
type ChatEditResponse struct {
	UpdatedLayout []RoomObject `json:"updated_layout,omitempty"`
	UpdatedImage  string       `json:"updated_image,omitempty"`
	Explanation   string       `json:"explanation"`
}

// ShopRequest is the body for POST /shop.
type ShopRequest struct {
	CurrentLayout    []RoomObject `json:"current_layout"`
	TotalBudget      float64      `json:"total_budget"`
	PerspectiveImage string       `json:"perspective_image_base64,omitempty"`
}

// ShopResponse is the reply from POST /shop.
type ShopResponse struct {
	Items          []ShopItem `json:"items"`
	TotalEstimated float64    `json:"total_estimated"`
	TotalBudget    float64    `json:"total_budget"`
	Message        string     `json:"message,omitempty"`
}

// RenderRequest is the body for POST /render, the final edit pass that
// applies queued masks and layout changes to the original photo.
type RenderRequest struct {
	OriginalImage  string       `json:"original_image"`
	Masks          []EditMask   `json:"masks,omitempty"`
	FinalLayout    []RoomObject `json:"final_layout"`
	OriginalLayout []RoomObject `json:"original_layout"`
}

// RenderResponse is the reply from POST /render.
type RenderResponse struct {
	Image   string `json:"image,omitempty"`
	Message string `json:"message"`
}
