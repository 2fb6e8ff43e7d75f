package ui

import (
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"roomstudio/internal/canvas"
)

// The canvas paints one image pixel per terminal cell column and two per
// row, using the upper half block so each cell carries two vertically
// stacked pixels. Display-pixel space is therefore (cells wide, 2x cells
// tall); the shared Transformer is fed that space, and mouse cells map
// back through displayPoint.
const halfBlock = "▀"

// displayPoint converts a mouse cell position inside the canvas pane to
// display-pixel space, aimed at the center of the cell's upper pixel.
func displayPoint(cellX, cellY int) canvas.Point {
	return canvas.Point{
		X: float64(cellX) + 0.5,
		Y: float64(cellY)*2 + 1,
	}
}

// previewCache memoizes the decoded-and-scaled preview so the canvas is
// not re-decoded on every frame. The key identifies the source image and
// the target size.
type previewCache struct {
	key string
	img *image.RGBA
}

func (c *previewCache) lookup(key string) (*image.RGBA, bool) {
	if c.key == key && c.img != nil {
		return c.img, true
	}
	return nil, false
}

func (c *previewCache) store(key string, img *image.RGBA) {
	c.key = key
	c.img = img
}

// scaledPreview returns the source image scaled to w x h display pixels,
// going through the cache.
func (c *previewCache) scaledPreview(label string, data []byte, w, h int) (*image.RGBA, error) {
	key := fmt.Sprintf("%s:%d:%dx%d", label, len(data), w, h)
	if img, ok := c.lookup(key); ok {
		return img, nil
	}
	src, _, _, err := canvas.DecodeImage(data)
	if err != nil {
		return nil, err
	}
	img := canvas.ScalePreview(src, w, h)
	c.store(key, img)
	return img, nil
}

// canvasSource picks the bytes to paint for the current stage: the
// perspective render once one exists, otherwise the uploaded photo.
func canvasSource(st stateView) (label string, data []byte, ok bool) {
	if st.perspective != "" {
		if raw, err := base64.StdEncoding.DecodeString(st.perspective); err == nil {
			return "persp", raw, true
		}
	}
	if len(st.original) > 0 {
		return "orig", st.original, true
	}
	return "", nil, false
}

// stateView is the slice of pipeline state the canvas needs.
type stateView struct {
	original    []byte
	perspective string
}

// renderCanvas paints the image with overlays into a cell grid of
// cw x ch. The transformer must already carry the image and container
// sizes; when it is not ready a placeholder is returned.
func (m Model) renderCanvas(cw, ch int) string {
	styles := m.theme.Styles()

	label, data, ok := canvasSource(stateView{
		original:    m.snapshot.ImageData,
		perspective: m.canvasPerspective(),
	})
	if !ok || !m.tf.Ready() {
		return styles.MutedText.Render("no photo loaded")
	}

	dw, dh := m.tf.DisplaySize()
	img, err := m.preview.scaledPreview(label, data, int(dw), int(dh))
	if err != nil {
		return styles.DangerText.Render("photo preview unavailable")
	}

	frame := image.NewRGBA(image.Rect(0, 0, int(dw), int(dh)))
	draw.Draw(frame, frame.Bounds(), img, image.Point{}, draw.Src)
	m.paintOverlays(frame)

	return renderHalfBlocks(frame, cw, ch, parseHexColor(m.theme.Background))
}

// canvasPerspective returns the perspective image for stages that show
// it; the analyze stage always shows the original photo.
func (m Model) canvasPerspective() string {
	if m.stageShowsPerspective() {
		return m.snapshot.PerspectiveImage
	}
	return ""
}

// paintOverlays draws object boxes and uncommitted mask strokes into the
// display-space frame.
func (m Model) paintOverlays(frame *image.RGBA) {
	if m.stageShowsObjects() {
		ov := canvas.NewOverlayModel(m.snapshot.Objects, m.snapshot.SelectedObjectID)
		for _, obj := range ov.Objects() {
			r := m.tf.RectToDisplay(canvas.Rect{
				X: obj.BBox[0], Y: obj.BBox[1], W: obj.BBox[2], H: obj.BBox[3],
			})
			col := m.roleColor(ov.RoleFor(obj.ID))
			drawRectOutline(frame, r, ov.StrokeWidth(obj.ID, obj.ID == m.hoverID), col)
		}
	}

	if m.maskMode {
		col := parseHexColor(m.theme.MaskBrush)
		radius := m.brushPx / 2
		for _, points := range m.mask.StrokePoints() {
			for i, p := range points {
				dp := m.tf.ToDisplay(p)
				drawDisc(frame, dp, radius, col)
				if i > 0 {
					prev := m.tf.ToDisplay(points[i-1])
					drawLineDiscs(frame, prev, dp, radius, col)
				}
			}
		}
	}
}

func (m Model) roleColor(role canvas.StyleRole) color.RGBA {
	switch role {
	case canvas.RoleLocked:
		return parseHexColor(m.theme.Locked)
	case canvas.RoleSelected:
		return parseHexColor(m.theme.Selected)
	case canvas.RoleStructural:
		return parseHexColor(m.theme.Structural)
	default:
		return parseHexColor(m.theme.Movable)
	}
}

// renderHalfBlocks emits the frame as rows of upper-half-block cells.
// Each cell's foreground is the upper pixel and background the lower.
func renderHalfBlocks(frame *image.RGBA, cw, ch int, pad color.RGBA) string {
	b := frame.Bounds()
	var sb strings.Builder
	for cy := 0; cy < ch; cy++ {
		if cy > 0 {
			sb.WriteByte('\n')
		}
		for cx := 0; cx < cw; cx++ {
			top := pixelOr(frame, b, cx, cy*2, pad)
			bottom := pixelOr(frame, b, cx, cy*2+1, pad)
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexString(top))).
				Background(lipgloss.Color(hexString(bottom)))
			sb.WriteString(style.Render(halfBlock))
		}
	}
	return sb.String()
}

func pixelOr(frame *image.RGBA, b image.Rectangle, x, y int, pad color.RGBA) color.RGBA {
	if x < b.Min.X || x >= b.Max.X || y < b.Min.Y || y >= b.Max.Y {
		return pad
	}
	return frame.RGBAAt(x, y)
}

func hexString(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// drawRectOutline paints a rectangle border of the given stroke width in
// display pixels, clipped to the frame.
func drawRectOutline(frame *image.RGBA, r canvas.Rect, width int, col color.RGBA) {
	x0 := int(math.Floor(r.X))
	y0 := int(math.Floor(r.Y))
	x1 := int(math.Ceil(r.X + r.W))
	y1 := int(math.Ceil(r.Y + r.H))
	for w := 0; w < width; w++ {
		drawHLine(frame, x0, x1, y0+w, col)
		drawHLine(frame, x0, x1, y1-w, col)
		drawVLine(frame, x0+w, y0, y1, col)
		drawVLine(frame, x1-w, y0, y1, col)
	}
}

func drawHLine(frame *image.RGBA, x0, x1, y int, col color.RGBA) {
	b := frame.Bounds()
	if y < b.Min.Y || y >= b.Max.Y {
		return
	}
	for x := max(x0, b.Min.X); x <= min(x1, b.Max.X-1); x++ {
		frame.SetRGBA(x, y, col)
	}
}

func drawVLine(frame *image.RGBA, x, y0, y1 int, col color.RGBA) {
	b := frame.Bounds()
	if x < b.Min.X || x >= b.Max.X {
		return
	}
	for y := max(y0, b.Min.Y); y <= min(y1, b.Max.Y-1); y++ {
		frame.SetRGBA(x, y, col)
	}
}

func drawDisc(frame *image.RGBA, c canvas.Point, r float64, col color.RGBA) {
	b := frame.Bounds()
	rr := r * r
	for y := int(math.Floor(c.Y - r)); y <= int(math.Ceil(c.Y+r)); y++ {
		if y < b.Min.Y || y >= b.Max.Y {
			continue
		}
		for x := int(math.Floor(c.X - r)); x <= int(math.Ceil(c.X+r)); x++ {
			if x < b.Min.X || x >= b.Max.X {
				continue
			}
			dx := float64(x) + 0.5 - c.X
			dy := float64(y) + 0.5 - c.Y
			if dx*dx+dy*dy <= rr {
				frame.SetRGBA(x, y, col)
			}
		}
	}
}

func drawLineDiscs(frame *image.RGBA, a, b canvas.Point, r float64, col color.RGBA) {
	dist := math.Hypot(b.X-a.X, b.Y-a.Y)
	if dist == 0 {
		return
	}
	step := math.Max(0.5, r/2)
	steps := int(math.Ceil(dist / step))
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		drawDisc(frame, canvas.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}, r, col)
	}
}
