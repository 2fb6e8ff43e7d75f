package canvas

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"roomstudio/internal/api"
)

// DefaultBrushPx is the on-screen brush diameter in display pixels. The
// painted region keeps a constant physical thickness on screen, so the
// pen width in the output bitmap is this divided by the capture scale.
const DefaultBrushPx = 30.0

// minPointSpacing drops pointer samples closer than this, in natural
// pixels. Purely a memory bound; the rasterized result is unaffected.
const minPointSpacing = 0.5

// stroke is one captured freehand gesture, already in natural space.
type stroke struct {
	points []Point
	width  float64 // natural-space pen width, fixed at capture time
}

// MaskEngine records freehand strokes over the image and rasterizes them
// into an edit mask at the image's native resolution.
//
// The engine is a two-state machine: idle and drawing. BeginStroke enters
// drawing, EndStroke returns to idle with the buffer retained, Clear
// drops the buffer, Commit rasterizes and drops it.
type MaskEngine struct {
	tf      *Transformer
	brushPx float64
	strokes []stroke
	drawing bool
}

// NewMaskEngine builds an engine over the shared transformer. brushPx
// zero or negative falls back to DefaultBrushPx.
func NewMaskEngine(tf *Transformer, brushPx float64) *MaskEngine {
	if brushPx <= 0 {
		brushPx = DefaultBrushPx
	}
	return &MaskEngine{tf: tf, brushPx: brushPx}
}

// Drawing reports whether a stroke is currently being captured.
func (e *MaskEngine) Drawing() bool {
	return e.drawing
}

// StrokeCount returns the number of buffered strokes.
func (e *MaskEngine) StrokeCount() int {
	return len(e.strokes)
}

// BeginStroke starts a new stroke at a display-space pointer position.
// Ignored until the transformer knows both sizes.
func (e *MaskEngine) BeginStroke(display Point) {
	scale := e.tf.Scale()
	if scale == 0 {
		return
	}
	e.strokes = append(e.strokes, stroke{
		points: []Point{e.tf.ToNatural(display)},
		width:  e.brushPx / scale,
	})
	e.drawing = true
}

// ExtendStroke appends a display-space pointer position to the current
// stroke. Ignored while idle.
func (e *MaskEngine) ExtendStroke(display Point) {
	if !e.drawing || len(e.strokes) == 0 {
		return
	}
	p := e.tf.ToNatural(display)
	cur := &e.strokes[len(e.strokes)-1]
	if last := cur.points[len(cur.points)-1]; math.Hypot(p.X-last.X, p.Y-last.Y) < minPointSpacing {
		return
	}
	cur.points = append(cur.points, p)
}

// StrokePoints returns copies of the buffered stroke point lists in
// natural space, for drawing the uncommitted strokes on screen.
func (e *MaskEngine) StrokePoints() [][]Point {
	out := make([][]Point, len(e.strokes))
	for i, s := range e.strokes {
		out[i] = append([]Point(nil), s.points...)
	}
	return out
}

// EndStroke finishes the current stroke. The buffer is retained so the
// user can keep adding strokes before committing.
func (e *MaskEngine) EndStroke() {
	e.drawing = false
}

// Clear discards all buffered strokes.
func (e *MaskEngine) Clear() {
	e.strokes = nil
	e.drawing = false
}

// Commit rasterizes the buffered strokes into an EditMask paired with the
// instruction. Strokes shorter than two points are skipped; with no
// eligible strokes Commit emits nothing and keeps the buffer. On success
// the buffer is cleared.
func (e *MaskEngine) Commit(instruction string) (*api.EditMask, bool) {
	w := int(e.tf.imageW)
	h := int(e.tf.imageH)
	if w <= 0 || h <= 0 {
		return nil, false
	}

	eligible := 0
	for _, s := range e.strokes {
		if len(s.points) >= 2 {
			eligible++
		}
	}
	if eligible == 0 {
		return nil, false
	}

	img := rasterize(e.strokes, w, h)
	encoded, err := encodePNG(img)
	if err != nil {
		return nil, false
	}

	e.Clear()
	return &api.EditMask{Instruction: instruction, RegionMask: encoded}, true
}

// rasterize paints the strokes in solid black on a white background at
// natural resolution. Segments are drawn by stamping discs of the pen
// radius along their length, which yields round caps and joins.
func rasterize(strokes []stroke, w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	for _, s := range strokes {
		if len(s.points) < 2 {
			continue
		}
		r := s.width / 2
		stampDisc(img, s.points[0], r)
		for i := 1; i < len(s.points); i++ {
			stampSegment(img, s.points[i-1], s.points[i], r)
		}
	}
	return img
}

func stampSegment(img *image.Gray, a, b Point, r float64) {
	dist := math.Hypot(b.X-a.X, b.Y-a.Y)
	if dist == 0 {
		stampDisc(img, b, r)
		return
	}
	// Step at most half the radius so consecutive discs overlap into a
	// solid line.
	step := math.Max(0.5, r/2)
	steps := int(math.Ceil(dist / step))
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		stampDisc(img, Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}, r)
	}
}

func stampDisc(img *image.Gray, c Point, r float64) {
	bounds := img.Bounds()
	minX := int(math.Floor(c.X - r))
	maxX := int(math.Ceil(c.X + r))
	minY := int(math.Floor(c.Y - r))
	maxY := int(math.Ceil(c.Y + r))
	rr := r * r
	for y := minY; y <= maxY; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x) + 0.5 - c.X
			dy := float64(y) + 0.5 - c.Y
			if dx*dx+dy*dy <= rr {
				img.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
}

func encodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode mask: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
