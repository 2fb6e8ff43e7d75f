package canvas

import "math"

// Point is a 2D coordinate. Whether it is in natural or display space
// depends on which side of the Transformer it sits.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned box, x/y/width/height.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Contains reports whether p falls inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Transformer maps between the image's natural pixel space and the
// current on-screen display space. All persisted geometry stays natural;
// display values are computed on demand and never stored.
type Transformer struct {
	imageW     float64
	imageH     float64
	containerW float64
	containerH float64
}

// SetImageSize records the natural resolution of the loaded image.
func (t *Transformer) SetImageSize(w, h int) {
	t.imageW = float64(w)
	t.imageH = float64(h)
}

// SetContainerSize records the available on-screen area, in display pixels.
func (t *Transformer) SetContainerSize(w, h float64) {
	t.containerW = w
	t.containerH = h
}

// Ready reports whether both sizes are known. Until then Scale is zero
// and callers must suppress rendering instead of dividing by it.
func (t *Transformer) Ready() bool {
	return t.imageW > 0 && t.imageH > 0 && t.containerW > 0 && t.containerH > 0
}

// Scale is the single display/natural ratio. It fits the image inside the
// container and never upscales past native resolution.
func (t *Transformer) Scale() float64 {
	if !t.Ready() {
		return 0
	}
	return math.Min(1, math.Min(t.containerW/t.imageW, t.containerH/t.imageH))
}

// DisplaySize is the on-screen size of the image at the current scale.
func (t *Transformer) DisplaySize() (w, h float64) {
	s := t.Scale()
	return t.imageW * s, t.imageH * s
}

// ToDisplay converts a natural-space point to display space.
func (t *Transformer) ToDisplay(p Point) Point {
	s := t.Scale()
	return Point{X: p.X * s, Y: p.Y * s}
}

// ToNatural converts a display-space point to natural space.
func (t *Transformer) ToNatural(p Point) Point {
	s := t.Scale()
	if s == 0 {
		return Point{}
	}
	return Point{X: p.X / s, Y: p.Y / s}
}

// RectToDisplay converts a natural-space rectangle to display space.
func (t *Transformer) RectToDisplay(r Rect) Rect {
	s := t.Scale()
	return Rect{X: r.X * s, Y: r.Y * s, W: r.W * s, H: r.H * s}
}
