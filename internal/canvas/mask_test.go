package canvas

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"testing"
)

func maskTransformer(t *testing.T) *Transformer {
	t.Helper()
	var tf Transformer
	tf.SetImageSize(800, 600)
	tf.SetContainerSize(400, 300) // scale 0.5
	return &tf
}

func decodeMask(t *testing.T, m string) (w, h int, black func(x, y int) bool) {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(m)
	if err != nil {
		t.Fatalf("mask is not base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("mask is not a PNG: %v", err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), func(x, y int) bool {
		r, g, bl, _ := img.At(x, y).RGBA()
		return r == 0 && g == 0 && bl == 0
	}
}

func TestMaskEngine_CommitProducesNativeResolutionMask(t *testing.T) {
	tf := maskTransformer(t)
	e := NewMaskEngine(tf, 30)

	// A horizontal drag across the middle of the display.
	e.BeginStroke(Point{X: 50, Y: 150})
	e.ExtendStroke(Point{X: 200, Y: 150})
	e.ExtendStroke(Point{X: 350, Y: 150})
	e.EndStroke()

	mask, ok := e.Commit("repaint the wall navy blue")
	if !ok || mask == nil {
		t.Fatal("Commit emitted nothing for a valid stroke")
	}
	if mask.Instruction != "repaint the wall navy blue" {
		t.Fatalf("instruction = %q", mask.Instruction)
	}

	w, h, black := decodeMask(t, mask.RegionMask)
	if w != 800 || h != 600 {
		t.Fatalf("mask size = %dx%d, want natural 800x600", w, h)
	}

	// Display (200,150) is natural (400,300); the stroke passes through.
	if !black(400, 300) {
		t.Fatal("stroke center not painted")
	}
	// Far corner stays white.
	if black(10, 550) {
		t.Fatal("background painted")
	}

	// Brush diameter 30 display px at scale 0.5 means 60 natural px, so
	// ~30px above the line is inside the pen and ~40px is outside.
	if !black(400, 300-25) {
		t.Fatal("point inside pen radius not painted")
	}
	if black(400, 300-40) {
		t.Fatal("point outside pen radius painted")
	}

	if e.StrokeCount() != 0 {
		t.Fatalf("stroke buffer = %d after commit, want 0", e.StrokeCount())
	}
}

func TestMaskEngine_ShortStrokesAreIneligible(t *testing.T) {
	tf := maskTransformer(t)
	e := NewMaskEngine(tf, 30)

	// No strokes at all.
	if _, ok := e.Commit("noop"); ok {
		t.Fatal("Commit emitted a mask with no strokes")
	}

	// A single tap never reaches two points.
	e.BeginStroke(Point{X: 100, Y: 100})
	e.EndStroke()
	if _, ok := e.Commit("tap"); ok {
		t.Fatal("Commit emitted a mask for a one-point stroke")
	}
	// The ineligible buffer is kept, not silently dropped.
	if e.StrokeCount() != 1 {
		t.Fatalf("stroke buffer = %d, want 1", e.StrokeCount())
	}

	// Adding a real stroke makes the commit go through; the short stroke
	// is skipped rather than drawn as an artifact.
	e.BeginStroke(Point{X: 50, Y: 50})
	e.ExtendStroke(Point{X: 150, Y: 150})
	e.EndStroke()
	mask, ok := e.Commit("real")
	if !ok {
		t.Fatal("Commit emitted nothing with one eligible stroke")
	}
	w, h, _ := decodeMask(t, mask.RegionMask)
	if w != 800 || h != 600 {
		t.Fatalf("mask size = %dx%d", w, h)
	}
}

func TestMaskEngine_PenWidthTracksCaptureScale(t *testing.T) {
	// Same gesture captured at full scale: pen stays 30 natural px.
	var tf Transformer
	tf.SetImageSize(800, 600)
	tf.SetContainerSize(800, 600) // scale 1
	e := NewMaskEngine(&tf, 30)

	e.BeginStroke(Point{X: 100, Y: 300})
	e.ExtendStroke(Point{X: 700, Y: 300})
	e.EndStroke()

	mask, ok := e.Commit("full scale")
	if !ok {
		t.Fatal("Commit emitted nothing")
	}
	_, _, black := decodeMask(t, mask.RegionMask)
	if !black(400, 300-12) {
		t.Fatal("inside 15px pen radius not painted")
	}
	if black(400, 300-22) {
		t.Fatal("outside 15px pen radius painted")
	}
}

func TestMaskEngine_StateMachine(t *testing.T) {
	tf := maskTransformer(t)
	e := NewMaskEngine(tf, 30)

	if e.Drawing() {
		t.Fatal("engine starts in drawing state")
	}

	// Moves while idle are ignored.
	e.ExtendStroke(Point{X: 10, Y: 10})
	if e.StrokeCount() != 0 {
		t.Fatal("idle move created a stroke")
	}

	e.BeginStroke(Point{X: 10, Y: 10})
	if !e.Drawing() {
		t.Fatal("BeginStroke did not enter drawing")
	}
	e.ExtendStroke(Point{X: 60, Y: 60})
	e.EndStroke()
	if e.Drawing() {
		t.Fatal("EndStroke did not return to idle")
	}
	if e.StrokeCount() != 1 {
		t.Fatalf("stroke buffer = %d, want 1 (retained after EndStroke)", e.StrokeCount())
	}

	e.Clear()
	if e.StrokeCount() != 0 || e.Drawing() {
		t.Fatal("Clear did not reset the engine")
	}
}

func TestMaskEngine_IgnoresInputBeforeTransformerReady(t *testing.T) {
	var tf Transformer // no sizes yet
	e := NewMaskEngine(&tf, 30)

	e.BeginStroke(Point{X: 10, Y: 10})
	if e.Drawing() || e.StrokeCount() != 0 {
		t.Fatal("engine captured input with zero scale")
	}
}
