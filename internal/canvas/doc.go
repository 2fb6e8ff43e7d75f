// Package canvas implements the spatial engine under the room editor.
//
// # Overview
//
// Three concerns live here, all pure and UI-agnostic:
//
//   - Transformer: the natural-space/display-space mapping. One scalar
//     scale, recomputed on resize and image load, never above 1.
//   - OverlayModel: detected objects with single-selection, per-object
//     locking, hit testing, and style derivation.
//   - MaskEngine: freehand stroke capture and rasterization into a
//     black-on-white mask at the image's native resolution.
//
// # Coordinate discipline
//
// Every stored coordinate is in natural-image pixels. Display space
// exists only at the boundary: pointer events are converted to natural
// space as they arrive, and rendering converts back on demand. Nothing
// display-scaled is ever persisted, so resizing the window between
// capture and commit cannot corrupt a mask.
//
// # Mask rasterization
//
// Commit produces a bitmap sized exactly naturalWidth x naturalHeight,
// white background, strokes as connected black polylines with round caps
// and joins. The pen width is the on-screen brush diameter divided by the
// scale at capture time, so the painted region matches what the user saw
// regardless of zoom. Strokes with fewer than two points are dropped and
// a commit with no eligible strokes emits nothing.
package canvas
