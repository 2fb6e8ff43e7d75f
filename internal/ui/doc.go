// Package ui implements the roomstudio terminal interface.
//
// # Overview
//
// The interface is a Bubble Tea program whose views mirror the pipeline
// stages: upload, analyze, layouts, perspective, chat and shop. The
// Model never mutates pipeline state directly; every change goes through
// a Machine entry point, run as a tea.Cmd off the event loop, and the
// view re-reads a fresh snapshot on a short tick.
//
// # Canvas
//
// The photo is painted with upper-half-block cells, giving two vertical
// pixels per terminal row. Mouse cells map into display-pixel space
// through displayPoint and from there into natural image space through
// the shared canvas.Transformer, so object hit-testing and mask strokes
// land on real image pixels regardless of the terminal size.
package ui
