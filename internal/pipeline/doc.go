// Package pipeline owns the design workflow: the stage graph, the
// accumulated session state, and the lifecycle of every service call.
//
// # State ownership
//
// Store holds the single session State. Reads return deep clones; every
// write goes through a Machine entry point that mutates the state
// atomically under the store lock. Nothing outside this package writes a
// field directly, so a UI render never sees a half-applied transition.
//
// # Stage graph
//
// Stages run upload, analyze, layouts, perspective, chat, shop. Forward
// entry is guarded by preconditions on accumulated data (canEnter);
// guard violations surface as PreconditionError and never reach the
// network. Back() is unguarded and changes only the stage, so returning
// forward resumes from the artifacts already gathered. Reset() restores
// the initial snapshot unconditionally.
//
// # Operation discipline
//
// Each stage drives one operation class. A class allows a single
// in-flight call: duplicate triggers fail fast with ErrBusy, guarded by
// the loading flag that the dispatch flips on and the completion flips
// off.
//
// Every dispatch also records a fresh token. A completion presents its
// token; if a reset or newer dispatch has replaced it, the completion is
// discarded whole. That is what keeps a late, timed-out-but-eventually-
// answered request from overwriting a session the user already abandoned.
//
// # Progress simulation
//
// ProgressSimulator narrates the layout-generation wait on wall-clock
// time. It is decorative: the simulator never decides that the real call
// is done, and the real call's completion resets it, never the reverse.
package pipeline
