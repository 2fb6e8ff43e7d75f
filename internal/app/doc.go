// Package app provides the orchestration layer for roomstudio.
//
// # Overview
//
// This package is the composition root: it wires configuration, logging,
// the design-service client, the pipeline machine and the UI into the
// complete application.
//
// # Architecture
//
// Run follows a simple initialization pattern:
//
//  1. Load configuration from ~/.config/roomstudio/config.toml
//  2. Initialize file logging (the TUI owns the terminal)
//  3. Load user preferences (theme, brush size)
//  4. Initialize the HTTP client for the design service
//  5. Create the shared pipeline store and machine
//  6. Start the TUI and block until the user exits or the context cancels
//
// All session state lives in the pipeline store; the UI reads snapshots
// and requests changes through machine entry points, so this package has
// no state of its own.
//
// # Error Handling
//
// Run returns fatal initialization errors: an unreadable config file, a
// malformed service URL, or a logging setup failure. Service errors
// during a session are recoverable and surface in the UI status line,
// never here.
package app
