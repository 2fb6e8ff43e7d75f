// Package api provides an HTTP client for the room design service.
//
// # Overview
//
// This package defines the client for the external service that performs
// all AI reasoning: object detection, layout optimization, perspective
// rendering, conversational edits, and product search. The rest of the
// application treats these six operations as opaque request/response
// pairs; nothing in this package owns pipeline state.
//
// # Architecture
//
// The package is split into three files:
//
//   - client.go: HTTP client, timeout tiers, request/response handling
//   - types.go: data structures mirroring the service's JSON schema
//   - errors.go: the single user-facing error shape
//
// # Operations
//
// All operations are JSON over HTTP POST against a configurable base URL:
//
//   - POST /analyze: detect objects and room dimensions in a photo
//   - POST /optimize: generate layout variations with locked ids pinned
//   - POST /render/perspective: render a perspective of a chosen variation
//   - POST /chat/edit: interpret one natural-language edit command
//   - POST /shop: search products for the layout within a budget
//   - POST /render: apply queued masks and layout changes to the photo
//
// # Timeouts
//
// Two timeout tiers exist: plain rendering uses a 60 second client, every
// AI-backed operation uses a 180 second client. There is no cancellation
// beyond the timeout; a late response is discarded by the caller.
//
// # Coordinate convention
//
// Every bounding box crossing this boundary is expressed in natural-image
// pixels. Display-space geometry never leaves the process.
//
// # Error Handling
//
// All failures, whether transport, timeout, server-reported, or a 2xx
// body that fails to decode, are reduced to a single human-readable
// message via the Error type. Callers display Error.Message and log the
// wrapped cause.
package api
