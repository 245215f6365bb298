// doc.go — Package documentation for foundational cross-cutting types.

// Package types provides the foundational types shared by every pagectx package.
//
// This package contains the cross-cutting definitions needed by multiple packages:
//   - Network events observed in the page (request/response cycles)
//   - Console events (console.error, uncaught exceptions, unhandled rejections)
//   - Page snapshots returned by getDebugInfo (performance, URL, title)
//   - The closed CaptureError set used by capture and the message bus
//
// Design Principle: Minimal Dependencies
// This package imports only the Go standard library. It is safe to import from
// any other package without creating circular dependencies.
//
// Architecture Layer: Foundation
//
//	Layer 1: types, buffers, util (leaf packages)
//	Layer 2: capture, bus, kvstore, history, indexer, resolver, intent
//	Layer 3: assemble
//	Layer 4: server, mcptool, cmd/pagectx (wiring)
package types
