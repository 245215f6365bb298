// Package capture observes a page without being observable itself.
//
// Core functionality includes:
//   - Console error capture (console.error, uncaught panics, unhandled rejections)
//   - Network request/response capture via an http.RoundTripper interceptor or
//     events pushed by the page bridge
//   - Fixed-capacity ring buffers (errors: 20, network: 50) with newest-first reads
//   - Coalesced change notifications: bursts of captures produce one broadcast
//     per 300 ms window
//
// A Session is owned by whatever attaches it to a page. When the broadcast
// channel detaches, capture keeps recording but stops notifying, and nothing
// propagates back into the host.
package capture
