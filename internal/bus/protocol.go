// protocol.go — Message protocol actions and payloads exchanged between the
// observed page and the UI side.
package bus

import "github.com/dev-console/pagectx/internal/types"

// Request/response actions (UI → Page).
const (
	ActionGetDebugInfo   = "getDebugInfo"
	ActionClearDebugInfo = "clearDebugInfo"
)

// Broadcast actions (Page → UI, fire-and-forget).
const (
	ActionConsoleError       = "consoleError"
	ActionNetworkDataUpdated = "networkDataUpdated"
)

// ConsoleErrorPayload is the consoleError broadcast payload.
type ConsoleErrorPayload struct {
	Error types.ConsoleEvent `json:"error"`
}

// NetworkDataUpdatedPayload is the networkDataUpdated broadcast payload.
type NetworkDataUpdatedPayload struct {
	Count int `json:"count"`
}

// ClearResult is the clearDebugInfo response.
type ClearResult struct {
	OK bool `json:"ok"`
}
