// console.go — Console error/warning events captured from the observed page.
package types

// ConsoleEvent kinds.
const (
	ConsoleError     = "console.error"
	ConsoleUncaught  = "uncaught"
	ConsoleUnhandled = "unhandledrejection"
)

// ConsoleEvent is one captured error or warning.
type ConsoleEvent struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Stack     string `json:"stack,omitempty"`
	Timestamp int64  `json:"timestamp"` // unix ms
}

// ValidConsoleType reports whether t is one of the known console event kinds.
func ValidConsoleType(t string) bool {
	switch t {
	case ConsoleError, ConsoleUncaught, ConsoleUnhandled:
		return true
	}
	return false
}
