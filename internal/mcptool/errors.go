// errors.go — Structured tool errors an LLM can act on without a lookup table.
package mcptool

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dev-console/pagectx/internal/types"
)

// Error codes are self-describing snake_case strings.
const (
	// Input errors: fix the arguments and retry.
	ErrMissingParam = "missing_param"
	ErrInvalidParam = "invalid_param"

	// State errors: change state before retrying.
	ErrNoIndex  = "no_index"
	ErrDetached = "page_detached"
	ErrNoData   = "no_data"

	// Internal errors: do not retry.
	ErrInternal = "internal_error"
)

// StructuredError is the JSON half of an error result.
type StructuredError struct {
	Error        string `json:"error"`
	Message      string `json:"message"`
	Retry        string `json:"retry"`
	Retryable    bool   `json:"retryable"`
	RetryAfterMs int    `json:"retry_after_ms,omitempty"`
	Param        string `json:"param,omitempty"`
}

// errorResult builds an error result of the form
//
//	Error: missing_param - Add the 'route' parameter and call again
//	{"error":"missing_param",...}
func errorResult(code, message, retry string, opts ...func(*StructuredError)) *mcp.CallToolResult {
	se := StructuredError{Error: code, Message: message, Retry: retry}
	switch code {
	case ErrDetached:
		se.Retryable, se.RetryAfterMs = true, 2000
	case ErrNoData:
		se.Retryable, se.RetryAfterMs = true, 1000
	}
	for _, opt := range opts {
		opt(&se)
	}
	// StructuredError has only string, bool and int fields.
	raw, _ := json.Marshal(se)
	return mcp.NewToolResultError(fmt.Sprintf("Error: %s - %s\n%s", code, retry, raw))
}

func withParam(p string) func(*StructuredError) {
	return func(se *StructuredError) { se.Param = p }
}

// captureErrorResult maps capture failures onto tool errors.
func captureErrorResult(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, types.ErrDetached):
		return errorResult(ErrDetached, err.Error(), "Reload the observed page so it reattaches, then call again")
	case errors.Is(err, types.ErrMalformed), errors.Is(err, types.ErrUnsupported):
		return errorResult(ErrInvalidParam, err.Error(), "Check the arguments and call again")
	default:
		return errorResult(ErrInternal, err.Error(), "Do not retry")
	}
}
