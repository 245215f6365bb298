// network.go — Network event types captured from the observed page.
package types

import (
	"fmt"
	"strings"
)

// Network classification tags.
const (
	NetworkTypeFetch    = "fetch"
	NetworkTypeXHR      = "xhr"
	NetworkTypeDocument = "document"
	NetworkTypeGraphQL  = "graphql"
	NetworkTypeOther    = "other"
)

// NetworkEvent is one observed request/response cycle.
// ID is derived from Timestamp, Method and URL so that the same cycle captured
// twice deduplicates without any external counter.
type NetworkEvent struct {
	ID              string            `json:"id"`
	Method          string            `json:"method"`
	URL             string            `json:"url"`
	Path            string            `json:"path"`
	Status          int               `json:"status"`
	StatusText      string            `json:"statusText,omitempty"`
	Duration        *float64          `json:"duration,omitempty"` // ms
	Error           string            `json:"error,omitempty"`
	RequestHeaders  map[string]string `json:"requestHeaders,omitempty"`
	RequestBody     string            `json:"requestBody,omitempty"`
	ResponseHeaders map[string]string `json:"responseHeaders,omitempty"`
	ResponseBody    string            `json:"responseBody,omitempty"`
	Type            string            `json:"type,omitempty"`
	Timestamp       int64             `json:"timestamp"` // unix ms
}

// NetworkEventID builds the composite identity of a network event.
func NetworkEventID(timestamp int64, method, url string) string {
	return fmt.Sprintf("%d-%s-%s", timestamp, strings.ToUpper(method), url)
}

// Failed reports whether the cycle ended in an HTTP error or never completed.
func (e NetworkEvent) Failed() bool {
	return e.Status >= 400 || (e.Status == 0 && e.Error != "")
}

// DurationMS returns the duration in milliseconds, or 0 when unknown.
func (e NetworkEvent) DurationMS() float64 {
	if e.Duration == nil {
		return 0
	}
	return *e.Duration
}
