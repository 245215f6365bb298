// page.go — Page-level snapshots exchanged over the message protocol.
package types

// PerformanceSnapshot holds navigation timing and resource metrics for the page.
type PerformanceSnapshot struct {
	DomContentLoaded float64         `json:"domContentLoaded,omitempty"` // ms
	Load             float64         `json:"load,omitempty"`             // ms
	FirstPaint       float64         `json:"firstPaint,omitempty"`       // ms
	TransferSize     int64           `json:"transferSize,omitempty"`     // bytes
	Resources        []ResourceEntry `json:"resources,omitempty"`
}

// ResourceEntry is a single resource timing entry.
type ResourceEntry struct {
	URL          string  `json:"url"`
	Duration     float64 `json:"duration"`
	TransferSize int64   `json:"transferSize"`
}

// DebugInfo is the getDebugInfo response payload.
type DebugInfo struct {
	Errors      []ConsoleEvent      `json:"errors"`
	Network     []NetworkEvent      `json:"network"`
	Performance PerformanceSnapshot `json:"performance"`
	URL         string              `json:"url"`
	Title       string              `json:"title"`
}

// Viewport describes the visible area of the page.
type Viewport struct {
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	DevicePixelRatio float64 `json:"devicePixelRatio,omitempty"`
	ScrollX          int     `json:"scrollX,omitempty"`
	ScrollY          int     `json:"scrollY,omitempty"`
}

// Framework describes the UI framework detected on the page.
type Framework struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}
