// wire_network.go — Wire types for network events posted by the page bridge.
// The page side is loosely typed: numeric fields may arrive as numbers,
// numeric strings, null, or be missing entirely. Decoding never fails on
// a bad number; the field falls back to zero.
package types

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexNumber decodes a JSON number, numeric string, bool or null into a float64.
type FlexNumber struct {
	Value float64
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler. Unparseable values decode as unset.
func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	*n = FlexNumber{}
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}
	if s == "true" {
		*n = FlexNumber{Value: 1, Set: true}
		return nil
	}
	if s == "false" {
		*n = FlexNumber{Value: 0, Set: true}
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*n = FlexNumber{Value: f, Set: true}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n FlexNumber) MarshalJSON() ([]byte, error) {
	if !n.Set {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// WireNetworkEvent is the loosely-typed network event shape sent by the page.
type WireNetworkEvent struct {
	ID              string            `json:"id,omitempty"`
	Method          string            `json:"method"`
	URL             string            `json:"url"`
	Path            string            `json:"path,omitempty"`
	Status          FlexNumber        `json:"status"`
	StatusText      string            `json:"statusText,omitempty"`
	Duration        FlexNumber        `json:"duration"`
	Error           string            `json:"error,omitempty"`
	RequestHeaders  map[string]string `json:"requestHeaders,omitempty"`
	RequestBody     json.RawMessage   `json:"requestBody,omitempty"`
	ResponseHeaders map[string]string `json:"responseHeaders,omitempty"`
	ResponseBody    json.RawMessage   `json:"responseBody,omitempty"`
	Type            string            `json:"type,omitempty"`
	Timestamp       FlexNumber        `json:"timestamp"`
}

// ToEvent converts the wire shape into a NetworkEvent without normalizing it.
// Bodies sent as JSON strings are unquoted; any other JSON value is kept as raw text.
func (w WireNetworkEvent) ToEvent() NetworkEvent {
	ev := NetworkEvent{
		ID:              w.ID,
		Method:          w.Method,
		URL:             w.URL,
		Path:            w.Path,
		Status:          int(w.Status.Value),
		StatusText:      w.StatusText,
		Error:           w.Error,
		RequestHeaders:  w.RequestHeaders,
		RequestBody:     rawBodyText(w.RequestBody),
		ResponseHeaders: w.ResponseHeaders,
		ResponseBody:    rawBodyText(w.ResponseBody),
		Type:            w.Type,
		Timestamp:       int64(w.Timestamp.Value),
	}
	if w.Duration.Set {
		d := w.Duration.Value
		ev.Duration = &d
	}
	return ev
}

func rawBodyText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// DecodeNetworkEvents decodes a JSON array of wire events. Elements that are
// not objects are skipped; a payload that is not an array is a Malformed error.
func DecodeNetworkEvents(data []byte) ([]NetworkEvent, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, NewCaptureError(Malformed, "decode network events", err)
	}
	events := make([]NetworkEvent, 0, len(raws))
	for _, raw := range raws {
		var w WireNetworkEvent
		if err := json.Unmarshal(raw, &w); err != nil {
			continue
		}
		events = append(events, w.ToEvent())
	}
	return events, nil
}
