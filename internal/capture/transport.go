// transport.go — http.RoundTripper interceptor that records every request
// issued through it as a NetworkEvent on a Session.
// Recording failures never reach the caller: the response or error from the
// underlying transport is returned untouched.
package capture

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dev-console/pagectx/internal/redaction"
	"github.com/dev-console/pagectx/internal/types"
)

// DefaultMaxBodyBytes caps stored request/response bodies.
const DefaultMaxBodyBytes = 16 * 1024

// Transport wraps Base and records traffic into Session.
type Transport struct {
	Base         http.RoundTripper
	Session      *Session
	Redactor     *redaction.Redactor
	MaxBodyBytes int
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.Session == nil {
		return base.RoundTrip(req)
	}

	start := t.Session.now()
	outReq := req
	var reqBody []byte
	if req.Body != nil && req.Body != http.NoBody {
		data, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, err
		}
		reqBody = data
		outReq = req.Clone(req.Context())
		outReq.Body = io.NopCloser(bytes.NewReader(data))
		outReq.ContentLength = int64(len(data))
	}

	resp, err := base.RoundTrip(outReq)
	elapsed := float64(t.Session.now().Sub(start)) / float64(time.Millisecond)

	ev := types.NetworkEvent{
		Method:         req.Method,
		URL:            req.URL.String(),
		Duration:       &elapsed,
		RequestHeaders: t.Redactor.RedactHeaders(flattenHeader(req.Header)),
		RequestBody:    t.Redactor.Redact(t.truncate(reqBody)),
		Type:           types.NetworkTypeFetch,
		Timestamp:      start.UnixMilli(),
	}
	if err != nil {
		ev.Error = err.Error()
		t.record(ev)
		return nil, err
	}

	ev.Status = resp.StatusCode
	ev.StatusText = http.StatusText(resp.StatusCode)
	ev.ResponseHeaders = t.Redactor.RedactHeaders(flattenHeader(resp.Header))
	if resp.Body != nil {
		data, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(data))
		if readErr != nil {
			ev.Error = readErr.Error()
		}
		ev.ResponseBody = t.Redactor.Redact(t.truncate(data))
	}
	t.record(ev)
	return resp, nil
}

func (t *Transport) record(ev types.NetworkEvent) {
	defer func() {
		if r := recover(); r != nil {
			t.Session.logger.Debug("network capture dropped", "panic", r)
		}
	}()
	t.Session.RecordNetwork(ev)
}

func (t *Transport) truncate(data []byte) string {
	limit := t.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	if len(data) > limit {
		return string(data[:limit])
	}
	return string(data)
}

func flattenHeader(h http.Header) map[string]string {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = strings.Join(v, ", ")
	}
	return out
}
