// sse.go — Server-Sent Events stream of bus broadcasts.
package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// sseKeepAlive is how often an idle stream gets a comment line.
const sseKeepAlive = 25 * time.Second

// formatSSEEvent formats data as one SSE event, splitting multi-line data.
func formatSSEEvent(event, data string) string {
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(event)
	b.WriteString("\n")
	for _, line := range strings.Split(data, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

// handleEvents streams every broadcast until the client leaves or the bus
// detaches.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		jsonResponse(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}
	if s.bus == nil || s.bus.Closed() {
		jsonResponse(w, http.StatusGone, map[string]string{"error": "capture detached"})
		return
	}
	msgs, cancel := s.bus.Subscribe(32)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, formatSSEEvent("ready", `{"session":"`+s.sessionID()+`"}`))
	flusher.Flush()

	ticker := time.NewTicker(sseKeepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case msg, ok := <-msgs:
			if !ok {
				fmt.Fprint(w, formatSSEEvent("detached", "{}"))
				flusher.Flush()
				return
			}
			data := string(msg.Payload)
			if data == "" {
				data = "{}"
			}
			fmt.Fprint(w, formatSSEEvent(msg.Action, data))
			flusher.Flush()
		}
	}
}
