// normalize.go — Canonical form for network events before storage.
package types

import (
	"strings"

	"github.com/dev-console/pagectx/internal/util"
)

// NormalizeNetworkEvent returns ev in canonical form: uppercase method
// (GET when empty), a derived pathname, a classification tag, and an ID
// recomputed from timestamp, method and URL. A missing timestamp stays 0 so
// the ID depends only on fields the event carries.
func NormalizeNetworkEvent(ev NetworkEvent) NetworkEvent {
	ev.Method = strings.ToUpper(strings.TrimSpace(ev.Method))
	if ev.Method == "" {
		ev.Method = "GET"
	}
	if ev.Timestamp < 0 {
		ev.Timestamp = 0
	}
	if ev.Status < 0 {
		ev.Status = 0
	}
	if ev.Duration != nil && *ev.Duration < 0 {
		ev.Duration = nil
	}
	ev.Path = util.ExtractURLPath(ev.URL)
	ev.Type = Classify(ev)
	ev.ID = NetworkEventID(ev.Timestamp, ev.Method, ev.URL)
	return ev
}

// Classify returns the classification tag for ev. A recognized tag already
// present on the event wins; otherwise GraphQL endpoints and bodies are detected.
func Classify(ev NetworkEvent) string {
	switch strings.ToLower(ev.Type) {
	case NetworkTypeFetch, NetworkTypeXHR, NetworkTypeDocument, NetworkTypeGraphQL:
		if !isGraphQL(ev) {
			return strings.ToLower(ev.Type)
		}
		return NetworkTypeGraphQL
	}
	if isGraphQL(ev) {
		return NetworkTypeGraphQL
	}
	if ev.Type == "" {
		return NetworkTypeFetch
	}
	return NetworkTypeOther
}

func isGraphQL(ev NetworkEvent) bool {
	if strings.HasSuffix(strings.ToLower(util.ExtractURLPath(ev.URL)), "/graphql") {
		return true
	}
	body := strings.TrimSpace(ev.RequestBody)
	return strings.HasPrefix(body, "{") && strings.Contains(body, `"query"`)
}
