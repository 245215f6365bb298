// routes.go — Bridge endpoint handlers.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dev-console/pagectx/internal/engine"
	"github.com/dev-console/pagectx/internal/history"
	"github.com/dev-console/pagectx/internal/indexer"
	"github.com/dev-console/pagectx/internal/types"
)

// statusForError maps capture errors onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, types.ErrDetached):
		return http.StatusGone
	case errors.Is(err, types.ErrUnsupported), errors.Is(err, types.ErrMalformed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// readJSONList reads a body holding either one JSON object or an array of them
// and returns it as an array.
func readJSONList(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPostBodySize)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		raw = append(append([]byte{'['}, raw...), ']')
	}
	return raw, nil
}

// handleCaptureNetwork records completed request/response cycles.
func (s *Server) handleCaptureNetwork(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.session == nil {
		errorResponse(w, http.StatusServiceUnavailable, "no capture session")
		return
	}
	raw, err := readJSONList(w, r)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid body")
		return
	}
	events, err := types.DecodeNetworkEvents(raw)
	if err != nil {
		errorResponse(w, statusForError(err), "Invalid JSON")
		return
	}
	for _, ev := range events {
		s.session.RecordNetwork(ev)
	}
	jsonResponse(w, http.StatusOK, map[string]int{"recorded": len(events)})
}

// handleCaptureConsole records console errors, uncaught errors and
// unhandled rejections.
func (s *Server) handleCaptureConsole(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.session == nil {
		errorResponse(w, http.StatusServiceUnavailable, "no capture session")
		return
	}
	raw, err := readJSONList(w, r)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid body")
		return
	}
	var events []types.ConsoleEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	n := 0
	for _, ev := range events {
		if strings.TrimSpace(ev.Message) == "" {
			continue
		}
		s.session.RecordConsole(ev)
		n++
	}
	jsonResponse(w, http.StatusOK, map[string]int{"recorded": n})
}

type pageRequest struct {
	URL         string                     `json:"url"`
	Title       string                     `json:"title"`
	Performance *types.PerformanceSnapshot `json:"performance,omitempty"`
}

// handleCapturePage records the current URL, title and performance snapshot.
func (s *Server) handleCapturePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.session == nil {
		errorResponse(w, http.StatusServiceUnavailable, "no capture session")
		return
	}
	var req pageRequest
	if err := decodeBody(w, r, &req); err != nil {
		errorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	s.session.SetPage(req.URL, req.Title, req.Performance)
	jsonResponse(w, http.StatusOK, map[string]bool{"ok": true})
}

type messageRequest struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// handleMessage forwards a request/response message over the bus.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req messageRequest
	if err := decodeBody(w, r, &req); err != nil || req.Action == "" {
		errorResponse(w, http.StatusBadRequest, "Invalid message")
		return
	}
	if s.bus == nil {
		errorResponse(w, http.StatusGone, "capture detached")
		return
	}
	var payload any
	if len(req.Payload) > 0 {
		payload = req.Payload
	}
	out, err := s.bus.Request(r.Context(), req.Action, payload)
	if err != nil {
		errorResponse(w, statusForError(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// handleContext assembles a context document. ?format=text returns the
// markdown only.
func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req engine.ContextRequest
	if err := decodeBody(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		errorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	resp, err := s.engine.Context(r.Context(), req)
	if err != nil {
		errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, resp.Document.Text)
		return
	}
	jsonResponse(w, http.StatusOK, resp)
}

type indexRequest struct {
	ProjectPath string   `json:"projectPath"`
	Alias       string   `json:"alias,omitempty"`
	Files       []string `json:"files,omitempty"`
	Root        string   `json:"root,omitempty"`
}

// handleIndex stores an index (POST) or returns one (GET ?project=).
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	svc := s.engine.Index()
	if svc == nil {
		errorResponse(w, http.StatusServiceUnavailable, "indexing unavailable")
		return
	}
	switch r.Method {
	case http.MethodGet:
		idx, ok, err := svc.Load(r.Context(), r.URL.Query().Get("project"), true)
		if err != nil {
			errorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !ok {
			errorResponse(w, http.StatusNotFound, "no index")
			return
		}
		jsonResponse(w, http.StatusOK, idx)
	case http.MethodPost:
		var req indexRequest
		if err := decodeBody(w, r, &req); err != nil {
			errorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		files := req.Files
		if len(files) == 0 && req.Root != "" {
			walked, err := indexer.Walk(req.Root)
			if err != nil {
				errorResponse(w, http.StatusBadRequest, err.Error())
				return
			}
			files = walked
			if req.Alias == "" {
				req.Alias = filepath.Base(req.Root)
			}
		}
		projectPath := req.ProjectPath
		if projectPath == "" {
			projectPath = req.Root
		}
		idx, err := svc.Index(r.Context(), projectPath, req.Alias, files)
		if err != nil {
			errorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		jsonResponse(w, http.StatusOK, idx)
	default:
		errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleResolve resolves ?route= against the selected index.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	q := r.URL.Query()
	res, ok, err := s.engine.Resolve(r.Context(), q.Get("route"), q.Get("project"), q.Get("url"))
	if err != nil {
		errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"indexed": ok, "resolution": res})
}

// handleHistory lists (GET) or clears (DELETE) the persisted history.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	store := s.engine.History()
	if store == nil {
		errorResponse(w, http.StatusServiceUnavailable, "history unavailable")
		return
	}
	switch r.Method {
	case http.MethodGet:
		events, err := store.Read(r.Context())
		if err != nil {
			errorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		q := r.URL.Query()
		cursor, err := history.ParseCursor(q.Get("cursor"))
		if err != nil {
			errorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		limit, _ := strconv.Atoi(q.Get("limit"))
		f := history.Filter{Text: q.Get("filter"), Method: q.Get("method"), Status: q.Get("status")}
		page, info := history.Page(f.Apply(events), cursor, limit)
		if page == nil {
			page = []types.NetworkEvent{}
		}
		w.Header().Set("X-Total-Count", strconv.Itoa(info.Total))
		if info.HasMore {
			w.Header().Set("X-Next-Cursor", info.Cursor)
		}
		jsonResponse(w, http.StatusOK, page)
	case http.MethodDelete:
		if err := store.Clear(r.Context()); err != nil {
			errorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		jsonResponse(w, http.StatusOK, map[string]bool{"ok": true})
	default:
		errorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
