package plankaapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// recordedRequest is one request seen by fakePlanka.
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// fakePlanka is an in-process Planka stand-in. Routes are keyed by
// "METHOD /path"; unknown routes answer 404.
type fakePlanka struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []recordedRequest
}

const (
	testEmail    = "agent@example.com"
	testPassword = "secret"
	testToken    = "test-token"
)

func newFakePlanka(t *testing.T) *fakePlanka {
	t.Helper()
	f := &fakePlanka{t: t, routes: make(map[string]http.HandlerFunc)}
	f.handle("POST /api/access-tokens", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"item": testToken})
	})
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakePlanka) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(strings.NewReader(string(body)))

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   body,
	})
	h, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"code": "E_NOT_FOUND", "message": "no route"})
		return
	}
	h(w, r)
}

func (f *fakePlanka) handle(route string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[route] = h
}

// respond registers a route answering with a fixed JSON value.
func (f *fakePlanka) respond(route string, status int, v any) {
	f.handle(route, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, v)
	})
}

func (f *fakePlanka) client() *Client {
	return NewClient(Config{
		BaseURL:    f.server.URL,
		Email:      testEmail,
		Password:   testPassword,
		HTTPClient: f.server.Client(),
	})
}

// count returns how many requests matched method and path. A path ending in
// "*" matches by prefix and a path starting with "*" matches by suffix.
func (f *fakePlanka) count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Method == method && matchPath(path, r.Path) {
			n++
		}
	}
	return n
}

func (f *fakePlanka) last(method, path string) recordedRequest {
	f.t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		r := f.requests[i]
		if r.Method == method && matchPath(path, r.Path) {
			return r
		}
	}
	f.t.Fatalf("no %s %s request recorded", method, path)
	return recordedRequest{}
}

func (f *fakePlanka) all() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func matchPath(pattern, path string) bool {
	switch {
	case strings.HasSuffix(pattern, "*"):
		return strings.HasPrefix(path, strings.TrimSuffix(pattern, "*"))
	case strings.HasPrefix(pattern, "*"):
		return strings.HasSuffix(path, strings.TrimPrefix(pattern, "*"))
	default:
		return pattern == path
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeBody decodes a recorded JSON body into a generic map.
func decodeBody(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("decode body %q: %v", body, err)
	}
	return m
}

// decodeRaw decodes a raw JSON value into a generic map.
func decodeRaw(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()
	return decodeBody(t, raw)
}
