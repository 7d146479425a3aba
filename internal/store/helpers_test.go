package store

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/offybox/offyadmin/internal/storage"
	"github.com/offybox/offyadmin/pkg/client"
)

// backend is an in-memory REST fake that records what it was sent.
type backend struct {
	mu       sync.Mutex
	requests []recorded
	handlers map[string]http.HandlerFunc
}

type recorded struct {
	Method  string
	Path    string
	RawPath string
	Body    map[string]any
}

func newBackend(t *testing.T) (*backend, *httptest.Server) {
	t.Helper()
	b := &backend{handlers: map[string]http.HandlerFunc{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
		b.mu.Lock()
		b.requests = append(b.requests, recorded{Method: r.Method, Path: r.URL.Path, RawPath: r.URL.EscapedPath(), Body: body})
		h, ok := b.handlers[r.Method+" "+r.URL.Path]
		b.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "no route"}) //nolint:errcheck
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *backend) handle(route string, h http.HandlerFunc) {
	b.mu.Lock()
	b.handlers[route] = h
	b.mu.Unlock()
}

func (b *backend) reply(route string, status int, v any) {
	b.handle(route, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		if v != nil {
			json.NewEncoder(w).Encode(v) //nolint:errcheck
		}
	})
}

func (b *backend) last() recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		return recorded{}
	}
	return b.requests[len(b.requests)-1]
}

func (b *backend) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

func newClient(srv *httptest.Server) *client.Client {
	return client.New(srv.URL, client.StaticToken("T1"))
}

func newKV() *storage.MemoryKV {
	return storage.NewMemoryKV()
}
