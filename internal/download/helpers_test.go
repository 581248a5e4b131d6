package download

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spddl/spddl/internal/config"
)

// upstream fakes the lookup API, the audio host and the cover host behind
// one test server.
type upstream struct {
	t   *testing.T
	srv *httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []string
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()

	u := &upstream{t: t, handlers: make(map[string]http.HandlerFunc)}
	u.srv = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.srv.Close)
	return u
}

func (u *upstream) serve(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.requests = append(u.requests, r.URL.Path)
	h, ok := u.handlers[r.URL.Path]
	u.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

func (u *upstream) handle(path string, h http.HandlerFunc) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.handlers[path] = h
}

func (u *upstream) json(path, body string) {
	u.handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	})
}

func (u *upstream) bytes(path string, data []byte) {
	u.handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	})
}

// track registers metadata, download and audio endpoints for one track.
func (u *upstream) track(id, title, artists, cover string, audio []byte) {
	u.json("/metadata/track/"+id, fmt.Sprintf(`{"success":true,"title":%q,"artists":%q,"cover":%q}`, title, artists, cover))
	u.json("/download/"+id, fmt.Sprintf(`{"success":true,"link":%q,"metadata":{"title":%q,"artists":%q}}`, u.srv.URL+"/audio/"+id, title, artists))
	u.bytes("/audio/"+id, audio)
}

func (u *upstream) count(prefix string) int {
	u.mu.Lock()
	defer u.mu.Unlock()

	n := 0
	for _, p := range u.requests {
		if strings.HasPrefix(p, prefix) {
			n++
		}
	}
	return n
}

func (u *upstream) total() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.requests)
}

// sleepCounter replaces retry waits in tests.
type sleepCounter struct {
	mu sync.Mutex
	n  int
}

func (s *sleepCounter) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return ctx.Err()
}

func (s *sleepCounter) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

func testSettings(u *upstream, outputDir string) *config.Settings {
	s := config.DefaultSettings()
	s.APIBaseURL = u.srv.URL
	s.OutputDir = outputDir
	s.RequestTimeout = 5
	return s
}

// eventLog collects progress events.
type eventLog struct {
	mu     sync.Mutex
	events []ProgressEvent
}

func (l *eventLog) add(e ProgressEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) has(level ProgressLevel, substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.events {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
