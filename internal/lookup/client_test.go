package lookup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	httpclient "github.com/spddl/spddl/internal/http"
	"github.com/spddl/spddl/internal/model"
	"github.com/spddl/spddl/internal/retry"
)

// fakeAPI serves canned bodies per path and records every request.
type fakeAPI struct {
	mu       sync.Mutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)
	requests []string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.RequestURI())
	h, ok := f.handlers[r.URL.Path]
	f.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

func (f *fakeAPI) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, req := range f.requests {
		if req == path || strings.HasPrefix(req, path+"?") {
			n++
		}
	}
	return n
}

func (f *fakeAPI) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// offsets returns the offset query parameter of every request to path.
func (f *fakeAPI) offsets(path string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for _, req := range f.requests {
		u, err := url.Parse(req)
		if err != nil || u.Path != path {
			continue
		}
		out = append(out, u.Query().Get("offset"))
	}
	return out
}

func jsonBody(body string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}
}

func newTestClient(t *testing.T, api *fakeAPI, matching string) (*Client, *int) {
	t.Helper()

	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	sleeps := 0
	policy := retry.Policy{
		MaxAttempts: 3,
		Delay:       2 * time.Second,
		Retryable:   httpclient.IsTransient,
		Sleep: func(ctx context.Context, d time.Duration) error {
			sleeps++
			return nil
		},
	}

	endpoints := Endpoints{
		BaseURL:       srv.URL,
		MetadataPath:  "/metadata/{kind}/{id}",
		TrackListPath: "/tracklist/{kind}/{id}",
		DownloadPath:  "/download/{id}",
	}

	fetcher := httpclient.NewClient(httpclient.Options{Timeout: 5 * time.Second})
	return NewClient(fetcher, endpoints, policy, matching, nil), &sleeps
}

func TestResolve_SingleTrack(t *testing.T) {
	api := &fakeAPI{handlers: map[string]func(http.ResponseWriter, *http.Request){
		"/metadata/track/abc123": jsonBody(`{"success":true,"title":"Song: One","artists":"Art/ist","cover":"https://img/c.jpg"}`),
	}}
	client, _ := newTestClient(t, api, MatchStrict)

	coll, err := client.Resolve(context.Background(), "https://service/track/abc123")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if coll.Kind != model.KindTrack || !coll.IsSingle() {
		t.Fatalf("Resolve() kind = %v, single = %v", coll.Kind, coll.IsSingle())
	}
	if len(coll.Tracks) != 1 {
		t.Fatalf("len(Tracks) = %d, want 1", len(coll.Tracks))
	}

	got := coll.Tracks[0]
	want := model.Track{ID: "abc123", Title: "Song One", Artists: "Artist", Album: model.UnknownAlbum, CoverURL: "https://img/c.jpg"}
	if got != want {
		t.Errorf("track = %+v, want %+v", got, want)
	}
	if n := api.total(); n != 1 {
		t.Errorf("requests = %d, want 1", n)
	}
}

func TestResolve_Album(t *testing.T) {
	api := &fakeAPI{handlers: map[string]func(http.ResponseWriter, *http.Request){
		"/metadata/album/alb1": jsonBody(`{"success":true,"title":"Greatest Hits","artists":["A","B"],"cover":"https://img/album.jpg","releaseDate":"2020-01-01"}`),
		"/tracklist/album/alb1": jsonBody(`{"success":true,"trackList":[
			{"id":"t1","title":"One","artists":"A","album":"Other","cover":"https://img/other.jpg"},
			{"id":"t2","title":"Two","artists":"B"}
		]}`),
	}}
	client, _ := newTestClient(t, api, MatchStrict)

	coll, err := client.Resolve(context.Background(), "https://open.spotify.com/album/alb1")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if coll.Title != "Greatest Hits" || coll.Owner != "A, B" || coll.Total != 2 {
		t.Errorf("collection = %q by %q (%d), want Greatest Hits by A, B (2)", coll.Title, coll.Owner, coll.Total)
	}
	for _, track := range coll.Tracks {
		if track.Album != "Greatest Hits" {
			t.Errorf("track %s album = %q, want album title", track.ID, track.Album)
		}
		if track.CoverURL != "https://img/album.jpg" {
			t.Errorf("track %s cover = %q, want album cover", track.ID, track.CoverURL)
		}
	}
	if n := api.count("/tracklist/album/alb1"); n != 1 {
		t.Errorf("listing requests = %d, want 1", n)
	}
}

func TestResolve_PlaylistPagination(t *testing.T) {
	pages := map[string]string{
		"":    `{"success":true,"trackList":[{"id":"p1","title":"First","artists":"X","album":"AX","cover":"c1"}],"nextOffset":100}`,
		"100": `{"success":true,"trackList":[{"id":"p2","title":"Second","artists":"Y"}],"nextOffset":"200"}`,
		"200": `{"success":true,"trackList":[{"id":"p3","title":"Third","artists":"Z","cover":"c3"}],"nextOffset":null}`,
	}

	api := &fakeAPI{handlers: map[string]func(http.ResponseWriter, *http.Request){
		"/metadata/playlist/pl1": jsonBody(`{"success":true,"title":"Road Trip","artists":"someone"}`),
		"/tracklist/playlist/pl1": func(w http.ResponseWriter, r *http.Request) {
			jsonBody(pages[r.URL.Query().Get("offset")])(w, r)
		},
	}}
	client, _ := newTestClient(t, api, MatchStrict)

	coll, err := client.Resolve(context.Background(), "https://open.spotify.com/playlist/pl1")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if n := api.count("/tracklist/playlist/pl1"); n != 3 {
		t.Errorf("listing requests = %d, want 3", n)
	}
	offsets := api.offsets("/tracklist/playlist/pl1")
	wantOffsets := []string{"", "100", "200"}
	if fmt.Sprint(offsets) != fmt.Sprint(wantOffsets) {
		t.Errorf("offsets = %q, want %q", offsets, wantOffsets)
	}

	wantIDs := []string{"p1", "p2", "p3"}
	if len(coll.Tracks) != len(wantIDs) {
		t.Fatalf("len(Tracks) = %d, want %d", len(coll.Tracks), len(wantIDs))
	}
	for i, id := range wantIDs {
		if coll.Tracks[i].ID != id {
			t.Errorf("Tracks[%d].ID = %q, want %q", i, coll.Tracks[i].ID, id)
		}
	}

	if coll.Tracks[0].Album != "AX" || coll.Tracks[0].CoverURL != "c1" {
		t.Errorf("Tracks[0] = %+v, want its own album and cover", coll.Tracks[0])
	}
	if coll.Tracks[1].Album != model.UnknownAlbum || coll.Tracks[1].CoverURL != "" {
		t.Errorf("Tracks[1] = %+v, want Unknown Album and no cover", coll.Tracks[1])
	}
}

func TestResolve_PlaylistRepeatedCursor(t *testing.T) {
	api := &fakeAPI{handlers: map[string]func(http.ResponseWriter, *http.Request){
		"/metadata/playlist/loop": jsonBody(`{"success":true,"title":"Loop"}`),
		"/tracklist/playlist/loop": jsonBody(`{"success":true,"trackList":[{"id":"x","title":"X","artists":"Y"}],"nextOffset":50}`),
	}}
	client, _ := newTestClient(t, api, MatchStrict)

	_, err := client.Resolve(context.Background(), "https://open.spotify.com/playlist/loop")
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("Resolve() error = %v, want ErrMalformed", err)
	}
	if n := api.count("/tracklist/playlist/loop"); n != 2 {
		t.Errorf("listing requests = %d, want 2", n)
	}
}

func TestResolve_Errors(t *testing.T) {
	serverError := func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}

	tests := []struct {
		name         string
		handler      func(http.ResponseWriter, *http.Request)
		wantRequests int
		wantSleeps   int
		check        func(t *testing.T, err error)
	}{
		{
			name:         "semantic failure is not retried",
			handler:      jsonBody(`{"success":false,"message":"Track not found"}`),
			wantRequests: 1,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				if !errors.As(err, &apiErr) || apiErr.Message != "Track not found" {
					t.Errorf("error = %v, want APIError with upstream message", err)
				}
			},
		},
		{
			name:         "semantic failure without message",
			handler:      jsonBody(`{"success":false}`),
			wantRequests: 1,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				if !errors.As(err, &apiErr) || apiErr.Message != "unknown error" {
					t.Errorf("error = %v, want APIError with unknown error", err)
				}
			},
		},
		{
			name:         "server errors exhaust retries",
			handler:      serverError,
			wantRequests: 3,
			wantSleeps:   2,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrUnreachable) {
					t.Errorf("error = %v, want ErrUnreachable", err)
				}
			},
		},
		{
			name: "client error is not retried",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "gone", http.StatusGone)
			},
			wantRequests: 1,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusGone {
					t.Errorf("error = %v, want APIError with status 410", err)
				}
			},
		},
		{
			name:         "body is not JSON",
			handler:      jsonBody(`<html>maintenance</html>`),
			wantRequests: 1,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrMalformed) {
					t.Errorf("error = %v, want ErrMalformed", err)
				}
			},
		},
		{
			name:         "body is a JSON array",
			handler:      jsonBody(`[1,2,3]`),
			wantRequests: 1,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrMalformed) {
					t.Errorf("error = %v, want ErrMalformed", err)
				}
			},
		},
		{
			name:         "header without title",
			handler:      jsonBody(`{"success":true,"artists":"A"}`),
			wantRequests: 1,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrMalformed) {
					t.Errorf("error = %v, want ErrMalformed", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{handlers: map[string]func(http.ResponseWriter, *http.Request){
				"/metadata/track/t1": tt.handler,
			}}
			client, sleeps := newTestClient(t, api, MatchStrict)

			coll, err := client.Resolve(context.Background(), "https://service/track/t1")
			if err == nil {
				t.Fatalf("Resolve() = %+v, want error", coll)
			}
			if coll != nil {
				t.Errorf("Resolve() returned a partial result: %+v", coll)
			}
			tt.check(t, err)

			if n := api.count("/metadata/track/t1"); n != tt.wantRequests {
				t.Errorf("requests = %d, want %d", n, tt.wantRequests)
			}
			if *sleeps != tt.wantSleeps {
				t.Errorf("sleeps = %d, want %d", *sleeps, tt.wantSleeps)
			}
		})
	}
}

func TestResolve_RecoversAfterTransientFailures(t *testing.T) {
	var calls atomic.Int32
	api := &fakeAPI{handlers: map[string]func(http.ResponseWriter, *http.Request){
		"/metadata/track/t1": func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				http.Error(w, "busy", http.StatusServiceUnavailable)
				return
			}
			jsonBody(`{"success":true,"title":"Finally","artists":"A"}`)(w, r)
		},
	}}
	client, sleeps := newTestClient(t, api, MatchStrict)

	coll, err := client.Resolve(context.Background(), "https://service/track/t1")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if coll.Tracks[0].Title != "Finally" {
		t.Errorf("Title = %q, want Finally", coll.Tracks[0].Title)
	}
	if *sleeps != 2 {
		t.Errorf("sleeps = %d, want 2", *sleeps)
	}
}

func TestResolve_SubstringMatching(t *testing.T) {
	api := &fakeAPI{handlers: map[string]func(http.ResponseWriter, *http.Request){
		"/metadata/album/albumXYZ":  jsonBody(`{"success":true,"title":"Misrouted"}`),
		"/tracklist/album/albumXYZ": jsonBody(`{"success":true,"trackList":[]}`),
	}}
	client, _ := newTestClient(t, api, MatchSubstring)

	coll, err := client.Resolve(context.Background(), "https://service/track/albumXYZ")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if coll.Kind != model.KindAlbum {
		t.Errorf("Kind = %v, want album", coll.Kind)
	}
}

func TestResolve_UnsupportedURL(t *testing.T) {
	api := &fakeAPI{}
	client, _ := newTestClient(t, api, MatchStrict)

	_, err := client.Resolve(context.Background(), "https://open.spotify.com/artist/abc")
	if !errors.Is(err, ErrUnsupportedURL) {
		t.Errorf("Resolve() error = %v, want ErrUnsupportedURL", err)
	}
	if n := api.total(); n != 0 {
		t.Errorf("requests = %d, want 0", n)
	}
}

func TestResolveAudio(t *testing.T) {
	t.Run("link and metadata", func(t *testing.T) {
		api := &fakeAPI{handlers: map[string]func(http.ResponseWriter, *http.Request){
			"/download/t1": jsonBody(`{"success":true,"link":"https://cdn/t1.mp3","metadata":{"title":"T","artists":"A","album":"Al","cover":"https://img/t1.jpg"}}`),
		}}
		client, _ := newTestClient(t, api, MatchStrict)

		src, err := client.ResolveAudio(context.Background(), "t1")
		if err != nil {
			t.Fatalf("ResolveAudio() error = %v", err)
		}
		want := AudioSource{Link: "https://cdn/t1.mp3", Title: "T", Artists: "A", Album: "Al", CoverURL: "https://img/t1.jpg"}
		if *src != want {
			t.Errorf("ResolveAudio() = %+v, want %+v", *src, want)
		}
	})

	t.Run("missing link", func(t *testing.T) {
		api := &fakeAPI{handlers: map[string]func(http.ResponseWriter, *http.Request){
			"/download/t1": jsonBody(`{"success":true,"metadata":{}}`),
		}}
		client, _ := newTestClient(t, api, MatchStrict)

		_, err := client.ResolveAudio(context.Background(), "t1")
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("ResolveAudio() error = %v, want ErrMalformed", err)
		}
	})
}
