package lookup

import (
	"errors"
	"testing"

	"github.com/spddl/spddl/internal/model"
)

func TestParseURL_Strict(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind model.Kind
		wantID   string
	}{
		{"track", "https://open.spotify.com/track/abc123", model.KindTrack, "abc123"},
		{"track with query", "https://open.spotify.com/track/abc123?si=xyz", model.KindTrack, "abc123"},
		{"album", "https://open.spotify.com/album/4aawyAB9vmqN3uQ7FjRGTy", model.KindAlbum, "4aawyAB9vmqN3uQ7FjRGTy"},
		{"playlist", "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M", model.KindPlaylist, "37i9dQZF1DXcBWIGoYBM5M"},
		{"locale prefix", "https://open.spotify.com/intl-de/album/xyz", model.KindAlbum, "xyz"},
		{"trailing slash", "https://open.spotify.com/playlist/p1/", model.KindPlaylist, "p1"},
		{"no scheme", "open.spotify.com/track/t1", model.KindTrack, "t1"},
		{"uri", "spotify:playlist:37i9dQ", model.KindPlaylist, "37i9dQ"},
		{"id containing album", "https://service/track/albumXYZ", model.KindTrack, "albumXYZ"},
		{"surrounding whitespace", "  https://service/track/abc123  ", model.KindTrack, "abc123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseURL(tt.input, MatchStrict)
			if err != nil {
				t.Fatalf("ParseURL(%q) error = %v", tt.input, err)
			}
			if ref.Kind != tt.wantKind || ref.ID != tt.wantID {
				t.Errorf("ParseURL(%q) = %v/%q, want %v/%q", tt.input, ref.Kind, ref.ID, tt.wantKind, tt.wantID)
			}
		})
	}
}

func TestParseURL_StrictRejects(t *testing.T) {
	inputs := []string{
		"",
		"https://open.spotify.com/artist/abc",
		"https://open.spotify.com/track/",
		"https://open.spotify.com/",
		"spotify:artist:abc",
		"spotify:track:",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseURL(input, MatchStrict)
			if !errors.Is(err, ErrUnsupportedURL) {
				t.Errorf("ParseURL(%q) error = %v, want ErrUnsupportedURL", input, err)
			}
		})
	}
}

func TestParseURL_Substring(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind model.Kind
		wantID   string
	}{
		{"album", "https://open.spotify.com/album/xyz", model.KindAlbum, "xyz"},
		{"playlist", "https://open.spotify.com/playlist/p1?si=abc", model.KindPlaylist, "p1"},
		{"track", "https://service/track/abc123", model.KindTrack, "abc123"},
		{"anything else is a track", "https://service/x/abc", model.KindTrack, "abc"},
		// Substring matching routes on the whole URL, so an id containing
		// "album" is misclassified.
		{"id containing album", "https://service/track/albumXYZ", model.KindAlbum, "albumXYZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseURL(tt.input, MatchSubstring)
			if err != nil {
				t.Fatalf("ParseURL(%q) error = %v", tt.input, err)
			}
			if ref.Kind != tt.wantKind || ref.ID != tt.wantID {
				t.Errorf("ParseURL(%q) = %v/%q, want %v/%q", tt.input, ref.Kind, ref.ID, tt.wantKind, tt.wantID)
			}
		})
	}
}
