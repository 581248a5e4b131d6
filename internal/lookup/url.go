package lookup

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spddl/spddl/internal/model"
)

// URL matching modes.
const (
	// MatchStrict looks for a "track", "album" or "playlist" path segment
	// followed by the id.
	MatchStrict = "strict"

	// MatchSubstring routes on substring containment, like the first
	// versions of the tool. A URL whose id happens to contain "album" or
	// "playlist" is misrouted in this mode.
	MatchSubstring = "substring"
)

// Ref names the resource a URL points at.
type Ref struct {
	Kind model.Kind
	ID   string
}

// ParseURL classifies rawURL and extracts the resource id.
//
// In strict mode, both web links and URIs are accepted:
//
//	https://open.spotify.com/track/abc123?si=x  -> track abc123
//	https://open.spotify.com/intl-de/album/xyz  -> album xyz
//	spotify:playlist:37i9dQ                     -> playlist 37i9dQ
//
// Returns ErrUnsupportedURL if no kind/id pair can be found.
func ParseURL(rawURL, mode string) (Ref, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return Ref{}, fmt.Errorf("%w: empty input", ErrUnsupportedURL)
	}

	if mode == MatchSubstring {
		return parseSubstring(rawURL)
	}
	return parseStrict(rawURL)
}

func parseStrict(rawURL string) (Ref, error) {
	if strings.HasPrefix(rawURL, "spotify:") {
		parts := strings.Split(rawURL, ":")
		if len(parts) == 3 && parts[2] != "" {
			if kind, ok := model.ParseKind(parts[1]); ok {
				return Ref{Kind: kind, ID: parts[2]}, nil
			}
		}
		return Ref{}, fmt.Errorf("%w: %s", ErrUnsupportedURL, rawURL)
	}

	u, err := url.Parse(rawURL)
	if err == nil && u.Scheme == "" {
		u, err = url.Parse("https://" + rawURL)
	}
	if err != nil {
		return Ref{}, fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+1 < len(segments); i++ {
		kind, ok := model.ParseKind(segments[i])
		if ok && segments[i+1] != "" {
			return Ref{Kind: kind, ID: segments[i+1]}, nil
		}
	}

	return Ref{}, fmt.Errorf("%w: %s", ErrUnsupportedURL, rawURL)
}

func parseSubstring(rawURL string) (Ref, error) {
	kind := model.KindTrack
	switch {
	case strings.Contains(rawURL, "album"):
		kind = model.KindAlbum
	case strings.Contains(rawURL, "playlist"):
		kind = model.KindPlaylist
	}

	parts := strings.Split(rawURL, "/")
	id := strings.Split(parts[len(parts)-1], "?")[0]
	if id == "" {
		return Ref{}, fmt.Errorf("%w: no id in %s", ErrUnsupportedURL, rawURL)
	}

	return Ref{Kind: kind, ID: id}, nil
}
