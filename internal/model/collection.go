package model

import "fmt"

// Kind is the resource type a URL points at.
type Kind int

const (
	KindTrack Kind = iota
	KindAlbum
	KindPlaylist
)

// String returns the path segment used for the kind: "track", "album" or "playlist".
func (k Kind) String() string {
	switch k {
	case KindTrack:
		return "track"
	case KindAlbum:
		return "album"
	case KindPlaylist:
		return "playlist"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind converts "track", "album" or "playlist" to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "track":
		return KindTrack, true
	case "album":
		return KindAlbum, true
	case "playlist":
		return KindPlaylist, true
	}
	return 0, false
}

// Collection is what a URL resolved to: one track, or the tracks of an
// album or playlist with shared metadata.
//
// Collection lives only for the duration of a run.
type Collection struct {
	Kind Kind
	ID   string

	// Title names the output folder for albums and playlists.
	Title string

	// Owner is the album artist or playlist owner.
	Owner string

	CoverURL    string
	ReleaseDate string

	// Total is the track count announced by the upstream, 0 if unknown.
	Total int

	Tracks []Track
}

// IsSingle reports whether the collection is a single track.
func (c *Collection) IsSingle() bool {
	return c.Kind == KindTrack
}

// Describe returns a one-line description for console output.
func (c *Collection) Describe() string {
	if c.IsSingle() {
		if len(c.Tracks) == 1 {
			return fmt.Sprintf("Track: %s", c.Tracks[0].DisplayName())
		}
		return fmt.Sprintf("Track: %s", c.Title)
	}

	label := "Album"
	if c.Kind == KindPlaylist {
		label = "Playlist"
	}
	if c.Owner == "" {
		return fmt.Sprintf("%s: %s (%d tracks)", label, c.Title, len(c.Tracks))
	}
	return fmt.Sprintf("%s: %s by %s (%d tracks)", label, c.Title, c.Owner, len(c.Tracks))
}
