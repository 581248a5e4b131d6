package model

import (
	"fmt"

	ioutils "github.com/spddl/spddl/internal/io"
)

// UnknownAlbum is used when the upstream does not name a track's album.
const UnknownAlbum = "Unknown Album"

// Track represents a single resolved track.
//
// Track is a value type and is never mutated after the resolver builds it.
// Title and Artists are normalized by the resolver; raw upstream strings
// are never stored here.
type Track struct {
	// ID identifies the track for audio resolution.
	ID string

	// Title is the normalized track title.
	Title string

	// Artists is the normalized, comma-joined list of performers.
	Artists string

	// Album is the album title, UnknownAlbum when not known.
	Album string

	// CoverURL points at the track's cover art. Empty if none.
	CoverURL string
}

// NewTrack builds a Track from raw upstream strings.
//
// Title and artists are normalized; an empty album becomes UnknownAlbum.
func NewTrack(id, title, artists, album, coverURL string) Track {
	if album == "" {
		album = UnknownAlbum
	}
	return Track{
		ID:       id,
		Title:    ioutils.Normalize(title),
		Artists:  ioutils.Normalize(artists),
		Album:    album,
		CoverURL: coverURL,
	}
}

// DisplayName returns "Title - Artists".
func (t Track) DisplayName() string {
	return fmt.Sprintf("%s - %s", t.Title, t.Artists)
}

// FileName returns the output file name, "{title} - {artists}.mp3".
//
// Two tracks whose titles and artists normalize to the same string share a
// file name. Only the first of them is ever written in a run.
func (t Track) FileName() string {
	return ioutils.Normalize(t.DisplayName()) + ".mp3"
}
