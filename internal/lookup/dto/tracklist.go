package dto

import (
	"encoding/json"
	"strings"
)

// Cursor is the playlist pagination token. The upstream sends it as a
// number or a string; null, missing, 0 and "" all mean there are no more
// pages.
type Cursor string

// UnmarshalJSON keeps numbers in their textual form and unquotes strings.
func (c *Cursor) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*c = ""
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Cursor(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*c = Cursor(n.String())
	}
	return nil
}

// Done reports whether the cursor marks the last page.
func (c Cursor) Done() bool {
	return c == "" || c == "0"
}

// ListedTrack is one entry of a track listing.
type ListedTrack struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Artists Artists `json:"artists"`
	Album   string  `json:"album"`
	Cover   string  `json:"cover"`
}

// TrackList is the response of GET /tracklist/{kind}/{id}[?offset=N].
type TrackList struct {
	TrackList  []ListedTrack `json:"trackList"`
	Tracks     []ListedTrack `json:"tracks"`
	NextOffset Cursor        `json:"nextOffset"`
}

// Items returns the listed tracks, whichever field the upstream used.
func (tl *TrackList) Items() []ListedTrack {
	if len(tl.TrackList) > 0 {
		return tl.TrackList
	}
	return tl.Tracks
}
