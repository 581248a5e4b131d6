package model

import "testing"

func TestNewTrack_Normalizes(t *testing.T) {
	track := NewTrack("id1", `What's "Up"?`, "Artist/One,  Two", "", "")

	if track.Title != "Whats Up" {
		t.Errorf("Title = %q, want %q", track.Title, "Whats Up")
	}
	if track.Artists != "ArtistOne, Two" {
		t.Errorf("Artists = %q, want %q", track.Artists, "ArtistOne, Two")
	}
	if track.Album != UnknownAlbum {
		t.Errorf("Album = %q, want %q", track.Album, UnknownAlbum)
	}
}

func TestTrack_FileName(t *testing.T) {
	tests := []struct {
		name  string
		track Track
		want  string
	}{
		{
			name:  "plain",
			track: NewTrack("1", "Song", "Artist", "Album", ""),
			want:  "Song - Artist.mp3",
		},
		{
			name:  "reserved characters",
			track: NewTrack("2", "A: B", "C|D", "", ""),
			want:  "A B - CD.mp3",
		},
		{
			name:  "empty title",
			track: NewTrack("3", "", "Artist", "", ""),
			want:  "- Artist.mp3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.track.FileName(); got != tt.want {
				t.Errorf("FileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTrack_FileNameCollision(t *testing.T) {
	a := NewTrack("a", "Intro", "Band", "First", "")
	b := NewTrack("b", "Intro?", "Band", "Second", "")

	if a.FileName() != b.FileName() {
		t.Errorf("distinct tracks should collide: %q vs %q", a.FileName(), b.FileName())
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindTrack, KindAlbum, KindPlaylist} {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("artist"); ok {
		t.Error("ParseKind(artist) should fail")
	}
}

func TestCollection_Describe(t *testing.T) {
	album := &Collection{
		Kind:   KindAlbum,
		Title:  "Abbey Road",
		Owner:  "The Beatles",
		Tracks: []Track{{}, {}},
	}
	if got, want := album.Describe(), "Album: Abbey Road by The Beatles (2 tracks)"; got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
	if album.IsSingle() {
		t.Error("album should not be single")
	}

	single := &Collection{Kind: KindTrack, Tracks: []Track{NewTrack("x", "Song", "Artist", "", "")}}
	if got, want := single.Describe(), "Track: Song - Artist"; got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}
