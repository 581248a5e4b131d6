// Package audio writes ID3 tags to downloaded MP3 files and generates
// playlists for downloaded collections.
//
// # ID3 Tagging
//
// Use the Tagger to write text frames and cover art:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.SaveTags(path, track, &audio.Cover{Data: jpeg, MIME: "image/jpeg"})
//
// The tagger supports:
//   - Title, Artist, Album
//   - Cover Art (a single embedded front cover)
//
// # Playlist Generation
//
// Generate a playlist for the files of a collection:
//
//	creator := audio.NewPlaylistCreator(audio.FormatM3U, true) // extended M3U
//	content := creator.CreatePlaylist(entries)
//	os.WriteFile("Road Trip.m3u", []byte(content), 0644)
//
// Supported formats:
//   - M3U (with optional extended info)
//   - PLS
package audio
