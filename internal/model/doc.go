// Package model defines the core data structures used throughout spddl.
//
// # Track
//
// Track is a single resolved track. Its Title and Artists are already
// normalized, so they can be used directly for file naming:
//
//	track := model.Track{ID: "abc123", Title: "Song", Artists: "Artist"}
//	fmt.Println(track.FileName()) // "Song - Artist.mp3"
//
// # Collection
//
// Collection groups the tracks a URL resolved to, together with the title
// and owner used for the output folder and console reporting:
//
//	coll := &model.Collection{Kind: model.KindAlbum, Title: "Abbey Road"}
//	fmt.Println(coll.IsSingle()) // false
package model
