package audio

import (
	"fmt"

	"github.com/bogem/id3v2"
	"github.com/spddl/spddl/internal/model"
)

// TagEditAction defines how to handle individual ID3 tags.
//
// Each tag field can be configured independently to determine whether
// it should be modified, cleared, or left unchanged.
type TagEditAction int

const (
	// TagEmpty clears the tag value.
	TagEmpty TagEditAction = iota

	// TagModify updates the tag with the resolved track metadata.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// TagConfig holds tagging configuration for each ID3 field.
type TagConfig struct {
	// ModifyTags is a master switch. If false, no text frames are touched.
	ModifyTags bool

	// TrackTitle controls the TIT2 (Title) frame.
	TrackTitle TagEditAction

	// Artist controls the TPE1 (Lead artist) frame.
	Artist TagEditAction

	// Album controls the TALB (Album title) frame.
	Album TagEditAction
}

// DefaultTagConfig returns a configuration that writes every supported frame.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags: true,
		TrackTitle: TagModify,
		Artist:     TagModify,
		Album:      TagModify,
	}
}

// Cover is an image to embed as the front cover.
type Cover struct {
	Data []byte

	// MIME is the image type, e.g. "image/jpeg". Empty means image/jpeg.
	MIME string
}

// Tagger writes ID3 tags to MP3 files.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//
//	// After the audio bytes are on disk
//	if err := tagger.SaveTags(path, track, cover); err != nil {
//	    log.Printf("Failed to tag %s: %v", path, err)
//	}
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// SaveTags writes ID3 tags to the MP3 file at path.
//
// Text frames are written according to the TagConfig. A non-nil cover
// replaces every attached picture in the file, so the file ends up with
// exactly one. The audio payload is preserved.
func (t *Tagger) SaveTags(path string, track model.Track, cover *Cover) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to read tags of %s: %w", path, err)
	}
	defer tag.Close()

	if t.config.ModifyTags {
		t.updateStringTags(tag, track)
	}

	if cover != nil && len(cover.Data) > 0 {
		t.updateArtwork(tag, cover)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to write tags of %s: %w", path, err)
	}
	return nil
}

// updateStringTags updates text-based ID3 frames based on configuration.
func (t *Tagger) updateStringTags(tag *id3v2.Tag, track model.Track) {
	switch t.config.TrackTitle {
	case TagEmpty:
		tag.SetTitle("")
	case TagModify:
		tag.SetTitle(track.Title)
	}

	switch t.config.Artist {
	case TagEmpty:
		tag.SetArtist("")
	case TagModify:
		tag.SetArtist(track.Artists)
	}

	switch t.config.Album {
	case TagEmpty:
		tag.SetAlbum("")
	case TagModify:
		tag.SetAlbum(track.Album)
	}
}

// updateArtwork embeds cover art as the only attached picture frame.
func (t *Tagger) updateArtwork(tag *id3v2.Tag, cover *Cover) {
	tag.DeleteFrames(tag.CommonID("Attached picture"))

	mime := cover.MIME
	if mime == "" {
		mime = "image/jpeg"
	}

	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    mime,
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     cover.Data,
	})
}
