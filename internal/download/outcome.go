package download

import (
	"fmt"

	"github.com/spddl/spddl/internal/model"
)

// OutcomeKind tells what happened to a track.
type OutcomeKind int

const (
	// Downloaded means a new file was written.
	Downloaded OutcomeKind = iota

	// Skipped means the target file already existed; nothing was touched.
	Skipped

	// Failed means no file was written.
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Downloaded:
		return "downloaded"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the result of downloading one track.
type Outcome struct {
	Kind  OutcomeKind
	Track model.Track

	// Path is the target file, set for every kind.
	Path string

	// Bytes is the size of the audio written, 0 unless Downloaded.
	Bytes int64

	// Reason explains a Failed outcome.
	Reason error
}

func (o Outcome) String() string {
	if o.Kind == Failed {
		return fmt.Sprintf("%s: %s (%v)", o.Kind, o.Track.DisplayName(), o.Reason)
	}
	return fmt.Sprintf("%s: %s", o.Kind, o.Track.DisplayName())
}
