package selection

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spddl/spddl/internal/model"
)

// InvalidTokenError reports a token that is not an integer.
type InvalidTokenError struct {
	Token string
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("invalid track number %q", e.Token)
}

// Select returns the tracks named by input.
//
// Blank input selects all tracks in their original order. Otherwise the
// result follows the order the numbers were typed in; duplicates are kept
// and numbers outside 1..len(tracks) are dropped. Any token that is not an
// integer fails the whole selection with an *InvalidTokenError.
func Select(tracks []model.Track, input string) ([]model.Track, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return append([]model.Track(nil), tracks...), nil
	}

	indices := make([]int, 0, len(fields))
	for _, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, &InvalidTokenError{Token: field}
		}
		indices = append(indices, n-1)
	}

	selected := make([]model.Track, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(tracks) {
			continue
		}
		selected = append(selected, tracks[i])
	}
	return selected, nil
}
