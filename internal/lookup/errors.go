package lookup

import (
	"context"
	"errors"
	"fmt"

	"github.com/spddl/spddl/internal/http"
)

var (
	// ErrUnreachable means the server could not be reached, even after retrying.
	ErrUnreachable = errors.New("could not reach server")

	// ErrMalformed means the server answered with something other than the
	// expected JSON shape.
	ErrMalformed = errors.New("unexpected response from server")

	// ErrUnsupportedURL means the URL does not point at a track, album or playlist.
	ErrUnsupportedURL = errors.New("unsupported URL: must be a track, album or playlist link")
)

// APIError is returned when the server answered but reported a failure,
// either through a success:false envelope or a non-retryable HTTP status.
type APIError struct {
	// StatusCode is the HTTP status, 0 for application-level failures.
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("server returned an error: HTTP %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned an error: %s", e.Message)
}

// classify turns a fetch error into one of the package's error kinds.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var statusErr *http.StatusError
	if errors.As(err, &statusErr) && !http.IsTransient(statusErr) {
		return &APIError{StatusCode: statusErr.StatusCode, Message: statusErr.Status}
	}
	if http.IsTransient(err) {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return err
}
