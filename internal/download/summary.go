package download

import "fmt"

// Process exit codes.
const (
	ExitOK             = 0
	ExitFatal          = 1
	ExitTotalFailure   = 2
	ExitPartialFailure = 3
	ExitInterrupted    = 130
)

// Status is the overall result of a run.
type Status int

const (
	// StatusSuccess means no track failed. Skipped tracks count as success.
	StatusSuccess Status = iota

	// StatusPartialFailure means some but not all tracks failed.
	StatusPartialFailure

	// StatusTotalFailure means every selected track failed.
	StatusTotalFailure

	// StatusNothingSelected means the selection was empty.
	StatusNothingSelected
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusPartialFailure:
		return "partial failure"
	case StatusTotalFailure:
		return "total failure"
	case StatusNothingSelected:
		return "nothing selected"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Summary tallies the outcomes of a run.
type Summary struct {
	Downloaded int
	Skipped    int
	Failed     int

	// Bytes is the total audio written.
	Bytes int64

	// Outcomes holds one entry per processed track, in processing order.
	Outcomes []Outcome
}

// Add folds one outcome into the tally.
func (s *Summary) Add(o Outcome) {
	switch o.Kind {
	case Downloaded:
		s.Downloaded++
		s.Bytes += o.Bytes
	case Skipped:
		s.Skipped++
	case Failed:
		s.Failed++
	}
	s.Outcomes = append(s.Outcomes, o)
}

// Total returns the number of processed tracks.
func (s *Summary) Total() int {
	return s.Downloaded + s.Skipped + s.Failed
}

// Status derives the overall result from the tally.
func (s *Summary) Status() Status {
	switch {
	case s.Total() == 0:
		return StatusNothingSelected
	case s.Failed == 0:
		return StatusSuccess
	case s.Failed == s.Total():
		return StatusTotalFailure
	default:
		return StatusPartialFailure
	}
}

// ExitCode maps Status to the process exit code.
func (s *Summary) ExitCode() int {
	switch s.Status() {
	case StatusTotalFailure:
		return ExitTotalFailure
	case StatusPartialFailure:
		return ExitPartialFailure
	default:
		return ExitOK
	}
}

// Message returns the one-line summary shown at the end of a run.
func (s *Summary) Message() string {
	switch s.Status() {
	case StatusNothingSelected:
		return "No tracks selected, nothing to do"
	case StatusTotalFailure:
		return "All downloads failed"
	case StatusPartialFailure:
		return fmt.Sprintf("Some downloads failed (%d of %d)", s.Failed, s.Total())
	default:
		return "All downloads completed successfully"
	}
}
