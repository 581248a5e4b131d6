package tui

import (
	"sync"

	"github.com/spddl/spddl/internal/download"
	"github.com/spddl/spddl/internal/model"
)

// maxLogs is the number of log lines kept on screen.
const maxLogs = 10

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   download.ProgressLevel
}

// tracker receives Manager callbacks on the download goroutine and is
// polled by the UI on every tick.
type tracker struct {
	mu      sync.Mutex
	verbose bool

	index   int
	total   int
	current string
	written int64
	size    int64
	logs    []LogEntry
}

// trackerState is a consistent copy of the tracker.
type trackerState struct {
	Index   int
	Total   int
	Current string
	Written int64
	Size    int64
	Logs    []LogEntry
}

func newTracker(verbose bool) *tracker {
	return &tracker{verbose: verbose}
}

func (t *tracker) onProgress(e download.ProgressEvent) {
	if e.Level == download.LevelVerbose && !t.verbose {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.logs = append(t.logs, LogEntry{Message: e.Message, Level: e.Level})
	if len(t.logs) > maxLogs {
		t.logs = t.logs[len(t.logs)-maxLogs:]
	}
}

func (t *tracker) onTrack(index, total int, track model.Track) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.index = index
	t.total = total
	t.current = track.DisplayName()
	t.written = 0
	t.size = 0
}

func (t *tracker) onBytes(written, total int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.written = written
	t.size = total
}

func (t *tracker) snapshot() trackerState {
	t.mu.Lock()
	defer t.mu.Unlock()

	return trackerState{
		Index:   t.index,
		Total:   t.total,
		Current: t.current,
		Written: t.written,
		Size:    t.size,
		Logs:    append([]LogEntry(nil), t.logs...),
	}
}

// Percent returns overall progress in [0, 1]: finished tracks plus the
// byte progress of the current one.
func (s trackerState) Percent() float64 {
	if s.Total == 0 || s.Index == 0 {
		return 0
	}

	done := float64(s.Index - 1)
	if s.Size > 0 {
		done += float64(s.Written) / float64(s.Size)
	}

	p := done / float64(s.Total)
	if p > 1 {
		p = 1
	}
	return p
}
