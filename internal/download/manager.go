package download

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spddl/spddl/internal/audio"
	"github.com/spddl/spddl/internal/config"
	httpclient "github.com/spddl/spddl/internal/http"
	ioutils "github.com/spddl/spddl/internal/io"
	"github.com/spddl/spddl/internal/lookup"
	"github.com/spddl/spddl/internal/model"
	"github.com/spddl/spddl/internal/retry"
	"github.com/spddl/spddl/internal/spotify"
	"go.uber.org/zap"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Options carries the collaborators of a Manager. Zero values select the
// defaults built from settings.
type Options struct {
	Logger     *zap.Logger
	OnProgress func(ProgressEvent)

	// OnTrack is called before each track with its 1-based position.
	OnTrack func(index, total int, track model.Track)

	// OnBytes receives byte progress of the current audio fetch.
	OnBytes func(written, total int64)

	// Resolver overrides the metadata source chosen by settings.Source.
	Resolver lookup.Resolver

	// Transport overrides the HTTP round tripper.
	Transport http.RoundTripper

	// Sleep overrides the wait between retry attempts.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Manager coordinates a run: resolution, output directory, sequential
// downloads and the final tally.
type Manager struct {
	settings   *config.Settings
	policy     retry.Policy
	httpClient *httpclient.Client
	lookup     *lookup.Client
	resolver   lookup.Resolver
	pipeline   *Pipeline
	playlist   *audio.PlaylistCreator

	logger     *zap.Logger
	onProgress func(ProgressEvent)
	onTrack    func(index, total int, track model.Track)
}

// NewManager creates a new download Manager from settings.
//
// settings is read, never modified, and should already be validated.
func NewManager(settings *config.Settings, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		settings:   settings,
		resolver:   opts.Resolver,
		logger:     logger,
		onProgress: opts.OnProgress,
		onTrack:    opts.OnTrack,
	}

	m.policy = retry.Policy{
		MaxAttempts: settings.MaxRetries,
		Delay:       settings.RetryDelayDuration(),
		Retryable:   httpclient.IsTransient,
		Sleep:       opts.Sleep,
		OnRetry: func(attempt int, err error) {
			logger.Warn("retrying", zap.Int("attempt", attempt), zap.Int("max_attempts", settings.MaxRetries), zap.Error(err))
			m.progress(ProgressEvent{Message: fmt.Sprintf("Retry %d/%d", attempt, settings.MaxRetries-1), Level: LevelVerbose})
		},
	}

	m.httpClient = httpclient.NewClient(httpclient.Options{
		Timeout:           settings.RequestTimeoutDuration(),
		Headers:           settings.Headers,
		RequestsPerSecond: settings.RequestsPerSecond,
		Transport:         opts.Transport,
	})

	m.lookup = lookup.NewClient(m.httpClient, lookup.Endpoints{
		BaseURL:       settings.APIBaseURL,
		MetadataPath:  settings.MetadataPath,
		TrackListPath: settings.TrackListPath,
		DownloadPath:  settings.DownloadPath,
	}, m.policy, settings.URLMatching, logger)

	m.pipeline = NewPipeline(m.lookup, m.httpClient, m.policy, PipelineOptions{
		Tagger: audio.NewTagger(&audio.TagConfig{
			ModifyTags: settings.ModifyTags,
			TrackTitle: audio.TagModify,
			Artist:     audio.TagModify,
			Album:      audio.TagModify,
		}),
		ModifyTags: settings.ModifyTags,
		EmbedCover: settings.EmbedCoverArt,
		Cover:      settings.ToCoverOptions(),
		Logger:     logger,
		OnProgress: opts.OnProgress,
		OnBytes:    opts.OnBytes,
	})

	if settings.CreatePlaylist {
		m.playlist = audio.NewPlaylistCreator(audio.ParsePlaylistFormat(settings.PlaylistFormat), settings.M3UExtended)
	}

	return m
}

// Resolve fetches the metadata rawURL points at.
//
// Failures abort the run; no partial collection is returned.
func (m *Manager) Resolve(ctx context.Context, rawURL string) (*model.Collection, error) {
	resolver, err := m.metadataResolver(ctx)
	if err != nil {
		return nil, err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Resolving %s", rawURL), Level: LevelVerbose})

	coll, err := resolver.Resolve(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %s", coll.Describe()), Level: LevelInfo})
	return coll, nil
}

// metadataResolver returns the configured resolver, authenticating against
// Spotify on first use when that source is selected.
func (m *Manager) metadataResolver(ctx context.Context) (lookup.Resolver, error) {
	if m.resolver != nil {
		return m.resolver, nil
	}

	if m.settings.Source == config.SourceSpotify {
		client, err := spotify.Authenticate(ctx, m.settings.SpotifyClientID, m.settings.SpotifyClientSecret)
		if err != nil {
			return nil, err
		}
		m.resolver = spotify.NewResolver(client, m.settings.URLMatching, m.policy, m.logger)
		return m.resolver, nil
	}

	m.resolver = m.lookup
	return m.resolver, nil
}

// OutputDir returns the directory the tracks of coll are written to: the
// base directory for a single track, a subdirectory named after the
// collection otherwise. The id names the subdirectory when the title
// normalizes to nothing.
func (m *Manager) OutputDir(coll *model.Collection) (string, error) {
	base, err := m.settings.BaseDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine output directory: %w", err)
	}
	if coll.IsSingle() {
		return base, nil
	}

	name := ioutils.Normalize(coll.Title)
	if name == "" {
		name = ioutils.Normalize(coll.ID)
	}
	return filepath.Join(base, name), nil
}

// Download processes tracks one after another and returns the tally.
//
// An error is returned only for fatal conditions: the output directory
// cannot be created, or ctx is cancelled. In the latter case the summary
// of the tracks processed so far is returned too. Per-track failures are
// recorded in the Summary.
func (m *Manager) Download(ctx context.Context, coll *model.Collection, tracks []model.Track) (*Summary, error) {
	summary := &Summary{}
	if len(tracks) == 0 {
		m.progress(ProgressEvent{Message: summary.Message(), Level: LevelInfo})
		return summary, nil
	}

	dir, err := m.OutputDir(coll)
	if err != nil {
		return nil, err
	}
	if err := ioutils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	m.logger.Info("starting downloads", zap.String("dir", dir), zap.Int("tracks", len(tracks)))

	for i, track := range tracks {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if m.onTrack != nil {
			m.onTrack(i+1, len(tracks), track)
		}
		m.progress(ProgressEvent{Message: fmt.Sprintf("Downloading (%d/%d): %s", i+1, len(tracks), track.DisplayName()), Level: LevelInfo})

		summary.Add(m.pipeline.DownloadOne(ctx, track, dir))
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}

	if m.playlist != nil && !coll.IsSingle() {
		m.writePlaylist(dir, coll, summary)
	}

	level := LevelSuccess
	switch summary.Status() {
	case StatusTotalFailure:
		level = LevelError
	case StatusPartialFailure:
		level = LevelWarning
	}
	m.progress(ProgressEvent{Message: summary.Message(), Level: level})

	return summary, nil
}

// writePlaylist lists the files that exist after the run, in selection order.
func (m *Manager) writePlaylist(dir string, coll *model.Collection, summary *Summary) {
	var entries []audio.PlaylistEntry
	for _, o := range summary.Outcomes {
		if o.Kind == Failed {
			continue
		}
		entries = append(entries, audio.PlaylistEntry{
			FileName: filepath.Base(o.Path),
			Title:    o.Track.Title,
			Artists:  o.Track.Artists,
		})
	}
	if len(entries) == 0 {
		return
	}

	name := filepath.Base(dir) + m.playlist.Format().Extension()
	path := filepath.Join(dir, name)
	content := m.playlist.CreatePlaylist(entries)

	if err := ioutils.WriteFile(path, []byte(content)); err != nil {
		m.logger.Warn("playlist write failed", zap.String("path", path), zap.Error(err))
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: LevelWarning})
		return
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist for %s", coll.Title), Level: LevelSuccess})
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
