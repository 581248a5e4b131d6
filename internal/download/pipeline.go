package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spddl/spddl/internal/audio"
	ioutils "github.com/spddl/spddl/internal/io"
	"github.com/spddl/spddl/internal/lookup"
	"github.com/spddl/spddl/internal/model"
	"github.com/spddl/spddl/internal/retry"
	"go.uber.org/zap"
)

// Fetcher downloads a URL into memory.
//
// *http.Client from internal/http satisfies it.
type Fetcher interface {
	Download(ctx context.Context, url string, onProgress func(written, total int64)) ([]byte, error)
}

// PipelineOptions configures a Pipeline.
type PipelineOptions struct {
	// Tagger writes ID3 frames after a download. Nil disables tagging.
	Tagger *audio.Tagger

	// ModifyTags writes text frames. When false, the file is only opened
	// to embed cover art.
	ModifyTags bool

	// EmbedCover fetches the cover and embeds it as the single picture frame.
	EmbedCover bool
	Cover      ioutils.CoverOptions

	Logger     *zap.Logger
	OnProgress func(ProgressEvent)

	// OnBytes receives byte progress of the current audio fetch.
	OnBytes func(written, total int64)
}

// Pipeline downloads one track at a time.
//
// Audio resolution is retried by the AudioResolver itself; the byte and
// cover fetches are retried here under the same policy.
type Pipeline struct {
	resolver lookup.AudioResolver
	fetcher  Fetcher
	policy   retry.Policy
	images   *ioutils.ImageService
	opts     PipelineOptions
	logger   *zap.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(resolver lookup.AudioResolver, fetcher Fetcher, policy retry.Policy, opts PipelineOptions) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		resolver: resolver,
		fetcher:  fetcher,
		policy:   policy,
		images:   ioutils.NewImageService(),
		opts:     opts,
		logger:   logger,
	}
}

// DownloadOne downloads track into outputDir.
//
// The steps are: existence check, audio resolution, byte fetch, exclusive
// write, tagging. A file that already exists yields Skipped before any
// network call. Any failure before the write yields Failed and leaves no
// file behind. Tagging problems are reported as warnings and do not change
// a Downloaded outcome.
func (p *Pipeline) DownloadOne(ctx context.Context, track model.Track, outputDir string) Outcome {
	path := filepath.Join(outputDir, track.FileName())
	outcome := Outcome{Track: track, Path: path}

	if ioutils.Exists(path) {
		p.progress(ProgressEvent{Message: fmt.Sprintf("Skipping existing: %s", filepath.Base(path)), Level: LevelVerbose})
		outcome.Kind = Skipped
		return outcome
	}

	start := time.Now()

	src, err := p.resolver.ResolveAudio(ctx, track.ID)
	if err != nil {
		return p.fail(outcome, fmt.Errorf("could not resolve audio: %w", err))
	}

	var data []byte
	err = p.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		data, err = p.fetcher.Download(ctx, src.Link, p.opts.OnBytes)
		return err
	})
	if err != nil {
		return p.fail(outcome, fmt.Errorf("could not fetch audio: %w", err))
	}

	if err := ioutils.WriteNew(path, data); err != nil {
		if errors.Is(err, ioutils.ErrExists) {
			p.progress(ProgressEvent{Message: fmt.Sprintf("Skipping existing: %s", filepath.Base(path)), Level: LevelVerbose})
			outcome.Kind = Skipped
			return outcome
		}
		return p.fail(outcome, fmt.Errorf("could not write file: %w", err))
	}

	outcome.Kind = Downloaded
	outcome.Bytes = int64(len(data))

	p.tag(ctx, path, track, src)

	p.logger.Debug("track downloaded",
		zap.String("id", track.ID),
		zap.String("path", path),
		zap.Int64("bytes", outcome.Bytes),
		zap.Duration("took", time.Since(start)))
	p.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s", filepath.Base(path)), Level: LevelVerbose})

	return outcome
}

// tag writes text frames and the cover. Failures only produce warnings.
func (p *Pipeline) tag(ctx context.Context, path string, track model.Track, src *lookup.AudioSource) {
	if p.opts.Tagger == nil {
		return
	}

	if track.Album == model.UnknownAlbum && src.Album != "" {
		track.Album = src.Album
	}

	var cover *audio.Cover
	if p.opts.EmbedCover {
		coverURL := track.CoverURL
		if coverURL == "" {
			coverURL = src.CoverURL
		}
		if coverURL != "" {
			cover = p.fetchCover(ctx, coverURL, track)
		}
	}

	if !p.opts.ModifyTags && cover == nil {
		return
	}

	if err := p.opts.Tagger.SaveTags(path, track, cover); err != nil {
		p.logger.Warn("tagging failed", zap.String("path", path), zap.Error(err))
		p.progress(ProgressEvent{Message: fmt.Sprintf("Could not tag %s", filepath.Base(path)), Level: LevelWarning})
	}
}

func (p *Pipeline) fetchCover(ctx context.Context, coverURL string, track model.Track) *audio.Cover {
	var raw []byte
	err := p.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		raw, err = p.fetcher.Download(ctx, coverURL, nil)
		return err
	})
	if err != nil {
		p.logger.Warn("cover fetch failed", zap.String("url", coverURL), zap.Error(err))
		p.progress(ProgressEvent{Message: fmt.Sprintf("Could not fetch cover art for %s", track.DisplayName()), Level: LevelWarning})
		return nil
	}

	data, mime := p.images.Prepare(ctx, raw, p.opts.Cover)
	return &audio.Cover{Data: data, MIME: mime}
}

func (p *Pipeline) fail(outcome Outcome, reason error) Outcome {
	outcome.Kind = Failed
	outcome.Reason = reason

	p.logger.Warn("track failed", zap.String("id", outcome.Track.ID), zap.Error(reason))
	p.progress(ProgressEvent{Message: fmt.Sprintf("Failed to download %s: %s", outcome.Track.DisplayName(), describe(reason)), Level: LevelError})
	return outcome
}

func (p *Pipeline) progress(event ProgressEvent) {
	if p.opts.OnProgress != nil {
		p.opts.OnProgress(event)
	}
}

// describe turns an error into a short message for the user.
func describe(err error) string {
	var apiErr *lookup.APIError
	switch {
	case errors.Is(err, context.Canceled):
		return "interrupted"
	case errors.Is(err, lookup.ErrUnreachable):
		return "could not reach server"
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, lookup.ErrMalformed):
		return "unexpected response from server"
	}

	var exhausted *retry.ExhaustedError
	if errors.As(err, &exhausted) {
		return fmt.Sprintf("gave up after %d attempts", exhausted.Attempts)
	}
	return err.Error()
}
