package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	ioutils "github.com/spddl/spddl/internal/io"
	"gopkg.in/yaml.v2"
)

// URL matching modes.
const (
	MatchStrict    = "strict"
	MatchSubstring = "substring"
)

// Metadata sources.
const (
	SourceLookup  = "lookup"
	SourceSpotify = "spotify"
)

// Settings holds all configuration options.
type Settings struct {
	// Upstream API
	APIBaseURL        string            `yaml:"api_base_url"`
	MetadataPath      string            `yaml:"metadata_path"`
	TrackListPath     string            `yaml:"tracklist_path"`
	DownloadPath      string            `yaml:"download_path"`
	Headers           map[string]string `yaml:"headers"`
	RequestTimeout    float64           `yaml:"request_timeout"`
	RequestsPerSecond float64           `yaml:"requests_per_second"`

	// Retry settings
	MaxRetries int     `yaml:"max_retries"`
	RetryDelay float64 `yaml:"retry_delay"`

	// Resolution
	URLMatching         string `yaml:"url_matching"` // strict, substring
	Source              string `yaml:"source"`       // lookup, spotify
	SpotifyClientID     string `yaml:"spotify_client_id"`
	SpotifyClientSecret string `yaml:"spotify_client_secret"`

	// Output
	OutputDir string `yaml:"output_dir"`

	// Cover art settings
	EmbedCoverArt        bool `yaml:"embed_cover_art"`
	CoverArtResize       bool `yaml:"cover_art_resize"`
	CoverArtMaxSize      int  `yaml:"cover_art_max_size"`
	ConvertCoverArtToJPG bool `yaml:"convert_cover_art_to_jpg"`

	// Tag settings
	ModifyTags bool `yaml:"modify_tags"`

	// Playlist settings
	CreatePlaylist bool   `yaml:"create_playlist"`
	PlaylistFormat string `yaml:"playlist_format"` // m3u, pls
	M3UExtended    bool   `yaml:"m3u_extended"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		APIBaseURL:    "https://api.spotifydown.com",
		MetadataPath:  "/metadata/{kind}/{id}",
		TrackListPath: "/tracklist/{kind}/{id}",
		DownloadPath:  "/download/{id}",
		Headers: map[string]string{
			"Origin":  "https://spotifydown.com",
			"Referer": "https://spotifydown.com/",
		},
		RequestTimeout:    60,
		RequestsPerSecond: 0,

		MaxRetries: 3,
		RetryDelay: 2,

		URLMatching: MatchStrict,
		Source:      SourceLookup,

		EmbedCoverArt:        true,
		CoverArtResize:       false,
		CoverArtMaxSize:      1000,
		ConvertCoverArtToJPG: false,

		ModifyTags: true,

		CreatePlaylist: false,
		PlaylistFormat: "m3u",
		M3UExtended:    true,

		LogLevel: "error",
	}
}

// Load reads settings from a YAML file.
//
// Values missing from the file keep their defaults. A missing file is not
// an error; defaults are returned.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return settings, nil
}

// Save writes settings to a YAML file.
func (s *Settings) Save(path string) error {
	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return ioutils.WriteFile(path, data)
}

// Validate checks that the settings can drive a run.
func (s *Settings) Validate() error {
	var errs []error

	if u, err := url.Parse(s.APIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("api_base_url %q is not an absolute URL", s.APIBaseURL))
	}
	if s.MaxRetries < 1 {
		errs = append(errs, fmt.Errorf("max_retries must be at least 1, got %d", s.MaxRetries))
	}
	if s.RetryDelay < 0 {
		errs = append(errs, fmt.Errorf("retry_delay must not be negative, got %g", s.RetryDelay))
	}
	if s.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("requests_per_second must not be negative, got %g", s.RequestsPerSecond))
	}

	switch s.URLMatching {
	case MatchStrict, MatchSubstring:
	default:
		errs = append(errs, fmt.Errorf("url_matching must be %q or %q, got %q", MatchStrict, MatchSubstring, s.URLMatching))
	}

	switch s.Source {
	case SourceLookup:
	case SourceSpotify:
		if s.SpotifyClientID == "" || s.SpotifyClientSecret == "" {
			errs = append(errs, errors.New("source spotify requires spotify_client_id and spotify_client_secret"))
		}
	default:
		errs = append(errs, fmt.Errorf("source must be %q or %q, got %q", SourceLookup, SourceSpotify, s.Source))
	}

	switch s.PlaylistFormat {
	case "m3u", "pls":
	default:
		errs = append(errs, fmt.Errorf("playlist_format must be m3u or pls, got %q", s.PlaylistFormat))
	}

	switch s.LogLevel {
	case "debug", "info", "warn", "error", "off":
	default:
		errs = append(errs, fmt.Errorf("log_level must be one of debug, info, warn, error, off; got %q", s.LogLevel))
	}

	return errors.Join(errs...)
}

// RetryDelayDuration returns RetryDelay as a time.Duration.
func (s *Settings) RetryDelayDuration() time.Duration {
	return time.Duration(s.RetryDelay * float64(time.Second))
}

// RequestTimeoutDuration returns RequestTimeout as a time.Duration.
func (s *Settings) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout * float64(time.Second))
}

// ToCoverOptions converts the cover art settings for the image service.
func (s *Settings) ToCoverOptions() ioutils.CoverOptions {
	return ioutils.CoverOptions{
		Resize:        s.CoverArtResize,
		MaxSize:       s.CoverArtMaxSize,
		ConvertToJPEG: s.ConvertCoverArtToJPG,
	}
}

// BaseDir returns the directory downloads are written under: OutputDir if
// set, otherwise the current working directory.
func (s *Settings) BaseDir() (string, error) {
	if s.OutputDir != "" {
		return s.OutputDir, nil
	}
	return os.Getwd()
}
