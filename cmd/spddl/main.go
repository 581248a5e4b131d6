// Command spddl downloads a track, album or playlist as tagged MP3 files.
//
// Usage:
//
//	spddl [url] [flags]
//
// Without a URL argument the URL is asked for interactively. For albums
// and playlists the track list is shown and a selection is asked for,
// unless --all is given.
//
// Exit codes: 0 success or nothing selected, 1 fatal error, 2 every
// download failed, 3 some downloads failed, 130 interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spddl/spddl/internal/config"
	"github.com/spddl/spddl/internal/download"
	"github.com/spddl/spddl/internal/logging"
	"github.com/spddl/spddl/internal/model"
	"github.com/spddl/spddl/internal/selection"
	"github.com/spf13/cobra"
)

const toolVersion = "1.0.0"

// exitError carries a process exit code out of a cobra command. A nil err
// means the message was already shown.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// flags holds the command line options. Only flags the user actually set
// override the configuration file.
type flags struct {
	output     string
	configPath string
	retries    int
	retryDelay float64
	source     string
	playlist   bool
	noCover    bool
	logLevel   string
	verbose    bool
	all        bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:     "spddl [url]",
		Version: toolVersion,
		Short:   "Download tracks, albums and playlists as tagged MP3 files.",
		Long: `spddl resolves a track, album or playlist link, lets you pick the tracks
you want and saves them as MP3 files with title, artist, album and cover art
tags.

Single tracks are saved in the output directory; albums and playlists get a
folder named after them. Files that already exist are skipped.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd, f)
			if err != nil {
				return &exitError{code: download.ExitFatal, err: err}
			}

			var rawURL string
			if len(args) > 0 {
				rawURL = args[0]
			}
			return run(cmd.Context(), settings, f, rawURL)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.output, "output", "o", "", "Base directory for downloads (default: current directory)")
	fs.StringVar(&f.configPath, "config", "", "Path to a YAML config file")
	fs.IntVar(&f.retries, "retries", 0, "Attempts per network call (default 3)")
	fs.Float64Var(&f.retryDelay, "retry-delay", 0, "Seconds to wait between attempts (default 2)")
	fs.StringVar(&f.source, "source", "", "Metadata source: lookup or spotify")
	fs.BoolVar(&f.playlist, "playlist", false, "Write an M3U/PLS playlist for albums and playlists")
	fs.BoolVar(&f.noCover, "no-cover", false, "Do not embed cover art")
	fs.StringVar(&f.logLevel, "log-level", "", "Diagnostic log level: debug, info, warn, error, off")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "Show verbose output and debug logs")
	fs.BoolVar(&f.all, "all", false, "Download every track without asking")

	return cmd
}

// loadSettings reads the config file, if any, and applies the flags the
// user set on top.
func loadSettings(cmd *cobra.Command, f *flags) (*config.Settings, error) {
	settings := config.DefaultSettings()
	if f.configPath != "" {
		var err error
		settings, err = config.Load(f.configPath)
		if err != nil {
			return nil, err
		}
	}

	applyFlags(settings, f, cmd.Flags().Changed)

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration:\n%w", err)
	}
	return settings, nil
}

// applyFlags copies every flag for which changed reports true into settings.
func applyFlags(settings *config.Settings, f *flags, changed func(name string) bool) {
	if changed("output") {
		settings.OutputDir = f.output
	}
	if changed("retries") {
		settings.MaxRetries = f.retries
	}
	if changed("retry-delay") {
		settings.RetryDelay = f.retryDelay
	}
	if changed("source") {
		settings.Source = f.source
	}
	if changed("playlist") {
		settings.CreatePlaylist = f.playlist
	}
	if changed("no-cover") {
		settings.EmbedCoverArt = !f.noCover
	}
	if changed("log-level") {
		settings.LogLevel = f.logLevel
	}
	if f.verbose {
		settings.LogLevel = "debug"
	}
}

func run(ctx context.Context, settings *config.Settings, f *flags, rawURL string) error {
	logger, err := logging.NewStderr(settings.LogLevel)
	if err != nil {
		return &exitError{code: download.ExitFatal, err: err}
	}
	defer logger.Sync()

	console := newConsole(os.Stdout, f.verbose)
	console.banner()

	if rawURL == "" {
		rawURL, err = askURL()
		if err != nil {
			return promptExit(err)
		}
	}

	manager := download.NewManager(settings, download.Options{
		Logger:     logger,
		OnProgress: console.event,
		OnTrack:    console.startTrack,
		OnBytes:    console.bytes,
	})

	coll, err := manager.Resolve(ctx, rawURL)
	if err != nil {
		if ctx.Err() != nil {
			return &exitError{code: download.ExitInterrupted, err: errors.New("interrupted")}
		}
		return &exitError{code: download.ExitFatal, err: fmt.Errorf("could not resolve %s: %s", rawURL, userMessage(err))}
	}

	tracks := coll.Tracks
	if !coll.IsSingle() {
		console.trackTable(coll)
		if !f.all {
			tracks, err = chooseTracks(coll.Tracks)
			if err != nil {
				return promptExit(err)
			}
		}
	}

	summary, err := manager.Download(ctx, coll, tracks)
	if err != nil {
		if ctx.Err() != nil {
			if summary != nil {
				console.summary(summary)
			}
			return &exitError{code: download.ExitInterrupted, err: errors.New("interrupted")}
		}
		return &exitError{code: download.ExitFatal, err: err}
	}

	console.summary(summary)
	if code := summary.ExitCode(); code != download.ExitOK {
		return &exitError{code: code}
	}
	return nil
}

// chooseTracks asks which tracks to download.
func chooseTracks(tracks []model.Track) ([]model.Track, error) {
	input, err := askSelection(len(tracks))
	if err != nil {
		return nil, err
	}
	return selection.Select(tracks, input)
}

func execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			if exitErr.err != nil {
				colorError.Fprintln(os.Stderr, "Error:", exitErr.err)
			}
			return exitErr.code
		}
		colorError.Fprintln(os.Stderr, "Error:", err)
		return download.ExitFatal
	}
	return download.ExitOK
}

func main() {
	os.Exit(execute())
}
