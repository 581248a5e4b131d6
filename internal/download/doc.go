// Package download fetches the audio of resolved tracks and writes them as
// tagged MP3 files.
//
// # Manager
//
// The Manager coordinates one run:
//
//  1. Resolve the input URL to a collection of tracks
//  2. Compute and create the output directory
//  3. Download the selected tracks one after another
//  4. Tag MP3 files with ID3 metadata and cover art
//  5. Generate a playlist (optional)
//  6. Fold the per-track outcomes into a Summary
//
// # Basic Usage
//
//	manager := download.NewManager(settings, download.Options{
//	    OnProgress: func(event download.ProgressEvent) {
//	        fmt.Println(event.Message)
//	    },
//	})
//
//	coll, err := manager.Resolve(ctx, "https://open.spotify.com/album/...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	summary, err := manager.Download(ctx, coll, coll.Tracks)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Exit(summary.ExitCode())
//
// # Pipeline
//
// Each track goes through Pipeline.DownloadOne, which returns an Outcome:
// Downloaded, Skipped (the file already exists) or Failed with a reason.
// The existence check comes first, so a skipped track costs no network
// call. Existing files are never overwritten.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// # Retry Logic
//
// Network calls run under a retry.Policy built from settings.MaxRetries and
// settings.RetryDelay. Only transient failures are retried.
package download
