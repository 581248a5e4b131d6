// Package http provides the HTTP client used for the lookup API and for
// fetching audio and cover art bytes.
//
// The Client in this package handles:
//   - Static headers identifying the calling origin
//   - Optional request rate limiting
//   - Whole-body downloads with progress tracking
//   - Error classification for retry decisions
//
// # Basic Usage
//
//	client := http.NewClient(http.Options{Headers: headers})
//
//	// Fetch JSON
//	body, err := client.Get(ctx, "https://api.example.com/metadata/album/123")
//
//	// Download audio with progress callback
//	data, err := client.Download(ctx, link, func(written, total int64) {
//	    fmt.Printf("%d/%d\n", written, total)
//	})
//
// # Error Classification
//
// Use IsTransient as a retry predicate: it accepts transport failures,
// timeouts and 408, 429 and 5xx responses, and rejects everything else.
package http
