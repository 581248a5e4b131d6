// Package lookup resolves streaming-service URLs to track metadata through
// the third-party lookup API, and resolves track ids to direct audio links.
//
// The package handles three steps:
//
//  1. Classifying a URL as a track, album or playlist (ParseURL)
//  2. Fetching the collection header and track listing, following the
//     playlist pagination cursor until the last page (Client.Resolve)
//  3. Resolving a track id to a direct audio link (Client.ResolveAudio)
//
// # Basic Usage
//
//	client := lookup.NewClient(httpClient, endpoints, policy, lookup.MatchStrict, logger)
//	coll, err := client.Resolve(ctx, "https://open.spotify.com/album/1A2B3C")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s by %s (%d tracks)\n", coll.Title, coll.Owner, len(coll.Tracks))
//
// # Errors
//
// Failures are reported as one of:
//   - ErrUnreachable: the server could not be reached after all retries
//   - *APIError: the server answered but reported a failure
//   - ErrMalformed: the response did not have the expected shape
//   - ErrUnsupportedURL: the URL does not name a track, album or playlist
package lookup
