// Package spotify resolves track, album and playlist URLs through the
// Spotify Web API instead of the lookup API.
//
// Authentication uses the OAuth2 client-credentials flow, so only public
// catalog data is reachable. The package produces the same
// model.Collection as the lookup resolver; audio links still come from the
// lookup API's download endpoint.
package spotify
