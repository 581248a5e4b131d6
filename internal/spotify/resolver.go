package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	httpclient "github.com/spddl/spddl/internal/http"
	"github.com/spddl/spddl/internal/lookup"
	"github.com/spddl/spddl/internal/model"
	"github.com/spddl/spddl/internal/retry"
	spotifyapi "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"
)

// pageSize is the largest page the Web API hands out for playlist items.
const pageSize = 100

// Resolver implements lookup.Resolver on top of the Spotify Web API.
type Resolver struct {
	client   *spotifyapi.Client
	matching string
	policy   retry.Policy
	logger   *zap.Logger
}

// Authenticate fetches a client-credentials token and returns an API
// client that carries it.
func Authenticate(ctx context.Context, clientID, clientSecret string) (*spotifyapi.Client, error) {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	token, err := config.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("spotify authentication failed: %w", err)
	}

	return spotifyapi.New(spotifyauth.New().Client(ctx, token)), nil
}

// NewResolver wraps an authenticated client.
//
// Retryable API failures (429 and 5xx) are retried under policy; its
// Retryable predicate is replaced.
func NewResolver(client *spotifyapi.Client, matching string, policy retry.Policy, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	policy.Retryable = isTransient
	return &Resolver{
		client:   client,
		matching: matching,
		policy:   policy,
		logger:   logger,
	}
}

// Resolve classifies rawURL and fetches its metadata from the Web API.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (*model.Collection, error) {
	ref, err := lookup.ParseURL(rawURL, r.matching)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("resolving via spotify", zap.Stringer("kind", ref.Kind), zap.String("id", ref.ID))

	var coll *model.Collection
	switch ref.Kind {
	case model.KindAlbum:
		coll, err = r.resolveAlbum(ctx, spotifyapi.ID(ref.ID))
	case model.KindPlaylist:
		coll, err = r.resolvePlaylist(ctx, spotifyapi.ID(ref.ID))
	default:
		coll, err = r.resolveTrack(ctx, spotifyapi.ID(ref.ID))
	}
	if err != nil {
		return nil, classify(err)
	}
	return coll, nil
}

func (r *Resolver) resolveTrack(ctx context.Context, id spotifyapi.ID) (*model.Collection, error) {
	var track *spotifyapi.FullTrack
	err := r.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		track, err = r.client.GetTrack(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	artists := joinArtists(track.Artists)
	cover := firstImage(track.Album.Images)
	return &model.Collection{
		Kind:        model.KindTrack,
		ID:          string(id),
		Title:       track.Name,
		Owner:       artists,
		CoverURL:    cover,
		ReleaseDate: track.Album.ReleaseDate,
		Total:       1,
		Tracks: []model.Track{
			model.NewTrack(string(id), track.Name, artists, track.Album.Name, cover),
		},
	}, nil
}

func (r *Resolver) resolveAlbum(ctx context.Context, id spotifyapi.ID) (*model.Collection, error) {
	var album *spotifyapi.FullAlbum
	err := r.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		album, err = r.client.GetAlbum(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	cover := firstImage(album.Images)
	coll := &model.Collection{
		Kind:        model.KindAlbum,
		ID:          string(id),
		Title:       album.Name,
		Owner:       joinArtists(album.Artists),
		CoverURL:    cover,
		ReleaseDate: album.ReleaseDate,
		Total:       int(album.Tracks.Total),
	}

	page := &album.Tracks
	for {
		for _, t := range page.Tracks {
			if t.ID == "" {
				r.logger.Debug("skipping album track without an id", zap.String("album", string(id)), zap.String("title", t.Name))
				continue
			}
			coll.Tracks = append(coll.Tracks, model.NewTrack(string(t.ID), t.Name, joinArtists(t.Artists), album.Name, cover))
		}

		done, err := r.nextPage(ctx, page)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}

	return coll, nil
}

func (r *Resolver) resolvePlaylist(ctx context.Context, id spotifyapi.ID) (*model.Collection, error) {
	var playlist *spotifyapi.FullPlaylist
	err := r.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		playlist, err = r.client.GetPlaylist(ctx, id, spotifyapi.Fields("id,name,owner(display_name,id),images"))
		return err
	})
	if err != nil {
		return nil, err
	}

	coll := &model.Collection{
		Kind:     model.KindPlaylist,
		ID:       string(id),
		Title:    playlist.Name,
		Owner:    playlist.Owner.DisplayName,
		CoverURL: firstImage(playlist.Images),
	}

	var items *spotifyapi.PlaylistItemPage
	err = r.policy.Do(ctx, func(ctx context.Context) error {
		var err error
		items, err = r.client.GetPlaylistItems(ctx, id, spotifyapi.Limit(pageSize))
		return err
	})
	if err != nil {
		return nil, err
	}
	coll.Total = int(items.Total)

	for {
		for _, item := range items.Items {
			t := item.Track.Track
			if t == nil {
				r.logger.Debug("skipping playlist item without a track", zap.String("playlist", string(id)))
				continue
			}
			if t.ID == "" {
				r.logger.Debug("skipping local file", zap.String("playlist", string(id)), zap.String("title", t.Name))
				continue
			}
			coll.Tracks = append(coll.Tracks, model.NewTrack(string(t.ID), t.Name, joinArtists(t.Artists), t.Album.Name, firstImage(t.Album.Images)))
		}

		done, err := r.nextPage(ctx, items)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}

	return coll, nil
}

// nextPage advances page in place and reports whether it was the last one.
func (r *Resolver) nextPage(ctx context.Context, page any) (bool, error) {
	var err error
	switch p := page.(type) {
	case *spotifyapi.SimpleTrackPage:
		if p.Next == "" {
			return true, nil
		}
		err = r.policy.Do(ctx, func(ctx context.Context) error { return r.client.NextPage(ctx, p) })
	case *spotifyapi.PlaylistItemPage:
		if p.Next == "" {
			return true, nil
		}
		err = r.policy.Do(ctx, func(ctx context.Context) error { return r.client.NextPage(ctx, p) })
	default:
		return true, nil
	}

	if errors.Is(err, spotifyapi.ErrNoMorePages) {
		return true, nil
	}
	return false, err
}

func joinArtists(artists []spotifyapi.SimpleArtist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// firstImage returns the widest image; the API lists them widest first.
func firstImage(images []spotifyapi.Image) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}

func isTransient(err error) bool {
	var apiErr spotifyapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusTooManyRequests || apiErr.Status >= 500
	}
	return httpclient.IsTransient(err)
}

// classify maps Web API failures onto the lookup error kinds.
func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr spotifyapi.Error
	if errors.As(err, &apiErr) {
		if isTransient(apiErr) {
			return fmt.Errorf("%w: %v", lookup.ErrUnreachable, err)
		}
		return &lookup.APIError{StatusCode: apiErr.Status, Message: apiErr.Message}
	}

	if httpclient.IsTransient(err) {
		return fmt.Errorf("%w: %v", lookup.ErrUnreachable, err)
	}
	return fmt.Errorf("spotify: %w", err)
}
