package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spddl/spddl/internal/lookup/dto"
	"github.com/spddl/spddl/internal/model"
	"github.com/spddl/spddl/internal/retry"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Fetcher performs a GET request and returns the body.
//
// *http.Client from internal/http satisfies it.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Resolver turns a URL into a collection of tracks.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (*model.Collection, error)
}

// AudioResolver turns a track id into a direct audio link.
type AudioResolver interface {
	ResolveAudio(ctx context.Context, trackID string) (*AudioSource, error)
}

// AudioSource is a direct audio link together with the metadata the
// download endpoint returns alongside it.
type AudioSource struct {
	Link     string
	Title    string
	Artists  string
	Album    string
	CoverURL string
}

// Endpoints locates the lookup API. Paths may use the {kind} and {id}
// placeholders.
type Endpoints struct {
	BaseURL       string
	MetadataPath  string
	TrackListPath string
	DownloadPath  string
}

// Client talks to the lookup API.
//
// Every request runs under the retry policy. Only errors the policy's
// predicate accepts are retried; envelope failures and malformed bodies
// are returned at once.
type Client struct {
	fetcher   Fetcher
	endpoints Endpoints
	policy    retry.Policy
	matching  string
	logger    *zap.Logger
}

// NewClient creates a lookup API client.
//
// matching is MatchStrict or MatchSubstring. A nil logger disables logging.
func NewClient(fetcher Fetcher, endpoints Endpoints, policy retry.Policy, matching string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		fetcher:   fetcher,
		endpoints: endpoints,
		policy:    policy,
		matching:  matching,
		logger:    logger,
	}
}

// Resolve classifies rawURL and fetches its metadata.
//
// Tracks take one request; albums take a header request and one listing
// request; playlists take a header request and one listing request per
// page, following nextOffset until the upstream stops sending it. No
// partial result is returned on failure.
func (c *Client) Resolve(ctx context.Context, rawURL string) (*model.Collection, error) {
	ref, err := ParseURL(rawURL, c.matching)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("resolving", zap.Stringer("kind", ref.Kind), zap.String("id", ref.ID))

	switch ref.Kind {
	case model.KindAlbum:
		return c.resolveAlbum(ctx, ref.ID)
	case model.KindPlaylist:
		return c.resolvePlaylist(ctx, ref.ID)
	default:
		return c.resolveTrack(ctx, ref.ID)
	}
}

// ResolveAudio asks the download endpoint for the audio link of trackID.
func (c *Client) ResolveAudio(ctx context.Context, trackID string) (*AudioSource, error) {
	var resp dto.Download
	if err := c.fetchJSON(ctx, c.endpointURL(c.endpoints.DownloadPath, model.KindTrack, trackID), &resp); err != nil {
		return nil, err
	}
	if resp.Link == "" {
		return nil, fmt.Errorf("%w: download response for %s has no link", ErrMalformed, trackID)
	}

	return &AudioSource{
		Link:     resp.Link,
		Title:    resp.Metadata.Title,
		Artists:  string(resp.Metadata.Artists),
		Album:    resp.Metadata.Album,
		CoverURL: resp.Metadata.Cover,
	}, nil
}

func (c *Client) resolveTrack(ctx context.Context, id string) (*model.Collection, error) {
	header, err := c.fetchHeader(ctx, model.KindTrack, id)
	if err != nil {
		return nil, err
	}

	track := model.NewTrack(id, header.Title, string(header.Artists), header.Album, header.Cover)
	return &model.Collection{
		Kind:        model.KindTrack,
		ID:          id,
		Title:       header.Title,
		Owner:       string(header.Artists),
		CoverURL:    header.Cover,
		ReleaseDate: header.ReleaseDate,
		Total:       1,
		Tracks:      []model.Track{track},
	}, nil
}

func (c *Client) resolveAlbum(ctx context.Context, id string) (*model.Collection, error) {
	header, err := c.fetchHeader(ctx, model.KindAlbum, id)
	if err != nil {
		return nil, err
	}

	var list dto.TrackList
	if err := c.fetchJSON(ctx, c.endpointURL(c.endpoints.TrackListPath, model.KindAlbum, id), &list); err != nil {
		return nil, err
	}
	if !list.NextOffset.Done() {
		c.logger.Warn("album listing reports further pages, ignoring", zap.String("id", id), zap.String("next_offset", string(list.NextOffset)))
	}

	coll := &model.Collection{
		Kind:        model.KindAlbum,
		ID:          id,
		Title:       header.Title,
		Owner:       string(header.Artists),
		CoverURL:    header.Cover,
		ReleaseDate: header.ReleaseDate,
	}

	for _, item := range list.Items() {
		if item.ID == "" {
			return nil, fmt.Errorf("%w: album %s lists a track without id", ErrMalformed, id)
		}
		coll.Tracks = append(coll.Tracks, model.NewTrack(item.ID, item.Title, string(item.Artists), header.Title, header.Cover))
	}
	coll.Total = len(coll.Tracks)

	return coll, nil
}

func (c *Client) resolvePlaylist(ctx context.Context, id string) (*model.Collection, error) {
	header, err := c.fetchHeader(ctx, model.KindPlaylist, id)
	if err != nil {
		return nil, err
	}

	coll := &model.Collection{
		Kind:     model.KindPlaylist,
		ID:       id,
		Title:    header.Title,
		Owner:    string(header.Artists),
		CoverURL: header.Cover,
	}

	listURL := c.endpointURL(c.endpoints.TrackListPath, model.KindPlaylist, id)
	seen := make(map[dto.Cursor]bool)
	var cursor dto.Cursor

	for page := 1; ; page++ {
		pageURL := listURL
		if cursor != "" {
			pageURL = withOffset(listURL, string(cursor))
		}

		var list dto.TrackList
		if err := c.fetchJSON(ctx, pageURL, &list); err != nil {
			return nil, err
		}

		for _, item := range list.Items() {
			if item.ID == "" {
				return nil, fmt.Errorf("%w: playlist %s lists a track without id", ErrMalformed, id)
			}
			coll.Tracks = append(coll.Tracks, model.NewTrack(item.ID, item.Title, string(item.Artists), item.Album, item.Cover))
		}

		c.logger.Debug("fetched playlist page",
			zap.String("id", id),
			zap.Int("page", page),
			zap.Int("tracks", len(coll.Tracks)),
			zap.String("next_offset", string(list.NextOffset)))

		next := list.NextOffset
		if next.Done() {
			break
		}
		if seen[next] {
			return nil, fmt.Errorf("%w: playlist %s repeats pagination cursor %q", ErrMalformed, id, next)
		}
		seen[next] = true
		cursor = next
	}

	coll.Total = len(coll.Tracks)
	return coll, nil
}

func (c *Client) fetchHeader(ctx context.Context, kind model.Kind, id string) (*dto.Metadata, error) {
	var header dto.Metadata
	if err := c.fetchJSON(ctx, c.endpointURL(c.endpoints.MetadataPath, kind, id), &header); err != nil {
		return nil, err
	}
	if header.Title == "" {
		return nil, fmt.Errorf("%w: %s %s has no title", ErrMalformed, kind, id)
	}
	return &header, nil
}

// fetchJSON GETs endpoint under the retry policy and decodes the body into out.
//
// The body must be a JSON object. An envelope with success:false becomes an
// *APIError carrying the upstream message.
func (c *Client) fetchJSON(ctx context.Context, endpoint string, out any) error {
	var body []byte
	err := c.policy.Do(ctx, func(ctx context.Context) error {
		b, err := c.fetcher.Get(ctx, endpoint)
		if err != nil {
			c.logger.Debug("request failed", zap.String("url", endpoint), zap.Error(err))
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return classify(err)
	}

	parsed := gjson.ParseBytes(body)
	if !gjson.ValidBytes(body) || !parsed.IsObject() {
		return fmt.Errorf("%w: %s did not return a JSON object", ErrMalformed, endpoint)
	}
	if success := parsed.Get("success"); success.Exists() && !success.Bool() {
		msg := parsed.Get("message").String()
		if msg == "" {
			msg = "unknown error"
		}
		return &APIError{Message: msg}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

func (c *Client) endpointURL(path string, kind model.Kind, id string) string {
	path = strings.ReplaceAll(path, "{kind}", kind.String())
	path = strings.ReplaceAll(path, "{id}", url.PathEscape(id))
	return strings.TrimSuffix(c.endpoints.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}

func withOffset(rawURL, offset string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL + "?offset=" + url.QueryEscape(offset)
	}
	q := u.Query()
	q.Set("offset", offset)
	u.RawQuery = q.Encode()
	return u.String()
}
