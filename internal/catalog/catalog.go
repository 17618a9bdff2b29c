package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/handiism/flacsync/internal/httpx"
	"github.com/handiism/flacsync/internal/model"
)

// Reference identifies one catalog entity.
type Reference struct {
	Kind model.Kind
	ID   string
}

// ParseReference accepts a streaming-service URL or a compact "kind:id"
// string and returns the catalog reference it names.
func ParseReference(raw string) (Reference, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Reference{}, fmt.Errorf("empty catalog reference")
	}

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return Reference{}, fmt.Errorf("parsing reference %q: %w", raw, err)
		}
		segs := strings.Split(strings.Trim(u.Path, "/"), "/")
		for i := 0; i+1 < len(segs); i++ {
			if kind, ok := kindFromSegment(segs[i]); ok {
				id := segs[i+1]
				// Some services append query-ish suffixes to the id segment.
				if j := strings.IndexByte(id, '?'); j >= 0 {
					id = id[:j]
				}
				if id == "" {
					break
				}
				return Reference{Kind: kind, ID: id}, nil
			}
		}
		return Reference{}, fmt.Errorf("no track, album, or playlist segment in %q", raw)
	}

	if seg, id, ok := strings.Cut(raw, ":"); ok {
		if kind, known := kindFromSegment(seg); known && id != "" {
			return Reference{Kind: kind, ID: id}, nil
		}
	}
	return Reference{}, fmt.Errorf("unrecognized catalog reference %q", raw)
}

func kindFromSegment(s string) (model.Kind, bool) {
	switch s {
	case "track":
		return model.KindTrack, true
	case "album":
		return model.KindAlbum, true
	case "playlist":
		return model.KindPlaylist, true
	default:
		return 0, false
	}
}

// Client fetches metadata from a catalog proxy.
type Client struct {
	baseURL string
	httpx   *httpx.Client
}

// NewClient creates a Client against baseURL.
func NewClient(baseURL string, hc *httpx.Client) *Client {
	if hc == nil {
		hc = httpx.NewClient()
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpx: hc}
}

type trackDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Artists     string `json:"artists"`
	AlbumName   string `json:"album_name"`
	DurationMS  int    `json:"duration_ms"`
	TrackNumber int    `json:"track_number"`
	ReleaseDate string `json:"release_date"`
	ISRC        string `json:"isrc"`
}

func (d trackDTO) toTrack() *model.Track {
	return &model.Track{
		ID:          d.ID,
		Title:       d.Name,
		Artists:     d.Artists,
		Album:       d.AlbumName,
		Number:      d.TrackNumber,
		DurationMS:  d.DurationMS,
		ReleaseDate: d.ReleaseDate,
		ISRC:        d.ISRC,
	}
}

type albumDTO struct {
	AlbumInfo struct {
		Name        string `json:"name"`
		ReleaseDate string `json:"release_date"`
	} `json:"album_info"`
	TrackList []trackDTO `json:"track_list"`
}

type playlistDTO struct {
	PlaylistInfo struct {
		Name  string `json:"name"`
		Owner struct {
			Name string `json:"name"`
		} `json:"owner"`
	} `json:"playlist_info"`
	TrackList []trackDTO `json:"track_list"`
}

// Lookup resolves raw into a Collection. Track order follows the catalog
// response. Any failure here is fatal to the run; there is nothing to
// reconcile without metadata.
func (c *Client) Lookup(ctx context.Context, raw string) (*model.Collection, error) {
	ref, err := ParseReference(raw)
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/api/%s/%s", c.baseURL, ref.Kind, url.PathEscape(ref.ID))
	switch ref.Kind {
	case model.KindTrack:
		var dto trackDTO
		if err := c.httpx.GetJSON(ctx, u, &dto); err != nil {
			return nil, fmt.Errorf("catalog lookup %s: %w", raw, err)
		}
		t := dto.toTrack()
		return &model.Collection{Kind: ref.Kind, Name: t.Title, Tracks: []*model.Track{t}}, nil

	case model.KindAlbum:
		var dto albumDTO
		if err := c.httpx.GetJSON(ctx, u, &dto); err != nil {
			return nil, fmt.Errorf("catalog lookup %s: %w", raw, err)
		}
		col := &model.Collection{Kind: ref.Kind, Name: dto.AlbumInfo.Name}
		for _, td := range dto.TrackList {
			t := td.toTrack()
			if t.Album == "" {
				t.Album = dto.AlbumInfo.Name
			}
			if t.ReleaseDate == "" {
				t.ReleaseDate = dto.AlbumInfo.ReleaseDate
			}
			col.Tracks = append(col.Tracks, t)
		}
		return col, nil

	case model.KindPlaylist:
		var dto playlistDTO
		if err := c.httpx.GetJSON(ctx, u, &dto); err != nil {
			return nil, fmt.Errorf("catalog lookup %s: %w", raw, err)
		}
		col := &model.Collection{Kind: ref.Kind, Name: dto.PlaylistInfo.Name}
		for _, td := range dto.TrackList {
			col.Tracks = append(col.Tracks, td.toTrack())
		}
		return col, nil

	default:
		return nil, fmt.Errorf("unsupported reference kind %v", ref.Kind)
	}
}

// Lyrics fetches lyrics for a catalog track id. An empty body means the
// catalog has none.
func (c *Client) Lyrics(ctx context.Context, trackID string) (string, error) {
	u := fmt.Sprintf("%s/api/lyrics/%s", c.baseURL, url.PathEscape(trackID))
	var dto struct {
		Lyrics string `json:"lyrics"`
	}
	if err := c.httpx.GetJSON(ctx, u, &dto); err != nil {
		return "", fmt.Errorf("lyrics for %s: %w", trackID, err)
	}
	return dto.Lyrics, nil
}
