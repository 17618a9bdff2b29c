package download

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/handiism/flacsync/internal/httpx"
	"github.com/handiism/flacsync/internal/model"
)

// Service fetches one track to dest, returning the path actually written and
// the byte count.
type Service interface {
	Fetch(ctx context.Context, t *model.Track, dest string) (string, int64, error)
}

// Error wraps a provider failure with retry classification.
type Error struct {
	Provider  string
	Transient bool
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is worth retrying. Unclassified errors are
// treated as permanent.
func IsTransient(err error) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Transient
	}
	return false
}

// classify decides whether a raw transport error is transient. Rate limits,
// server errors, and network timeouts are; everything else is not.
func classify(err error) bool {
	var se *httpx.StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return false
}

// Client fetches tracks from one provider by content identifier.
type Client struct {
	name    string
	baseURL string
	httpx   *httpx.Client
}

// NewClient creates a provider client. baseURL is the provider's API root,
// e.g. "https://tidal.example.com".
func NewClient(name, baseURL string, hc *httpx.Client) *Client {
	if hc == nil {
		hc = httpx.NewClient()
	}
	return &Client{name: name, baseURL: baseURL, httpx: hc}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return c.name
}

// Fetch streams the recording identified by the track's content identifier
// to dest. A track without an identifier is a permanent error; the provider
// has no other way to find the recording.
func (c *Client) Fetch(ctx context.Context, t *model.Track, dest string) (string, int64, error) {
	if t.ISRC == "" {
		return "", 0, &Error{
			Provider: c.name,
			Err:      fmt.Errorf("track %q has no content identifier", t.Title),
		}
	}

	u := fmt.Sprintf("%s/api/track/%s", c.baseURL, url.PathEscape(t.ISRC))
	written, err := c.httpx.DownloadFile(ctx, u, dest)
	if err != nil {
		return "", 0, &Error{Provider: c.name, Transient: classify(err), Err: err}
	}
	return dest, written, nil
}

// Chain tries providers in order and returns the first success. A permanent
// error from one provider does not stop the chain; the next provider may
// still carry the recording.
type Chain struct {
	services []Service
}

// NewChain creates a Chain over services in priority order.
func NewChain(services ...Service) *Chain {
	return &Chain{services: services}
}

// Fetch tries each provider in order. When all fail, the last error is
// returned; it is transient only if every provider failed transiently, so
// the caller's retry budget is not spent on tracks no provider carries.
func (c *Chain) Fetch(ctx context.Context, t *model.Track, dest string) (string, int64, error) {
	if len(c.services) == 0 {
		return "", 0, &Error{Provider: "chain", Err: errors.New("no download providers configured")}
	}

	var (
		lastErr      error
		allTransient = true
	)
	for _, s := range c.services {
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}
		path, n, err := s.Fetch(ctx, t, dest)
		if err == nil {
			return path, n, nil
		}
		if !IsTransient(err) {
			allTransient = false
		}
		lastErr = err
	}

	var de *Error
	if errors.As(lastErr, &de) {
		return "", 0, &Error{Provider: de.Provider, Transient: allTransient, Err: de.Err}
	}
	return "", 0, lastErr
}
