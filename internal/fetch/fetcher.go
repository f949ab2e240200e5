// Package fetch retrieves the latest launch document from the upstream API.
// One attempt per run: any network, decode, or non-2xx outcome is fatal for
// the run and reported as a fetch error, distinct from validation failures.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"launchfeed/internal/launch"
)

// ErrStatus indicates the endpoint answered with a non-success HTTP status.
var ErrStatus = errors.New("unexpected http status")

// Fetcher performs the single network call of a run.
type Fetcher struct {
	client *http.Client
	url    string
	now    func() time.Time
}

// Option adjusts Fetcher construction.
type Option func(*Fetcher)

// WithClient overrides the HTTP client (tests).
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithNow overrides the clock used to stamp fetched_at (tests).
func WithNow(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

// New constructs a Fetcher for the given endpoint.
func New(url string, timeout time.Duration, opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: timeout},
		url:    url,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Latest fetches and parses one launch document, returning it together with
// the UTC retrieval timestamp. The document is returned verbatim; no derived
// fields are injected into it.
func (f *Fetcher) Latest(ctx context.Context) (launch.Document, time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("fetch %s: %w", f.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, time.Time{}, fmt.Errorf("fetch %s: %w: %s", f.url, ErrStatus, resp.Status)
	}

	var doc launch.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, time.Time{}, fmt.Errorf("decode response: %w", err)
	}
	return doc, f.now().UTC(), nil
}
