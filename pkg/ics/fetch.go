package ics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

const maxFeedSize = 10 << 20

type FetchResult struct {
	Body        []byte
	ETag        string
	NotModified bool
}

// Fetcher downloads ICS feeds, sending the last seen ETag so unchanged feeds
// are answered with 304.
type Fetcher struct {
	client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

func (f *Fetcher) Fetch(ctx context.Context, url, etag string) (FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FetchResult{}, fmt.Errorf("failed to create feed request: %w", err)
	}
	req.Header.Set("Accept", "text/calendar")
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return FetchResult{}, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		log.Debugf("feed %s not modified", url)
		return FetchResult{ETag: etag, NotModified: true}, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return FetchResult{}, fmt.Errorf("feed responded with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize))
	if err != nil {
		return FetchResult{}, fmt.Errorf("failed to read feed body: %w", err)
	}
	return FetchResult{Body: body, ETag: resp.Header.Get("ETag")}, nil
}
