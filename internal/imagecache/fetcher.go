package imagecache

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/desertthunder/herald/internal/shared"
)

// maxImageBytes caps how much of a cover image is read into the cache.
const maxImageBytes = 5 << 20

// Fetcher retrieves artwork over HTTP through the cache, so bulk runs touch
// each cover URL at most once per TTL window.
type Fetcher struct {
	cache  *Cache
	client *http.Client
}

// NewFetcher wraps the cache with an HTTP client. A nil client falls back to
// http.DefaultClient.
func NewFetcher(cache *Cache, client *http.Client) *Fetcher {
	if cache == nil {
		cache = New(0, 0)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{cache: cache, client: client}
}

// Fetch returns the image bytes for a URL, from cache when fresh.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if data, ok := f.cache.Get(url); ok {
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTransientNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: image fetch status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}

	f.cache.Put(url, data)
	return data, nil
}
