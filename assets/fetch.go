package assets

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"
)

// maxAssetSize bounds a single asset download.
const maxAssetSize = 16 << 20

// Fetcher returns the raw bytes stored at url.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) { return f(ctx, url) }

// FSFetcher reads assets from a file system. Leading slashes and "./" are
// stripped so configured paths can be written either way.
type FSFetcher struct {
	FS fs.FS
}

func (f FSFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	name := strings.TrimPrefix(strings.TrimLeft(url, "/"), "./")
	return fs.ReadFile(f.FS, name)
}

// HTTPFetcher downloads assets over HTTP.
type HTTPFetcher struct {
	Client *http.Client
}

// defaultHTTPClient keeps a stuck server from pinning a load forever.
var defaultHTTPClient = &http.Client{Timeout: 15 * time.Second}

func (f HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = defaultHTTPClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("http status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxAssetSize))
}

// SchemeFetcher sends http and https URLs to HTTP and everything else to
// Local.
type SchemeFetcher struct {
	Local  Fetcher
	Remote Fetcher
}

func (f SchemeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		if f.Remote == nil {
			return nil, fmt.Errorf("no remote fetcher")
		}
		return f.Remote.Fetch(ctx, url)
	}
	if f.Local == nil {
		return nil, fmt.Errorf("no local fetcher")
	}
	return f.Local.Fetch(ctx, url)
}
