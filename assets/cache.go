// Package assets loads and memoizes the sprite images used by the renderer.
package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"

	// Decoders for the asset formats we accept.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// LoadError reports an asset that could not be fetched or decoded.
type LoadError struct {
	URL string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("assets: load %s: %v", e.URL, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Cache resolves each distinct URL to a decoded image exactly once. Failed
// loads are not remembered, so the next Get retries. Entries are never
// evicted.
type Cache struct {
	fetch Fetcher
	log   logrus.FieldLogger

	mu     sync.RWMutex
	images map[string]image.Image
	group  singleflight.Group
}

// NewCache returns a cache that loads through f. A nil logger uses the
// logrus standard logger.
func NewCache(f Fetcher, log logrus.FieldLogger) *Cache {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Cache{
		fetch:  f,
		log:    log,
		images: make(map[string]image.Image),
	}
}

// Get returns the image for url, loading it on first use. Concurrent calls
// for the same url share one load. Canceling ctx abandons the wait only;
// the load keeps running and its result is still cached.
func (c *Cache) Get(ctx context.Context, url string) (image.Image, error) {
	if img, ok := c.lookup(url); ok {
		return img, nil
	}
	ch := c.group.DoChan(url, func() (any, error) {
		if img, ok := c.lookup(url); ok {
			return img, nil
		}
		img, err := c.load(url)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.images[url] = img
		c.mu.Unlock()
		return img, nil
	})
	select {
	case <-ctx.Done():
		return nil, &LoadError{URL: url, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(image.Image), nil
	}
}

// GetAll resolves every url concurrently and returns the images in
// argument order. The first failure is returned.
func (c *Cache) GetAll(ctx context.Context, urls ...string) ([]image.Image, error) {
	out := make([]image.Image, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		g.Go(func() error {
			img, err := c.Get(gctx, u)
			if err != nil {
				return err
			}
			out[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

func (c *Cache) lookup(url string) (image.Image, bool) {
	c.mu.RLock()
	img, ok := c.images[url]
	c.mu.RUnlock()
	return img, ok
}

// load runs detached from any single caller so that one caller giving up
// does not fail the others waiting on the same url.
func (c *Cache) load(url string) (image.Image, error) {
	if c.fetch == nil {
		return nil, &LoadError{URL: url, Err: fmt.Errorf("no fetcher")}
	}
	data, err := c.fetch.Fetch(context.Background(), url)
	if err != nil {
		return nil, &LoadError{URL: url, Err: err}
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &LoadError{URL: url, Err: err}
	}
	b := img.Bounds()
	c.log.WithField("url", url).Debugf("loaded %s %dx%d (%s)", format, b.Dx(), b.Dy(), humanize.Bytes(uint64(len(data))))
	return img, nil
}
