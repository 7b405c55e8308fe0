package assets

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"
)

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// countingFetcher serves one payload, counts calls and can be made to
// block until release is closed.
type countingFetcher struct {
	data    []byte
	err     error
	calls   atomic.Int32
	release chan struct{}
}

func (f *countingFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func TestCacheLoadsOncePerURL(t *testing.T) {
	f := &countingFetcher{data: pngBytes(t, 4, 4, color.White), release: make(chan struct{})}
	c := NewCache(f, nil)

	const n = 8
	var wg sync.WaitGroup
	results := make([]image.Image, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			img, err := c.Get(context.Background(), "assets/wall.png")
			if err != nil {
				t.Errorf("Get: %v", err)
				return
			}
			results[i] = img
		}(i)
	}
	// Give every goroutine a chance to join the in-flight load.
	time.Sleep(20 * time.Millisecond)
	close(f.release)
	wg.Wait()

	if got := f.calls.Load(); got != 1 {
		t.Fatalf("fetch calls = %d, want 1", got)
	}
	for i := 1; i < n; i++ {
		if results[i] != results[0] {
			t.Fatalf("result %d is a different image", i)
		}
	}
	if _, err := c.Get(context.Background(), "assets/wall.png"); err != nil {
		t.Fatalf("cached Get: %v", err)
	}
	if got := f.calls.Load(); got != 1 {
		t.Fatalf("fetch calls after cached Get = %d, want 1", got)
	}
}

func TestCacheDoesNotRememberFailures(t *testing.T) {
	f := &countingFetcher{err: errors.New("boom")}
	c := NewCache(f, nil)

	_, err := c.Get(context.Background(), "missing.png")
	var le *LoadError
	if !errors.As(err, &le) || le.URL != "missing.png" {
		t.Fatalf("err = %v, want LoadError for missing.png", err)
	}
	f.err = nil
	f.data = pngBytes(t, 2, 2, color.Black)
	if _, err := c.Get(context.Background(), "missing.png"); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if got := f.calls.Load(); got != 2 {
		t.Fatalf("fetch calls = %d, want 2", got)
	}
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
}

func TestCacheDecodeError(t *testing.T) {
	c := NewCache(FSFetcher{FS: fstest.MapFS{"bad.png": {Data: []byte("not a png")}}}, nil)
	_, err := c.Get(context.Background(), "bad.png")
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want LoadError", err)
	}
}

func TestCacheCanceledWait(t *testing.T) {
	f := &countingFetcher{data: pngBytes(t, 1, 1, color.White), release: make(chan struct{})}
	c := NewCache(f, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Get(ctx, "a.png"); err == nil {
		t.Fatalf("Get with canceled context succeeded")
	}
	close(f.release)
	// The abandoned load still completes and is cached.
	if _, err := c.Get(context.Background(), "a.png"); err != nil {
		t.Fatalf("Get after cancel: %v", err)
	}
	if got := f.calls.Load(); got != 1 {
		t.Fatalf("fetch calls = %d, want 1", got)
	}
}

func TestGetAllKeepsOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"a.png": {Data: pngBytes(t, 1, 1, color.White)},
		"b.png": {Data: pngBytes(t, 2, 2, color.White)},
		"c.png": {Data: pngBytes(t, 3, 3, color.White)},
	}
	c := NewCache(FSFetcher{FS: fsys}, nil)
	imgs, err := c.GetAll(context.Background(), "c.png", "a.png", "b.png")
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	for i, want := range []int{3, 1, 2} {
		if got := imgs[i].Bounds().Dx(); got != want {
			t.Fatalf("image %d width = %d, want %d", i, got, want)
		}
	}
	if _, err := c.GetAll(context.Background(), "a.png", "nope.png"); err == nil {
		t.Fatalf("GetAll with a missing asset succeeded")
	}
}

func TestSchemeFetcher(t *testing.T) {
	payload := pngBytes(t, 5, 5, color.White)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bomb.png" {
			http.NotFound(w, r)
			return
		}
		w.Write(payload)
	}))
	defer srv.Close()

	f := SchemeFetcher{
		Local:  FSFetcher{FS: fstest.MapFS{"assets/wall.png": {Data: payload}}},
		Remote: HTTPFetcher{Client: srv.Client()},
	}
	c := NewCache(f, nil)
	if _, err := c.Get(context.Background(), srv.URL+"/bomb.png"); err != nil {
		t.Fatalf("remote Get: %v", err)
	}
	if _, err := c.Get(context.Background(), "./assets/wall.png"); err != nil {
		t.Fatalf("local Get: %v", err)
	}
	if _, err := c.Get(context.Background(), srv.URL+"/gone.png"); err == nil {
		t.Fatalf("404 did not fail")
	}
}

func TestPrecache(t *testing.T) {
	fsys := fstest.MapFS{
		"a.png": {Data: pngBytes(t, 1, 1, color.White)},
		"b.png": {Data: pngBytes(t, 1, 1, color.White)},
	}
	c := NewCache(FSFetcher{FS: fsys}, nil)
	failed := Precache(context.Background(), c, []string{"a.png", "b.png", "c.png"}, 2)
	if failed != 1 {
		t.Fatalf("failed = %d, want 1", failed)
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
}
