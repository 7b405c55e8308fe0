package assets

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/remeh/sizedwaitgroup"
)

// Precache loads urls into c with at most workers loads in flight and
// returns how many failed. workers <= 0 uses one per CPU.
func Precache(ctx context.Context, c *Cache, urls []string, workers int) int {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	var failed atomic.Int32
	wg := sizedwaitgroup.New(workers)
	for _, u := range urls {
		if ctx.Err() != nil {
			break
		}
		wg.Add()
		go func(u string) {
			defer wg.Done()
			if _, err := c.Get(ctx, u); err != nil {
				c.log.WithError(err).WithField("url", u).Warn("precache failed")
				failed.Add(1)
			}
		}(u)
	}
	wg.Wait()
	return int(failed.Load())
}
