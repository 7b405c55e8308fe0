package render

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"bombview/surface"
	"bombview/world"
)

// DefaultEvery renders on every third display refresh, 20 passes a second
// at Ebiten's default 60 ticks per second.
const DefaultEvery = 3

// State is the loop's coarse mode.
type State uint8

const (
	Idle State = iota
	Viewing
)

func (s State) String() string {
	if s == Viewing {
		return "viewing"
	}
	return "idle"
}

// Stats counts loop activity since creation.
type Stats struct {
	Ticks     uint64
	Started   uint64
	Completed uint64
	Skipped   uint64
	Failed    uint64
}

// Loop schedules render passes against display refreshes. Passes run on
// their own goroutine into a back buffer and are published on completion.
type Loop struct {
	// Every is the number of ticks between passes; zero means DefaultEvery.
	Every int
	// OnError receives pass failures other than cancellation.
	OnError func(error)

	pipe *Pipeline
	reg  *world.Registry
	log  logrus.FieldLogger
	warn *rate.Limiter

	mu       sync.Mutex
	active   bool
	ticks    int
	inflight bool
	cancel   context.CancelFunc
	epoch    uint64
	front    *surface.Raster
	back     *surface.Raster
	gen      uint64
	stats    Stats
	wg       sync.WaitGroup
}

// NewLoop returns an inactive loop drawing reg through pipe.
func NewLoop(pipe *Pipeline, reg *world.Registry, log logrus.FieldLogger) *Loop {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Loop{
		pipe: pipe,
		reg:  reg,
		log:  log,
		warn: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
}

// Start activates the loop. Ticks before Start are ignored.
func (l *Loop) Start() {
	l.mu.Lock()
	l.active = true
	l.ticks = 0
	l.mu.Unlock()
}

// State reports Viewing once the registry holds a snapshot.
func (l *Loop) State() State {
	if l.reg.Viewing() {
		return Viewing
	}
	return Idle
}

// Tick is called once per display refresh.
func (l *Loop) Tick() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.active {
		return
	}
	l.stats.Ticks++
	every := l.Every
	if every <= 0 {
		every = DefaultEvery
	}
	l.ticks++
	if l.ticks%every != 0 {
		return
	}
	if l.inflight {
		l.stats.Skipped++
		return
	}
	v := ViewOf(l.reg)
	if v.Snapshot == nil {
		return
	}
	size := v.Snapshot.GameMap.PixelSize()
	if size.X <= 0 || size.Y <= 0 {
		return
	}
	if l.back == nil || l.back.Bounds().Size() != size {
		l.back = surface.NewRaster(size.X, size.Y)
	}
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.inflight = true
	l.stats.Started++
	l.wg.Add(1)
	go l.pass(ctx, l.epoch, l.back, v)
}

func (l *Loop) pass(ctx context.Context, epoch uint64, dst *surface.Raster, v View) {
	defer l.wg.Done()
	err := l.pipe.Render(ctx, dst, v)

	l.mu.Lock()
	if epoch != l.epoch {
		// Stopped while drawing.
		l.mu.Unlock()
		return
	}
	l.inflight = false
	l.cancel()
	l.cancel = nil
	if err != nil {
		l.stats.Failed++
		l.mu.Unlock()
		l.report(err)
		return
	}
	l.front, l.back = dst, l.front
	l.gen++
	l.stats.Completed++
	l.mu.Unlock()
}

func (l *Loop) report(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	if l.warn.Allow() {
		l.log.WithError(err).Warn("render pass failed")
	}
	if l.OnError != nil {
		l.OnError(err)
	}
}

// Frame returns the last completed frame and its generation, or nil before
// the first pass completes. The image stays valid until the next Tick.
func (l *Loop) Frame() (*image.RGBA, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.front == nil {
		return nil, l.gen
	}
	return l.front.Image(), l.gen
}

// Stats returns a copy of the counters.
func (l *Loop) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// RenderOnce draws the registry's current state synchronously into a new
// raster. It does not touch the published frame.
func (l *Loop) RenderOnce(ctx context.Context) (*image.RGBA, error) {
	v := ViewOf(l.reg)
	if v.Snapshot == nil {
		return nil, world.ErrNoSnapshot
	}
	size := v.Snapshot.GameMap.PixelSize()
	r := surface.NewRaster(size.X, size.Y)
	if err := l.pipe.Render(ctx, r, v); err != nil {
		return nil, err
	}
	return r.Image(), nil
}

// Wait blocks until no pass is running.
func (l *Loop) Wait() {
	l.wg.Wait()
}

// Stop cancels any running pass, waits for it and drops the published
// frame. The loop stays inactive until Start.
func (l *Loop) Stop() {
	l.mu.Lock()
	l.active = false
	l.epoch++
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.inflight = false
	l.front, l.back = nil, nil
	l.mu.Unlock()
	l.wg.Wait()
}
