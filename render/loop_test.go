package render

import (
	"context"
	"errors"
	"image"
	"sync/atomic"
	"testing"

	"bombview/assets"
	"bombview/world"
)

// gatedImages blocks every batch until release is closed or the pass is
// canceled.
type gatedImages struct {
	inner   *fakeImages
	release chan struct{}
	entered chan struct{}
}

func newGated() *gatedImages {
	return &gatedImages{inner: allImages(), release: make(chan struct{}), entered: make(chan struct{}, 64)}
}

func (g *gatedImages) GetAll(ctx context.Context, urls ...string) ([]image.Image, error) {
	g.entered <- struct{}{}
	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return g.inner.GetAll(ctx, urls...)
}

func TestLoopIgnoresTicksWhenIdle(t *testing.T) {
	l := NewLoop(NewPipeline(allImages(), testLocs), world.NewRegistry(), nil)
	l.Every = 1
	l.Tick()
	l.Start()
	l.Tick()
	l.Wait()
	if s := l.Stats(); s.Started != 0 || s.Ticks != 1 {
		t.Fatalf("stats = %+v, want one tick and no pass", s)
	}
	if l.State() != Idle {
		t.Fatalf("state = %v, want idle", l.State())
	}
}

func TestLoopEvery(t *testing.T) {
	reg := registryWith(t, false)
	l := NewLoop(NewPipeline(allImages(), testLocs), reg, nil)
	l.Start()
	for range 7 {
		l.Tick()
		l.Wait()
	}
	if s := l.Stats(); s.Started != 2 || s.Completed != 2 {
		t.Fatalf("stats = %+v, want 2 passes in 7 ticks", s)
	}
	img, gen := l.Frame()
	if img == nil || gen != 2 {
		t.Fatalf("Frame = %v, %d; want a frame at generation 2", img != nil, gen)
	}
	if l.State() != Viewing {
		t.Fatalf("state = %v, want viewing", l.State())
	}
}

func TestLoopSkipsWhilePassInFlight(t *testing.T) {
	reg := registryWith(t, false)
	g := newGated()
	l := NewLoop(NewPipeline(g, testLocs), reg, nil)
	l.Every = 1
	l.Start()

	l.Tick()
	<-g.entered
	l.Tick()
	l.Tick()
	if s := l.Stats(); s.Started != 1 || s.Skipped != 2 {
		t.Fatalf("stats = %+v, want 1 started and 2 skipped", s)
	}
	if img, _ := l.Frame(); img != nil {
		t.Fatalf("frame published before the pass finished")
	}
	close(g.release)
	l.Wait()
	if _, gen := l.Frame(); gen != 1 {
		t.Fatalf("generation = %d, want 1", gen)
	}
}

func TestLoopStopDiscardsRunningPass(t *testing.T) {
	reg := registryWith(t, false)
	g := newGated()
	l := NewLoop(NewPipeline(g, testLocs), reg, nil)
	var reported atomic.Int32
	l.OnError = func(error) { reported.Add(1) }
	l.Every = 1
	l.Start()

	l.Tick()
	<-g.entered
	l.Stop()

	if img, gen := l.Frame(); img != nil || gen != 0 {
		t.Fatalf("Frame after Stop = %v, %d", img != nil, gen)
	}
	if s := l.Stats(); s.Completed != 0 {
		t.Fatalf("stats = %+v, want nothing completed", s)
	}
	if reported.Load() != 0 {
		t.Fatalf("cancellation reported as an error")
	}
	l.Tick()
	if s := l.Stats(); s.Started != 1 {
		t.Fatalf("tick after Stop started a pass")
	}
}

func TestLoopReportsFailures(t *testing.T) {
	reg := registryWith(t, false)
	src := allImages()
	src.imgs = map[string]image.Image{}
	l := NewLoop(NewPipeline(src, testLocs), reg, nil)
	var got error
	done := make(chan struct{})
	l.OnError = func(err error) { got = err; close(done) }
	l.Every = 1
	l.Start()
	l.Tick()
	<-done
	l.Wait()
	var le *assets.LoadError
	if !errors.As(got, &le) {
		t.Fatalf("OnError got %v, want a load error", got)
	}
	if l.Stats().Failed != 1 {
		t.Fatalf("stats = %+v", l.Stats())
	}
}

func TestLoopRecoversAfterFailedPass(t *testing.T) {
	reg := registryWith(t, false, world.RemotePlayer{ID: "p1", IsAlive: true, Actions: world.ActionVector{MoveRight: true}})
	before, _ := reg.Player("p1")
	src := allImages()
	all := src.imgs
	src.imgs = map[string]image.Image{}
	l := NewLoop(NewPipeline(src, testLocs), reg, nil)
	l.Every = 1
	l.Start()

	l.Tick()
	l.Wait()
	if s := l.Stats(); s.Failed != 1 || s.Completed != 0 {
		t.Fatalf("stats = %+v, want one failed pass", s)
	}
	if img, _ := l.Frame(); img != nil {
		t.Fatalf("failed pass published a frame")
	}

	src.mu.Lock()
	src.imgs = all
	src.mu.Unlock()
	l.Tick()
	l.Wait()

	if s := l.Stats(); s.Completed != 1 || s.Failed != 1 {
		t.Fatalf("stats = %+v, want the retry to complete", s)
	}
	if img, gen := l.Frame(); img == nil || gen != 1 {
		t.Fatalf("Frame = %v, %d; want a frame at generation 1", img != nil, gen)
	}
	p, ok := reg.Player("p1")
	if !ok || p != before {
		t.Fatalf("player record replaced after a failed pass")
	}
	if got := p.State().Frame; got != 1 {
		t.Fatalf("frame = %d, want 1 (only the completed pass animates)", got)
	}
}
