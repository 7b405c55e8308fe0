package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"bombview/assets"
	"bombview/input"
	"bombview/render"
	"bombview/session"
	"bombview/world"
)

var errNotConnected = errors.New("not connected")

// client wires the registry, the render loop, the input tracker and the
// server connection together.
type client struct {
	reg     *world.Registry
	cache   *assets.Cache
	locs    assets.Locations
	loop    *render.Loop
	tracker *input.Tracker
	notices *noticeList
	conn    *session.Connector

	mu           sync.Mutex
	playerID     string
	fake         *fakeArena
	overNotified bool
}

func newClient() *client {
	locs := spriteLocations()
	var fetch assets.Fetcher = assets.SchemeFetcher{
		Local:  assets.FSFetcher{FS: os.DirFS(".")},
		Remote: assets.HTTPFetcher{},
	}
	if gs.Placeholders {
		fetch = newPlaceholderFetcher(fetch, locs, gs.SpriteSize, gs.FrameCount)
	}
	cache := assets.NewCache(fetch, logger.WithField("component", "assets"))

	pipe := render.NewPipeline(cache, locs)
	pipe.Players.SpriteSize.X = gs.SpriteSize
	pipe.Players.SpriteSize.Y = gs.SpriteSize
	pipe.Players.FrameCount = gs.FrameCount

	c := &client{
		reg:      world.NewRegistry(),
		cache:    cache,
		locs:     locs,
		notices:  newNoticeList(),
		playerID: strings.TrimSpace(gs.PlayerID),
	}
	c.loop = render.NewLoop(pipe, c.reg, logger.WithField("component", "render"))
	c.loop.Every = gs.RenderEvery
	c.loop.OnError = c.renderFailed
	c.tracker = input.NewTracker(c.sendAction)
	c.conn = &session.Connector{
		URL:          gs.ServerURL,
		Options:      session.Options{Log: logger.WithField("component", "session")},
		OnConnect:    c.onConnect,
		OnDisconnect: c.onDisconnect,
	}
	return c
}

// precache warms the image cache in the background.
func (c *client) precache(ctx context.Context) {
	go func() {
		urls := c.locs.URLs()
		if n := assets.Precache(ctx, c.cache, urls, gs.PrecacheWorkers); n > 0 {
			logWarn("%d of %d sprites failed to load", n, len(urls))
		}
	}()
}

func (c *client) PlayerID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerID
}

func (c *client) Playing() bool {
	return c.PlayerID() != ""
}

func (c *client) setFake(a *fakeArena) {
	c.mu.Lock()
	c.fake = a
	c.mu.Unlock()
	c.tracker.Reset()
}

func (c *client) onConnect(s *session.Session) error {
	s.OnSnapshot(c.applySnapshot)
	s.OnError(c.notices.Add)
	if id := c.PlayerID(); id != "" {
		return s.JoinGame(id)
	}
	return s.ViewGame()
}

func (c *client) onDisconnect(err error) {
	var ce *session.ConnectionError
	if errors.As(err, &ce) {
		c.notices.Add(fmt.Sprintf("Unable to connect to server with url %s", ce.URL))
		return
	}
	c.notices.Add(err.Error())
}

func (c *client) renderFailed(err error) {
	var de *render.DrawError
	if errors.As(err, &de) {
		c.notices.Add(err.Error())
	}
}

// applySnapshot routes a snapshot into the registry: initial snapshots
// replace the view, later ones are reconciled into it.
func (c *client) applySnapshot(kind session.Kind, snap *world.Snapshot) {
	var (
		d   world.Delta
		err error
	)
	if kind.Initial() || !c.reg.Viewing() {
		d, err = c.reg.Initialize(snap)
	} else {
		d, err = c.reg.Reconcile(snap)
	}
	if err != nil {
		logWarn("apply %s: %v", kind, err)
		return
	}
	if len(d.Added) > 0 || len(d.Removed) > 0 || d.MapReplaced {
		logDebug("%s: +%v -%v map=%v", kind, d.Added, d.Removed, d.MapReplaced)
	}

	c.mu.Lock()
	notify := snap.IsOver && !c.overNotified
	c.overNotified = snap.IsOver
	c.mu.Unlock()
	if notify {
		notifyGameOver(snap)
	}
}

func (c *client) sendAction(v world.ActionVector) error {
	c.mu.Lock()
	id, fake := c.playerID, c.fake
	c.mu.Unlock()
	if fake != nil {
		fake.SetActions(v)
		return nil
	}
	s := c.conn.Session()
	if s == nil {
		return errNotConnected
	}
	return s.SendAction(id, v)
}

// handleKeys forwards key transitions while playing.
func (c *client) handleKeys(evs []input.Event) {
	if !c.Playing() {
		return
	}
	for _, ev := range evs {
		if _, err := c.tracker.Handle(ev); err != nil {
			logDebug("input: %v", err)
		}
	}
}

// join starts playing as id.
func (c *client) join(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return session.ErrEmptyPlayerID
	}
	c.mu.Lock()
	c.playerID = id
	c.mu.Unlock()
	if s := c.conn.Session(); s != nil {
		return s.JoinGame(id)
	}
	return nil
}

// leave gives up the player slot and returns to spectating with a clean
// view.
func (c *client) leave() {
	c.mu.Lock()
	wasPlaying := c.playerID != ""
	c.playerID = ""
	c.mu.Unlock()
	if !wasPlaying {
		return
	}
	s := c.conn.Session()
	if s != nil {
		if err := s.LeaveGame(); err != nil {
			logWarn("leave game: %v", err)
		}
	}
	c.loop.Stop()
	c.reg.Clear()
	c.tracker.Reset()
	c.loop.Start()
	if s != nil {
		if err := s.ViewGame(); err != nil {
			logWarn("view game: %v", err)
		}
	}
}
