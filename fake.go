package main

import (
	"context"
	"sort"
	"sync"
	"time"

	"bombview/session"
	"bombview/world"
)

const (
	fakeRows     = 9
	fakeCols     = 11
	fakeStep     = 200 * time.Millisecond
	fakeFuse     = 10 // steps until a bomb explodes
	fakeBurn     = 3  // steps a tile stays on fire
	fakeMaxSteps = 900
	fakeLocalID  = "you"
	fakeBotID    = "bot"
)

type fakePlayer struct {
	pos     world.Point
	actions world.ActionVector
	alive   bool
	script  []world.ActionVector
}

// fakeArena is a small local game used by -fake: one keyboard player, one
// scripted bot, bombs with a plus-shaped blast and breakable walls.
type fakeArena struct {
	mu           sync.Mutex
	kinds        [][]world.ObjectKind
	players      map[string]*fakePlayer
	bombs        map[world.Point]int
	fire         map[world.Point]int
	collectibles map[world.Point]world.ObjectKind
	steps        int
	over         bool
	winner       *string
}

func newFakeArena() *fakeArena {
	a := &fakeArena{
		kinds:        make([][]world.ObjectKind, fakeRows),
		players:      make(map[string]*fakePlayer),
		bombs:        make(map[world.Point]int),
		fire:         make(map[world.Point]int),
		collectibles: make(map[world.Point]world.ObjectKind),
	}
	for r := range a.kinds {
		a.kinds[r] = make([]world.ObjectKind, fakeCols)
		for c := range a.kinds[r] {
			switch {
			case r == 0 || c == 0 || r == fakeRows-1 || c == fakeCols-1:
				a.kinds[r][c] = world.KindWall
			case r%2 == 0 && c%2 == 0:
				a.kinds[r][c] = world.KindWall
			case (r*7+c*3)%5 == 0 && !nearSpawn(r, c):
				a.kinds[r][c] = world.KindBreakable
			default:
				a.kinds[r][c] = world.KindWalkable
			}
		}
	}
	a.players[fakeLocalID] = &fakePlayer{pos: world.Point{Row: 1, Col: 1}, alive: true}

	right := world.ActionVector{MoveRight: true}
	left := world.ActionVector{MoveLeft: true}
	up := world.ActionVector{MoveUp: true}
	down := world.ActionVector{MoveDown: true}
	idle := world.ActionVector{}
	a.players[fakeBotID] = &fakePlayer{
		pos:   world.Point{Row: fakeRows - 2, Col: fakeCols - 2},
		alive: true,
		script: []world.ActionVector{
			up, up, left, left, {PlantBomb: true}, right, right, down, down, idle, idle, idle, idle, idle, idle,
		},
	}
	return a
}

func nearSpawn(r, c int) bool {
	return (r <= 2 && c <= 2) || (r >= fakeRows-3 && c >= fakeCols-3)
}

// SetActions replaces the local player's intent.
func (a *fakeArena) SetActions(v world.ActionVector) {
	a.mu.Lock()
	if p := a.players[fakeLocalID]; p != nil && p.alive {
		p.actions = v
	}
	a.mu.Unlock()
}

// Step advances the game by one tick.
func (a *fakeArena) Step() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.over {
		return
	}
	a.steps++

	for p, n := range a.fire {
		if n <= 1 {
			delete(a.fire, p)
		} else {
			a.fire[p] = n - 1
		}
	}

	for _, id := range a.ids() {
		p := a.players[id]
		if !p.alive {
			continue
		}
		if len(p.script) > 0 {
			p.actions = p.script[(a.steps-1)%len(p.script)]
		}
		a.move(p)
		if p.actions.PlantBomb {
			if _, ok := a.bombs[p.pos]; !ok {
				a.bombs[p.pos] = fakeFuse
			}
		}
		if k, ok := a.collectibles[p.pos]; ok {
			delete(a.collectibles, p.pos)
			logDebug("fake: %s picked up %s", id, k)
		}
	}

	var blasts []world.Point
	for p, n := range a.bombs {
		if n <= 1 {
			blasts = append(blasts, p)
		} else {
			a.bombs[p] = n - 1
		}
	}
	for len(blasts) > 0 {
		p := blasts[0]
		blasts = blasts[1:]
		if _, ok := a.bombs[p]; !ok {
			continue
		}
		delete(a.bombs, p)
		for _, t := range a.blast(p) {
			a.fire[t] = fakeBurn
			if _, ok := a.bombs[t]; ok {
				blasts = append(blasts, t)
			}
		}
	}

	alive := 0
	var last string
	for _, id := range a.ids() {
		p := a.players[id]
		if p.alive && a.fire[p.pos] > 0 {
			p.alive = false
			p.actions = world.ActionVector{}
		}
		if p.alive {
			alive++
			last = id
		}
	}
	switch {
	case alive == 1:
		a.over = true
		a.winner = &last
	case alive == 0 || a.steps >= fakeMaxSteps:
		a.over = true
	}
}

func (a *fakeArena) ids() []string {
	ids := make([]string, 0, len(a.players))
	for id := range a.players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (a *fakeArena) move(p *fakePlayer) {
	next := p.pos
	switch {
	case p.actions.MoveUp:
		next.Row--
	case p.actions.MoveRight:
		next.Col++
	case p.actions.MoveDown:
		next.Row++
	case p.actions.MoveLeft:
		next.Col--
	default:
		return
	}
	if a.kinds[next.Row][next.Col] != world.KindWalkable {
		return
	}
	if _, bomb := a.bombs[next]; bomb {
		return
	}
	p.pos = next
}

// blast returns the tiles reached by a bomb at p: the bomb tile and one
// tile in each direction, stopping at walls. Breakables burn and drop a
// pickup on every third hit.
func (a *fakeArena) blast(p world.Point) []world.Point {
	out := []world.Point{p}
	for _, d := range []world.Point{{Row: -1}, {Col: 1}, {Row: 1}, {Col: -1}} {
		t := world.Point{Row: p.Row + d.Row, Col: p.Col + d.Col}
		switch a.kinds[t.Row][t.Col] {
		case world.KindWall:
			continue
		case world.KindBreakable:
			a.kinds[t.Row][t.Col] = world.KindWalkable
			if (t.Row+t.Col)%3 == 0 {
				a.collectibles[t] = []world.ObjectKind{world.KindPowerUp, world.KindBombUp, world.KindSpeedUp}[(t.Row*t.Col)%3]
			}
		}
		out = append(out, t)
	}
	return out
}

// Snapshot builds a fresh game state. Nothing in it is shared with the
// arena.
func (a *fakeArena) Snapshot() *world.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	m := &world.GameMap{TileWidth: 32, TileHeight: 32, Tiles: make([][]*world.Tile, fakeRows)}
	for r := range a.kinds {
		m.Tiles[r] = make([]*world.Tile, fakeCols)
		for c, k := range a.kinds[r] {
			p := world.Point{Row: r, Col: c}
			t := &world.Tile{Object: world.Object{Kind: k, Coordinates: p}}
			if _, ok := a.bombs[p]; ok {
				t.Bombs = []world.Object{{Kind: world.KindBomb, Coordinates: p, Width: 16, Height: 16}}
			}
			t.OnFire = a.fire[p] > 0
			m.Tiles[r][c] = t
		}
	}
	snap := &world.Snapshot{
		GameID:     "fake",
		GameMap:    m,
		Players:    make(map[string]world.RemotePlayer, len(a.players)),
		IsOver:     a.over,
		Time:       int64(a.steps) * fakeStep.Milliseconds(),
		HasStarted: true,
	}
	if a.winner != nil {
		w := *a.winner
		snap.Winner = &w
	}
	for id, p := range a.players {
		snap.Players[id] = world.RemotePlayer{ID: id, IsAlive: p.alive, Coordinates: p.pos, Actions: p.actions}
	}
	for p, k := range a.collectibles {
		snap.Collectibles = append(snap.Collectibles, world.Collectible{Kind: k, Coordinates: p, Width: 24, Height: 24})
	}
	sort.Slice(snap.Collectibles, func(i, j int) bool {
		pi, pj := snap.Collectibles[i].Coordinates, snap.Collectibles[j].Coordinates
		return pi.Row < pj.Row || (pi.Row == pj.Row && pi.Col < pj.Col)
	})
	return snap
}

func (a *fakeArena) Over() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.over
}

// runFakeMode feeds arena snapshots to c without a server, starting a new
// arena a few seconds after each game ends.
func runFakeMode(ctx context.Context, c *client) {
	go func() {
		for ctx.Err() == nil {
			a := newFakeArena()
			c.setFake(a)
			c.applySnapshot(session.KindJoined, a.Snapshot())

			ticker := time.NewTicker(fakeStep)
			for !a.Over() {
				select {
				case <-ctx.Done():
					ticker.Stop()
					return
				case <-ticker.C:
				}
				a.Step()
				c.applySnapshot(session.KindState, a.Snapshot())
			}
			ticker.Stop()

			select {
			case <-ctx.Done():
				return
			case <-time.After(3 * time.Second):
			}
		}
	}()
}
