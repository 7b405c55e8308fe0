package world

import (
	"sort"
	"sync"
)

// Delta summarizes what a reconciliation changed.
type Delta struct {
	Added       []string
	Removed     []string
	MapReplaced bool
}

// Registry owns the local player records and the last applied snapshot.
// All mutation goes through Initialize, Reconcile and Clear.
type Registry struct {
	mu      sync.RWMutex
	players map[string]*Player
	snap    *Snapshot
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{players: make(map[string]*Player)}
}

// Initialize discards any previous state and builds the registry from snap.
func (r *Registry) Initialize(snap *Snapshot) (Delta, error) {
	if err := snap.Validate(); err != nil {
		return Delta{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initLocked(snap), nil
}

func (r *Registry) initLocked(snap *Snapshot) Delta {
	var d Delta
	for id := range r.players {
		d.Removed = append(d.Removed, id)
	}
	r.players = make(map[string]*Player, len(snap.Players))
	for id, rp := range snap.Players {
		rp.ID = id
		r.players[id] = newPlayer(rp)
		d.Added = append(d.Added, id)
	}
	d.MapReplaced = true
	r.snap = snap
	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	return d
}

// Reconcile merges snap into the registry. Existing players are updated in
// place, unseen ids are created and ids missing from snap are dropped. A
// registry that was never initialized is initialized from snap.
//
// A snapshot that fails validation leaves the registry untouched.
func (r *Registry) Reconcile(snap *Snapshot) (Delta, error) {
	if err := snap.Validate(); err != nil {
		return Delta{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.snap == nil {
		return r.initLocked(snap), nil
	}
	var d Delta
	for id, rp := range snap.Players {
		rp.ID = id
		if p, ok := r.players[id]; ok {
			p.update(rp)
			continue
		}
		r.players[id] = newPlayer(rp)
		d.Added = append(d.Added, id)
	}
	for id := range r.players {
		if _, ok := snap.Players[id]; !ok {
			delete(r.players, id)
			d.Removed = append(d.Removed, id)
		}
	}
	d.MapReplaced = !r.snap.GameMap.sameShape(snap.GameMap)
	// Published snapshots are never written to, so a render pass may keep
	// reading the previous one while this one is installed.
	r.snap = snap
	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	return d, nil
}

// Clear drops every player and the current snapshot.
func (r *Registry) Clear() {
	r.mu.Lock()
	r.players = make(map[string]*Player)
	r.snap = nil
	r.mu.Unlock()
}

// Viewing reports whether a snapshot has been applied since the last Clear.
func (r *Registry) Viewing() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap != nil
}

// Snapshot returns the last applied snapshot, or nil. Callers must treat it
// as read-only.
func (r *Registry) Snapshot() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

// Player looks up the record for id.
func (r *Registry) Player(id string) (*Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[id]
	return p, ok
}

// Players returns the current records ordered by id.
func (r *Registry) Players() []*Player {
	r.mu.RLock()
	out := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// Len returns the number of players held.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}
