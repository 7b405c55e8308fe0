package world

import "sync"

// Player is the client-owned record of one player. The registry keeps one
// *Player per id for as long as the id stays in the snapshots, so the
// animation state carried here survives reconciliation.
type Player struct {
	id string

	mu     sync.Mutex
	alive  bool
	coords Point
	anim   Animation
}

// PlayerState is a point-in-time copy of a Player.
type PlayerState struct {
	ID          string
	IsAlive     bool
	Coordinates Point
	Animation
}

func newPlayer(rp RemotePlayer) *Player {
	return &Player{
		id:     rp.ID,
		alive:  rp.IsAlive,
		coords: rp.Coordinates,
		anim:   NewAnimation(rp.Actions),
	}
}

// ID returns the player id.
func (p *Player) ID() string { return p.id }

// State returns a copy of the player's current fields.
func (p *Player) State() PlayerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stateLocked()
}

// Animate advances the walk cycle by one rendered frame and returns the
// resulting state.
func (p *Player) Animate() PlayerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.anim.Step()
	return p.stateLocked()
}

func (p *Player) stateLocked() PlayerState {
	return PlayerState{
		ID:          p.id,
		IsAlive:     p.alive,
		Coordinates: p.coords,
		Animation:   p.anim,
	}
}

// update replaces the authoritative fields and routes the intent through
// the animation state machine.
func (p *Player) update(rp RemotePlayer) {
	p.mu.Lock()
	p.alive = rp.IsAlive
	p.coords = rp.Coordinates
	p.anim.Apply(rp.Actions)
	p.mu.Unlock()
}
