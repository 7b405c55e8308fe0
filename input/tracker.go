// Package input turns key transitions into action vectors and forwards
// them only when they change.
package input

import (
	"fmt"
	"strings"
	"sync"

	"bombview/world"
)

// Key is a logical game key.
type Key uint8

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyAction
)

var keyNames = [...]string{
	KeyNone:   "none",
	KeyUp:     "up",
	KeyDown:   "down",
	KeyLeft:   "left",
	KeyRight:  "right",
	KeyAction: "action",
}

func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("key(%d)", k)
}

func (k Key) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Key) UnmarshalText(b []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(b)))
	for i, n := range keyNames {
		if n == name {
			*k = Key(i)
			return nil
		}
	}
	return fmt.Errorf("input: unknown key %q", name)
}

// Event is one key press or release.
type Event struct {
	Key     Key
	Pressed bool
}

// apply sets the flag implied by k. ok is false for unmapped keys.
func apply(v world.ActionVector, k Key, pressed bool) (world.ActionVector, bool) {
	switch k {
	case KeyUp:
		v.MoveUp = pressed
	case KeyDown:
		v.MoveDown = pressed
	case KeyLeft:
		v.MoveLeft = pressed
	case KeyRight:
		v.MoveRight = pressed
	case KeyAction:
		v.PlantBomb = pressed
	default:
		return v, false
	}
	return v, true
}

// SendFunc delivers an action vector to the server.
type SendFunc func(world.ActionVector) error

// Tracker holds the local action vector and the last one the server
// accepted. Both start all-false.
type Tracker struct {
	send SendFunc

	mu      sync.Mutex
	current world.ActionVector
	sent    world.ActionVector
}

// NewTracker returns a tracker forwarding changes to send.
func NewTracker(send SendFunc) *Tracker {
	return &Tracker{send: send}
}

// Handle applies ev and sends the resulting vector if it differs from the
// last one sent. It reports whether a message went out. A failed send
// leaves the previous vector recorded so the next change retries.
func (t *Tracker) Handle(ev Event) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	next, ok := apply(t.current, ev.Key, ev.Pressed)
	if !ok {
		return false, nil
	}
	t.current = next
	if next == t.sent {
		return false, nil
	}
	if t.send != nil {
		if err := t.send(next); err != nil {
			return false, fmt.Errorf("send %v: %w", next, err)
		}
	}
	t.sent = next
	return true, nil
}

// Current returns the local vector.
func (t *Tracker) Current() world.ActionVector {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Sent returns the last vector delivered.
func (t *Tracker) Sent() world.ActionVector {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sent
}

// Reset forgets both vectors.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.current = world.ActionVector{}
	t.sent = world.ActionVector{}
	t.mu.Unlock()
}
