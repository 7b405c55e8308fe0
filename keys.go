package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"bombview/input"
)

// keyBinding maps a physical key to a logical game key.
type keyBinding struct {
	key   ebiten.Key
	logic input.Key
}

// ebitenKey parses an Ebiten key name such as "Space" or "KeyB".
func ebitenKey(name string) (ebiten.Key, bool) {
	var k ebiten.Key
	if err := k.UnmarshalText([]byte(name)); err != nil {
		return 0, false
	}
	return k, true
}

// gameBindings returns the arrow keys, WASD and the configured action key.
func gameBindings(actionName string) []keyBinding {
	action, ok := ebitenKey(actionName)
	if !ok {
		action = ebiten.KeySpace
	}
	return []keyBinding{
		{ebiten.KeyArrowUp, input.KeyUp},
		{ebiten.KeyArrowDown, input.KeyDown},
		{ebiten.KeyArrowLeft, input.KeyLeft},
		{ebiten.KeyArrowRight, input.KeyRight},
		{ebiten.KeyW, input.KeyUp},
		{ebiten.KeyS, input.KeyDown},
		{ebiten.KeyA, input.KeyLeft},
		{ebiten.KeyD, input.KeyRight},
		{action, input.KeyAction},
	}
}

// pollKeys returns the transitions since the last tick. A logical key
// bound to two physical keys is released only when neither is held.
func pollKeys(bindings []keyBinding) []input.Event {
	var evs []input.Event
	for _, b := range bindings {
		switch {
		case inpututil.IsKeyJustPressed(b.key):
			evs = append(evs, input.Event{Key: b.logic, Pressed: true})
		case inpututil.IsKeyJustReleased(b.key):
			if !logicHeld(bindings, b.logic) {
				evs = append(evs, input.Event{Key: b.logic, Pressed: false})
			}
		}
	}
	return evs
}

func logicHeld(bindings []keyBinding, k input.Key) bool {
	for _, b := range bindings {
		if b.logic == k && ebiten.IsKeyPressed(b.key) {
			return true
		}
	}
	return false
}
