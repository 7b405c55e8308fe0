package main

import (
	"testing"

	"bombview/world"
)

func TestFakeArenaWallsBlockMovement(t *testing.T) {
	a := newFakeArena()
	a.SetActions(world.ActionVector{MoveUp: true})
	a.Step()
	if got := a.Snapshot().Players[fakeLocalID].Coordinates; got != (world.Point{Row: 1, Col: 1}) {
		t.Fatalf("walked into the wall: %+v", got)
	}
	a.SetActions(world.ActionVector{MoveRight: true})
	a.Step()
	if got := a.Snapshot().Players[fakeLocalID].Coordinates; got != (world.Point{Row: 1, Col: 2}) {
		t.Fatalf("moved to %+v", got)
	}
}

func TestFakeArenaOwnBombLosesTheGame(t *testing.T) {
	a := newFakeArena()
	a.SetActions(world.ActionVector{PlantBomb: true})
	a.Step()
	a.SetActions(world.ActionVector{})
	snap := a.Snapshot()
	if len(snap.GameMap.At(1, 1).Bombs) != 1 {
		t.Fatalf("no bomb under the player")
	}
	for i := 0; i < fakeFuse*2 && !a.Over(); i++ {
		a.Step()
	}
	if !a.Over() {
		t.Fatalf("game not over")
	}
	snap = a.Snapshot()
	if w, ok := snap.WinnerID(); !ok || w != fakeBotID {
		t.Fatalf("winner = %v %v", w, ok)
	}
	if snap.Players[fakeLocalID].IsAlive {
		t.Fatalf("player survived its own bomb")
	}
	if !snap.GameMap.At(1, 1).OnFire {
		t.Fatalf("bomb tile not on fire")
	}
}

func TestFakeArenaSnapshotIsValidAndFresh(t *testing.T) {
	a := newFakeArena()
	s1 := a.Snapshot()
	if err := s1.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if s1.GameMap.Rows() != fakeRows || s1.GameMap.Cols() != fakeCols {
		t.Fatalf("size %dx%d", s1.GameMap.Rows(), s1.GameMap.Cols())
	}
	s1.GameMap.At(1, 1).Kind = world.KindWall
	if a.Snapshot().GameMap.At(1, 1).Kind != world.KindWalkable {
		t.Fatalf("snapshot shares tiles with the arena")
	}
	a.Step()
	if got := a.Snapshot().Time; got != fakeStep.Milliseconds() {
		t.Fatalf("time = %d", got)
	}
}
