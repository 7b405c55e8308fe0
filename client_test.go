package main

import (
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bombview/session"
	"bombview/world"
)

func newTestClient(t *testing.T) *client {
	t.Helper()
	withSettings(t)
	t.Chdir(t.TempDir())
	gs.Notifications = false
	return newClient()
}

func TestClientAppliesSnapshots(t *testing.T) {
	c := newTestClient(t)
	c.playerID = fakeLocalID
	a := newFakeArena()
	c.setFake(a)

	c.applySnapshot(session.KindJoined, a.Snapshot())
	if !c.reg.Viewing() || c.reg.Len() != 2 {
		t.Fatalf("viewing=%v players=%d", c.reg.Viewing(), c.reg.Len())
	}
	before, _ := c.reg.Player(fakeLocalID)

	if err := c.sendAction(world.ActionVector{MoveRight: true}); err != nil {
		t.Fatalf("send: %v", err)
	}
	a.Step()
	c.applySnapshot(session.KindState, a.Snapshot())

	p, ok := c.reg.Player(fakeLocalID)
	if !ok || p != before {
		t.Fatalf("player record replaced on reconcile")
	}
	if got := p.State().Coordinates; got != (world.Point{Row: 1, Col: 2}) {
		t.Fatalf("player at %+v", got)
	}
}

func TestClientSendWithoutConnection(t *testing.T) {
	c := newTestClient(t)
	if err := c.sendAction(world.ActionVector{MoveUp: true}); !errors.Is(err, errNotConnected) {
		t.Fatalf("err = %v", err)
	}
	if err := c.join("   "); !errors.Is(err, session.ErrEmptyPlayerID) {
		t.Fatalf("join err = %v", err)
	}
}

func TestClientLeaveClearsView(t *testing.T) {
	c := newTestClient(t)
	if err := c.join(" alice "); err != nil {
		t.Fatalf("join: %v", err)
	}
	if c.PlayerID() != "alice" {
		t.Fatalf("player id = %q", c.PlayerID())
	}
	c.applySnapshot(session.KindJoined, newFakeArena().Snapshot())
	c.leave()
	if c.Playing() || c.reg.Viewing() {
		t.Fatalf("still playing=%v viewing=%v", c.Playing(), c.reg.Viewing())
	}
}

func TestRenderShotWithPlaceholders(t *testing.T) {
	c := newTestClient(t)
	data, err := json.Marshal(newFakeArena().Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	in := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(in, data, 0o644); err != nil {
		t.Fatal(err)
	}
	out := strings.TrimSuffix(in, ".json") + ".png"
	if err := renderShot(context.Background(), c, in, out); err != nil {
		t.Fatalf("renderShot: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != fakeCols*32 || b.Dy() != fakeRows*32 {
		t.Fatalf("shot %v", b)
	}
}

func TestGameOverSummary(t *testing.T) {
	w := "bot"
	snap := &world.Snapshot{IsOver: true, Winner: &w, Time: 500}
	if got := gameOverSummary(snap); got != "Player bot has won! (after 0s)" {
		t.Fatalf("summary = %q", got)
	}
}
