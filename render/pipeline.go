package render

import (
	"context"
	"fmt"

	"bombview/assets"
	"bombview/surface"
	"bombview/world"
)

// View is what one pass draws: a snapshot and the client-side players it
// was reconciled into.
type View struct {
	Snapshot *world.Snapshot
	Players  []*world.Player
}

// ViewOf captures the registry's current state.
func ViewOf(r *world.Registry) View {
	return View{Snapshot: r.Snapshot(), Players: r.Players()}
}

// Pipeline draws a View in layer order.
type Pipeline struct {
	Map     *MapRenderer
	Players *PlayerRenderer
}

// NewPipeline builds a pipeline whose renderers share one image source.
func NewPipeline(images ImageSource, locs assets.Locations) *Pipeline {
	return &Pipeline{
		Map:     &MapRenderer{Images: images, Locations: locs},
		Players: &PlayerRenderer{Images: images, Locations: locs},
	}
}

// Render clears s and paints map, collectibles, bombs and explosions,
// living players and the game-over overlay, each stage finishing before
// the next starts. The context is checked between stages.
func (p *Pipeline) Render(ctx context.Context, s surface.Surface, v View) error {
	if err := checkSurface("render", s); err != nil {
		return err
	}
	snap := v.Snapshot
	if snap == nil {
		surface.Clear(s)
		return nil
	}
	m := snap.GameMap

	stages := []struct {
		name string
		run  func() error
	}{
		{"clear", func() error { surface.Clear(s); return nil }},
		{"map", func() error { return p.Map.DrawMap(ctx, s, m) }},
		{"collectibles", func() error { return p.Map.DrawCollectibles(ctx, s, snap) }},
		{"bombs", func() error { return p.Map.DrawBombsAndExplosions(ctx, s, m) }},
		{"players", func() error {
			for _, pl := range v.Players {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := p.Players.DrawPlayer(ctx, s, pl, m); err != nil {
					return fmt.Errorf("player %s: %w", pl.ID(), err)
				}
			}
			return nil
		}},
		{"overlay", func() error { return DrawGameOver(s, snap) }},
	}
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := st.run(); err != nil {
			return fmt.Errorf("render %s: %w", st.name, err)
		}
	}
	return nil
}
