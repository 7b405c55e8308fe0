package render

import (
	"context"
	"image"

	"bombview/assets"
	"bombview/surface"
	"bombview/world"
)

// ImageSource resolves a batch of asset URLs, returning images in argument
// order. *assets.Cache implements it.
type ImageSource interface {
	GetAll(ctx context.Context, urls ...string) ([]image.Image, error)
}

// MapRenderer draws the static arena, the pickups and the bomb layer.
type MapRenderer struct {
	Images    ImageSource
	Locations assets.Locations
}

var tileSprites = map[world.ObjectKind]assets.Sprite{
	world.KindWall:      assets.SpriteWall,
	world.KindWalkable:  assets.SpriteWalkable,
	world.KindBreakable: assets.SpriteBreakable,
}

var collectibleSprites = map[world.ObjectKind]assets.Sprite{
	world.KindPowerUp: assets.SpritePowerUp,
	world.KindBombUp:  assets.SpriteBombUp,
	world.KindSpeedUp: assets.SpriteSpeedUp,
}

// resolve fetches every sprite in need in one batch before anything is
// drawn.
func (mr *MapRenderer) resolve(ctx context.Context, need []assets.Sprite) (map[assets.Sprite]image.Image, error) {
	if len(need) == 0 {
		return nil, nil
	}
	urls := make([]string, len(need))
	for i, s := range need {
		urls[i] = mr.Locations.URL(s)
	}
	imgs, err := mr.Images.GetAll(ctx, urls...)
	if err != nil {
		return nil, err
	}
	out := make(map[assets.Sprite]image.Image, len(need))
	for i, s := range need {
		out[s] = imgs[i]
	}
	return out, nil
}

// spriteSet collects distinct sprites in first-seen order.
type spriteSet struct {
	seen map[assets.Sprite]bool
	list []assets.Sprite
}

func (ss *spriteSet) add(s assets.Sprite) {
	if ss.seen == nil {
		ss.seen = make(map[assets.Sprite]bool)
	}
	if !ss.seen[s] {
		ss.seen[s] = true
		ss.list = append(ss.list, s)
	}
}

// DrawMap paints every tile's static kind, row-major. Void cells are
// skipped.
func (mr *MapRenderer) DrawMap(ctx context.Context, s surface.Surface, m *world.GameMap) error {
	if err := checkSurface("draw map", s); err != nil {
		return err
	}
	if m == nil {
		return nil
	}
	var need spriteSet
	for _, row := range m.Tiles {
		for _, t := range row {
			if t == nil {
				continue
			}
			if sp, ok := tileSprites[t.Kind]; ok {
				need.add(sp)
			}
		}
	}
	imgs, err := mr.resolve(ctx, need.list)
	if err != nil {
		return err
	}
	for r, row := range m.Tiles {
		for c, t := range row {
			if t == nil {
				continue
			}
			sp, ok := tileSprites[t.Kind]
			if !ok {
				continue
			}
			surface.DrawWhole(s, imgs[sp], m.Footprint(world.Point{Row: r, Col: c}))
		}
	}
	return nil
}

// DrawCollectibles paints the pickups listed in snap.
func (mr *MapRenderer) DrawCollectibles(ctx context.Context, s surface.Surface, snap *world.Snapshot) error {
	if err := checkSurface("draw collectibles", s); err != nil {
		return err
	}
	if snap == nil || snap.GameMap == nil || len(snap.Collectibles) == 0 {
		return nil
	}
	var need spriteSet
	for _, c := range snap.Collectibles {
		if sp, ok := collectibleSprites[c.Kind]; ok {
			need.add(sp)
		}
	}
	imgs, err := mr.resolve(ctx, need.list)
	if err != nil {
		return err
	}
	for _, c := range snap.Collectibles {
		sp, ok := collectibleSprites[c.Kind]
		if !ok {
			continue
		}
		surface.DrawWhole(s, imgs[sp], objectRect(snap.GameMap, c.Coordinates, c.Width, c.Height))
	}
	return nil
}

// DrawBombsAndExplosions paints bombs centered in their tiles and the fire
// covering burning tiles, row-major.
func (mr *MapRenderer) DrawBombsAndExplosions(ctx context.Context, s surface.Surface, m *world.GameMap) error {
	if err := checkSurface("draw bombs", s); err != nil {
		return err
	}
	if m == nil {
		return nil
	}
	var need spriteSet
	for _, row := range m.Tiles {
		for _, t := range row {
			if t == nil {
				continue
			}
			if len(t.Bombs) > 0 {
				need.add(assets.SpriteBomb)
			}
			if t.OnFire {
				need.add(assets.SpriteExplosion)
			}
		}
	}
	imgs, err := mr.resolve(ctx, need.list)
	if err != nil {
		return err
	}
	for r, row := range m.Tiles {
		for c, t := range row {
			if t == nil {
				continue
			}
			at := world.Point{Row: r, Col: c}
			for _, b := range t.Bombs {
				surface.DrawWhole(s, imgs[assets.SpriteBomb], objectRect(m, at, b.Width, b.Height))
			}
			if t.OnFire {
				surface.DrawWhole(s, imgs[assets.SpriteExplosion], m.Footprint(at))
			}
		}
	}
	return nil
}

// objectRect centers a w x h object in the tile at p. A zero size fills
// the tile.
func objectRect(m *world.GameMap, p world.Point, w, h int) image.Rectangle {
	fp := m.Footprint(p)
	if w <= 0 || h <= 0 {
		return fp
	}
	return surface.Center(fp, image.Pt(w, h))
}
