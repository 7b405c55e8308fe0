package render

import (
	"context"
	"image"
	"image/color"

	"bombview/assets"
	"bombview/surface"
	"bombview/world"
)

const (
	defaultSpriteSize = 32
	defaultFrameCount = 3
	labelGap          = 2
)

// PlayerRenderer draws animated player sprites and their id labels.
type PlayerRenderer struct {
	Images    ImageSource
	Locations assets.Locations

	// SpriteSize is the size of one sheet cell; zero means 32x32.
	SpriteSize image.Point
	// FrameCount is the number of walk frames per row; zero means 3.
	FrameCount int
	// LabelColor defaults to white.
	LabelColor color.Color
}

func (pr *PlayerRenderer) spriteSize() image.Point {
	if pr.SpriteSize.X <= 0 || pr.SpriteSize.Y <= 0 {
		return image.Pt(defaultSpriteSize, defaultSpriteSize)
	}
	return pr.SpriteSize
}

func (pr *PlayerRenderer) frameCount() int {
	if pr.FrameCount <= 0 {
		return defaultFrameCount
	}
	return pr.FrameCount
}

// DrawPlayer draws p on its tile and advances its walk cycle by one frame.
// Dead players are not drawn and keep their animation state.
func (pr *PlayerRenderer) DrawPlayer(ctx context.Context, s surface.Surface, p *world.Player, m *world.GameMap) error {
	if err := checkSurface("draw player", s); err != nil {
		return err
	}
	if p == nil || m == nil || !p.State().IsAlive {
		return nil
	}
	imgs, err := pr.Images.GetAll(ctx, pr.Locations.URL(assets.SpritePlayer))
	if err != nil {
		return err
	}
	sheet := imgs[0]

	st := p.Animate()
	size := pr.spriteSize()
	dst := surface.Center(m.Footprint(st.Coordinates), size)
	col, row := st.Cell(pr.frameCount())
	surface.DrawSprite(s, sheet, surface.Cell{Col: col, Row: row}, size, dst)

	lc := pr.LabelColor
	if lc == nil {
		lc = color.White
	}
	// Labels go below the sprite when there is no room above it.
	y := dst.Min.Y - labelGap
	if y < s.Bounds().Min.Y+surface.LabelSize {
		y = dst.Max.Y + surface.LabelSize
	}
	s.DrawText(st.ID, surface.LabelSize, lc, image.Pt(dst.Min.X+dst.Dx()/2, y), surface.AlignCenter)
	return nil
}
