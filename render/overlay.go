package render

import (
	"fmt"
	"image"
	"image/color"

	"bombview/surface"
	"bombview/world"
)

const (
	overlayAlpha   = 0.6
	overlayTextY   = 150
	overlayLeading = 50
)

// GameOverLines returns the message shown when a game ends.
func GameOverLines(snap *world.Snapshot) []string {
	if id, ok := snap.WinnerID(); ok {
		return []string{fmt.Sprintf("Player %s has won!", id)}
	}
	return []string{"It's a draw, scrub :)", "Seriously, try killing others next time..."}
}

// DrawGameOver dims the whole surface and writes the outcome centered
// across it. It draws nothing unless snap is over.
func DrawGameOver(s surface.Surface, snap *world.Snapshot) error {
	if err := checkSurface("draw game over", s); err != nil {
		return err
	}
	if snap == nil || !snap.IsOver {
		return nil
	}
	b := s.Bounds()
	s.FillRect(b, color.Black, overlayAlpha)
	cx := b.Min.X + b.Dx()/2
	y := b.Min.Y + min(overlayTextY, b.Dy()/2)
	for i, line := range GameOverLines(snap) {
		s.DrawText(line, surface.TitleSize, color.White, image.Pt(cx, y+i*overlayLeading), surface.AlignCenter)
	}
	return nil
}
