// Package surface defines the 2-D raster target the renderer paints on and
// the sprite and text primitives built on it.
package surface

import (
	"image"
	"image/color"
)

// Align is the horizontal anchoring of drawn text.
type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Surface is a drawable raster.
type Surface interface {
	Bounds() image.Rectangle
	// ClearRect resets r to fully transparent.
	ClearRect(r image.Rectangle)
	// DrawImage copies the src region of img into dst, scaling to fit.
	DrawImage(img image.Image, src, dst image.Rectangle)
	// FillRect blends c over r at the given opacity in [0,1].
	FillRect(r image.Rectangle, c color.Color, alpha float64)
	// DrawText draws s at the given point size with its baseline at
	// anchor, aligned horizontally around anchor.X.
	DrawText(s string, size float64, c color.Color, anchor image.Point, align Align)
}

// Clear resets the whole surface.
func Clear(s Surface) {
	s.ClearRect(s.Bounds())
}

// Cell addresses one frame of a spritesheet.
type Cell struct {
	Col, Row int
}

// CellRect returns the source rectangle of cell in a sheet of cellSize
// frames whose origin is at the sheet's Min.
func CellRect(sheet image.Rectangle, cell Cell, cellSize image.Point) image.Rectangle {
	x := sheet.Min.X + cell.Col*cellSize.X
	y := sheet.Min.Y + cell.Row*cellSize.Y
	return image.Rect(x, y, x+cellSize.X, y+cellSize.Y)
}

// DrawSprite blits one cell of sheet into dst.
func DrawSprite(s Surface, sheet image.Image, cell Cell, cellSize image.Point, dst image.Rectangle) {
	s.DrawImage(sheet, CellRect(sheet.Bounds(), cell, cellSize), dst)
}

// DrawWhole blits all of img into dst.
func DrawWhole(s Surface, img image.Image, dst image.Rectangle) {
	s.DrawImage(img, img.Bounds(), dst)
}

// Center returns a rectangle of size centered within outer.
func Center(outer image.Rectangle, size image.Point) image.Rectangle {
	x := outer.Min.X + (outer.Dx()-size.X)/2
	y := outer.Min.Y + (outer.Dy()-size.Y)/2
	return image.Rect(x, y, x+size.X, y+size.Y)
}
