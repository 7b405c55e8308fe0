package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"

	"bombview/assets"
)

var placeholderColors = map[assets.Sprite]color.RGBA{
	assets.SpriteWall:      {0x55, 0x55, 0x60, 0xff},
	assets.SpriteWalkable:  {0x3a, 0x7d, 0x44, 0xff},
	assets.SpriteBreakable: {0x9c, 0x6b, 0x3f, 0xff},
	assets.SpriteBomb:      {0x10, 0x10, 0x10, 0xff},
	assets.SpriteExplosion: {0xff, 0x8c, 0x00, 0xc0},
	assets.SpritePowerUp:   {0xe0, 0x30, 0x30, 0xff},
	assets.SpriteBombUp:    {0x30, 0x30, 0xe0, 0xff},
	assets.SpriteSpeedUp:   {0xf0, 0xe0, 0x30, 0xff},
	assets.SpritePlayer:    {0xf0, 0xf0, 0xf0, 0xff},
}

// placeholderFetcher serves generated sprites for locations whose file is
// missing, so the arena stays readable without an asset pack.
type placeholderFetcher struct {
	next   assets.Fetcher
	byURL  map[string]assets.Sprite
	sprite int
	frames int
}

func newPlaceholderFetcher(next assets.Fetcher, locs assets.Locations, spriteSize, frames int) *placeholderFetcher {
	byURL := make(map[string]assets.Sprite, len(locs))
	for s, u := range locs {
		byURL[u] = s
	}
	return &placeholderFetcher{next: next, byURL: byURL, sprite: spriteSize, frames: frames}
}

func (p *placeholderFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	data, err := p.next.Fetch(ctx, url)
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return data, err
	}
	s, ok := p.byURL[url]
	if !ok {
		return nil, err
	}
	logDebug("placeholder for %s (%v)", s, url)
	var buf bytes.Buffer
	if err := png.Encode(&buf, p.image(s)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// image draws a flat sprite. The player sheet gets four rows of frames
// with a marker showing the facing.
func (p *placeholderFetcher) image(s assets.Sprite) image.Image {
	c := placeholderColors[s]
	switch s {
	case assets.SpritePlayer:
		size := p.sprite
		img := image.NewRGBA(image.Rect(0, 0, size*p.frames, size*4))
		for row := 0; row < 4; row++ {
			for col := 0; col < p.frames; col++ {
				fillCircle(img, image.Rect(col*size, row*size, (col+1)*size, (row+1)*size), c)
				markFacing(img, image.Rect(col*size, row*size, (col+1)*size, (row+1)*size), row)
			}
		}
		return img
	case assets.SpriteBomb:
		img := image.NewRGBA(image.Rect(0, 0, 16, 16))
		fillCircle(img, img.Bounds(), c)
		return img
	}
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func fillCircle(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	cx, cy := r.Min.X+r.Dx()/2, r.Min.Y+r.Dy()/2
	rad := min(r.Dx(), r.Dy())/2 - 1
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= rad*rad {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// markFacing dots the edge of r the sheet row faces: right, up, down, left.
func markFacing(img *image.RGBA, r image.Rectangle, row int) {
	cx, cy := r.Min.X+r.Dx()/2, r.Min.Y+r.Dy()/2
	q := r.Dx() / 4
	pt := image.Pt(cx-q, cy)
	switch row {
	case 0:
		pt = image.Pt(cx+q, cy)
	case 1:
		pt = image.Pt(cx, cy-q)
	case 2:
		pt = image.Pt(cx, cy+q)
	}
	black := color.RGBA{A: 0xff}
	for y := pt.Y - 2; y <= pt.Y+2; y++ {
		for x := pt.X - 2; x <= pt.X+2; x++ {
			img.SetRGBA(x, y, black)
		}
	}
}
