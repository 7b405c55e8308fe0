package surface

import (
	"image"
	"image/color"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// LabelSize is the point size of player labels.
const LabelSize = 12

// TitleSize is the point size of banner text.
const TitleSize = 24

var goRegular = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// NewFace returns a Go Regular face of the given size, falling back to the
// fixed 7x13 face if the embedded font cannot be parsed.
func NewFace(size float64) font.Face {
	f, err := goRegular()
	if err == nil {
		var face font.Face
		face, err = opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
		if err == nil {
			return face
		}
	}
	logrus.StandardLogger().WithError(err).Warn("surface: go regular face unavailable, using 7x13")
	return basicfont.Face7x13
}

// Raster is a Surface backed by an in-memory RGBA image. A Raster is not
// safe for concurrent use; its faces are owned by it alone.
type Raster struct {
	img   *image.RGBA
	faces map[float64]font.Face
}

// NewRaster returns a transparent w x h raster.
func NewRaster(w, h int) *Raster {
	return &Raster{
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		faces: make(map[float64]font.Face),
	}
}

// Image exposes the backing pixels.
func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) face(size float64) font.Face {
	if size <= 0 {
		size = LabelSize
	}
	f, ok := r.faces[size]
	if !ok {
		f = NewFace(size)
		r.faces[size] = f
	}
	return f
}

func (r *Raster) Bounds() image.Rectangle { return r.img.Bounds() }

func (r *Raster) ClearRect(rect image.Rectangle) {
	draw.Draw(r.img, rect.Intersect(r.img.Bounds()), image.Transparent, image.Point{}, draw.Src)
}

func (r *Raster) DrawImage(img image.Image, src, dst image.Rectangle) {
	if img == nil || src.Empty() || dst.Empty() {
		return
	}
	if src.Size() == dst.Size() {
		draw.Draw(r.img, dst, img, src.Min, draw.Over)
		return
	}
	draw.NearestNeighbor.Scale(r.img, dst, img, src, draw.Over, nil)
}

func (r *Raster) FillRect(rect image.Rectangle, c color.Color, alpha float64) {
	if alpha <= 0 {
		return
	}
	if alpha > 1 {
		alpha = 1
	}
	mask := image.NewUniform(color.Alpha{A: uint8(alpha*255 + 0.5)})
	draw.DrawMask(r.img, rect.Intersect(r.img.Bounds()), image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
}

func (r *Raster) DrawText(s string, size float64, c color.Color, anchor image.Point, align Align) {
	if s == "" {
		return
	}
	d := font.Drawer{Dst: r.img, Src: image.NewUniform(c), Face: r.face(size)}
	x := anchor.X
	switch align {
	case AlignCenter:
		x -= d.MeasureString(s).Ceil() / 2
	case AlignRight:
		x -= d.MeasureString(s).Ceil()
	}
	d.Dot = fixed.P(x, anchor.Y)
	d.DrawString(s)
}
