package main

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	dark "github.com/thiagokokada/dark-mode-go"
)

const (
	hudHeight = 28
	noticeTTL = 8 * time.Second
)

var (
	bgDark  = color.RGBA{0x1e, 0x1f, 0x24, 0xff}
	bgLight = color.RGBA{0xe8, 0xe8, 0xec, 0xff}
)

// Game presents frames finished by the render loop and draws the HUD.
type Game struct {
	c        *client
	bindings []keyBinding
	bg       color.RGBA
	fg       color.RGBA

	ctx      context.Context
	frame    *ebiten.Image
	frameGen uint64
}

func newGame(ctx context.Context, c *client) *Game {
	g := &Game{ctx: ctx, c: c, bindings: gameBindings(gs.ActionKeyName), bg: bgDark, fg: color.RGBA{0xff, 0xff, 0xff, 0xff}}
	darkMode, err := dark.IsDarkMode()
	if err == nil && !darkMode {
		g.bg = bgLight
		g.fg = color.RGBA{0x10, 0x10, 0x10, 0xff}
	}
	return g
}

func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		g.screenshot()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && g.c.Playing() {
		g.c.leave()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) && !g.c.Playing() && gs.PlayerID != "" {
		if err := g.c.join(gs.PlayerID); err != nil {
			g.c.notices.Add(err.Error())
		}
	}
	g.c.handleKeys(pollKeys(g.bindings))
	g.c.loop.Tick()
	g.c.notices.Expire(noticeTTL)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.bg)

	raw, gen := g.c.loop.Frame()
	if raw == nil {
		g.frame = nil
	} else if gen != g.frameGen || g.frame == nil {
		b := raw.Bounds()
		if g.frame == nil || g.frame.Bounds().Size() != b.Size() {
			if g.frame != nil {
				g.frame.Deallocate()
			}
			g.frame = ebiten.NewImage(b.Dx(), b.Dy())
		}
		g.frame.WritePixels(raw.Pix)
		g.frameGen = gen
	}

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	if g.frame != nil {
		fw, fh := g.frame.Bounds().Dx(), g.frame.Bounds().Dy()
		scale := min(float64(sw)/float64(fw), float64(sh-hudHeight)/float64(fh))
		if scale >= 1 {
			scale = float64(int(scale))
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate((float64(sw)-float64(fw)*scale)/2, hudHeight+(float64(sh-hudHeight)-float64(fh)*scale)/2)
		screen.DrawImage(g.frame, op)
	}

	g.drawHUD(screen, sw)
	g.drawNotices(screen, sw, sh)
}

func (g *Game) drawHUD(screen *ebiten.Image, sw int) {
	status := "connecting..."
	if snap := g.c.reg.Snapshot(); snap != nil {
		status = formatClock(snap.Time)
		if snap.Paused {
			status += "  paused"
		}
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(8, 6)
	op.ColorScale.ScaleWithColor(g.fg)
	text.Draw(screen, status, hudFontBold, op)

	who := "spectating"
	if id := g.c.PlayerID(); id != "" {
		who = "playing as " + id
	}
	op = &text.DrawOptions{}
	op.GeoM.Translate(float64(sw)-8, 6)
	op.PrimaryAlign = text.AlignEnd
	op.ColorScale.ScaleWithColor(g.fg)
	text.Draw(screen, who, hudFont, op)
}

func (g *Game) drawNotices(screen *ebiten.Image, sw, sh int) {
	items := g.c.notices.Items()
	if len(items) == 0 {
		return
	}
	const line = 18
	h := float32(len(items)*line + 8)
	vector.DrawFilledRect(screen, 0, float32(sh)-h, float32(sw), h, color.RGBA{0x80, 0x10, 0x10, 0xd0}, false)
	for i, it := range items {
		msg := it.Text
		if it.Count > 1 {
			msg = fmt.Sprintf("%s (x%d)", msg, it.Count)
		}
		op := &text.DrawOptions{}
		op.GeoM.Translate(8, float64(sh)-float64(h)+4+float64(i*line))
		op.ColorScale.ScaleWithColor(color.White)
		text.Draw(screen, msg, hudFont, op)
	}
}

// screenshot saves the published frame. It runs from Update, so the frame
// cannot be recycled by a pass while it is encoded.
func (g *Game) screenshot() {
	raw, _ := g.c.loop.Frame()
	if raw == nil {
		g.c.notices.Add("nothing to capture yet")
		return
	}
	fn, err := takeScreenshot(raw, g.c.PlayerID())
	if err != nil {
		logError("screenshot: %v", err)
		return
	}
	logInfo("screenshot saved: %s", fn)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 320 && outsideHeight > 240 {
		gs.WindowWidth = outsideWidth
		gs.WindowHeight = outsideHeight
	}
	return outsideWidth, outsideHeight
}

func runGame(ctx context.Context, c *client) {
	ebiten.SetWindowTitle("Bomberman Viewer")
	ebiten.SetWindowSize(gs.WindowWidth, gs.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(gs.TPS)

	initFont()
	c.loop.Start()
	defer c.loop.Stop()

	op := &ebiten.RunGameOptions{ScreenTransparent: false}
	if err := ebiten.RunGameWithOptions(newGame(ctx, c), op); err != nil {
		logError("ebiten: %v", err)
	}
	saveSettings()
}
