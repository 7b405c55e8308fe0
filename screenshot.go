package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"bombview/world"
)

// takeScreenshot writes img under the data dir and returns the file name.
func takeScreenshot(img image.Image, who string) (string, error) {
	dir := filepath.Join(dataDirPath, "Screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %v: %w", dir, err)
	}
	ts := time.Now().Format("2006-01-02-15-04-05")
	buf := "bombview"
	if who != "" {
		buf = who
	}
	fn := filepath.Join(dir, fmt.Sprintf("%v__%s.png", buf, ts))
	return fn, writePNG(fn, img)
}

func writePNG(fn string, img image.Image) error {
	f, err := os.Create(fn)
	if err != nil {
		return fmt.Errorf("create %v: %w", fn, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %v: %w", fn, err)
	}
	return f.Close()
}

// renderShot draws the snapshot stored in inPath to a PNG at outPath
// without opening a window.
func renderShot(ctx context.Context, c *client, inPath, outPath string) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}
	snap, err := world.DecodeSnapshot(data)
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}
	if _, err := c.reg.Initialize(snap); err != nil {
		return err
	}
	img, err := c.loop.RenderOnce(ctx)
	if err != nil {
		return fmt.Errorf("render %s: %w", inPath, err)
	}
	return writePNG(outPath, img)
}
