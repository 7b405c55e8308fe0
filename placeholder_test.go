package main

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"io/fs"
	"testing"

	"bombview/assets"
)

func TestPlaceholderFetcher(t *testing.T) {
	locs := assets.DefaultLocations("img")
	missing := assets.FetcherFunc(func(context.Context, string) ([]byte, error) {
		return nil, fs.ErrNotExist
	})
	p := newPlaceholderFetcher(missing, locs, 32, 3)

	data, err := p.Fetch(context.Background(), locs[assets.SpritePlayer])
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 96 || b.Dy() != 128 {
		t.Fatalf("player sheet %v", b)
	}

	data, err = p.Fetch(context.Background(), locs[assets.SpriteBomb])
	if err != nil {
		t.Fatalf("bomb: %v", err)
	}
	if img, _ = png.Decode(bytes.NewReader(data)); img.Bounds().Dx() != 16 {
		t.Fatalf("bomb %v", img.Bounds())
	}

	if _, err := p.Fetch(context.Background(), "img/unknown.png"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("unknown url err = %v", err)
	}
}

func TestPlaceholderFetcherPassesOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	locs := assets.DefaultLocations("img")
	p := newPlaceholderFetcher(assets.FetcherFunc(func(context.Context, string) ([]byte, error) {
		return nil, boom
	}), locs, 32, 3)
	if _, err := p.Fetch(context.Background(), locs[assets.SpriteWall]); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
