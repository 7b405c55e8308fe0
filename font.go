package main

import (
	"bytes"
	"log"

	text "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	hudFontSize    = 14
	bannerFontSize = 13
)

var hudFont, hudFontBold text.Face

func initFont() {
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Fatalf("failed to parse font: %v", err)
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		log.Fatalf("failed to parse font: %v", err)
	}
	hudFont = &text.GoTextFace{Source: regular, Size: bannerFontSize}
	hudFontBold = &text.GoTextFace{Source: bold, Size: hudFontSize}
}
