package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"bombview/assets"
	"bombview/render"
)

const SETTINGS_VERSION = 2

const settingsFile = "settings.json"

// dataDirPath holds settings, screenshots and the optional .env file.
var dataDirPath = "data"

var gs settings = gsdef

// settingsLoaded reports whether settings were successfully loaded from disk.
var settingsLoaded bool

var gsdef settings = settings{
	Version: SETTINGS_VERSION,

	ServerURL:   "ws://localhost:3000/ws",
	RenderEvery: render.DefaultEvery,
	TPS:         60,

	WindowWidth:  800,
	WindowHeight: 600,

	AssetRoot:       "img",
	SpriteSize:      32,
	FrameCount:      3,
	ActionKeyName:   "Space",
	Placeholders:    true,
	Notifications:   true,
	PrecacheWorkers: 4,
}

type settings struct {
	Version int

	ServerURL string
	// PlayerID joins the game when set; empty spectates.
	PlayerID    string
	RenderEvery int
	TPS         int

	WindowWidth  int
	WindowHeight int

	// AssetRoot is a directory or http(s) URL holding the default sprites.
	AssetRoot string
	// Sprites overrides individual sprite locations.
	Sprites    assets.Locations `json:",omitempty"`
	SpriteSize int
	FrameCount int

	// ActionKeyName is the Ebiten key name that plants a bomb.
	ActionKeyName string

	// Placeholders draws flat colored tiles for sprites that are missing
	// from disk.
	Placeholders    bool
	Notifications   bool
	PrecacheWorkers int

	Debug bool `json:"-"`
}

func loadSettings() bool {
	path := filepath.Join(dataDirPath, settingsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		gs = gsdef
		settingsLoaded = false
		return false
	}

	tmp := gsdef
	if err := json.Unmarshal(data, &tmp); err != nil {
		logWarn("settings: %v", err)
		gs = gsdef
		settingsLoaded = false
		return false
	}
	if tmp.Version != SETTINGS_VERSION {
		gs = gsdef
		settingsLoaded = false
		return false
	}
	gs = tmp
	clampSettings()
	settingsLoaded = true
	return true
}

func clampSettings() {
	if gs.RenderEvery <= 0 {
		gs.RenderEvery = gsdef.RenderEvery
	}
	if gs.TPS <= 0 || gs.TPS > 240 {
		gs.TPS = gsdef.TPS
	}
	if gs.WindowWidth < 320 {
		gs.WindowWidth = gsdef.WindowWidth
	}
	if gs.WindowHeight < 240 {
		gs.WindowHeight = gsdef.WindowHeight
	}
	if gs.SpriteSize <= 0 {
		gs.SpriteSize = gsdef.SpriteSize
	}
	if gs.FrameCount <= 0 {
		gs.FrameCount = gsdef.FrameCount
	}
	if gs.AssetRoot == "" {
		gs.AssetRoot = gsdef.AssetRoot
	}
	if _, ok := ebitenKey(gs.ActionKeyName); !ok {
		gs.ActionKeyName = gsdef.ActionKeyName
	}
	gs.PlayerID = strings.TrimSpace(gs.PlayerID)
}

func saveSettings() {
	data, err := json.MarshalIndent(gs, "", "  ")
	if err != nil {
		logError("save settings: %v", err)
		return
	}
	if err := os.MkdirAll(dataDirPath, 0o755); err != nil {
		logError("save settings: %v", err)
		return
	}
	path := filepath.Join(dataDirPath, settingsFile)
	if err := os.WriteFile(path+".tmp", data, 0644); err != nil {
		logError("save settings: %v", err)
		return
	}

	os.Rename(path+".tmp", path)
}

// Environment overrides, read after settings.json and before flags.
const (
	envServer = "BOMBVIEW_SERVER"
	envPlayer = "BOMBVIEW_PLAYER"
	envAssets = "BOMBVIEW_ASSETS"
	envDebug  = "BOMBVIEW_DEBUG"
)

// applyEnv loads .env files (the data dir's, then the working
// directory's) without overriding variables already set, then folds the
// BOMBVIEW_* variables into gs.
func applyEnv() {
	for _, f := range []string{filepath.Join(dataDirPath, ".env"), ".env"} {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			logWarn("env: %v", err)
		}
	}
	if v := os.Getenv(envServer); v != "" {
		gs.ServerURL = v
	}
	if v, ok := os.LookupEnv(envPlayer); ok {
		gs.PlayerID = strings.TrimSpace(v)
	}
	if v := os.Getenv(envAssets); v != "" {
		gs.AssetRoot = v
	}
	if v := os.Getenv(envDebug); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			gs.Debug = b
		} else {
			logWarn("env: %s=%q: %v", envDebug, v, err)
		}
	}
}

// spriteLocations resolves the configured sprite URLs.
func spriteLocations() assets.Locations {
	return assets.DefaultLocations(gs.AssetRoot).Merge(gs.Sprites)
}
