package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"bombview/session"
)

var (
	fake     bool
	doDebug  bool
	shotIn   string
	shotOut  string
	doSchema bool
)

func main() {
	var (
		server  string
		player  string
		assetsF string
		every   int
		tps     int
	)
	flag.StringVar(&server, "server", "", "game server websocket URL")
	flag.StringVar(&player, "player", "", "join the game as this player id (default: spectate)")
	flag.StringVar(&assetsF, "assets", "", "directory or URL holding the sprites")
	flag.IntVar(&every, "every", 0, "render every N display refreshes")
	flag.IntVar(&tps, "tps", 0, "display refreshes per second")
	flag.StringVar(&dataDirPath, "data", dataDirPath, "directory for settings, .env and screenshots")
	flag.BoolVar(&fake, "fake", false, "play a local scripted arena without connecting")
	flag.BoolVar(&doDebug, "debug", false, "verbose/debug logging")
	flag.StringVar(&shotIn, "shot", "", "render the snapshot JSON in this file to a PNG and exit")
	flag.StringVar(&shotOut, "out", "", "output PNG for -shot (default: input name with .png)")
	flag.BoolVar(&doSchema, "schema", false, "print the wire protocol JSON Schema and exit")
	flag.Parse()

	loadSettings()
	applyEnv()
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "server":
			gs.ServerURL = server
		case "player":
			gs.PlayerID = player
		case "assets":
			gs.AssetRoot = assetsF
		case "every":
			gs.RenderEvery = every
		case "tps":
			gs.TPS = tps
		case "debug":
			gs.Debug = doDebug
		}
	})
	clampSettings()
	setupLogging(gs.Debug)

	if doSchema {
		b, err := session.Schema()
		if err != nil {
			logError("schema: %v", err)
			os.Exit(1)
		}
		fmt.Println(string(b))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := newClient()

	if shotIn != "" {
		out := shotOut
		if out == "" {
			out = strings.TrimSuffix(shotIn, ".json") + ".png"
		}
		if err := renderShot(ctx, c, shotIn, out); err != nil {
			logError("shot: %v", err)
			os.Exit(1)
		}
		logInfo("wrote %s", out)
		return
	}

	c.precache(ctx)
	if fake {
		c.playerID = fakeLocalID
		runFakeMode(ctx, c)
	} else {
		logInfo("connecting to %s", gs.ServerURL)
		go func() {
			if err := c.conn.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logError("connection: %v", err)
			}
		}()
	}

	runGame(ctx, c)
}
