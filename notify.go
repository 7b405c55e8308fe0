package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/gen2brain/beeep"

	"bombview/render"
	"bombview/world"
)

// notifyDesktop shows a desktop notification, best-effort and non-fatal.
func notifyDesktop(title, body string) {
	if body == "" {
		return
	}
	// Skip on headless Linux without DISPLAY; beeep would error.
	if runtime.GOOS == "linux" && (os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "") {
		return
	}
	if err := beeep.Notify(title, body, ""); err != nil {
		logDebug("notify: %v", err)
	}
}

// gameOverSummary is the one-line outcome used for logs and notifications.
func gameOverSummary(snap *world.Snapshot) string {
	lines := render.GameOverLines(snap)
	return fmt.Sprintf("%s (after %s)", lines[0], formatLength(snap.Time))
}

func notifyGameOver(snap *world.Snapshot) {
	msg := gameOverSummary(snap)
	logInfo("game over: %s", msg)
	if gs.Notifications {
		notifyDesktop("Bomberman", msg)
	}
}
