package main

import (
	"fmt"
	"time"

	"github.com/hako/durafmt"
)

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

// formatClock renders elapsed game time in milliseconds as MM:SS.
// Negative values clamp to zero; minutes keep counting past 99.
func formatClock(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	s := ms / 1000
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

// formatLength renders a game length for logs and notifications.
func formatLength(ms int64) string {
	if ms < 1000 {
		return "0s"
	}
	return durafmt.Parse(time.Duration(ms) * time.Millisecond).LimitFirstN(2).Format(shortUnits)
}
