package domain

import (
	"fmt"
	"time"
)

// FormatClock renders t as H:MM, hours unpadded and minutes zero-padded.
func FormatClock(t time.Time) string {
	return fmt.Sprintf("%d:%02d", t.Hour(), t.Minute())
}

// LocalClock renders t as H:MM in the local time zone. Timestamps travel in UTC,
// the clock shown to people is always local.
func LocalClock(t time.Time) string {
	return FormatClock(t.Local())
}
