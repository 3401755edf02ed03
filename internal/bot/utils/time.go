package utils

import (
	"fmt"
	"time"
)

// TimestampLayout is the layout used for vouch dates in embeds.
const TimestampLayout = "2006-01-02 15:04"

// FormatCooldown renders a remaining cooldown as "Xm Ys", or "Ys" under a minute.
// Fractions of a second are dropped.
func FormatCooldown(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	seconds := int64(d / time.Second)
	minutes := seconds / 60
	secs := seconds % 60

	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, secs)
	}
	return fmt.Sprintf("%ds", secs)
}

// FormatMinutes returns the whole number of minutes in d.
func FormatMinutes(d time.Duration) string {
	minutes := int64(d / time.Minute)
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}

// FormatTimestamp formats a vouch time in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
