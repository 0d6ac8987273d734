package stats

import (
	"fmt"
	"math"
)

// FormatHour renders a 0-23 hour on a 12-hour clock, e.g. 0 -> 12AM, 13 -> 1PM.
func FormatHour(hour int) string {
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d%s", h, suffix)
}

// Breakdown splits seconds into whole days, hours, minutes and seconds.
func Breakdown(seconds float64) (days, hours, minutes, secs int64) {
	total := int64(math.Floor(seconds))
	minutes, secs = total/60, total%60
	hours, minutes = minutes/60, minutes%60
	days, hours = hours/24, hours%24
	return days, hours, minutes, secs
}

// FormatDuration renders every unit of a duration in seconds.
func FormatDuration(seconds float64) string {
	d, h, m, s := Breakdown(seconds)
	return fmt.Sprintf("%d Days, %d Hours, %d Minutes and %d Seconds", d, h, m, s)
}

// FormatShortDuration renders a duration without leading zero days or hours.
// Minutes and seconds are always shown.
func FormatShortDuration(seconds float64) string {
	d, h, m, s := Breakdown(seconds)
	switch {
	case d > 0:
		return fmt.Sprintf("%d Days, %d Hours, %d Minutes and %d Seconds", d, h, m, s)
	case h > 0:
		return fmt.Sprintf("%d Hours, %d Minutes and %d Seconds", h, m, s)
	default:
		return fmt.Sprintf("%d Minutes and %d Seconds", m, s)
	}
}
