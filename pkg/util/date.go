package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// ParseCivilDate parses a YYYY-MM-DD calendar date. Impossible dates such as
// 2023-02-30 are rejected.
func ParseCivilDate(s string) (year int, month time.Month, day int, err error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("date %q: %w", s, err)
	}
	return t.Year(), t.Month(), t.Day(), nil
}

var clockLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM"}

// ParseClock parses a wall clock time of day.
func ParseClock(s string) (hour, minute, second int, err error) {
	s = strings.TrimSpace(s)
	for _, layout := range clockLayouts {
		if t, perr := time.Parse(layout, s); perr == nil {
			return t.Hour(), t.Minute(), t.Second(), nil
		}
	}
	return 0, 0, 0, fmt.Errorf("time %q: expected HH:MM or HH:MM:SS", s)
}

// LongitudeZone approximates the civil zone from longitude: round(lon/15) hours east of UTC.
func LongitudeZone(lon float64) *time.Location {
	hours := int(math.Round(lon / 15))
	return OffsetZone(hours * 60)
}

// OffsetZone builds a fixed zone named like "UTC+05:30".
func OffsetZone(minutes int) *time.Location {
	sign := '+'
	abs := minutes
	if minutes < 0 {
		sign = '-'
		abs = -minutes
	}
	name := fmt.Sprintf("UTC%c%02d:%02d", sign, abs/60, abs%60)
	return time.FixedZone(name, minutes*60)
}
