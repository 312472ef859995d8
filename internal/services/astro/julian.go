package astro

import (
	"math"
	"time"
)

const (
	// J2000 is the Julian day of 2000-01-01 12:00 TT.
	J2000 = 2451545.0

	unixEpochJD    = 2440587.5
	daysPerCentury = 36525.0
)

// JulianDay converts an absolute instant to a Julian day number.
// UT is used in place of TT; the difference is below a minute for the supported range.
func JulianDay(t time.Time) float64 {
	t = t.UTC()
	return float64(t.Unix())/86400 + float64(t.Nanosecond())/86400e9 + unixEpochJD
}

// Centuries returns Julian centuries since J2000.
func Centuries(jd float64) float64 { return (jd - J2000) / daysPerCentury }

// Normalize reduces degrees into [0,360). Non-finite input yields 0.
func Normalize(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	m := math.Mod(deg, 360)
	if m < 0 {
		m += 360
	}
	if m >= 360 {
		m = 0
	}
	return m
}

func sinDeg(d float64) float64 { return math.Sin(d * math.Pi / 180) }
func rad(d float64) float64 { return d * math.Pi / 180 }
func deg(r float64) float64 { return r * 180 / math.Pi }
