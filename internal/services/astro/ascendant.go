package astro

import (
	"fmt"
	"time"

	"HashClock/internal/domain/models"
)

// GreenwichSiderealDegrees is the mean sidereal time at Greenwich, in degrees.
func GreenwichSiderealDegrees(jd float64) float64 {
	T := Centuries(jd)
	return Normalize(280.46061837 + 360.98564736629*(jd-J2000) + 0.000387933*T*T - T*T*T/38710000)
}

// LocalSiderealHours offsets GMST by the observer's east longitude (lon/15 hours).
func LocalSiderealHours(jd, lon float64) float64 {
	return Normalize(GreenwichSiderealDegrees(jd)+lon) / 15
}

// AscendantOf returns the rising longitude, approximated as local sidereal time
// in degrees. Obliquity and the observer's latitude are not applied; latitude is
// only validated.
func AscendantOf(instant time.Time, lat, lon *float64) (float64, error) {
	if lat == nil || lon == nil {
		return 0, models.ErrMissingCoordinates
	}
	if *lat < -90 || *lat > 90 {
		return 0, fmt.Errorf("%w: latitude %v", models.ErrInvalidInput, *lat)
	}
	if *lon < -180 || *lon > 180 {
		return 0, fmt.Errorf("%w: longitude %v", models.ErrInvalidInput, *lon)
	}
	if instant.IsZero() {
		return 0, fmt.Errorf("%w: zero time", models.ErrInvalidInstant)
	}
	lst := LocalSiderealHours(JulianDay(instant), *lon)
	return Normalize(lst * 15), nil
}
