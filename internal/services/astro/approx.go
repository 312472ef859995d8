package astro

import (
	"fmt"
	"math"

	"HashClock/internal/domain/models"
)

// ApproxLongitudeOf is the simplified strategy: mean longitudes only, with
// planets on circular coplanar orbits. Errors of several degrees are expected.
func ApproxLongitudeOf(body models.Body, jd float64) (float64, error) {
	if math.IsNaN(jd) || math.IsInf(jd, 0) {
		return 0, fmt.Errorf("%w: julian day %v", models.ErrInvalidInstant, jd)
	}
	T := Centuries(jd)
	switch body {
	case models.Sun:
		return Normalize(280.46646 + 36000.76983*T), nil
	case models.Moon:
		return Normalize(218.3164477 + 481267.88123421*T), nil
	}
	el, ok := planetElements[body]
	if !ok {
		return 0, fmt.Errorf("%w: %q", models.ErrUnsupportedBody, body)
	}
	L := rad(el.meanL + el.meanLDot*T)
	Le := rad(earthBarycenter.meanL + earthBarycenter.meanLDot*T)
	x := el.a*math.Cos(L) - earthBarycenter.a*math.Cos(Le)
	y := el.a*math.Sin(L) - earthBarycenter.a*math.Sin(Le)
	return Normalize(deg(math.Atan2(y, x))), nil
}
