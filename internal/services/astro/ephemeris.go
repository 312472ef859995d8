package astro

import (
	"fmt"
	"math"

	"HashClock/internal/domain/models"
)

// orbitalElements are Keplerian mean elements at J2000 with rates per Julian century
// (a in AU, angles in degrees): semi-major axis, eccentricity, inclination,
// mean longitude, longitude of perihelion and longitude of ascending node.
type orbitalElements struct {
	a, aDot         float64
	e, eDot         float64
	incl, inclDot   float64
	meanL, meanLDot float64
	peri, periDot   float64
	node, nodeDot   float64
}

// Approximate elements valid 1800-2050, referred to the J2000 ecliptic.
var (
	earthBarycenter = orbitalElements{1.00000261, 0.00000562, 0.01671123, -0.00004392, -0.00001531, -0.01294668, 100.46457166, 35999.37244981, 102.93768193, 0.32327364, 0, 0}

	planetElements = map[models.Body]orbitalElements{
		models.Mercury: {0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749, 252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081},
		models.Venus:   {0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890, 181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418},
		models.Mars:    {1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131, -4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343},
		models.Jupiter: {5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714, 34.39644051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106},
		models.Saturn:  {9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609, 49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794},
		models.Uranus:  {19.18916464, -0.00196176, 0.04725744, -0.00004397, 0.77263783, -0.00242939, 313.23810451, 428.48202785, 170.95427630, 0.40805281, 74.01692503, 0.04240589},
		models.Neptune: {30.06992276, 0.00026291, 0.00859048, 0.00005105, 1.77004347, 0.00035372, -55.12002969, 218.45945325, 44.96476227, -0.32241464, 131.78422574, -0.00508664},
		models.Pluto:   {39.48211675, -0.00031596, 0.24882730, 0.00005170, 17.14001206, 0.00004818, 238.92903833, 145.20780515, 224.06891629, -0.04062942, 110.30393684, -0.01183482},
	}
)

// LongitudeOf returns the geocentric ecliptic longitude of body at Julian day jd, in [0,360).
func LongitudeOf(body models.Body, jd float64) (float64, error) {
	if math.IsNaN(jd) || math.IsInf(jd, 0) {
		return 0, fmt.Errorf("%w: julian day %v", models.ErrInvalidInstant, jd)
	}
	T := Centuries(jd)
	switch body {
	case models.Sun:
		return sunLongitude(T), nil
	case models.Moon:
		return moonLongitude(T), nil
	}
	el, ok := planetElements[body]
	if !ok {
		return 0, fmt.Errorf("%w: %q", models.ErrUnsupportedBody, body)
	}
	px, py, _ := el.heliocentric(T)
	ex, ey, _ := earthBarycenter.heliocentric(T)
	return Normalize(deg(math.Atan2(py-ey, px-ex))), nil
}

// sunLongitude is the low precision solar theory: mean longitude plus equation of centre.
func sunLongitude(T float64) float64 {
	L0 := 280.46646 + 36000.76983*T + 0.0003032*T*T
	M := 357.52911 + 35999.05029*T - 0.0001537*T*T
	C := (1.914602-0.004817*T-0.000014*T*T)*sinDeg(M) +
		(0.019993-0.000101*T)*sinDeg(2*M) +
		0.000289*sinDeg(3*M)
	return Normalize(L0 + C)
}

type lunarTerm struct {
	d, m, mp, f float64 // multiples of D, M, M', F
	coeff       float64 // degrees
}

// Principal periodic terms of the lunar longitude.
var lunarTerms = []lunarTerm{
	{0, 0, 1, 0, 6.288774},
	{2, 0, -1, 0, 1.274027},
	{2, 0, 0, 0, 0.658314},
	{0, 0, 2, 0, 0.213618},
	{0, 1, 0, 0, -0.185116},
	{0, 0, 0, 2, -0.114332},
	{2, 0, -2, 0, 0.058793},
	{2, -1, -1, 0, 0.057066},
	{2, 0, 1, 0, 0.053322},
	{2, -1, 0, 0, 0.045758},
	{0, 1, -1, 0, -0.040923},
	{1, 0, 0, 0, -0.034720},
	{0, 1, 1, 0, -0.030383},
	{2, 0, 0, -2, 0.015327},
	{0, 0, 1, 2, -0.012528},
	{0, 0, 1, -2, 0.010980},
	{4, 0, -1, 0, 0.010675},
	{0, 0, 3, 0, 0.010034},
	{4, 0, -2, 0, 0.008548},
}

func moonLongitude(T float64) float64 {
	Lp := 218.3164477 + 481267.88123421*T
	D := 297.8501921 + 445267.1114034*T
	M := 357.5291092 + 35999.0502909*T
	Mp := 134.9633964 + 477198.8675055*T
	F := 93.2720950 + 483202.0175233*T

	lon := Lp
	for _, t := range lunarTerms {
		lon += t.coeff * sinDeg(t.d*D+t.m*M+t.mp*Mp+t.f*F)
	}
	return Normalize(lon)
}

// heliocentric returns ecliptic rectangular coordinates in AU.
func (el orbitalElements) heliocentric(T float64) (x, y, z float64) {
	a := el.a + el.aDot*T
	e := el.e + el.eDot*T
	incl := rad(el.incl + el.inclDot*T)
	L := el.meanL + el.meanLDot*T
	peri := el.peri + el.periDot*T
	node := el.node + el.nodeDot*T

	M := Normalize(L - peri)
	if M > 180 {
		M -= 360
	}
	E := solveKepler(rad(M), e)

	xp := a * (math.Cos(E) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(E)

	w := rad(peri - node)
	o := rad(node)
	cw, sw := math.Cos(w), math.Sin(w)
	co, so := math.Cos(o), math.Sin(o)
	ci, si := math.Cos(incl), math.Sin(incl)

	x = (cw*co-sw*so*ci)*xp + (-sw*co-cw*so*ci)*yp
	y = (cw*so+sw*co*ci)*xp + (-sw*so+cw*co*ci)*yp
	z = (sw*si)*xp + (cw*si)*yp
	return x, y, z
}

// solveKepler solves M = E - e*sin(E) for E by Newton iteration (radians).
func solveKepler(M, e float64) float64 {
	E := M + e*math.Sin(M)
	for i := 0; i < 30; i++ {
		d := (M - (E - e*math.Sin(E))) / (1 - e*math.Cos(E))
		E += d
		if math.Abs(d) < 1e-12 {
			break
		}
	}
	return E
}
