package astro

import (
	"math"

	"HashClock/internal/domain/models"
)

// Rarity is a heuristic "1 in N" score for entertainment. It is not a calibrated
// population statistic.
const (
	RarityBaseline = 12 * 12 * 12

	sameSunMoonFactor    = 0.8
	sunIsAscendantFactor = 0.9
	rareFactor           = 3
	veryRareFactor       = 10
	tightOrbFactor       = 2
	tightOrb             = 1.0
)

// EstimateRarity applies the multipliers in a fixed order and floors the result.
// The figure is at least 1 and saturates at math.MaxInt64.
func EstimateRarity(sun, moon models.ZodiacSign, asc *models.ZodiacSign, aspects []models.Aspect) int64 {
	r := float64(RarityBaseline)
	if sun.Index == moon.Index {
		r *= sameSunMoonFactor
	}
	if asc != nil && sun.Index == asc.Index {
		r *= sunIsAscendantFactor
	}
	tight := false
	for _, a := range aspects {
		switch a.Rarity {
		case models.Rare:
			r *= rareFactor
		case models.VeryRare:
			r *= veryRareFactor
		}
		if a.Orb < tightOrb {
			tight = true
		}
	}
	if tight {
		r *= tightOrbFactor
	}

	r = math.Floor(r)
	if r >= math.MaxInt64 || math.IsInf(r, 1) {
		return math.MaxInt64
	}
	if r < 1 {
		return 1
	}
	return int64(r)
}
