package astro

import (
	"math"

	"HashClock/internal/domain/models"
)

const (
	sunWeight       = 3
	moonWeight      = 2
	ascendantWeight = 2
)

// Aggregate weighs sun 3, moon 2 and ascendant 2 into element and modality
// percentages. A nil ascendant contributes nothing.
func Aggregate(sun, moon models.ZodiacSign, asc *models.ZodiacSign) (models.ElementBalance, models.ModalityBalance) {
	elements := map[models.Element]int{}
	modalities := map[models.Modality]int{}
	total := 0
	add := func(s models.ZodiacSign, w int) {
		elements[s.Element] += w
		modalities[s.Modality] += w
		total += w
	}
	add(sun, sunWeight)
	add(moon, moonWeight)
	if asc != nil {
		add(*asc, ascendantWeight)
	}

	pct := func(w int) int { return int(math.Round(float64(w) / float64(total) * 100)) }

	eb := models.ElementBalance{
		Fire:  pct(elements[models.Fire]),
		Earth: pct(elements[models.Earth]),
		Air:   pct(elements[models.Air]),
		Water: pct(elements[models.Water]),
	}
	best := -1
	for _, e := range models.Elements {
		if elements[e] > best {
			best, eb.Dominant = elements[e], e
		}
	}

	mb := models.ModalityBalance{
		Cardinal: pct(modalities[models.Cardinal]),
		Fixed:    pct(modalities[models.Fixed]),
		Mutable:  pct(modalities[models.Mutable]),
	}
	best = -1
	for _, m := range models.Modalities {
		if modalities[m] > best {
			best, mb.Dominant = modalities[m], m
		}
	}
	return eb, mb
}
