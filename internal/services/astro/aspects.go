package astro

import (
	"math"
	"sort"

	"HashClock/internal/domain/models"
)

// Catalogue is scanned in this order and the first entry within orb wins,
// so the order must not be changed.
var Catalogue = []models.AspectType{
	{Name: "Septile", Angle: 360.0 / 7, Orb: 1, Rarity: models.VeryRare, Optional: true},
	{Name: "Novile", Angle: 40, Orb: 1, Rarity: models.VeryRare, Optional: true},
	{Name: "Quintile", Angle: 72, Orb: 2, Rarity: models.Rare},
	{Name: "Bi-Quintile", Angle: 144, Orb: 2, Rarity: models.Rare},
	{Name: "Semi-Square", Angle: 45, Orb: 2, Rarity: models.Uncommon},
	{Name: "Sesquiquadrate", Angle: 135, Orb: 2, Rarity: models.Uncommon},
	{Name: "Semi-Sextile", Angle: 30, Orb: 3, Rarity: models.Uncommon},
	{Name: "Quincunx", Angle: 150, Orb: 3, Rarity: models.Uncommon},
	{Name: "Sextile", Angle: 60, Orb: 6, Rarity: models.Common},
	{Name: "Square", Angle: 90, Orb: 8, Rarity: models.Common},
	{Name: "Trine", Angle: 120, Orb: 8, Rarity: models.Common},
	{Name: "Conjunction", Angle: 0, Orb: 8, Rarity: models.Common},
	{Name: "Opposition", Angle: 180, Orb: 8, Rarity: models.Common},
}

// Detector matches pairwise separations against an aspect catalogue.
type Detector struct {
	catalogue []models.AspectType
}

type DetectorOption func(*Detector)

// WithHarmonics keeps or drops the optional catalogue entries (Septile, Novile).
func WithHarmonics(on bool) DetectorOption {
	return func(d *Detector) {
		if on {
			return
		}
		kept := make([]models.AspectType, 0, len(d.catalogue))
		for _, a := range d.catalogue {
			if !a.Optional {
				kept = append(kept, a)
			}
		}
		d.catalogue = kept
	}
}

// WithCatalogue replaces the catalogue. Apply before WithHarmonics.
func WithCatalogue(c []models.AspectType) DetectorOption {
	return func(d *Detector) {
		d.catalogue = append([]models.AspectType(nil), c...)
	}
}

func NewDetector(opts ...DetectorOption) *Detector {
	d := &Detector{catalogue: append([]models.AspectType(nil), Catalogue...)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Catalogue returns the active entries in scan order.
func (d *Detector) Catalogue() []models.AspectType {
	return append([]models.AspectType(nil), d.catalogue...)
}

// Separation is the minor arc between two longitudes, in [0,180].
func Separation(a, b float64) float64 {
	sep := math.Abs(Normalize(a) - Normalize(b))
	if sep > 180 {
		sep = 360 - sep
	}
	return sep
}

// Match returns the first catalogue entry whose orb window contains sep.
func (d *Detector) Match(sep float64) (models.AspectType, bool) {
	for _, a := range d.catalogue {
		if math.Abs(sep-a.Angle) <= a.Orb {
			return a, true
		}
	}
	return models.AspectType{}, false
}

// Detect considers every unordered pair i<j once, yields at most one aspect per
// pair and returns them sorted by orb, tightest first.
func (d *Detector) Detect(lons []models.CelestialLongitude) []models.Aspect {
	var out []models.Aspect
	for i := 0; i < len(lons); i++ {
		for j := i + 1; j < len(lons); j++ {
			if lons[i].Body == lons[j].Body {
				continue
			}
			sep := Separation(lons[i].Longitude, lons[j].Longitude)
			a, ok := d.Match(sep)
			if !ok {
				continue
			}
			out = append(out, models.Aspect{
				Body1:  lons[i].Body,
				Body2:  lons[j].Body,
				Type:   a.Name,
				Angle:  sep,
				Orb:    math.Abs(sep - a.Angle),
				Rarity: a.Rarity,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Orb < out[j].Orb })
	return out
}

// DetectAspects runs the default detector.
func DetectAspects(lons []models.CelestialLongitude) []models.Aspect {
	return NewDetector().Detect(lons)
}
