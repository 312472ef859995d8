package astro

import (
	"context"
	"errors"
	"fmt"
	"time"

	"HashClock/internal/domain/models"
	"HashClock/internal/domain/service"
)

const (
	DefaultSafeYearMin = 1900
	DefaultSafeYearMax = 2100
)

// Calculator assembles a Signature from a single provider's longitudes.
type Calculator struct {
	detector *Detector
	bodies   []models.Body
	safeMin  int
	safeMax  int
	now      func() time.Time
}

var _ service.SignatureCalculator = (*Calculator)(nil)

type CalculatorOption func(*Calculator)

func WithDetector(d *Detector) CalculatorOption {
	return func(c *Calculator) { c.detector = d }
}

// WithSafeYears sets the year band outside of which results are flagged as degraded.
func WithSafeYears(lo, hi int) CalculatorOption {
	return func(c *Calculator) { c.safeMin, c.safeMax = lo, hi }
}

func WithClock(now func() time.Time) CalculatorOption {
	return func(c *Calculator) { c.now = now }
}

// WithBodies limits the tracked bodies. Sun and Moon are always tracked.
func WithBodies(bodies ...models.Body) CalculatorOption {
	return func(c *Calculator) {
		list := []models.Body{models.Sun, models.Moon}
		for _, b := range bodies {
			if b != models.Sun && b != models.Moon {
				list = append(list, b)
			}
		}
		c.bodies = list
	}
}

func NewCalculator(opts ...CalculatorOption) *Calculator {
	c := &Calculator{
		detector: NewDetector(),
		bodies:   append([]models.Body(nil), models.Bodies...),
		safeMin:  DefaultSafeYearMin,
		safeMax:  DefaultSafeYearMax,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bodies returns the tracked bodies in pair-enumeration order.
func (c *Calculator) Bodies() []models.Body { return append([]models.Body(nil), c.bodies...) }

// Compute builds the signature for moment using only provider's longitudes.
// Missing coordinates leave the ascendant unknown and are reported as a warning.
func (c *Calculator) Compute(ctx context.Context, provider service.EphemerisProvider, moment models.BirthMoment) (*models.Signature, error) {
	instant := moment.Instant()
	if instant.IsZero() {
		return nil, fmt.Errorf("%w: birth moment not resolved", models.ErrInvalidInstant)
	}
	for _, b := range c.bodies {
		if !b.IsKnown() {
			return nil, fmt.Errorf("%w: %q", models.ErrUnsupportedBody, b)
		}
	}

	raw, err := provider.Longitudes(ctx, instant, c.bodies)
	if err != nil {
		if errors.Is(err, models.ErrUnsupportedBody) || errors.Is(err, models.ErrInvalidInstant) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w: %w", provider.Name(), models.ErrProviderUnavailable, err)
	}
	lons, err := c.ordered(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", provider.Name(), err)
	}

	sig := &models.Signature{
		Moment:     moment,
		Strategy:   provider.Name(),
		Placements: make([]models.Placement, 0, len(lons)),
		ComputedAt: c.now().UTC(),
	}
	for _, l := range lons {
		sig.Placements = append(sig.Placements, models.Placement{
			Body:      l.Body,
			Longitude: l.Longitude,
			Sign:      SignOf(l.Longitude),
			Degree:    DegreeInSign(l.Longitude),
		})
	}
	sun, _ := sig.Placement(models.Sun)
	moon, _ := sig.Placement(models.Moon)
	sig.Sun, sig.Moon = sun.Sign, moon.Sign

	asc, err := AscendantOf(instant, moment.Latitude(), moment.Longitude())
	switch {
	case err == nil:
		sign := SignOf(asc)
		sig.Ascendant, sig.AscendantLongitude = &sign, &asc
	case errors.Is(err, models.ErrMissingCoordinates):
		sig.Warnings = append(sig.Warnings, models.WarnMissingCoordinates)
	default:
		return nil, err
	}

	sig.Aspects = c.detector.Detect(lons)
	sig.Elements, sig.Modalities = Aggregate(sig.Sun, sig.Moon, sig.Ascendant)
	sig.Rarity = EstimateRarity(sig.Sun, sig.Moon, sig.Ascendant, sig.Aspects)

	y, mo, d := moment.Date()
	sig.Harmonic = HarmonicOf(d, int(mo))
	if moment.TimeKnown() {
		h, _, _ := moment.Clock()
		sig.Timing = CosmicTimingOf(h)
	} else {
		sig.Timing = unknownTiming
		sig.Warnings = append(sig.Warnings, models.WarnTimeUnknown)
	}
	if iy := instant.Year(); iy < c.safeMin || iy > c.safeMax || y < c.safeMin || y > c.safeMax {
		sig.Warnings = append(sig.Warnings, models.WarnDegradedAccuracy)
	}
	return sig, nil
}

// ordered checks a provider reply covers every tracked body exactly once and
// returns it in tracked order with normalized longitudes.
func (c *Calculator) ordered(raw []models.CelestialLongitude) ([]models.CelestialLongitude, error) {
	byBody := make(map[models.Body]float64, len(raw))
	for _, l := range raw {
		if _, dup := byBody[l.Body]; dup {
			return nil, fmt.Errorf("%w: duplicate body %q", models.ErrProviderUnavailable, l.Body)
		}
		byBody[l.Body] = l.Longitude
	}
	out := make([]models.CelestialLongitude, 0, len(c.bodies))
	for _, b := range c.bodies {
		lon, ok := byBody[b]
		if !ok {
			return nil, fmt.Errorf("%w: missing body %q", models.ErrProviderUnavailable, b)
		}
		out = append(out, models.CelestialLongitude{Body: b, Longitude: Normalize(lon)})
	}
	return out, nil
}
