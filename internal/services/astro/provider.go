package astro

import (
	"context"
	"fmt"
	"sync"
	"time"

	"HashClock/internal/domain/models"
	"HashClock/internal/domain/service"
)

// LookupFunc computes one body's longitude at a Julian day.
type LookupFunc func(body models.Body, jd float64) (float64, error)

// Ephemeris is an in-process EphemerisProvider backed by a LookupFunc.
type Ephemeris struct {
	strategy models.Strategy
	lookup   LookupFunc
}

var _ service.EphemerisProvider = (*Ephemeris)(nil)

// NewEphemeris returns the full in-process provider.
func NewEphemeris() *Ephemeris {
	return &Ephemeris{strategy: models.StrategyEphemeris, lookup: LongitudeOf}
}

// NewApproxEphemeris returns the simplified mean-motion provider.
func NewApproxEphemeris() *Ephemeris {
	return &Ephemeris{strategy: models.StrategySimplified, lookup: ApproxLongitudeOf}
}

func (e *Ephemeris) Name() models.Strategy { return e.strategy }

// Longitudes evaluates every body concurrently. The result keeps the order of bodies;
// any single failure fails the whole call.
func (e *Ephemeris) Longitudes(ctx context.Context, instant time.Time, bodies []models.Body) ([]models.CelestialLongitude, error) {
	if instant.IsZero() {
		return nil, fmt.Errorf("%w: zero time", models.ErrInvalidInstant)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	jd := JulianDay(instant)

	out := make([]models.CelestialLongitude, len(bodies))
	errs := make([]error, len(bodies))
	var wg sync.WaitGroup
	for i, b := range bodies {
		wg.Add(1)
		go func(i int, b models.Body) {
			defer wg.Done()
			lon, err := e.lookup(b, jd)
			if err != nil {
				errs[i] = err
				return
			}
			out[i] = models.CelestialLongitude{Body: b, Longitude: lon}
		}(i, b)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
