package service

import (
	"context"
	"time"

	"HashClock/internal/domain/models"
)

// EphemerisProvider returns ecliptic longitudes for bodies at an instant.
// An implementation either returns every requested body or fails; it never
// returns a partial set.
type EphemerisProvider interface {
	Name() models.Strategy
	Longitudes(ctx context.Context, instant time.Time, bodies []models.Body) ([]models.CelestialLongitude, error)
}

// SignatureCalculator turns a birth moment into a signature using one provider.
type SignatureCalculator interface {
	Compute(ctx context.Context, provider EphemerisProvider, moment models.BirthMoment) (*models.Signature, error)
}

// Narrator writes a reading of a signature.
type Narrator interface {
	Narrate(ctx context.Context, name string, sig *models.Signature) (models.Report, error)
}
