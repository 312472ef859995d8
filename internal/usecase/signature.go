package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"HashClock/internal/domain/models"
	domrepo "HashClock/internal/domain/repository"
	domsvc "HashClock/internal/domain/service"
	"HashClock/internal/service/cache"
	applogger "HashClock/pkg/logger"
)

// Archiver accepts computed records for asynchronous archiving.
type Archiver interface {
	Submit(r *models.SignatureRecord) error
}

// SignatureUseCase computes signatures through an ordered provider chain.
// The first provider that answers for every body wins; results from two
// providers are never combined.
type SignatureUseCase struct {
	calc      domsvc.SignatureCalculator
	providers []domsvc.EphemerisProvider
	metrics   domrepo.Metrics
	cache     domrepo.SignatureCache
	archive   Archiver
	harmonics bool
	timeout   time.Duration
	l         *applogger.Logger
}

type SignatureOption func(*SignatureUseCase)

func WithCache(c domrepo.SignatureCache) SignatureOption {
	return func(u *SignatureUseCase) {
		if c != nil {
			u.cache = c
		}
	}
}

// WithArchive routes every freshly computed signature to a.
func WithArchive(a Archiver) SignatureOption {
	return func(u *SignatureUseCase) { u.archive = a }
}

func WithComputeTimeout(d time.Duration) SignatureOption {
	return func(u *SignatureUseCase) { u.timeout = d }
}

// WithHarmonics tells the use case whether the calculator detects harmonic
// aspects, which is part of the cache key.
func WithHarmonics(on bool) SignatureOption {
	return func(u *SignatureUseCase) { u.harmonics = on }
}

func WithLogger(l *applogger.Logger) SignatureOption {
	return func(u *SignatureUseCase) {
		if l != nil {
			u.l = l
		}
	}
}

func NewSignatureUseCase(calc domsvc.SignatureCalculator, providers []domsvc.EphemerisProvider, metrics domrepo.Metrics, opts ...SignatureOption) *SignatureUseCase {
	u := &SignatureUseCase{
		calc:      calc,
		providers: providers,
		metrics:   metrics,
		cache:     cache.Noop{},
		harmonics: true,
		l:         applogger.Nop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Providers lists the chain in try order.
func (u *SignatureUseCase) Providers() []domsvc.EphemerisProvider {
	return append([]domsvc.EphemerisProvider(nil), u.providers...)
}

// Compute resolves in and computes a fresh signature. The cache is not consulted.
func (u *SignatureUseCase) Compute(ctx context.Context, in models.BirthInput) (*models.Signature, error) {
	moment, err := models.NewBirthMoment(in)
	if err != nil {
		return nil, err
	}
	return u.computeMoment(ctx, moment)
}

func (u *SignatureUseCase) computeMoment(ctx context.Context, moment models.BirthMoment) (*models.Signature, error) {
	if len(u.providers) == 0 {
		return nil, fmt.Errorf("%w: no providers configured", models.ErrProviderUnavailable)
	}
	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	start := time.Now()
	var lastErr error
	for _, p := range u.providers {
		sig, err := u.calc.Compute(ctx, p, moment)
		if err == nil {
			u.metrics.RecordProvider(string(p.Name()), "ok")
			u.metrics.RecordLatency("compute", time.Since(start).Seconds())
			return sig, nil
		}
		if !errors.Is(err, models.ErrProviderUnavailable) {
			// input problems fail identically on every provider
			return nil, err
		}
		u.metrics.RecordProvider(string(p.Name()), "error")
		u.l.Warn("provider failed, trying next",
			applogger.String("provider", string(p.Name())),
			applogger.Error(err))
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	u.metrics.RecordError("providers_exhausted")
	return nil, fmt.Errorf("all providers failed: %w", lastErr)
}

// Signature returns the wire response for in, from cache when possible.
// Fresh results are cached and archived under source.
func (u *SignatureUseCase) Signature(ctx context.Context, in models.BirthInput, source string) (*models.SignatureResponse, error) {
	moment, err := models.NewBirthMoment(in)
	if err != nil {
		return nil, err
	}
	key := cache.MomentKey(moment, u.harmonics)
	if resp, ok := u.cache.Get(ctx, key); ok {
		u.metrics.RecordSignature(source, "cache")
		return resp, nil
	}

	sig, err := u.computeMoment(ctx, moment)
	if err != nil {
		return nil, err
	}
	resp := models.NewSignatureResponse(sig)
	u.metrics.RecordSignature(source, string(sig.Strategy))
	u.metrics.RecordRarity(sig.Rarity)

	if err := u.cache.Set(ctx, key, &resp); err != nil {
		u.l.Warn("cache set failed", applogger.Error(err))
	}
	u.submit(key, source, sig)
	return &resp, nil
}

func (u *SignatureUseCase) submit(id, source string, sig *models.Signature) {
	if u.archive == nil {
		return
	}
	rec, err := models.NewSignatureRecord(id, source, sig)
	if err != nil {
		u.l.Error("build archive record", applogger.Error(err))
		return
	}
	if err := u.archive.Submit(rec); err != nil {
		u.l.Warn("archive submit failed", applogger.String("id", id), applogger.Error(err))
	}
}

// probeMoment is J2000.0 at Greenwich.
func probeMoment() models.BirthMoment {
	lat, lon := 51.4769, 0.0
	m, _ := models.NewBirthMoment(models.BirthInput{
		Date: "2000-01-01", Time: "12:00", Latitude: &lat, Longitude: &lon, Timezone: "UTC",
	})
	return m
}

// Probe computes a reference chart with the primary provider only.
func (u *SignatureUseCase) Probe(ctx context.Context) error {
	if len(u.providers) == 0 {
		return fmt.Errorf("%w: no providers configured", models.ErrProviderUnavailable)
	}
	_, err := u.calc.Compute(ctx, u.providers[0], probeMoment())
	return err
}
