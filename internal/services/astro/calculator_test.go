package astro

import (
	"context"
	"errors"
	"testing"
	"time"

	"HashClock/internal/domain/models"
)

type fixedProvider struct {
	name models.Strategy
	lons map[models.Body]float64
	err  error
}

func (p fixedProvider) Name() models.Strategy { return p.name }

func (p fixedProvider) Longitudes(_ context.Context, _ time.Time, bodies []models.Body) ([]models.CelestialLongitude, error) {
	if p.err != nil {
		return nil, p.err
	}
	var out []models.CelestialLongitude
	for _, b := range bodies {
		if lon, ok := p.lons[b]; ok {
			out = append(out, models.CelestialLongitude{Body: b, Longitude: lon})
		}
	}
	return out, nil
}

func moment(t *testing.T, in models.BirthInput) models.BirthMoment {
	t.Helper()
	m, err := models.NewBirthMoment(in)
	if err != nil {
		t.Fatalf("birth moment: %v", err)
	}
	return m
}

var fixedNow = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

func TestComputeDeclaresStrategyAndAssembles(t *testing.T) {
	calc := NewCalculator(WithBodies(), WithClock(fixedNow))
	p := fixedProvider{name: models.StrategySimplified, lons: map[models.Body]float64{models.Sun: 10, models.Moon: 190}}
	m := moment(t, models.BirthInput{Date: "2000-01-01", Time: "12:00", Latitude: f(0), Longitude: f(0), Timezone: "UTC"})

	sig, err := calc.Compute(context.Background(), p, m)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sig.Strategy != models.StrategySimplified {
		t.Fatalf("strategy %q", sig.Strategy)
	}
	if sig.Sun.Name != "Aries" || sig.Moon.Name != "Libra" {
		t.Fatalf("unexpected signs %s/%s", sig.Sun.Name, sig.Moon.Name)
	}
	if sig.AscendantName() != "Capricorn" {
		t.Fatalf("unexpected ascendant %s", sig.AscendantName())
	}
	if len(sig.Aspects) != 1 || sig.Aspects[0].Type != "Opposition" {
		t.Fatalf("unexpected aspects %+v", sig.Aspects)
	}
	// no sign matches, exact opposition doubles
	if sig.Rarity != 3456 {
		t.Fatalf("unexpected rarity %d", sig.Rarity)
	}
	if sig.Timing.Period != "Afternoon" || sig.Harmonic.Number != 3 {
		t.Fatalf("unexpected extras %+v %+v", sig.Timing, sig.Harmonic)
	}
	if len(sig.Warnings) != 0 {
		t.Fatalf("unexpected warnings %v", sig.Warnings)
	}
	if !sig.ComputedAt.Equal(fixedNow()) {
		t.Fatalf("unexpected computedAt %v", sig.ComputedAt)
	}
}

func TestComputeMissingCoordinatesLeavesAscendantUnknown(t *testing.T) {
	calc := NewCalculator()
	m := moment(t, models.BirthInput{Date: "1990-06-15", Time: "08:30"})
	sig, err := calc.Compute(context.Background(), NewEphemeris(), m)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sig.Ascendant != nil || sig.AscendantLongitude != nil || sig.AscendantName() != models.UnknownSign {
		t.Fatalf("ascendant should be unknown")
	}
	if !sig.HasWarning(models.WarnMissingCoordinates) {
		t.Fatalf("missing coordinates not flagged: %v", sig.Warnings)
	}
	if sig.Sun.Name != "Gemini" {
		t.Fatalf("sun sign still expected, got %s", sig.Sun.Name)
	}
	if sum := sig.Elements.Fire + sig.Elements.Earth + sig.Elements.Air + sig.Elements.Water; sum != 100 {
		t.Fatalf("elements sum %d", sum)
	}
}

func TestComputeFlagsUnknownTimeAndDegradedYear(t *testing.T) {
	calc := NewCalculator()
	m := moment(t, models.BirthInput{Date: "1850-03-01", Latitude: f(51.5), Longitude: f(0)})
	sig, err := calc.Compute(context.Background(), NewEphemeris(), m)
	if err != nil {
		t.Fatalf("degraded accuracy must not fail: %v", err)
	}
	if !sig.HasWarning(models.WarnDegradedAccuracy) || !sig.HasWarning(models.WarnTimeUnknown) {
		t.Fatalf("expected warnings, got %v", sig.Warnings)
	}
	if sig.Timing.Period != models.UnknownSign {
		t.Fatalf("timing should be unknown, got %s", sig.Timing.Period)
	}
}

func TestComputeRejectsPartialProvider(t *testing.T) {
	calc := NewCalculator()
	p := fixedProvider{name: models.StrategyRemote, lons: map[models.Body]float64{models.Sun: 1, models.Moon: 2}}
	m := moment(t, models.BirthInput{Date: "1990-06-15", Latitude: f(0), Longitude: f(0)})
	_, err := calc.Compute(context.Background(), p, m)
	if !errors.Is(err, models.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestComputeWrapsProviderFailure(t *testing.T) {
	calc := NewCalculator()
	p := fixedProvider{name: models.StrategyRemote, err: errors.New("connection refused")}
	m := moment(t, models.BirthInput{Date: "1990-06-15", Latitude: f(0), Longitude: f(0)})
	if _, err := calc.Compute(context.Background(), p, m); !errors.Is(err, models.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestComputeIdenticalSigns(t *testing.T) {
	// Sun and Moon placed inside Capricorn to match the ascendant at J2000, Greenwich.
	calc := NewCalculator(WithBodies())
	p := fixedProvider{name: models.StrategyEphemeris, lons: map[models.Body]float64{models.Sun: 275, models.Moon: 295}}
	m := moment(t, models.BirthInput{Date: "2000-01-01", Time: "12:00", Latitude: f(0), Longitude: f(0), Timezone: "UTC"})
	sig, err := calc.Compute(context.Background(), p, m)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sig.Sun.Name != "Capricorn" || sig.Moon.Name != "Capricorn" || sig.AscendantName() != "Capricorn" {
		t.Fatalf("expected triple Capricorn, got %s/%s/%s", sig.Sun.Name, sig.Moon.Name, sig.AscendantName())
	}
	if len(sig.Aspects) != 0 {
		t.Fatalf("expected no aspects, got %+v", sig.Aspects)
	}
	if sig.Rarity != 1244 {
		t.Fatalf("expected 1244, got %d", sig.Rarity)
	}
}

func TestTimingAndHarmonic(t *testing.T) {
	cases := map[int]string{0: "Deep Night", 5: "Dawn", 7: "Morning", 12: "Afternoon", 17: "Evening", 20: "Night", 23: "Deep Night"}
	for h, want := range cases {
		if got := CosmicTimingOf(h).Period; got != want {
			t.Errorf("hour %d: %s want %s", h, got, want)
		}
	}
	h := HarmonicOf(15, 6)
	if h.Number != 10 || h.Frequency != 1110 || h.Geometry != "10-pointed star" {
		t.Fatalf("unexpected harmonic %+v", h)
	}
	if HarmonicOf(11, 1).Number != 1 {
		t.Fatalf("expected wrap to 1")
	}
}
