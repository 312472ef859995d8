package astro

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"HashClock/internal/domain/models"
)

func near(a, b, tol float64) bool {
	d := math.Abs(Normalize(a) - Normalize(b))
	if d > 180 {
		d = 360 - d
	}
	return d <= tol
}

func TestJulianDayJ2000(t *testing.T) {
	got := JulianDay(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC))
	if got != J2000 {
		t.Fatalf("expected %v, got %v", J2000, got)
	}
	ny := time.FixedZone("EST", -5*3600)
	if JulianDay(time.Date(2000, 1, 1, 7, 0, 0, 0, ny)) != J2000 {
		t.Fatalf("julian day must not depend on zone")
	}
}

func TestNormalize(t *testing.T) {
	cases := map[float64]float64{0: 0, 360: 0, -1: 359, 720.5: 0.5, -360: 0, 359.5: 359.5}
	for in, want := range cases {
		if got := Normalize(in); math.Abs(got-want) > 1e-9 {
			t.Errorf("Normalize(%v) = %v want %v", in, got, want)
		}
	}
	if got := Normalize(-1e-18); got < 0 || got >= 360 {
		t.Fatalf("tiny negative escaped range: %v", got)
	}
	if Normalize(math.NaN()) != 0 {
		t.Fatalf("NaN should normalize to 0")
	}
}

func TestLongitudeOfAtJ2000(t *testing.T) {
	// Published geocentric positions at 2000-01-01 12:00, tolerance 1°.
	want := map[models.Body]float64{
		models.Sun:     280.37,
		models.Moon:    223.32,
		models.Mercury: 271.89,
		models.Venus:   241.57,
		models.Mars:    327.96,
		models.Jupiter: 25.25,
		models.Saturn:  40.40,
		models.Uranus:  314.81,
		models.Neptune: 303.19,
		models.Pluto:   251.45,
	}
	for body, w := range want {
		got, err := LongitudeOf(body, J2000)
		if err != nil {
			t.Fatalf("%s: unexpected err %v", body, err)
		}
		if !near(got, w, 1.0) {
			t.Errorf("%s: got %.3f want ~%.2f", body, got, w)
		}
	}
}

func TestLongitudeOfRegression1990(t *testing.T) {
	jd := JulianDay(time.Date(1990, 6, 15, 12, 0, 0, 0, time.UTC))
	want := map[models.Body]float64{
		models.Sun:     84.134,
		models.Moon:    345.335,
		models.Mercury: 65.832,
		models.Venus:   48.916,
		models.Mars:    11.168,
		models.Jupiter: 106.060,
		models.Saturn:  294.092,
		models.Uranus:  278.297,
		models.Neptune: 283.842,
		models.Pluto:   225.529,
	}
	for body, w := range want {
		got, err := LongitudeOf(body, jd)
		if err != nil {
			t.Fatalf("%s: unexpected err %v", body, err)
		}
		if !near(got, w, 0.01) {
			t.Errorf("%s: got %.4f want %.3f", body, got, w)
		}
	}
}

func TestLongitudeOfUnsupportedBody(t *testing.T) {
	for _, fn := range []LookupFunc{LongitudeOf, ApproxLongitudeOf} {
		if _, err := fn(models.Body("Chiron"), J2000); !errors.Is(err, models.ErrUnsupportedBody) {
			t.Fatalf("expected ErrUnsupportedBody, got %v", err)
		}
	}
}

func TestLongitudeOfInvalidInstant(t *testing.T) {
	if _, err := LongitudeOf(models.Sun, math.NaN()); !errors.Is(err, models.ErrInvalidInstant) {
		t.Fatalf("expected ErrInvalidInstant, got %v", err)
	}
}

func TestLongitudesAlwaysInRange(t *testing.T) {
	start := time.Date(1700, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 600; i++ {
		jd := JulianDay(start.AddDate(0, i, 17))
		for _, b := range models.Bodies {
			for _, fn := range []LookupFunc{LongitudeOf, ApproxLongitudeOf} {
				lon, err := fn(b, jd)
				if err != nil {
					t.Fatalf("%s: %v", b, err)
				}
				if lon < 0 || lon >= 360 {
					t.Fatalf("%s at jd %v: %v out of range", b, jd, lon)
				}
			}
		}
	}
}

func TestApproxLongitudeOfAtJ2000(t *testing.T) {
	want := map[models.Body]float64{
		models.Sun:     280.466,
		models.Moon:    218.316,
		models.Mercury: 272.694,
		models.Venus:   241.773,
		models.Mars:    327.000,
		models.Jupiter: 23.609,
		models.Saturn:  44.999,
	}
	for body, w := range want {
		got, err := ApproxLongitudeOf(body, J2000)
		if err != nil {
			t.Fatalf("%s: unexpected err %v", body, err)
		}
		if !near(got, w, 0.01) {
			t.Errorf("%s: got %.4f want %.3f", body, got, w)
		}
	}
}

func TestEphemerisLongitudesKeepsOrder(t *testing.T) {
	e := NewEphemeris()
	if e.Name() != models.StrategyEphemeris {
		t.Fatalf("unexpected strategy %q", e.Name())
	}
	bodies := []models.Body{models.Saturn, models.Sun, models.Moon}
	got, err := e.Longitudes(context.Background(), time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), bodies)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for i, b := range bodies {
		if got[i].Body != b {
			t.Fatalf("position %d: got %s want %s", i, got[i].Body, b)
		}
	}
}

func TestEphemerisLongitudesFailsWhole(t *testing.T) {
	_, err := NewApproxEphemeris().Longitudes(context.Background(), time.Now(), []models.Body{models.Sun, "Vulcan"})
	if !errors.Is(err, models.ErrUnsupportedBody) {
		t.Fatalf("expected ErrUnsupportedBody, got %v", err)
	}
	_, err = NewEphemeris().Longitudes(context.Background(), time.Time{}, models.Bodies)
	if !errors.Is(err, models.ErrInvalidInstant) {
		t.Fatalf("expected ErrInvalidInstant, got %v", err)
	}
}

func TestEphemerisLongitudesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewEphemeris().Longitudes(ctx, time.Now(), models.Bodies); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
