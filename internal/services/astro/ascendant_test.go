package astro

import (
	"errors"
	"testing"
	"time"

	"HashClock/internal/domain/models"
)

func f(v float64) *float64 { return &v }

func TestGreenwichSiderealAtJ2000(t *testing.T) {
	if got := GreenwichSiderealDegrees(J2000); !near(got, 280.46061837, 1e-6) {
		t.Fatalf("unexpected GMST %v", got)
	}
}

func TestAscendantOfUsesLocalSiderealTime(t *testing.T) {
	at := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		lon  float64
		want float64
		sign string
	}{
		{0, 280.4606, "Capricorn"},
		{-90, 190.4606, "Libra"},
		{180, 100.4606, "Cancer"},
	}
	for _, c := range cases {
		got, err := AscendantOf(at, f(0), f(c.lon))
		if err != nil {
			t.Fatalf("lon %v: unexpected err %v", c.lon, err)
		}
		if !near(got, c.want, 1e-3) {
			t.Errorf("lon %v: got %v want %v", c.lon, got, c.want)
		}
		if SignOf(got).Name != c.sign {
			t.Errorf("lon %v: sign %s want %s", c.lon, SignOf(got).Name, c.sign)
		}
	}
}

func TestAscendantOfIgnoresLatitude(t *testing.T) {
	at := time.Date(1990, 6, 15, 12, 0, 0, 0, time.UTC)
	a, _ := AscendantOf(at, f(-60), f(10))
	b, _ := AscendantOf(at, f(60), f(10))
	if a != b {
		t.Fatalf("latitude changed result: %v vs %v", a, b)
	}
}

func TestAscendantOfMissingCoordinates(t *testing.T) {
	at := time.Date(1990, 6, 15, 12, 0, 0, 0, time.UTC)
	if _, err := AscendantOf(at, nil, f(0)); !errors.Is(err, models.ErrMissingCoordinates) {
		t.Fatalf("expected ErrMissingCoordinates, got %v", err)
	}
	if _, err := AscendantOf(at, f(0), nil); !errors.Is(err, models.ErrMissingCoordinates) {
		t.Fatalf("expected ErrMissingCoordinates, got %v", err)
	}
	if _, err := AscendantOf(at, f(0), f(0)); err != nil {
		t.Fatalf("0,0 is a valid coordinate: %v", err)
	}
}

func TestAscendantOfRange(t *testing.T) {
	at := time.Date(1990, 6, 15, 12, 0, 0, 0, time.UTC)
	if _, err := AscendantOf(at, f(90.5), f(0)); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := AscendantOf(at, f(0), f(180.1)); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
