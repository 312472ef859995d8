package astro

import (
	"testing"

	"HashClock/internal/domain/models"
)

func lons(vals ...float64) []models.CelestialLongitude {
	out := make([]models.CelestialLongitude, len(vals))
	for i, v := range vals {
		out[i] = models.CelestialLongitude{Body: models.Bodies[i], Longitude: v}
	}
	return out
}

func TestDetectOpposition(t *testing.T) {
	got := DetectAspects(lons(10, 190))
	if len(got) != 1 {
		t.Fatalf("expected 1 aspect, got %d", len(got))
	}
	a := got[0]
	if a.Type != "Opposition" || a.Orb != 0 || a.Angle != 180 || a.Rarity != models.Common {
		t.Fatalf("unexpected aspect %+v", a)
	}
}

func TestDetectConjunctionWithinOrb(t *testing.T) {
	got := DetectAspects(lons(45, 48))
	if len(got) != 1 || got[0].Type != "Conjunction" || got[0].Orb != 3 {
		t.Fatalf("unexpected aspects %+v", got)
	}
}

func TestDetectNoAspect(t *testing.T) {
	if got := DetectAspects(lons(0, 20)); len(got) != 0 {
		t.Fatalf("expected none, got %+v", got)
	}
}

func TestDetectSymmetric(t *testing.T) {
	for a := 0.0; a < 360; a += 7.3 {
		for b := 0.0; b < 360; b += 11.9 {
			ab := DetectAspects(lons(a, b))
			ba := DetectAspects(lons(b, a))
			if len(ab) != len(ba) {
				t.Fatalf("(%v,%v) asymmetric count", a, b)
			}
			if len(ab) == 1 && (ab[0].Type != ba[0].Type || ab[0].Orb != ba[0].Orb) {
				t.Fatalf("(%v,%v): %+v vs %+v", a, b, ab[0], ba[0])
			}
		}
	}
}

func TestDetectAtMostOnePerPairSortedByOrb(t *testing.T) {
	got := DetectAspects(lons(0, 60.5, 120, 179, 271, 30.2, 144.1))
	seen := map[[2]models.Body]bool{}
	for i, a := range got {
		key := [2]models.Body{a.Body1, a.Body2}
		if seen[key] {
			t.Fatalf("pair %v yielded twice", key)
		}
		seen[key] = true
		if i > 0 && got[i-1].Orb > a.Orb {
			t.Fatalf("not sorted by orb at %d", i)
		}
	}
	if len(got) == 0 {
		t.Fatalf("expected aspects")
	}
}

func TestFirstMatchWins(t *testing.T) {
	d := NewDetector(WithCatalogue([]models.AspectType{
		{Name: "Wide", Angle: 0, Orb: 10, Rarity: models.Common},
		{Name: "Narrow", Angle: 5, Orb: 1, Rarity: models.Rare},
	}))
	got := d.Detect(lons(0, 5))
	if len(got) != 1 || got[0].Type != "Wide" {
		t.Fatalf("expected first catalogue entry, got %+v", got)
	}
}

func TestHarmonicsToggle(t *testing.T) {
	if got := NewDetector().Detect(lons(0, 40)); len(got) != 1 || got[0].Type != "Novile" {
		t.Fatalf("expected Novile, got %+v", got)
	}
	if got := NewDetector(WithHarmonics(false)).Detect(lons(0, 40)); len(got) != 0 {
		t.Fatalf("expected no aspect without harmonics, got %+v", got)
	}
	for _, a := range NewDetector(WithHarmonics(false)).Catalogue() {
		if a.Optional {
			t.Fatalf("optional entry %s kept", a.Name)
		}
	}
}

func TestSeparationMinorArc(t *testing.T) {
	cases := []struct{ a, b, want float64 }{
		{10, 190, 180},
		{350, 10, 20},
		{0, 359, 1},
		{-10, 10, 20},
	}
	for _, c := range cases {
		if got := Separation(c.a, c.b); got != c.want {
			t.Errorf("Separation(%v,%v) = %v want %v", c.a, c.b, got, c.want)
		}
	}
}
