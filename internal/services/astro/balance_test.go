package astro

import (
	"testing"

	"HashClock/internal/domain/models"
)

func sign(name string) models.ZodiacSign {
	s, _ := SignByName(name)
	return s
}

func TestAggregateWeights(t *testing.T) {
	asc := sign("Gemini")
	eb, mb := Aggregate(sign("Aries"), sign("Taurus"), &asc)
	if eb.Fire != 43 || eb.Earth != 29 || eb.Air != 29 || eb.Water != 0 {
		t.Fatalf("unexpected elements %+v", eb)
	}
	if eb.Dominant != models.Fire {
		t.Fatalf("unexpected dominant %s", eb.Dominant)
	}
	if mb.Cardinal != 43 || mb.Fixed != 29 || mb.Mutable != 29 || mb.Dominant != models.Cardinal {
		t.Fatalf("unexpected modalities %+v", mb)
	}
}

func TestAggregateSkipsUnknownAscendant(t *testing.T) {
	eb, mb := Aggregate(sign("Cancer"), sign("Virgo"), nil)
	if eb.Water != 60 || eb.Earth != 40 || eb.Fire != 0 || eb.Air != 0 {
		t.Fatalf("unexpected elements %+v", eb)
	}
	if mb.Cardinal != 60 || mb.Mutable != 40 {
		t.Fatalf("unexpected modalities %+v", mb)
	}
}

func TestAggregateDegenerate(t *testing.T) {
	asc := sign("Sagittarius")
	eb, mb := Aggregate(sign("Aries"), sign("Leo"), &asc)
	if eb.Fire != 100 || eb.Dominant != models.Fire {
		t.Fatalf("expected 100%% fire, got %+v", eb)
	}
	if mb.Cardinal+mb.Fixed+mb.Mutable < 99 || mb.Cardinal+mb.Fixed+mb.Mutable > 101 {
		t.Fatalf("modalities do not sum to 100: %+v", mb)
	}
}

func TestAggregateConservation(t *testing.T) {
	all := Signs()
	for _, s := range all {
		for _, m := range all {
			for _, a := range all {
				asc := a
				eb, mb := Aggregate(s, m, &asc)
				sum := eb.Fire + eb.Earth + eb.Air + eb.Water
				if sum < 99 || sum > 101 {
					t.Fatalf("%s/%s/%s: elements sum %d", s.Name, m.Name, a.Name, sum)
				}
				if s.Element == m.Element && m.Element == a.Element && sum != 100 {
					t.Fatalf("%s/%s/%s: same element must sum to 100", s.Name, m.Name, a.Name)
				}
				msum := mb.Cardinal + mb.Fixed + mb.Mutable
				if msum < 99 || msum > 101 {
					t.Fatalf("%s/%s/%s: modalities sum %d", s.Name, m.Name, a.Name, msum)
				}
			}
		}
	}
}
