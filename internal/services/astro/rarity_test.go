package astro

import (
	"math"
	"testing"

	"HashClock/internal/domain/models"
)

func TestRarityIdenticalSigns(t *testing.T) {
	s := sign("Scorpio")
	if got := EstimateRarity(s, s, &s, nil); got != 1244 {
		t.Fatalf("expected 1244, got %d", got)
	}
}

func TestRarityBaseline(t *testing.T) {
	asc := sign("Leo")
	if got := EstimateRarity(sign("Aries"), sign("Pisces"), &asc, nil); got != RarityBaseline {
		t.Fatalf("expected baseline, got %d", got)
	}
}

func TestRarityUnknownAscendantSkipsSunAsc(t *testing.T) {
	s := sign("Virgo")
	if got := EstimateRarity(s, s, nil, nil); got != 1382 {
		t.Fatalf("expected floor(1728*0.8)=1382, got %d", got)
	}
}

func TestRarityAspectMultipliers(t *testing.T) {
	asc := sign("Leo")
	aspects := []models.Aspect{
		{Type: "Quintile", Rarity: models.Rare, Orb: 1.5},
		{Type: "Septile", Rarity: models.VeryRare, Orb: 0.4},
		{Type: "Trine", Rarity: models.Common, Orb: 3},
	}
	want := int64(1728 * 3 * 10 * 2)
	if got := EstimateRarity(sign("Aries"), sign("Pisces"), &asc, aspects); got != want {
		t.Fatalf("expected %d, got %d", want, got)
	}
}

func TestRarityMonotonicInVeryRare(t *testing.T) {
	asc := sign("Leo")
	base := []models.Aspect{{Type: "Square", Rarity: models.Common, Orb: 2}}
	before := EstimateRarity(sign("Aries"), sign("Aries"), &asc, base)
	after := EstimateRarity(sign("Aries"), sign("Aries"), &asc, append(base, models.Aspect{Type: "Novile", Rarity: models.VeryRare, Orb: 0.9}))
	if after < before {
		t.Fatalf("rarity decreased: %d -> %d", before, after)
	}
}

func TestRaritySaturates(t *testing.T) {
	var aspects []models.Aspect
	for i := 0; i < 30; i++ {
		aspects = append(aspects, models.Aspect{Rarity: models.VeryRare, Orb: 0.1})
	}
	if got := EstimateRarity(sign("Aries"), sign("Leo"), nil, aspects); got != math.MaxInt64 {
		t.Fatalf("expected saturation, got %d", got)
	}
}
