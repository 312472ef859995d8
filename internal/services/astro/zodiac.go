package astro

import (
	"math"
	"strings"

	"HashClock/internal/domain/models"
)

var signs = [12]models.ZodiacSign{
	{Index: 0, Name: "Aries", Glyph: "♈", Element: models.Fire, Modality: models.Cardinal},
	{Index: 1, Name: "Taurus", Glyph: "♉", Element: models.Earth, Modality: models.Fixed},
	{Index: 2, Name: "Gemini", Glyph: "♊", Element: models.Air, Modality: models.Mutable},
	{Index: 3, Name: "Cancer", Glyph: "♋", Element: models.Water, Modality: models.Cardinal},
	{Index: 4, Name: "Leo", Glyph: "♌", Element: models.Fire, Modality: models.Fixed},
	{Index: 5, Name: "Virgo", Glyph: "♍", Element: models.Earth, Modality: models.Mutable},
	{Index: 6, Name: "Libra", Glyph: "♎", Element: models.Air, Modality: models.Cardinal},
	{Index: 7, Name: "Scorpio", Glyph: "♏", Element: models.Water, Modality: models.Fixed},
	{Index: 8, Name: "Sagittarius", Glyph: "♐", Element: models.Fire, Modality: models.Mutable},
	{Index: 9, Name: "Capricorn", Glyph: "♑", Element: models.Earth, Modality: models.Cardinal},
	{Index: 10, Name: "Aquarius", Glyph: "♒", Element: models.Air, Modality: models.Fixed},
	{Index: 11, Name: "Pisces", Glyph: "♓", Element: models.Water, Modality: models.Mutable},
}

func init() {
	for i := range signs {
		signs[i].Start = float64(30 * i)
		signs[i].End = float64(30 * (i + 1))
	}
}

// Signs returns the twelve signs, Aries first.
func Signs() []models.ZodiacSign {
	out := make([]models.ZodiacSign, len(signs))
	copy(out, signs[:])
	return out
}

// SignOf classifies an ecliptic longitude. Any real value maps to exactly one sign.
func SignOf(longitude float64) models.ZodiacSign {
	idx := int(math.Floor(Normalize(longitude)/30)) % 12
	return signs[idx]
}

// DegreeInSign is the offset of longitude within its sign, in [0,30).
func DegreeInSign(longitude float64) float64 {
	return math.Mod(Normalize(longitude), 30)
}

// SignByName looks a sign up case-insensitively.
func SignByName(name string) (models.ZodiacSign, bool) {
	for _, s := range signs {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return models.ZodiacSign{}, false
}
