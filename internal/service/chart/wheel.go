package chart

import (
	"fmt"
	"math"
	"strings"

	"HashClock/internal/domain/models"
)

const (
	wheelSize   = 400.0
	wheelCenter = wheelSize / 2
	outerR      = 190.0
	signR       = 160.0
	bodyR       = 135.0
	chordR      = 110.0
)

var elementFill = map[models.Element]string{
	models.Fire:  "#fbe3d6",
	models.Earth: "#e7eed9",
	models.Air:   "#e2f0f8",
	models.Water: "#dbe3f3",
}

var tierStroke = map[models.RarityTier]string{
	models.Common:   "#999999",
	models.Uncommon: "#6a8caf",
	models.Rare:     "#b05fc9",
	models.VeryRare: "#d4a017",
}

// point converts an ecliptic longitude to SVG coordinates. 0° Aries sits at
// nine o'clock and longitude increases counter-clockwise, so 90° is at the bottom.
func point(lon, r float64) (float64, float64) {
	a := (180 + lon) * math.Pi / 180
	return wheelCenter + r*math.Cos(a), wheelCenter - r*math.Sin(a)
}

// Wheel draws the chart as a self-contained SVG: sign sectors, body markers,
// the ascendant when known, and a chord per aspect.
func Wheel(sig *models.Signature, signs []models.ZodiacSign) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f" class="wheel">`,
		wheelSize, wheelSize, wheelSize, wheelSize)

	for _, s := range signs {
		x1, y1 := point(s.Start, outerR)
		x2, y2 := point(s.End, outerR)
		fmt.Fprintf(&b, `<path d="M %.1f %.1f L %.1f %.1f A %.0f %.0f 0 0 0 %.1f %.1f Z" fill="%s" stroke="#ccc"/>`,
			wheelCenter, wheelCenter, x1, y1, outerR, outerR, x2, y2, elementFill[s.Element])
		gx, gy := point(s.Start+15, signR+12)
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-size="16"><title>%s</title>%s</text>`,
			gx, gy, s.Name, s.Glyph)
	}
	fmt.Fprintf(&b, `<circle cx="%.0f" cy="%.0f" r="%.0f" fill="#fff" stroke="#ccc"/>`, wheelCenter, wheelCenter, bodyR+12)

	lons := make(map[models.Body]float64, len(sig.Placements))
	for _, p := range sig.Placements {
		lons[p.Body] = p.Longitude
	}
	for _, a := range sig.Aspects {
		l1, ok1 := lons[a.Body1]
		l2, ok2 := lons[a.Body2]
		if !ok1 || !ok2 {
			continue
		}
		x1, y1 := point(l1, chordR)
		x2, y2 := point(l2, chordR)
		fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="1" class="aspect"><title>%s %s %s</title></line>`,
			x1, y1, x2, y2, tierStroke[a.Rarity], a.Body1, a.Type, a.Body2)
	}
	for _, p := range sig.Placements {
		x, y := point(p.Longitude, bodyR)
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="4" fill="#333" class="body"><title>%s %.2f° %s</title></circle>`,
			x, y, p.Body, p.Degree, p.Sign.Name)
	}
	if sig.AscendantLongitude != nil {
		x1, y1 := point(*sig.AscendantLongitude, bodyR+12)
		x2, y2 := point(*sig.AscendantLongitude, outerR)
		fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#c00" stroke-width="3" class="ascendant"><title>Ascendant</title></line>`,
			x1, y1, x2, y2)
	}
	b.WriteString(`</svg>`)
	return b.String()
}
