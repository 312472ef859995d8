package narrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"HashClock/internal/domain/models"
	"HashClock/internal/domain/service"
)

var signStrengths = map[string]string{
	"Aries":       "pioneering courage and leadership",
	"Taurus":      "steadfast determination and sensuality",
	"Gemini":      "versatile communication and curiosity",
	"Cancer":      "nurturing intuition and protection",
	"Leo":         "radiant creativity and confidence",
	"Virgo":       "precise analysis and service",
	"Libra":       "harmonious balance and diplomacy",
	"Scorpio":     "transformative depth and power",
	"Sagittarius": "expansive wisdom and adventure",
	"Capricorn":   "ambitious mastery and structure",
	"Aquarius":    "innovative vision and humanity",
	"Pisces":      "mystical compassion and imagination",
	"Unknown":     "mysterious potential and discovery",
}

var elementalGifts = map[models.Element]string{
	models.Fire:  "inspiration and dynamic action",
	models.Earth: "manifestation and practical wisdom",
	models.Air:   "intellectual brilliance and communication",
	models.Water: "emotional depth and psychic sensitivity",
}

var modalityPowers = map[models.Modality]string{
	models.Cardinal: "powerful initiation and leadership",
	models.Fixed:    "unwavering determination and loyalty",
	models.Mutable:  "adaptive flexibility and evolution",
}

func lookup[K comparable](m map[K]string, k K, fallback string) string {
	if v, ok := m[k]; ok {
		return v
	}
	return fallback
}

var _ service.Narrator = (*Template)(nil)

// Template writes a deterministic markdown reading. It needs no network.
type Template struct {
	now func() time.Time
}

func NewTemplate() *Template { return &Template{now: time.Now} }

func (t *Template) Narrate(_ context.Context, name string, sig *models.Signature) (models.Report, error) {
	return models.Report{
		Markdown:      Render(name, sig),
		UsingFallback: true,
		GeneratedAt:   t.now().UTC(),
	}, nil
}

// Render builds the templated markdown for sig.
func Render(name string, sig *models.Signature) string {
	sun, moon, asc := sig.Sun.Name, sig.Moon.Name, sig.AscendantName()
	element := string(sig.Elements.Dominant)
	modality := string(sig.Modalities.Dominant)

	var b strings.Builder
	fmt.Fprintf(&b, "# Cosmic Signature of %s\n\n", name)

	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "You emerge as a %s Sun with the emotional depths of a %s Moon, anchored through a %s Rising. "+
		"Your %s elemental dominance reveals the primary energy through which you meet the world. "+
		"This configuration appears in roughly 1 in %d births.\n\n", sun, moon, asc, element, sig.Rarity)

	list := func(title string, items ...string) {
		fmt.Fprintf(&b, "## %s\n\n", title)
		for _, it := range items {
			fmt.Fprintf(&b, "- %s\n", it)
		}
		b.WriteString("\n")
	}
	list("Strengths",
		fmt.Sprintf("%s solar power brings %s to your core identity", sun, lookup(signStrengths, sun, "unique gifts")),
		fmt.Sprintf("%s lunar wisdom provides %s in emotional intelligence", moon, lookup(signStrengths, moon, "unique gifts")),
		fmt.Sprintf("%s rising energy creates %s in first impressions", asc, lookup(signStrengths, asc, "unique gifts")),
		fmt.Sprintf("%s elemental dominance grants natural %s", capitalize(element), lookup(elementalGifts, sig.Elements.Dominant, "elemental mastery")),
		fmt.Sprintf("%s modality focus enables %s", capitalize(modality), lookup(modalityPowers, sig.Modalities.Dominant, "dynamic expression")),
	)
	list("Challenges",
		fmt.Sprintf("Balancing %s ego needs with %s emotional requirements", sun, moon),
		fmt.Sprintf("Integrating opposing elemental forces when %s energy dominates", element),
		fmt.Sprintf("Harmonizing inner %s feelings with outer expression", moon),
	)

	opportunities := []string{
		fmt.Sprintf("Leverage your %s-%s combination for creative expression", sun, moon),
		fmt.Sprintf("Use %s rising magnetism to attract aligned opportunities", asc),
	}
	if len(sig.Aspects) > 0 {
		a := sig.Aspects[0]
		opportunities = append(opportunities,
			fmt.Sprintf("Your tightest aspect, %s %s %s (orb %.2f°), is a focal point for growth", a.Body1, a.Type, a.Body2, a.Orb))
	}
	list("Opportunities", opportunities...)

	b.WriteString("## Cosmic Advice\n\n")
	fmt.Fprintf(&b, "Trust the combination of %s will, %s intuition and %s presence. "+
		"Born in the %s, you carry the %s pattern (%d Hz).\n",
		sun, moon, asc, strings.ToLower(sig.Timing.Period), sig.Harmonic.Name, sig.Harmonic.Frequency)
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
