package astro

import (
	"fmt"

	"HashClock/internal/domain/models"
)

// CosmicTimingOf names the part of day for a local hour (0-23).
func CosmicTimingOf(hour int) models.CosmicTiming {
	switch {
	case hour >= 5 && hour < 7:
		return models.CosmicTiming{Period: "Dawn", Description: "The awakening hour"}
	case hour >= 7 && hour < 12:
		return models.CosmicTiming{Period: "Morning", Description: "The building hour"}
	case hour >= 12 && hour < 17:
		return models.CosmicTiming{Period: "Afternoon", Description: "The peak hour"}
	case hour >= 17 && hour < 20:
		return models.CosmicTiming{Period: "Evening", Description: "The reflection hour"}
	case hour >= 20 && hour < 23:
		return models.CosmicTiming{Period: "Night", Description: "The mystery hour"}
	default:
		return models.CosmicTiming{Period: "Deep Night", Description: "The transformation hour"}
	}
}

var unknownTiming = models.CosmicTiming{Period: models.UnknownSign, Description: "Birth time not provided"}

var harmonicNames = [12]string{
	"Unity - The monad pattern of wholeness",
	"Duality - The polarity pattern of balance",
	"Trinity - The creative pattern of manifestation",
	"Foundation - The material pattern of structure",
	"Pentagram - The human pattern of experience",
	"Hexagram - The harmony pattern of beauty",
	"Septenary - The mystical pattern of wisdom",
	"Octave - The power pattern of mastery",
	"Ennead - The completion pattern of fulfillment",
	"Decimal - The perfection pattern of cycles",
	"Hendecagon - The transcendence pattern of breakthrough",
	"Zodiac - The cosmic pattern of totality",
}

// HarmonicOf derives the harmonic pattern from day of month and month (1-12).
func HarmonicOf(day, month int) models.HarmonicPattern {
	n := ((day+month)%12+12)%12 + 1
	return models.HarmonicPattern{
		Number:    n,
		Name:      harmonicNames[n-1],
		Frequency: n * 111,
		Geometry:  fmt.Sprintf("%d-pointed star", n),
	}
}
