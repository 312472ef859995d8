package models

// RarityTier classifies how often an aspect type is seen.
type RarityTier string

const (
	Common   RarityTier = "common"
	Uncommon RarityTier = "uncommon"
	Rare     RarityTier = "rare"
	VeryRare RarityTier = "very-rare"
)

// AspectType is one catalogue entry.
type AspectType struct {
	Name     string
	Angle    float64
	Orb      float64
	Rarity   RarityTier
	Optional bool
}

// Aspect is a detected relationship between two distinct bodies.
type Aspect struct {
	Body1  Body
	Body2  Body
	Type   string
	Angle  float64 // measured separation, minor arc
	Orb    float64 // |Angle - target|
	Rarity RarityTier
}
