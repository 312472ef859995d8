package models

type Element string

const (
	Fire  Element = "fire"
	Earth Element = "earth"
	Air   Element = "air"
	Water Element = "water"
)

// Elements in tie-break precedence order.
var Elements = []Element{Fire, Earth, Air, Water}

type Modality string

const (
	Cardinal Modality = "cardinal"
	Fixed    Modality = "fixed"
	Mutable  Modality = "mutable"
)

// Modalities in tie-break precedence order.
var Modalities = []Modality{Cardinal, Fixed, Mutable}

// ZodiacSign is one of the twelve 30° segments of the ecliptic.
// Start is inclusive, End exclusive.
type ZodiacSign struct {
	Index    int
	Name     string
	Glyph    string
	Element  Element
	Modality Modality
	Start    float64
	End      float64
}

// UnknownSign is reported when the ascendant cannot be computed.
const UnknownSign = "Unknown"
