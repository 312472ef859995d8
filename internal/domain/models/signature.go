package models

import "time"

// Placement is a body's longitude classified into a sign.
type Placement struct {
	Body      Body
	Longitude float64
	Sign      ZodiacSign
	Degree    float64 // position within the sign, [0,30)
}

type ElementBalance struct {
	Fire     int
	Earth    int
	Air      int
	Water    int
	Dominant Element
}

type ModalityBalance struct {
	Cardinal int
	Fixed    int
	Mutable  int
	Dominant Modality
}

// CosmicTiming names the part of day the birth fell in.
type CosmicTiming struct {
	Period      string
	Description string
}

// HarmonicPattern is the date-derived numerology figure shown alongside a chart.
type HarmonicPattern struct {
	Number    int
	Name      string
	Frequency int // Hz
	Geometry  string
}

// Signature is the full computed result for one birth moment.
// All longitudes in one Signature come from a single Strategy.
type Signature struct {
	Moment             BirthMoment
	Strategy           Strategy
	Placements         []Placement
	Sun                ZodiacSign
	Moon               ZodiacSign
	Ascendant          *ZodiacSign // nil when unknown
	AscendantLongitude *float64
	Aspects            []Aspect
	Elements           ElementBalance
	Modalities         ModalityBalance
	Rarity             int64
	Timing             CosmicTiming
	Harmonic           HarmonicPattern
	Warnings           []string
	ComputedAt         time.Time
}

// AscendantName is the ascendant sign name or UnknownSign.
func (s *Signature) AscendantName() string {
	if s.Ascendant == nil {
		return UnknownSign
	}
	return s.Ascendant.Name
}

// Placement looks a body up in the placement table.
func (s *Signature) Placement(b Body) (Placement, bool) {
	for _, p := range s.Placements {
		if p.Body == b {
			return p, true
		}
	}
	return Placement{}, false
}

func (s *Signature) HasWarning(code string) bool {
	for _, w := range s.Warnings {
		if w == code {
			return true
		}
	}
	return false
}
