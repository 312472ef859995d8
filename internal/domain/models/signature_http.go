package models

import (
	"fmt"
	"math"
	"time"
)

// Requests and responses of the signature HTTP endpoints.

type SignatureRequest struct {
	BirthDate        string   `json:"birthDate" validate:"required,datetime=2006-01-02"`
	BirthTime        string   `json:"birthTime"`
	Latitude         *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude        *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Timezone         string   `json:"timezone"`
	UTCOffsetMinutes *int     `json:"utcOffsetMinutes" validate:"omitempty,gte=-840,lte=840"`
}

func (r SignatureRequest) BirthInput() BirthInput {
	return BirthInput{
		Date:             r.BirthDate,
		Time:             r.BirthTime,
		Latitude:         r.Latitude,
		Longitude:        r.Longitude,
		Timezone:         r.Timezone,
		UTCOffsetMinutes: r.UTCOffsetMinutes,
	}
}

type ReportRequest struct {
	SignatureRequest
	Name string `json:"name" default:"Seeker" validate:"max=80"`
}

type AscendantData struct {
	Longitude float64 `json:"longitude"`
	Degree    float64 `json:"degree"`
}

type PlanetData struct {
	Longitude float64 `json:"longitude"`
	Sign      string  `json:"sign"`
	Degree    float64 `json:"degree"`
	Glyph     string  `json:"glyph"`
}

type AspectData struct {
	Planet1 string  `json:"planet1"`
	Planet2 string  `json:"planet2"`
	Aspect  string  `json:"aspect"`
	Angle   float64 `json:"angle"`
	Orb     float64 `json:"orb"`
	Rarity  string  `json:"rarity"`
}

type ElementsData struct {
	Fire     int    `json:"fire"`
	Earth    int    `json:"earth"`
	Air      int    `json:"air"`
	Water    int    `json:"water"`
	Dominant string `json:"dominant"`
}

type ModalitiesData struct {
	Cardinal int    `json:"cardinal"`
	Fixed    int    `json:"fixed"`
	Mutable  int    `json:"mutable"`
	Dominant string `json:"dominant"`
}

type TimingData struct {
	Period      string `json:"period"`
	Description string `json:"description"`
}

type HarmonicData struct {
	Number    int    `json:"number"`
	Name      string `json:"name"`
	Frequency string `json:"frequency"`
	Geometry  string `json:"geometry"`
}

type MetaData struct {
	BirthDate   string    `json:"birthDate"`
	BirthTime   string    `json:"birthTime"`
	Timezone    string    `json:"timezone"`
	ZoneSource  string    `json:"zoneSource"`
	Coordinates []float64 `json:"coordinates,omitempty"`
	ComputedAt  time.Time `json:"computedAt"`
}

type SignatureResponse struct {
	SunSign            string                `json:"sunSign"`
	MoonSign           string                `json:"moonSign"`
	Ascendant          string                `json:"ascendant"`
	AscendantData      *AscendantData        `json:"ascendantData"`
	Planets            map[string]PlanetData `json:"planets"`
	Aspects            []AspectData          `json:"aspects"`
	Elements           ElementsData          `json:"elements"`
	Modalities         ModalitiesData        `json:"modalities"`
	Rarity             int64                 `json:"rarity"`
	Strategy           string                `json:"strategy"`
	TimeKnown          bool                  `json:"timeKnown"`
	Warnings           []string              `json:"warnings,omitempty"`
	FormattedBirthDate string                `json:"formattedBirthDate"`
	FormattedTime      string                `json:"formattedTime"`
	CosmicTiming       TimingData            `json:"cosmicTiming"`
	HarmonicPattern    HarmonicData          `json:"harmonicPattern"`
	Meta               MetaData              `json:"meta"`
}

// NewSignatureResponse flattens a Signature into the wire contract.
func NewSignatureResponse(s *Signature) SignatureResponse {
	resp := SignatureResponse{
		SunSign:   s.Sun.Name,
		MoonSign:  s.Moon.Name,
		Ascendant: s.AscendantName(),
		Planets:   make(map[string]PlanetData, len(s.Placements)),
		Aspects:   make([]AspectData, 0, len(s.Aspects)),
		Elements: ElementsData{
			Fire: s.Elements.Fire, Earth: s.Elements.Earth, Air: s.Elements.Air, Water: s.Elements.Water,
			Dominant: string(s.Elements.Dominant),
		},
		Modalities: ModalitiesData{
			Cardinal: s.Modalities.Cardinal, Fixed: s.Modalities.Fixed, Mutable: s.Modalities.Mutable,
			Dominant: string(s.Modalities.Dominant),
		},
		Rarity:       s.Rarity,
		Strategy:     string(s.Strategy),
		TimeKnown:    s.Moment.TimeKnown(),
		Warnings:     s.Warnings,
		CosmicTiming: TimingData{Period: s.Timing.Period, Description: s.Timing.Description},
		HarmonicPattern: HarmonicData{
			Number:    s.Harmonic.Number,
			Name:      s.Harmonic.Name,
			Frequency: fmt.Sprintf("%d Hz", s.Harmonic.Frequency),
			Geometry:  s.Harmonic.Geometry,
		},
	}
	if s.AscendantLongitude != nil {
		resp.AscendantData = &AscendantData{
			Longitude: round2(*s.AscendantLongitude),
			Degree:    round2(math.Mod(*s.AscendantLongitude, 30)),
		}
	}
	for _, p := range s.Placements {
		resp.Planets[string(p.Body)] = PlanetData{
			Longitude: round2(p.Longitude),
			Sign:      p.Sign.Name,
			Degree:    round2(p.Degree),
			Glyph:     p.Sign.Glyph,
		}
	}
	for _, a := range s.Aspects {
		resp.Aspects = append(resp.Aspects, AspectData{
			Planet1: string(a.Body1),
			Planet2: string(a.Body2),
			Aspect:  a.Type,
			Angle:   round2(a.Angle),
			Orb:     round2(a.Orb),
			Rarity:  string(a.Rarity),
		})
	}

	local := s.Moment.Local()
	resp.FormattedBirthDate = local.Format("January 02, 2006")
	resp.FormattedTime = "Unknown"
	meta := MetaData{
		BirthDate:  local.Format("2006-01-02"),
		Timezone:   local.Location().String(),
		ZoneSource: s.Moment.ZoneSource(),
		ComputedAt: s.ComputedAt,
	}
	if s.Moment.TimeKnown() {
		resp.FormattedTime = local.Format("03:04 PM")
		meta.BirthTime = local.Format("15:04")
	}
	if lat, lon := s.Moment.Latitude(), s.Moment.Longitude(); lat != nil && lon != nil {
		meta.Coordinates = []float64{*lat, *lon}
	}
	resp.Meta = meta
	return resp
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
