package models

import (
	"encoding/json"
	"time"
)

// SignatureRecord is the archived, flat form of a computed signature.
type SignatureRecord struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"` // "http" | "batch"
	BirthDate  string    `json:"birthDate"`
	BirthTime  string    `json:"birthTime"`
	Instant    time.Time `json:"instant"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	Strategy   string    `json:"strategy"`
	SunSign    string    `json:"sunSign"`
	MoonSign   string    `json:"moonSign"`
	Ascendant  string    `json:"ascendant"`
	Dominant   string    `json:"dominantElement"`
	Modality   string    `json:"dominantModality"`
	Aspects    int       `json:"aspectCount"`
	Rarity     int64     `json:"rarity"`
	Payload    string    `json:"payload"` // JSON SignatureResponse
	ComputedAt time.Time `json:"computedAt"`
}

// NewSignatureRecord builds the archive row. Payload carries the full response.
func NewSignatureRecord(id, source string, s *Signature) (*SignatureRecord, error) {
	resp := NewSignatureResponse(s)
	payload, err := json.Marshal(resp)
	if err != nil {
		return nil, err
	}
	return &SignatureRecord{
		ID:         id,
		Source:     source,
		BirthDate:  resp.Meta.BirthDate,
		BirthTime:  resp.Meta.BirthTime,
		Instant:    s.Moment.Instant(),
		Latitude:   s.Moment.Latitude(),
		Longitude:  s.Moment.Longitude(),
		Strategy:   string(s.Strategy),
		SunSign:    s.Sun.Name,
		MoonSign:   s.Moon.Name,
		Ascendant:  s.AscendantName(),
		Dominant:   string(s.Elements.Dominant),
		Modality:   string(s.Modalities.Dominant),
		Aspects:    len(s.Aspects),
		Rarity:     s.Rarity,
		Payload:    string(payload),
		ComputedAt: s.ComputedAt,
	}, nil
}

// BatchRequest is one message on the batch requests topic.
type BatchRequest struct {
	ID        string   `json:"id"`
	BirthDate string   `json:"birthDate"`
	BirthTime string   `json:"birthTime"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Timezone  string   `json:"timezone"`
}

func (r BatchRequest) BirthInput() BirthInput {
	return BirthInput{
		Date:      r.BirthDate,
		Time:      r.BirthTime,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Timezone:  r.Timezone,
	}
}

// Report is a narrated reading of a signature.
type Report struct {
	Markdown      string    `json:"markdown"`
	UsingFallback bool      `json:"usingFallback"`
	Model         string    `json:"model,omitempty"`
	GeneratedAt   time.Time `json:"generatedAt"`
}

type ReportResponse struct {
	Signature SignatureResponse `json:"signature"`
	Report    Report            `json:"report"`
}

// SkySnapshot is one frame of the live sky stream.
type SkySnapshot struct {
	At        time.Time             `json:"at"`
	Strategy  string                `json:"strategy"`
	Planets   map[string]PlanetData `json:"planets"`
	MoonPhase float64               `json:"moonPhase"` // sun-moon elongation, degrees
}
