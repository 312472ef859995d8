package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"HashClock/internal/domain/models"
)

// Kind selects which balance a donut shows.
type Kind string

const (
	KindElements   Kind = "elements"
	KindModalities Kind = "modalities"
)

func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case "", KindElements:
		return KindElements, true
	case KindModalities:
		return KindModalities, true
	}
	return "", false
}

var palette = map[string]drawing.Color{
	string(models.Fire):     {R: 226, G: 88, B: 34, A: 255},
	string(models.Earth):    {R: 112, G: 140, B: 60, A: 255},
	string(models.Air):      {R: 120, G: 180, B: 220, A: 255},
	string(models.Water):    {R: 40, G: 80, B: 160, A: 255},
	string(models.Cardinal): {R: 200, G: 60, B: 90, A: 255},
	string(models.Fixed):    {R: 150, G: 110, B: 40, A: 255},
	string(models.Mutable):  {R: 90, G: 150, B: 130, A: 255},
}

var ErrEmptyBalance = errors.New("chart: balance has no weight")

type slice struct {
	label string
	pct   int
}

func slices(sig *models.Signature, kind Kind) []slice {
	if kind == KindModalities {
		m := sig.Modalities
		return []slice{
			{string(models.Cardinal), m.Cardinal},
			{string(models.Fixed), m.Fixed},
			{string(models.Mutable), m.Mutable},
		}
	}
	e := sig.Elements
	return []slice{
		{string(models.Fire), e.Fire},
		{string(models.Earth), e.Earth},
		{string(models.Air), e.Air},
		{string(models.Water), e.Water},
	}
}

// Donut renders the element or modality balance of sig as SVG. Zero slices are omitted.
func Donut(w io.Writer, sig *models.Signature, kind Kind) error {
	var values []gochart.Value
	for _, s := range slices(sig, kind) {
		if s.pct <= 0 {
			continue
		}
		values = append(values, gochart.Value{
			Label: fmt.Sprintf("%s %d%%", s.label, s.pct),
			Value: float64(s.pct),
			Style: gochart.Style{FillColor: palette[s.label], StrokeColor: drawing.ColorWhite, StrokeWidth: 2},
		})
	}
	if len(values) == 0 {
		return ErrEmptyBalance
	}

	graph := gochart.DonutChart{
		Title: fmt.Sprintf("%s balance", capitalize(string(kind))),
		TitleStyle: gochart.Style{
			FontSize:  14,
			FontColor: drawing.ColorBlack,
		},
		Background: gochart.Style{
			Padding: gochart.Box{Top: 30, Left: 10, Right: 10, Bottom: 10},
		},
		Width:  420,
		Height: 420,
		Values: values,
	}
	if err := graph.Render(gochart.SVG, w); err != nil {
		return fmt.Errorf("render donut: %w", err)
	}
	return nil
}

// DonutSVG is Donut into a string, for embedding in HTML.
func DonutSVG(sig *models.Signature, kind Kind) (string, error) {
	var buf bytes.Buffer
	if err := Donut(&buf, sig, kind); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
