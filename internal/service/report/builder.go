package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"HashClock/internal/domain/models"
	"HashClock/internal/service/chart"
	"HashClock/internal/services/astro"
)

// Builder turns a signature and its narrative into a standalone HTML page.
type Builder struct {
	md   goldmark.Markdown
	page *template.Template
}

func NewBuilder() *Builder {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	return &Builder{md: md, page: template.Must(template.New("report").Parse(pageTemplate))}
}

// PageData is what the page template sees.
type PageData struct {
	Name          string
	Signature     models.SignatureResponse
	Narrative     template.HTML
	Wheel         template.HTML
	ElementsChart template.HTML
	ModalityChart template.HTML
	UsingFallback bool
	GeneratedAt   string
}

// Markdown converts narrative markdown to HTML. Raw HTML in the input is
// dropped, since narratives may come from a model.
func (b *Builder) Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := b.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

func (b *Builder) Render(w io.Writer, name string, sig *models.Signature, rep models.Report) error {
	narrative, err := b.Markdown(rep.Markdown)
	if err != nil {
		return err
	}
	data := PageData{
		Name:          name,
		Signature:     models.NewSignatureResponse(sig),
		Narrative:     narrative,
		Wheel:         template.HTML(chart.Wheel(sig, astro.Signs())),
		UsingFallback: rep.UsingFallback,
		GeneratedAt:   rep.GeneratedAt.Format("January 02, 2006 15:04 MST"),
	}
	// an empty balance only loses its chart
	if svg, err := chart.DonutSVG(sig, chart.KindElements); err == nil {
		data.ElementsChart = template.HTML(svg)
	}
	if svg, err := chart.DonutSVG(sig, chart.KindModalities); err == nil {
		data.ModalityChart = template.HTML(svg)
	}
	if err := b.page.Execute(w, data); err != nil {
		return fmt.Errorf("execute page template: %w", err)
	}
	return nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Cosmic Signature of {{.Name}}</title>
<style>
body { font-family: Georgia, serif; max-width: 900px; margin: 2em auto; color: #222; }
.summary { display: flex; gap: 2em; }
.charts { display: flex; flex-wrap: wrap; gap: 1em; }
table { border-collapse: collapse; }
td, th { padding: 0.2em 0.8em; border-bottom: 1px solid #eee; text-align: left; }
.note { color: #888; font-size: 0.85em; }
</style>
</head>
<body>
<h1>{{.Name}}</h1>
<p>{{.Signature.FormattedBirthDate}} at {{.Signature.FormattedTime}} &middot; {{.Signature.CosmicTiming.Period}}</p>
<div class="summary">
  <div>
    <p><strong>Sun</strong> {{.Signature.SunSign}}<br>
    <strong>Moon</strong> {{.Signature.MoonSign}}<br>
    <strong>Rising</strong> {{.Signature.Ascendant}}</p>
    <p>1 in {{.Signature.Rarity}}</p>
    <p>{{.Signature.HarmonicPattern.Name}} &middot; {{.Signature.HarmonicPattern.Frequency}}</p>
  </div>
  {{.Wheel}}
</div>
<h2>Aspects</h2>
<table>
<tr><th>Bodies</th><th>Aspect</th><th>Angle</th><th>Orb</th><th>Rarity</th></tr>
{{range .Signature.Aspects}}<tr><td>{{.Planet1}} &ndash; {{.Planet2}}</td><td>{{.Aspect}}</td><td>{{printf "%.2f" .Angle}}°</td><td>{{printf "%.2f" .Orb}}°</td><td>{{.Rarity}}</td></tr>
{{else}}<tr><td colspan="5">No aspects within orb.</td></tr>
{{end}}</table>
<div class="charts">{{.ElementsChart}}{{.ModalityChart}}</div>
<article>{{.Narrative}}</article>
<p class="note">Computed with the {{.Signature.Strategy}} strategy.{{if .UsingFallback}} Templated reading.{{end}} Generated {{.GeneratedAt}}.</p>
</body>
</html>
`
