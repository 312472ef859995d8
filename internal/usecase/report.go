package usecase

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"HashClock/internal/domain/models"
	domrepo "HashClock/internal/domain/repository"
	domsvc "HashClock/internal/domain/service"
	"HashClock/internal/service/chart"
	"HashClock/internal/service/report"
)

// ReportUseCase narrates signatures and renders them as HTML and charts.
type ReportUseCase struct {
	sigs     *SignatureUseCase
	narrator domsvc.Narrator
	builder  *report.Builder
	metrics  domrepo.Metrics
}

func NewReportUseCase(sigs *SignatureUseCase, narrator domsvc.Narrator, builder *report.Builder, metrics domrepo.Metrics) *ReportUseCase {
	return &ReportUseCase{sigs: sigs, narrator: narrator, builder: builder, metrics: metrics}
}

func (u *ReportUseCase) narrate(ctx context.Context, req models.ReportRequest) (*models.Signature, models.Report, error) {
	sig, err := u.sigs.Compute(ctx, req.BirthInput())
	if err != nil {
		return nil, models.Report{}, err
	}
	start := time.Now()
	rep, err := u.narrator.Narrate(ctx, req.Name, sig)
	if err != nil {
		u.metrics.RecordError("narrate")
		return nil, models.Report{}, fmt.Errorf("narrate: %w", err)
	}
	u.metrics.RecordLatency("narrate", time.Since(start).Seconds())
	return sig, rep, nil
}

// Report computes the signature of req and a narrated reading of it.
func (u *ReportUseCase) Report(ctx context.Context, req models.ReportRequest) (*models.ReportResponse, error) {
	sig, rep, err := u.narrate(ctx, req)
	if err != nil {
		return nil, err
	}
	return &models.ReportResponse{Signature: models.NewSignatureResponse(sig), Report: rep}, nil
}

// HTML renders the full report page for req.
func (u *ReportUseCase) HTML(ctx context.Context, req models.ReportRequest) ([]byte, error) {
	sig, rep, err := u.narrate(ctx, req)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := u.builder.Render(&buf, req.Name, sig, rep); err != nil {
		u.metrics.RecordError("render_html")
		return nil, err
	}
	return buf.Bytes(), nil
}

// BalanceChart renders the element or modality donut for in as SVG.
func (u *ReportUseCase) BalanceChart(ctx context.Context, in models.BirthInput, kind chart.Kind) ([]byte, error) {
	sig, err := u.sigs.Compute(ctx, in)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := chart.Donut(&buf, sig, kind); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
