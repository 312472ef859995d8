package usecase

import (
	"context"
	"fmt"
	"time"

	"HashClock/internal/domain/models"
	drepo "HashClock/internal/domain/repository"
)

// ArchiveProcessor routes signature records to the configured backend.
type ArchiveProcessor struct {
	pub     drepo.Publisher
	store   drepo.Storage
	metrics drepo.Metrics
	backend string
}

func NewArchiveProcessor(pub drepo.Publisher, store drepo.Storage, metrics drepo.Metrics, backend string) *ArchiveProcessor {
	return &ArchiveProcessor{pub: pub, store: store, metrics: metrics, backend: backend}
}

func (p *ArchiveProcessor) Backend() string { return p.backend }

func (p *ArchiveProcessor) Process(ctx context.Context, r *models.SignatureRecord) error {
	if r == nil {
		return fmt.Errorf("record is nil")
	}
	return p.ProcessBatch(ctx, []*models.SignatureRecord{r})
}

func (p *ArchiveProcessor) ProcessBatch(ctx context.Context, records []*models.SignatureRecord) error {
	if len(records) == 0 {
		return nil
	}
	start := time.Now()
	var err error
	switch {
	case p.backend == "kafka" && p.pub != nil:
		err = p.pub.PublishBatch(ctx, records)
	case p.backend == "clickhouse" && p.store != nil:
		err = p.store.StoreBatch(ctx, records)
	default:
		err = fmt.Errorf("archive backend %q is not wired", p.backend)
	}
	if err != nil {
		p.metrics.RecordError("archive_" + p.backend)
		return fmt.Errorf("archive batch: %w", err)
	}
	p.metrics.RecordLatency("archive_batch", time.Since(start).Seconds())
	return nil
}
