package middleware

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"HashClock/internal/domain/models"
	domrepo "HashClock/internal/domain/repository"
	svcmetrics "HashClock/internal/service/metrics"
	applogger "HashClock/pkg/logger"
)

// BatchProc is the minimal processor interface the pipeline needs.
type BatchProc interface {
	ProcessBatch(ctx context.Context, records []*models.SignatureRecord) error
}

var ErrPipelineFull = errors.New("archive pipeline: buffer full")

// ArchivePipeline sits between the compute path and the archive backend.
// Submit never blocks; records are batched, a record id seen within the
// dedupe window is dropped, and a failing backend is retried with
// exponential backoff before the batch is given up.
type ArchivePipeline struct {
	proc    BatchProc
	metrics domrepo.Metrics
	l       *applogger.Logger

	bufSize      int
	batchSize    int
	batchTimeout time.Duration
	maxRetries   int
	backoffMin   time.Duration
	backoffMax   time.Duration
	dedupe       time.Duration

	buf      chan *models.SignatureRecord
	mu       sync.Mutex
	lastSeen map[string]time.Time
	now      func() time.Time

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

type PipelineOption func(*ArchivePipeline)

func WithBufferSize(n int) PipelineOption {
	return func(p *ArchivePipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithBatching sets the flush size and the longest a partial batch waits.
func WithBatching(size int, timeout time.Duration) PipelineOption {
	return func(p *ArchivePipeline) {
		if size > 0 {
			p.batchSize = size
		}
		if timeout > 0 {
			p.batchTimeout = timeout
		}
	}
}

func WithRetries(n int, min, max time.Duration) PipelineOption {
	return func(p *ArchivePipeline) {
		if n >= 0 {
			p.maxRetries = n
		}
		if min > 0 {
			p.backoffMin = min
		}
		if max >= p.backoffMin {
			p.backoffMax = max
		}
	}
}

// WithDedupeWindow drops a record whose id was accepted less than d ago. Zero disables it.
func WithDedupeWindow(d time.Duration) PipelineOption {
	return func(p *ArchivePipeline) { p.dedupe = d }
}

func WithPipelineLogger(l *applogger.Logger) PipelineOption {
	return func(p *ArchivePipeline) {
		if l != nil {
			p.l = l
		}
	}
}

func NewArchivePipeline(proc BatchProc, metrics domrepo.Metrics, opts ...PipelineOption) *ArchivePipeline {
	p := &ArchivePipeline{
		proc:         proc,
		metrics:      metrics,
		l:            applogger.Nop(),
		bufSize:      1024,
		batchSize:    100,
		batchTimeout: 2 * time.Second,
		maxRetries:   3,
		backoffMin:   50 * time.Millisecond,
		backoffMax:   2 * time.Second,
		dedupe:       time.Minute,
		lastSeen:     make(map[string]time.Time),
		now:          time.Now,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.buf = make(chan *models.SignatureRecord, p.bufSize)
	p.l = p.l.With(applogger.String("component", "archive_pipeline"))
	return p
}

// Start launches the background batcher. ctx bounds each backend call.
func (p *ArchivePipeline) Start(ctx context.Context) {
	p.startOnce.Do(func() { go p.loop(ctx) })
}

// Stop flushes what is buffered and waits for the batcher, bounded by ctx.
func (p *ArchivePipeline) Stop(ctx context.Context) error {
	p.stopOnce.Do(func() { close(p.stop) })
	// never started: nothing to wait for
	p.startOnce.Do(func() { close(p.done) })
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("archive pipeline stop: %w", ctx.Err())
	}
}

// Submit validates and enqueues r.
func (p *ArchivePipeline) Submit(r *models.SignatureRecord) error {
	if err := validateRecord(r); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if !p.admit(r.ID) {
		p.metrics.RecordError("pipeline_duplicate")
		return nil
	}
	select {
	case p.buf <- r:
		svcmetrics.ArchiveQueueDepth.Set(float64(len(p.buf)))
		return nil
	default:
		p.metrics.RecordError("pipeline_buffer_full")
		return ErrPipelineFull
	}
}

func validateRecord(r *models.SignatureRecord) error {
	switch {
	case r == nil:
		return errors.New("record is nil")
	case r.ID == "":
		return errors.New("record id is empty")
	case r.Instant.IsZero():
		return errors.New("record instant is zero")
	case r.Payload == "":
		return errors.New("record payload is empty")
	}
	return nil
}

func (p *ArchivePipeline) admit(id string) bool {
	if p.dedupe <= 0 {
		return true
	}
	now := p.now()
	p.mu.Lock()
	defer p.mu.Unlock()
	if last, ok := p.lastSeen[id]; ok && now.Sub(last) < p.dedupe {
		return false
	}
	p.lastSeen[id] = now
	// keep the window map from growing without bound
	if len(p.lastSeen) > 4*p.bufSize {
		for k, t := range p.lastSeen {
			if now.Sub(t) >= p.dedupe {
				delete(p.lastSeen, k)
			}
		}
	}
	return true
}

func (p *ArchivePipeline) loop(ctx context.Context) {
	defer close(p.done)
	ticker := time.NewTicker(p.batchTimeout)
	defer ticker.Stop()

	batch := make([]*models.SignatureRecord, 0, p.batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		p.flush(ctx, batch)
		batch = make([]*models.SignatureRecord, 0, p.batchSize)
		svcmetrics.ArchiveQueueDepth.Set(float64(len(p.buf)))
	}

	for {
		select {
		case r := <-p.buf:
			batch = append(batch, r)
			if len(batch) >= p.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-p.stop:
			for {
				select {
				case r := <-p.buf:
					batch = append(batch, r)
					if len(batch) >= p.batchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}

func (p *ArchivePipeline) flush(ctx context.Context, batch []*models.SignatureRecord) {
	start := p.now()
	backoff := p.backoffMin
	for attempt := 0; ; attempt++ {
		err := p.proc.ProcessBatch(ctx, batch)
		if err == nil {
			p.metrics.RecordLatency("pipeline_flush", time.Since(start).Seconds())
			return
		}
		p.metrics.RecordError("pipeline_flush")
		if attempt >= p.maxRetries || ctx.Err() != nil {
			p.l.Error("archive batch dropped",
				applogger.Int("records", len(batch)),
				applogger.Int("attempts", attempt+1),
				applogger.Error(err))
			p.metrics.RecordError("pipeline_drop")
			return
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
		}
		if backoff *= 2; backoff > p.backoffMax {
			backoff = p.backoffMax
		}
	}
}
