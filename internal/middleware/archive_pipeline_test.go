package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"HashClock/internal/domain/models"
)

type nopMetrics struct {
	mu     sync.Mutex
	errors map[string]int
}

func (m *nopMetrics) RecordSignature(string, string) {}
func (m *nopMetrics) RecordProvider(string, string)  {}
func (m *nopMetrics) RecordRarity(int64)             {}
func (m *nopMetrics) RecordLatency(string, float64)  {}

func (m *nopMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errors == nil {
		m.errors = make(map[string]int)
	}
	m.errors[kind]++
}

func (m *nopMetrics) count(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors[kind]
}

type recordingProc struct {
	mu      sync.Mutex
	fails   int
	calls   int
	batches [][]*models.SignatureRecord
}

func (p *recordingProc) ProcessBatch(_ context.Context, recs []*models.SignatureRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.fails > 0 {
		p.fails--
		return errors.New("backend down")
	}
	p.batches = append(p.batches, append([]*models.SignatureRecord(nil), recs...))
	return nil
}

func (p *recordingProc) stored() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.batches {
		n += len(b)
	}
	return n
}

func rec(id string) *models.SignatureRecord {
	return &models.SignatureRecord{ID: id, Instant: time.Unix(1, 0), Payload: "{}"}
}

func TestPipelineBatchesAndFlushesOnStop(t *testing.T) {
	proc := &recordingProc{}
	m := &nopMetrics{}
	p := NewArchivePipeline(proc, m, WithBatching(2, time.Hour))
	p.Start(context.Background())

	for _, id := range []string{"a", "b", "c"} {
		if err := p.Submit(rec(id)); err != nil {
			t.Fatalf("submit %s: %v", id, err)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if got := proc.stored(); got != 3 {
		t.Fatalf("expected 3 stored records, got %d", got)
	}
	if len(proc.batches[0]) != 2 {
		t.Fatalf("first batch should be full, got %d", len(proc.batches[0]))
	}
}

func TestPipelineRetriesThenSucceeds(t *testing.T) {
	proc := &recordingProc{fails: 2}
	m := &nopMetrics{}
	p := NewArchivePipeline(proc, m, WithBatching(1, time.Hour), WithRetries(3, time.Millisecond, 2*time.Millisecond))
	p.Start(context.Background())
	_ = p.Submit(rec("a"))
	_ = p.Stop(context.Background())

	if proc.calls != 3 || proc.stored() != 1 {
		t.Fatalf("expected success on third call, calls=%d stored=%d", proc.calls, proc.stored())
	}
	if m.count("pipeline_flush") != 2 || m.count("pipeline_drop") != 0 {
		t.Fatalf("unexpected error counts %v", m.errors)
	}
}

func TestPipelineDropsAfterRetries(t *testing.T) {
	proc := &recordingProc{fails: 10}
	m := &nopMetrics{}
	p := NewArchivePipeline(proc, m, WithBatching(1, time.Hour), WithRetries(1, time.Millisecond, time.Millisecond))
	p.Start(context.Background())
	_ = p.Submit(rec("a"))
	_ = p.Stop(context.Background())

	if proc.calls != 2 || m.count("pipeline_drop") != 1 {
		t.Fatalf("expected drop after 2 attempts, calls=%d drops=%d", proc.calls, m.count("pipeline_drop"))
	}
}

func TestPipelineSubmitRules(t *testing.T) {
	m := &nopMetrics{}
	p := NewArchivePipeline(&recordingProc{}, m, WithBufferSize(1))
	if err := p.Submit(&models.SignatureRecord{ID: "x"}); err == nil {
		t.Fatalf("record without instant must be rejected")
	}
	if err := p.Submit(rec("a")); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := p.Submit(rec("a")); err != nil || m.count("pipeline_duplicate") != 1 {
		t.Fatalf("duplicate inside window should be dropped quietly")
	}
	// not started, so the single slot stays taken
	if err := p.Submit(rec("b")); !errors.Is(err, ErrPipelineFull) {
		t.Fatalf("expected ErrPipelineFull, got %v", err)
	}
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("stop without start: %v", err)
	}
}
