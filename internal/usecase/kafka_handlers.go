package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"HashClock/internal/domain/models"
	domrepo "HashClock/internal/domain/repository"
	pkgkafka "HashClock/pkg/kafka"
	applogger "HashClock/pkg/logger"
)

var (
	_ pkgkafka.MessageHandler = (*SignaturesTopicHandler)(nil)
	_ pkgkafka.MessageHandler = (*BatchRequestsHandler)(nil)
)

// SignaturesTopicHandler copies published signature records into storage.
type SignaturesTopicHandler struct {
	topic   string
	storage domrepo.Storage
	metrics domrepo.Metrics
}

func NewSignaturesTopicHandler(topic string, storage domrepo.Storage, metrics domrepo.Metrics) *SignaturesTopicHandler {
	return &SignaturesTopicHandler{topic: topic, storage: storage, metrics: metrics}
}

func (h *SignaturesTopicHandler) Topic() string { return h.topic }

func (h *SignaturesTopicHandler) Handle(ctx context.Context, b []byte) error {
	var r models.SignatureRecord
	if err := json.Unmarshal(b, &r); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return pkgkafka.Permanent(fmt.Errorf("decode signature record: %w", err))
	}
	if r.ID == "" {
		h.metrics.RecordError("consumer_invalid")
		return pkgkafka.Permanent(errors.New("signature record without id"))
	}
	// publish-to-archive lag
	if !r.ComputedAt.IsZero() {
		h.metrics.RecordLatency("archive_lag", time.Since(r.ComputedAt).Seconds())
	}

	start := time.Now()
	err := h.storage.Store(ctx, &r)
	h.metrics.RecordLatency("ch_insert", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	return nil
}

// BatchRequestsHandler computes a signature for every birth request on its
// topic. Results flow through the normal cache and archive path.
type BatchRequestsHandler struct {
	topic   string
	uc      *SignatureUseCase
	metrics domrepo.Metrics
	l       *applogger.Logger
}

func NewBatchRequestsHandler(topic string, uc *SignatureUseCase, metrics domrepo.Metrics, l *applogger.Logger) *BatchRequestsHandler {
	if l == nil {
		l = applogger.Nop()
	}
	return &BatchRequestsHandler{topic: topic, uc: uc, metrics: metrics, l: l}
}

func (h *BatchRequestsHandler) Topic() string { return h.topic }

func (h *BatchRequestsHandler) Handle(ctx context.Context, b []byte) error {
	var req models.BatchRequest
	if err := json.Unmarshal(b, &req); err != nil {
		h.metrics.RecordError("batch_unmarshal")
		return pkgkafka.Permanent(fmt.Errorf("decode batch request: %w", err))
	}
	resp, err := h.uc.Signature(ctx, req.BirthInput(), "batch")
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) || errors.Is(err, models.ErrUnsupportedBody) {
			h.metrics.RecordError("batch_invalid")
			return pkgkafka.Permanent(fmt.Errorf("batch request %s: %w", req.ID, err))
		}
		return fmt.Errorf("batch request %s: %w", req.ID, err)
	}
	h.l.Debug("batch signature computed",
		applogger.String("request_id", req.ID),
		applogger.String("strategy", resp.Strategy),
		applogger.Int64("rarity", resp.Rarity))
	return nil
}
