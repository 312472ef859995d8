package repository

import (
	"context"
	"time"

	"HashClock/internal/domain/models"
)

// Publisher emits computed signatures to the event bus.
type Publisher interface {
	Publish(ctx context.Context, r *models.SignatureRecord) error
	PublishBatch(ctx context.Context, records []*models.SignatureRecord) error
	Close() error
}

// Storage archives computed signatures.
type Storage interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, r *models.SignatureRecord) error
	StoreBatch(ctx context.Context, records []*models.SignatureRecord) error
	Query(ctx context.Context, from, to time.Time, limit int) ([]*models.SignatureRecord, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// SignatureCache stores encoded signature responses by key.
type SignatureCache interface {
	Get(ctx context.Context, key string) (*models.SignatureResponse, bool)
	Set(ctx context.Context, key string, resp *models.SignatureResponse) error
}

type Metrics interface {
	RecordSignature(source, strategy string)
	RecordProvider(provider, status string)
	RecordError(kind string)
	RecordRarity(rarity int64)
	RecordLatency(op string, seconds float64)
}
