package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"time"

	"HashClock/internal/domain/models"
	"HashClock/internal/domain/repository"
	svcmetrics "HashClock/internal/service/metrics"
	applogger "HashClock/pkg/logger"
)

// BytesCache is a minimal cache API storing raw bytes with TTL.
type BytesCache interface {
	GetBytes(ctx context.Context, key string) (b []byte, ok bool, err error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// HashKey returns the hex md5 of key.
func HashKey(key string) string {
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])
}

// MomentKey derives the cache key for a birth moment. Harmonic aspects change
// the result so the flag is part of the key.
func MomentKey(m models.BirthMoment, harmonics bool) string {
	flag := "h0"
	if harmonics {
		flag = "h1"
	}
	return HashKey(m.CacheKey() + "|" + flag)
}

var _ repository.SignatureCache = (*SignatureCache)(nil)

// SignatureCache stores JSON-encoded signature responses. Backend errors are
// logged and reported as misses so a cache outage never fails a request.
type SignatureCache struct {
	backend BytesCache
	name    string
	prefix  string
	ttl     time.Duration
	l       *applogger.Logger
}

func NewSignatureCache(backend BytesCache, name, prefix string, ttl time.Duration, l *applogger.Logger) *SignatureCache {
	if l == nil {
		l = applogger.Nop()
	}
	return &SignatureCache{backend: backend, name: name, prefix: prefix, ttl: ttl, l: l}
}

func (c *SignatureCache) Get(ctx context.Context, key string) (*models.SignatureResponse, bool) {
	b, ok, err := c.backend.GetBytes(ctx, c.prefix+key)
	if err != nil {
		c.l.Warn("cache get failed", applogger.String("backend", c.name), applogger.Error(err))
		svcmetrics.CacheLookups.WithLabelValues(c.name, "error").Inc()
		return nil, false
	}
	if !ok {
		svcmetrics.CacheLookups.WithLabelValues(c.name, "miss").Inc()
		return nil, false
	}
	var resp models.SignatureResponse
	if err := json.Unmarshal(b, &resp); err != nil {
		c.l.Warn("cache entry corrupt", applogger.String("backend", c.name), applogger.Error(err))
		svcmetrics.CacheLookups.WithLabelValues(c.name, "error").Inc()
		return nil, false
	}
	svcmetrics.CacheLookups.WithLabelValues(c.name, "hit").Inc()
	return &resp, true
}

func (c *SignatureCache) Set(ctx context.Context, key string, resp *models.SignatureResponse) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.backend.SetBytes(ctx, c.prefix+key, b, c.ttl)
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) (*models.SignatureResponse, bool) { return nil, false }
func (Noop) Set(context.Context, string, *models.SignatureResponse) error   { return nil }
