package di

import (
	"context"
	"fmt"
	"time"

	"HashClock/internal/domain/repository"
	domsvc "HashClock/internal/domain/service"
	"HashClock/internal/handler/api"
	mid "HashClock/internal/middleware"
	internalrepo "HashClock/internal/repository"
	"HashClock/internal/service/cache"
	svcmetrics "HashClock/internal/service/metrics"
	"HashClock/internal/service/narrator"
	"HashClock/internal/service/ratelimit"
	"HashClock/internal/service/report"
	"HashClock/internal/service/sky"
	"HashClock/internal/services/astro"
	"HashClock/internal/services/ephemeris"
	"HashClock/internal/usecase"
	pkgch "HashClock/pkg/clickhouse"
	"HashClock/pkg/config"
	xhttp "HashClock/pkg/http"
	pkgkafka "HashClock/pkg/kafka"
	applogger "HashClock/pkg/logger"
	"HashClock/pkg/metrics"
	"HashClock/pkg/server"
)

// ProvideLogger builds the application logger from config. Error entries are
// also shipped to Kafka when kafka.collect_logs is set and a producer exists.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, func(), error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	l = l.With(applogger.String("env", cfg.Environment))
	if !cfg.Kafka.CollectLogs || producer == nil {
		return l, func() {}, nil
	}
	// before any component derives a child logger, so they all share it
	l.AddCollector(&applogger.CollectionConfig{
		TimeInterval: 30 * time.Second,
		Topic:        cfg.Kafka.Topics.Logs,
		Publisher:    producer,
	})
	return l, l.RemoveCollector, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	svcmetrics.Register()
	return metrics.New(nil)
}

// ProvideKafkaProducer creates a Kafka producer, or nil when no broker is configured.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, func(), error) {
	if !cfg.KafkaEnabled() {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithWriteTimeout(cfg.Kafka.Producer.WriteTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, func() { _ = producer.Close() }, nil
}

func clickHouseNeeded(cfg *config.Config) bool {
	return cfg.Archive.Backend == "clickhouse" || cfg.Kafka.Consumer.Enabled
}

// ProvideClickHouseClient connects to ClickHouse and ensures the signatures
// table when anything archives into it. Otherwise it returns nil.
func ProvideClickHouseClient(cfg *config.Config, l *applogger.Logger) (*pkgch.Client, func(), error) {
	if !clickHouseNeeded(cfg) {
		return nil, func() {}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := pkgch.NewClient(ctx,
		pkgch.WithAddress(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, true),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}
	if err := client.InitSchema(ctx, internalrepo.SignatureSchema(cfg.ClickHouse.Database, cfg.ClickHouse.Table)); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	l.Info("clickhouse ready", applogger.String("database", cfg.ClickHouse.Database))
	cleanup := func() {
		if err := client.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	return client, cleanup, nil
}

// ProvideStorage wraps the ClickHouse client. The interface is nil without a client.
func ProvideStorage(client *pkgch.Client, cfg *config.Config, l *applogger.Logger) repository.Storage {
	if client == nil {
		return nil
	}
	return internalrepo.NewClickHouseStorage(client, cfg.ClickHouse.Table, l)
}

// ProvidePublisher wraps the producer. The interface is nil without a producer.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topics.Signatures)
}

// ProvideProviders builds the ephemeris chain in configured order.
func ProvideProviders(cfg *config.Config) ([]domsvc.EphemerisProvider, error) {
	out := make([]domsvc.EphemerisProvider, 0, len(cfg.Astro.Providers))
	for _, name := range cfg.Astro.Providers {
		switch name {
		case "ephemeris":
			out = append(out, astro.NewEphemeris())
		case "simplified":
			out = append(out, astro.NewApproxEphemeris())
		case "remote":
			out = append(out, ephemeris.NewRemote(cfg))
		default:
			return nil, fmt.Errorf("unknown ephemeris provider %q", name)
		}
	}
	return out, nil
}

// ProvideSignatureCache selects the cache backend named by cache.type.
func ProvideSignatureCache(cfg *config.Config, l *applogger.Logger) (repository.SignatureCache, func(), error) {
	newRedis := func() *cache.RedisCache {
		return cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	switch cfg.Cache.Type {
	case "none":
		return cache.Noop{}, func() {}, nil
	case "memory":
		sc := cache.NewSignatureCache(cache.NewTTLCache(cfg.Cache.Capacity), "memory", "", cfg.Cache.TTL, l)
		return sc, func() {}, nil
	case "redis", "layered":
		rc := newRedis()
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rc.Ping(ctx); err != nil {
			// a cache outage degrades to misses
			l.Warn("redis unreachable at startup", applogger.String("addr", cfg.Cache.Redis.Addr), applogger.Error(err))
		}
		var backend cache.BytesCache = rc
		if cfg.Cache.Type == "layered" {
			backend = cache.NewLayeredCache(cache.NewTTLCache(cfg.Cache.Capacity), rc, cfg.Cache.LocalTTL)
		}
		sc := cache.NewSignatureCache(backend, cfg.Cache.Type, cfg.Cache.Redis.Prefix, cfg.Cache.TTL, l)
		cleanup := func() {
			if err := rc.Close(); err != nil {
				l.Warn("redis close error", applogger.Error(err))
			}
		}
		return sc, cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache type %q", cfg.Cache.Type)
	}
}

// ProvideArchivePipeline batches computed signatures towards the archive
// backend. It is nil when archiving is off.
func ProvideArchivePipeline(
	cfg *config.Config,
	pub repository.Publisher,
	store repository.Storage,
	m repository.Metrics,
	l *applogger.Logger,
) *mid.ArchivePipeline {
	if cfg.Archive.Backend == "none" {
		return nil
	}
	proc := usecase.NewArchiveProcessor(pub, store, m, cfg.Archive.Backend)
	return mid.NewArchivePipeline(proc, m,
		mid.WithBufferSize(cfg.Archive.BufferSize),
		mid.WithBatching(cfg.Archive.BatchSize, cfg.Archive.BatchTimeout),
		mid.WithRetries(cfg.Archive.MaxRetries, 50*time.Millisecond, 2*time.Second),
		mid.WithPipelineLogger(l),
	)
}

// ProvideSignatureUseCase creates the signature use case over the provider chain.
func ProvideSignatureUseCase(
	cfg *config.Config,
	providers []domsvc.EphemerisProvider,
	m repository.Metrics,
	sc repository.SignatureCache,
	pipeline *mid.ArchivePipeline,
	l *applogger.Logger,
) *usecase.SignatureUseCase {
	calc := astro.NewCalculator(
		astro.WithDetector(astro.NewDetector(astro.WithHarmonics(cfg.Astro.IncludeHarmonics))),
		astro.WithSafeYears(cfg.Astro.SafeYearMin, cfg.Astro.SafeYearMax),
	)
	opts := []usecase.SignatureOption{
		usecase.WithCache(sc),
		usecase.WithComputeTimeout(cfg.Astro.ComputeTimeout),
		usecase.WithHarmonics(cfg.Astro.IncludeHarmonics),
		usecase.WithLogger(l),
	}
	if pipeline != nil {
		opts = append(opts, usecase.WithArchive(pipeline))
	}
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, string(p.Name()))
	}
	l.Info("ephemeris chain", applogger.Strings("providers", names))
	return usecase.NewSignatureUseCase(calc, providers, m, opts...)
}

// ProvideReportUseCase creates the narrated report use case.
func ProvideReportUseCase(cfg *config.Config, sigs *usecase.SignatureUseCase, m repository.Metrics, l *applogger.Logger) *usecase.ReportUseCase {
	return usecase.NewReportUseCase(sigs, narrator.New(cfg, l), report.NewBuilder(), m)
}

// ProvideSkyHub streams the current sky from the first in-process provider,
// so ticks never reach the remote backend.
func ProvideSkyHub(cfg *config.Config, providers []domsvc.EphemerisProvider, l *applogger.Logger) *sky.Hub {
	return sky.NewHub(skyProvider(providers),
		sky.WithInterval(cfg.Sky.Interval),
		sky.WithMaxPeers(cfg.Sky.MaxPeers),
		sky.WithLogger(l),
	)
}

func skyProvider(providers []domsvc.EphemerisProvider) domsvc.EphemerisProvider {
	for _, p := range providers {
		if e, ok := p.(*astro.Ephemeris); ok {
			return e
		}
	}
	return astro.NewEphemeris()
}

func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
}

// ProvideSignatureHandler registers the HTTP routes.
func ProvideSignatureHandler(
	l *applogger.Logger,
	sigs *usecase.SignatureUseCase,
	reports *usecase.ReportUseCase,
	hub *sky.Hub,
	limiter *ratelimit.Limiter,
	store repository.Storage,
) *api.SignatureEchoHandler {
	opts := []api.HandlerOption{api.WithSky(hub), api.WithRateLimiter(limiter)}
	if store != nil {
		opts = append(opts, api.WithHealthCheck("clickhouse", store))
	}
	return api.NewSignatureEchoHandler(l, sigs, reports, opts...)
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, h *api.SignatureEchoHandler) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer([]xhttp.Handler{h},
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithRequestTimeout(cfg.Server.RequestTimeout),
		xhttp.WithCORSOrigins(cfg.Server.CORSOrigins),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(l),
	)
}

// ProvideKafkaConsumer creates the consumer with its topic handlers, or nil
// when consuming is disabled.
func ProvideKafkaConsumer(
	cfg *config.Config,
	l *applogger.Logger,
	store repository.Storage,
	sigs *usecase.SignatureUseCase,
	m repository.Metrics,
) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Consumer.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
		pkgkafka.WithConsumerLogger(l),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.NewHookChain(pkgkafka.TracingHook(l, 500*time.Millisecond)))
	// records published by the kafka archive backend land in clickhouse here
	if store != nil && cfg.Archive.Backend != "clickhouse" {
		consumer.RegisterHandler(usecase.NewSignaturesTopicHandler(cfg.Kafka.Topics.Signatures, store, m))
	}
	consumer.RegisterHandler(usecase.NewBatchRequestsHandler(cfg.Kafka.Topics.Requests, sigs, m, l))
	return consumer, nil
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	hub *sky.Hub,
	pipeline *mid.ArchivePipeline,
	consumer *pkgkafka.Consumer,
) *server.App {
	return server.New(cfg, l, httpServer, hub, pipeline, consumer)
}
