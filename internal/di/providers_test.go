package di

import (
	"testing"

	"HashClock/internal/domain/models"
	"HashClock/internal/service/cache"
	"HashClock/pkg/config"
	applogger "HashClock/pkg/logger"
	"HashClock/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	return cfg
}

func TestProvideProvidersKeepsOrder(t *testing.T) {
	cfg := testConfig(t)
	cfg.Astro.Providers = []string{"simplified", "remote", "ephemeris"}
	cfg.Ephemeris.BaseURL = "http://127.0.0.1:1"

	ps, err := ProvideProviders(cfg)
	if err != nil {
		t.Fatalf("ProvideProviders: %v", err)
	}
	want := []models.Strategy{models.StrategySimplified, models.StrategyRemote, models.StrategyEphemeris}
	if len(ps) != len(want) {
		t.Fatalf("got %d providers, want %d", len(ps), len(want))
	}
	for i, p := range ps {
		if p.Name() != want[i] {
			t.Fatalf("provider %d = %s, want %s", i, p.Name(), want[i])
		}
	}

	cfg.Astro.Providers = []string{"oracle"}
	if _, err := ProvideProviders(cfg); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestOptionalInfrastructureIsNil(t *testing.T) {
	cfg := testConfig(t)

	producer, cleanup, err := ProvideKafkaProducer(cfg)
	if err != nil || producer != nil {
		t.Fatalf("producer = %v, err = %v; want nil without brokers", producer, err)
	}
	cleanup()

	client, cleanup, err := ProvideClickHouseClient(cfg, applogger.Nop())
	if err != nil || client != nil {
		t.Fatalf("clickhouse = %v, err = %v; want nil with archive off", client, err)
	}
	cleanup()

	// typed nils must not leak into the interfaces
	if s := ProvideStorage(nil, cfg, applogger.Nop()); s != nil {
		t.Fatalf("storage = %#v, want nil interface", s)
	}
	if p := ProvidePublisher(nil, cfg); p != nil {
		t.Fatalf("publisher = %#v, want nil interface", p)
	}
	if p := ProvideArchivePipeline(cfg, nil, nil, metrics.New(prometheus.NewRegistry()), applogger.Nop()); p != nil {
		t.Fatal("pipeline should be nil when archive.backend is none")
	}
	if c, err := ProvideKafkaConsumer(cfg, applogger.Nop(), nil, nil, metrics.New(prometheus.NewRegistry())); err != nil || c != nil {
		t.Fatalf("consumer = %v, err = %v", c, err)
	}
}

func TestProvideSignatureCache(t *testing.T) {
	cfg := testConfig(t)
	for _, typ := range []string{"none", "memory"} {
		cfg.Cache.Type = typ
		sc, cleanup, err := ProvideSignatureCache(cfg, applogger.Nop())
		if err != nil {
			t.Fatalf("%s: %v", typ, err)
		}
		cleanup()
		switch typ {
		case "none":
			if _, ok := sc.(cache.Noop); !ok {
				t.Fatalf("none: got %T", sc)
			}
		case "memory":
			if _, ok := sc.(*cache.SignatureCache); !ok {
				t.Fatalf("memory: got %T", sc)
			}
		}
	}
	cfg.Cache.Type = "memcached"
	if _, _, err := ProvideSignatureCache(cfg, applogger.Nop()); err == nil {
		t.Fatal("expected error for unknown cache type")
	}
}

func TestProvideLoggerRejectsBadLevel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Logger.Level = "loud"
	if _, _, err := ProvideLogger(cfg, nil); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestSkyProviderSkipsRemote(t *testing.T) {
	cfg := testConfig(t)
	cfg.Astro.Providers = []string{"remote", "simplified", "ephemeris"}
	providers, err := ProvideProviders(cfg)
	if err != nil {
		t.Fatalf("ProvideProviders: %v", err)
	}
	if got := skyProvider(providers).Name(); got != models.StrategySimplified {
		t.Fatalf("sky provider = %s, want %s", got, models.StrategySimplified)
	}
	if got := skyProvider(providers[:1]).Name(); got != models.StrategyEphemeris {
		t.Fatalf("remote-only chain: sky provider = %s, want %s", got, models.StrategyEphemeris)
	}
	if ProvideSkyHub(cfg, providers, applogger.Nop()) == nil {
		t.Fatal("expected a hub")
	}
}
