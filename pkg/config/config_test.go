package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.Server.Port != 8080 || c.Astro.SafeYearMin != 1900 || !c.Astro.IncludeHarmonics {
		t.Fatalf("unexpected defaults %+v", c.Server)
	}
	if len(c.Astro.Providers) != 2 || c.Astro.Providers[0] != "ephemeris" {
		t.Fatalf("unexpected providers %v", c.Astro.Providers)
	}
	if c.Cache.TTL != 24*time.Hour || c.Narrator.Model != "gpt-4o" {
		t.Fatalf("unexpected defaults cache=%v model=%s", c.Cache.TTL, c.Narrator.Model)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
environment: production
server:
  port: 9090
astro:
  providers: [remote, ephemeris]
ephemeris:
  base_url: http://ephem:8000
cache:
  type: redis
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.Environment != "production" || c.Server.Port != 9090 || c.Cache.Type != "redis" {
		t.Fatalf("yaml not applied: %+v", c)
	}
	if c.Server.ReadTimeout != 10*time.Second {
		t.Fatalf("default lost: %v", c.Server.ReadTimeout)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]string{
		"remote without url": "astro:\n  providers: [remote]\n",
		"unknown provider":   "astro:\n  providers: [tarot]\n",
		"kafka without brokers": "archive:\n  backend: kafka\n",
		"bad cache":          "cache:\n  type: disk\n",
	}
	for name, body := range cases {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	c, _ := Default()
	env := map[string]string{
		"SERVER_PORT":     "7000",
		"KAFKA_BROKERS":   "a:9092,b:9092",
		"OPENAI_API_KEY":  "sk-test",
		"ASTRO_PROVIDERS": "simplified",
	}
	c.applyEnv(func(k string) string { return env[k] })
	if c.Server.Port != 7000 || len(c.Kafka.Brokers) != 2 || c.Narrator.OpenAIKey != "sk-test" {
		t.Fatalf("env not applied: port=%d brokers=%v", c.Server.Port, c.Kafka.Brokers)
	}
	if len(c.Astro.Providers) != 1 || c.Astro.Providers[0] != "simplified" {
		t.Fatalf("providers not applied: %v", c.Astro.Providers)
	}
}
