package narrator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"HashClock/internal/domain/models"
	"HashClock/pkg/config"
)

func signature() *models.Signature {
	return &models.Signature{
		Sun:        models.ZodiacSign{Name: "Gemini", Element: models.Air, Modality: models.Mutable},
		Moon:       models.ZodiacSign{Name: "Pisces", Element: models.Water, Modality: models.Mutable},
		Elements:   models.ElementBalance{Air: 43, Water: 57, Dominant: models.Water},
		Modalities: models.ModalityBalance{Mutable: 100, Dominant: models.Mutable},
		Aspects: []models.Aspect{
			{Body1: models.Sun, Body2: models.Mercury, Type: "Conjunction", Angle: 18.3, Orb: 0.4, Rarity: models.Common},
		},
		Rarity:   3456,
		Timing:   models.CosmicTiming{Period: "Afternoon"},
		Harmonic: models.HarmonicPattern{Number: 10, Name: "Decagon", Frequency: 1110},
	}
}

func TestRenderUsesSignatureFacts(t *testing.T) {
	md := Render("Ada", signature())
	for _, want := range []string{
		"# Cosmic Signature of Ada",
		"Gemini Sun",
		"Unknown Rising",
		"1 in 3456",
		"versatile communication and curiosity",
		"Water elemental dominance grants natural emotional depth",
		"Mutable modality focus enables adaptive flexibility",
		"Sun Conjunction Mercury (orb 0.40°)",
		"## Cosmic Advice",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("report missing %q:\n%s", want, md)
		}
	}
}

func TestNewPicksTemplateWithoutKey(t *testing.T) {
	cfg, _ := config.Default()
	if _, ok := New(cfg, nil).(*Template); !ok {
		t.Fatalf("expected template narrator without a key")
	}
}

func openAIServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "x",
			"choices": []map[string]interface{}{{"index": 0, "message": map[string]string{"role": "assistant", "content": content}}},
		})
	}))
}

func narratorFor(t *testing.T, url string) *OpenAI {
	t.Helper()
	cfg, _ := config.Default()
	cfg.Narrator.OpenAIKey = "sk-test"
	cfg.Narrator.BaseURL = url
	cfg.Narrator.Timeout = 5 * time.Second
	return NewOpenAI(cfg, nil)
}

func TestOpenAINarrate(t *testing.T) {
	srv := openAIServer(t, http.StatusOK, "## Overview\n\nA reading.")
	defer srv.Close()

	rep, err := narratorFor(t, srv.URL).Narrate(context.Background(), "Ada", signature())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.UsingFallback || rep.Model != "gpt-4o" || !strings.Contains(rep.Markdown, "A reading.") {
		t.Fatalf("unexpected report %+v", rep)
	}
}

func TestOpenAIFallsBack(t *testing.T) {
	srv := openAIServer(t, http.StatusInternalServerError, "")
	defer srv.Close()

	rep, err := narratorFor(t, srv.URL).Narrate(context.Background(), "Ada", signature())
	if err != nil {
		t.Fatalf("fallback must not error: %v", err)
	}
	if !rep.UsingFallback || !strings.Contains(rep.Markdown, "Cosmic Signature of Ada") {
		t.Fatalf("expected template fallback, got %+v", rep)
	}
}
