package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	models "HashClock/internal/domain/models"
	domsvc "HashClock/internal/domain/service"
	"HashClock/internal/service/narrator"
	"HashClock/internal/service/ratelimit"
	"HashClock/internal/service/report"
	"HashClock/internal/services/astro"
	"HashClock/internal/usecase"
	xhttp "HashClock/pkg/http"

	"github.com/labstack/echo/v4"
)

type nopMetrics struct{}

func (nopMetrics) RecordSignature(string, string) {}
func (nopMetrics) RecordProvider(string, string)  {}
func (nopMetrics) RecordError(string)             {}
func (nopMetrics) RecordRarity(int64)             {}
func (nopMetrics) RecordLatency(string, float64)  {}

type downCheck struct{}

func (downCheck) Health(context.Context) error { return errors.New("connection refused") }

func newTestServer(opts ...HandlerOption) *echo.Echo {
	sigs := usecase.NewSignatureUseCase(astro.NewCalculator(), []domsvc.EphemerisProvider{astro.NewEphemeris()}, nopMetrics{})
	reports := usecase.NewReportUseCase(sigs, narrator.NewTemplate(), report.NewBuilder(), nopMetrics{})
	e := echo.New()
	NewSignatureEchoHandler(nil, sigs, reports, opts...).RegisterRoutes(e)
	return e
}

func post(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const nycBody = `{"birthDate":"1990-06-15","birthTime":"14:30","latitude":40.7128,"longitude":-74.006,"timezone":"America/New_York"}`

func TestCosmicSignature(t *testing.T) {
	rec := post(newTestServer(), "/api/cosmic-signature", nycBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, k := range []string{"sunSign", "moonSign", "ascendant", "ascendantData", "planets", "aspects", "elements", "modalities", "rarity"} {
		if _, ok := resp[k]; !ok {
			t.Fatalf("missing key %q in %s", k, rec.Body.String())
		}
	}
	var sun string
	_ = json.Unmarshal(resp["sunSign"], &sun)
	if sun != "Gemini" {
		t.Fatalf("sunSign = %q, want Gemini", sun)
	}
}

func TestCosmicSignatureValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"missing date", `{"latitude":1,"longitude":2}`, "ERR_REQUIRED"},
		{"bad date", `{"birthDate":"15/06/1990","latitude":1,"longitude":2}`, "ERR_DATETIME"},
		{"latitude range", `{"birthDate":"1990-06-15","latitude":91,"longitude":2}`, "ERR_LTE"},
		{"missing longitude", `{"birthDate":"1990-06-15","latitude":1}`, "ERR_REQUIRED"},
	}
	e := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(e, "/api/cosmic-signature", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			var env struct {
				Data []xhttp.ValidationError `json:"data"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(env.Data) == 0 || env.Data[0].Code != tt.code {
				t.Fatalf("errors = %+v, want %s", env.Data, tt.code)
			}
		})
	}
}

func TestCosmicSignatureBadTime(t *testing.T) {
	rec := post(newTestServer(), "/api/cosmic-signature",
		`{"birthDate":"1990-06-15","birthTime":"25:99","latitude":1,"longitude":2}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "ERR_INVALID_INPUT") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestRateLimit(t *testing.T) {
	e := newTestServer(WithRateLimiter(ratelimit.New(1, 0.001)))
	if rec := post(e, "/api/cosmic-signature", nycBody); rec.Code != http.StatusOK {
		t.Fatalf("first status = %d", rec.Code)
	}
	rec := post(e, "/api/cosmic-signature", nycBody)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After")
	}
}

func TestReportEndpoints(t *testing.T) {
	e := newTestServer()
	body := `{"name":"Ada",` + strings.TrimPrefix(nycBody, "{")

	rec := post(e, "/api/report", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("report status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var env struct {
		Data models.ReportResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Data.Report.UsingFallback || !strings.Contains(env.Data.Report.Markdown, "Ada") {
		t.Fatalf("report = %+v", env.Data.Report)
	}
	if env.Data.Signature.SunSign != "Gemini" {
		t.Fatalf("signature sun = %q", env.Data.Signature.SunSign)
	}

	rec = post(e, "/api/report/html", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("html status = %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Fatal("html page has no chart")
	}
}

func TestBalanceChart(t *testing.T) {
	e := newTestServer()
	rec := post(e, "/api/chart/balance.svg?kind=modalities", nycBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "image/svg+xml" {
		t.Fatalf("content type = %q", ct)
	}
	if rec := post(e, "/api/chart/balance.svg?kind=planets", nycBody); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad kind status = %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	get := func(e *echo.Echo) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		return rec
	}
	rec := get(newTestServer())
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"healthy"`) {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	rec = get(newTestServer(WithHealthCheck("clickhouse", downCheck{})))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "connection refused") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}
