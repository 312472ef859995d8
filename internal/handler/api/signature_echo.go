package api

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	models "HashClock/internal/domain/models"
	"HashClock/internal/service/chart"
	"HashClock/internal/service/ratelimit"
	"HashClock/internal/usecase"
	xhttp "HashClock/pkg/http"
	xlogger "HashClock/pkg/logger"

	"github.com/labstack/echo/v4"
)

// HealthChecker is an optional dependency probed by /health.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// SignatureEchoHandler serves the signature, report and live sky endpoints.
type SignatureEchoHandler struct {
	logger  *xlogger.Logger
	sigs    *usecase.SignatureUseCase
	reports *usecase.ReportUseCase
	sky     http.Handler
	limiter *ratelimit.Limiter
	checks  map[string]HealthChecker
}

type HandlerOption func(*SignatureEchoHandler)

// WithSky mounts the websocket sky stream at /api/sky.
func WithSky(h http.Handler) HandlerOption {
	return func(s *SignatureEchoHandler) { s.sky = h }
}

// WithRateLimiter limits the compute endpoints per client IP.
func WithRateLimiter(l *ratelimit.Limiter) HandlerOption {
	return func(s *SignatureEchoHandler) { s.limiter = l }
}

// WithHealthCheck adds a named dependency to /health.
func WithHealthCheck(name string, c HealthChecker) HandlerOption {
	return func(s *SignatureEchoHandler) {
		if c != nil {
			s.checks[name] = c
		}
	}
}

func NewSignatureEchoHandler(logger *xlogger.Logger, sigs *usecase.SignatureUseCase, reports *usecase.ReportUseCase, opts ...HandlerOption) *SignatureEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	h := &SignatureEchoHandler{logger: logger, sigs: sigs, reports: reports, checks: map[string]HealthChecker{}}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *SignatureEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	g := e.Group("/api")
	compute := g.Group("", h.rateLimit)
	compute.POST("/cosmic-signature", h.CosmicSignature)
	compute.POST("/report", h.Report)
	compute.POST("/report/html", h.ReportHTML)
	compute.POST("/chart/balance.svg", h.BalanceChart)
	if h.sky != nil {
		g.GET("/sky", echo.WrapHandler(h.sky))
	}
}

func (h *SignatureEchoHandler) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.limiter == nil {
			return next(c)
		}
		key := c.RealIP()
		if !h.limiter.Allow(key) {
			wait := h.limiter.RetryAfter(key)
			secs := int(math.Ceil(wait.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
			h.logger.Warn("rate limited", xlogger.String("remote", key), xlogger.String("path", c.Path()))
			return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many requests"))
		}
		return next(c)
	}
}

func (h *SignatureEchoHandler) fail(c echo.Context, op string, err error) error {
	appErr := usecase.MapError(err)
	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error(op+" failed", xlogger.Error(err))
	} else {
		h.logger.Debug(op+" rejected", xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, appErr)
}

// CosmicSignature answers with the bare signature object, not the envelope.
func (h *SignatureEchoHandler) CosmicSignature(c echo.Context) error {
	req := &models.SignatureRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	resp, err := h.sigs.Signature(c.Request().Context(), req.BirthInput(), "http")
	if err != nil {
		return h.fail(c, "signature", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=300")
	return c.JSON(http.StatusOK, resp)
}

func (h *SignatureEchoHandler) Report(c echo.Context) error {
	req := &models.ReportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.reports.Report(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "report", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SignatureEchoHandler) ReportHTML(c echo.Context) error {
	req := &models.ReportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	page, err := h.reports.HTML(c.Request().Context(), *req)
	if err != nil {
		return h.fail(c, "report html", err)
	}
	return c.HTMLBlob(http.StatusOK, page)
}

func (h *SignatureEchoHandler) BalanceChart(c echo.Context) error {
	kind, ok := chart.ParseKind(c.QueryParam("kind"))
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("kind must be elements or modalities, got %q", c.QueryParam("kind")))
	}
	req := &models.SignatureRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	svg, err := h.reports.BalanceChart(c.Request().Context(), req.BirthInput(), kind)
	if err != nil {
		return h.fail(c, "balance chart", err)
	}
	return c.Blob(http.StatusOK, "image/svg+xml", svg)
}

// Health probes the primary provider with a reference chart plus every
// registered dependency. Any failure turns the whole answer into a 503.
func (h *SignatureEchoHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	status := map[string]string{"astro": "ok"}
	healthy := true
	if err := h.sigs.Probe(ctx); err != nil {
		status["astro"] = err.Error()
		healthy = false
	}
	for name, chk := range h.checks {
		if err := chk.Health(ctx); err != nil {
			status[name] = err.Error()
			healthy = false
			continue
		}
		status[name] = "ok"
	}
	if !healthy {
		status["status"] = "unhealthy"
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, status)
	}
	status["status"] = "healthy"
	return xhttp.SuccessResponse(c, status)
}
