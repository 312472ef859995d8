package ephemeris

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"HashClock/pkg/config"
	xhttp "HashClock/pkg/http"
)

// HTTPServiceBase holds the client and base URL shared by remote ephemeris calls.
type HTTPServiceBase struct {
	baseURL string
	client  *xhttp.Client
	retries int
	backoff time.Duration
}

// NewHTTPServiceBase builds an HTTP client with timeout, retries and base URL from config.
func NewHTTPServiceBase(cfg *config.Config, opts ...xhttp.ClientOption) *HTTPServiceBase {
	timeout := cfg.Ephemeris.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	backoff := cfg.Ephemeris.Backoff
	if backoff <= 0 {
		backoff = 50 * time.Millisecond
	}
	opts = append([]xhttp.ClientOption{xhttp.WithTimeout(timeout), xhttp.WithUserAgent("hashclock-ephemeris/1")}, opts...)
	return &HTTPServiceBase{
		baseURL: cfg.Ephemeris.BaseURL,
		client:  xhttp.NewClient(opts...),
		retries: cfg.Ephemeris.Retries,
		backoff: backoff,
	}
}

// PostJSON posts payload to path under baseURL and decodes the JSON reply into dest.
func (b *HTTPServiceBase) PostJSON(ctx context.Context, path string, payload, dest interface{}) error {
	if b.client == nil || b.baseURL == "" {
		return errors.New("ephemeris http client not initialized")
	}
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  http.MethodPost,
		URL:     b.baseURL + path,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    payload,
	}, dest)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	return nil
}

// PostJSONWithRetry retries transient failures with linear backoff. A 4xx
// reply is returned at once.
func (b *HTTPServiceBase) PostJSONWithRetry(ctx context.Context, path string, payload, dest interface{}) error {
	attempts := b.retries + 1
	var err error
	for i := 1; i <= attempts; i++ {
		err = b.PostJSON(ctx, path, payload, dest)
		if err == nil || !retryable(err) || i == attempts {
			return err
		}
		select {
		case <-time.After(time.Duration(i) * b.backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *xhttp.StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}
