package webfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/shoplist/backend/internal/domain"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "webfetch").Logger()

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "ShoplistBot/1.0 (+https://github.com/shoplist/backend)"
	maxAttempts      = 3
	maxBodyBytes     = 4 << 20 // recipe pages should never be bigger than this
)

// Fetcher retrieves recipe pages over HTTP. Requests are rate limited so the
// app stays polite to recipe sites, and transient failures are retried with a
// linear backoff.
type Fetcher struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
}

// Config holds configuration for the page fetcher
type Config struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	UserAgent         string
}

// NewFetcher creates a page fetcher with the given configuration
func NewFetcher(config Config) *Fetcher {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Fetcher{
		httpClient:  &http.Client{Timeout: timeout},
		rateLimiter: rate.NewLimiter(rate.Limit(rps), 3),
		userAgent:   userAgent,
	}
}

// FetchPage retrieves the body of a recipe page. Retries up to three times on
// transient failures; 4xx responses other than 429 are not retried.
func (f *Fetcher) FetchPage(ctx context.Context, url string) (string, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", fmt.Errorf("%w: unsupported url scheme", domain.ErrInvalidRequest)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := f.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}

		body, retryable, err := f.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}

		logger.Warn().Err(err).Str("url", url).Int("attempt", attempt).Msg("page fetch failed")
		lastErr = err
		if !retryable {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
		}
	}

	return "", fmt.Errorf("%w: %v", domain.ErrFetchFailed, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (body string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", false, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return "", true, err
		}
		return string(data), false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", true, fmt.Errorf("status %d", resp.StatusCode)
	default:
		return "", false, fmt.Errorf("status %d", resp.StatusCode)
	}
}
