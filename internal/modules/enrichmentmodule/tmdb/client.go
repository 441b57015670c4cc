// Package tmdb is a small client for the TMDB v3 API: popular lists,
// keywords, certifications, genres and details.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cineclass/cineclass/internal/config"
	"github.com/cineclass/cineclass/internal/database"
	"github.com/cineclass/cineclass/internal/logger"
	"github.com/cineclass/cineclass/internal/metrics"
	"github.com/cineclass/cineclass/internal/modules/catalogmodule/core/rating"
	"github.com/cineclass/cineclass/internal/types"
	"github.com/hashicorp/go-hclog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// ErrMissingAPIKey is returned when the client is built without credentials.
var ErrMissingAPIKey = errors.New("tmdb api key is not configured")

// APIError is a non-2xx answer from the provider.
type APIError struct {
	Status int
	Path   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tmdb %s returned status %d", e.Path, e.Status)
}

// AppError returns the error as an upstream failure. Rate limiting and
// server errors are marked retryable.
func (e *APIError) AppError() *types.AppError {
	appErr := types.NewUpstreamError("metadata provider request failed", e)
	appErr.Details = e.Error()
	appErr.Retryable = e.Status == http.StatusTooManyRequests || e.Status >= 500
	return appErr
}

// Client calls the provider through a rate limiter, a circuit breaker and
// a bounded retry loop.
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
	maxRetries int
	backoff    time.Duration
	log        hclog.Logger
}

// NewClient builds a client from the provider configuration. A nil
// httpClient gets one with the configured request timeout.
func NewClient(cfg config.TMDBConfig, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}

	limit := rate.Inf
	if cfg.RequestsPerSec > 0 {
		limit = rate.Limit(cfg.RequestsPerSec)
	}
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		language:   cfg.Language,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
		log:        logger.Named("tmdb"),
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "tmdb",
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return !types.IsRetryable(apiErr.AppError())
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn("circuit breaker changed state", "from", from.String(), "to", to.String())
		},
	})
	return c, nil
}

// isJWT tells v4 read access tokens apart from v3 api keys.
func isJWT(key string) bool {
	return strings.HasPrefix(key, "eyJ") && len(key) > 100
}

// get fetches path and decodes the JSON body into out. Transient failures
// are retried with exponential backoff.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if query == nil {
		query = url.Values{}
	}
	if !isJWT(c.apiKey) {
		query.Set("api_key", c.apiKey)
	}
	endpoint := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		body, err := c.breaker.Execute(func() ([]byte, error) {
			return c.do(ctx, path, endpoint)
		})
		if err == nil {
			metrics.RecordProviderRequest("ok")
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("failed to decode tmdb %s response: %w", path, err)
			}
			return nil
		}
		lastErr = err

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordProviderRequest("breaker_open")
			return fmt.Errorf("tmdb %s: %w", path, err)
		}
		if !retryable(err) || attempt == c.maxRetries {
			metrics.RecordProviderRequest("error")
			break
		}

		metrics.RecordProviderRequest("retry")
		delay := c.backoff * time.Duration(1<<uint(attempt))
		c.log.Debug("request failed, retrying", "path", path, "attempt", attempt+1, "delay", delay, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("tmdb %s failed: %w", path, lastErr)
}

func (c *Client) do(ctx context.Context, path, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if isJWT(c.apiKey) {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &APIError{Status: resp.StatusCode, Path: path}
	}
	return io.ReadAll(resp.Body)
}

// retryable reports whether an attempt failed for a transient reason.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return types.IsRetryable(apiErr.AppError())
	}
	return true
}

func (c *Client) localized() url.Values {
	q := url.Values{}
	if c.language != "" {
		q.Set("language", c.language)
	}
	return q
}

// Popular returns one page of the popular movies or series.
func (c *Client) Popular(ctx context.Context, mediaType database.MediaType, page int) (*Page, error) {
	q := c.localized()
	q.Set("page", strconv.Itoa(page))

	var out Page
	if err := c.get(ctx, fmt.Sprintf("/%s/popular", mediaType), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Keywords returns the provider keywords of a title, in English.
func (c *Client) Keywords(ctx context.Context, mediaType database.MediaType, id int64) ([]string, error) {
	var out keywordsResponse
	if err := c.get(ctx, fmt.Sprintf("/%s/%d/keywords", mediaType, id), nil, &out); err != nil {
		return nil, err
	}
	return out.names(), nil
}

// Certifications returns the per-region classifications of a title.
func (c *Client) Certifications(ctx context.Context, mediaType database.MediaType, id int64) ([]rating.Certification, error) {
	if mediaType == database.MediaTypeTV {
		var out contentRatingsResponse
		if err := c.get(ctx, fmt.Sprintf("/tv/%d/content_ratings", id), nil, &out); err != nil {
			return nil, err
		}
		certs := make([]rating.Certification, 0, len(out.Results))
		for _, r := range out.Results {
			certs = append(certs, rating.Certification{Region: r.Region, Value: r.Rating})
		}
		return certs, nil
	}

	var out releaseDatesResponse
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/release_dates", id), nil, &out); err != nil {
		return nil, err
	}
	certs := make([]rating.Certification, 0, len(out.Results))
	for _, r := range out.Results {
		for _, d := range r.ReleaseDates {
			if strings.TrimSpace(d.Certification) != "" {
				certs = append(certs, rating.Certification{Region: r.Region, Value: d.Certification})
				break
			}
		}
	}
	return certs, nil
}

// Genres returns the localized genre names keyed by provider id.
func (c *Client) Genres(ctx context.Context, mediaType database.MediaType) (map[int]string, error) {
	var out genreList
	if err := c.get(ctx, fmt.Sprintf("/genre/%s/list", mediaType), c.localized(), &out); err != nil {
		return nil, err
	}
	names := make(map[int]string, len(out.Genres))
	for _, g := range out.Genres {
		names[g.ID] = g.Name
	}
	return names, nil
}

// Details returns the localized details of a title.
func (c *Client) Details(ctx context.Context, mediaType database.MediaType, id int64) (*Details, error) {
	var out Details
	if err := c.get(ctx, fmt.Sprintf("/%s/%d", mediaType, id), c.localized(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
