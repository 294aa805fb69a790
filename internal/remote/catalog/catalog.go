package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/moviemend/moviemend/internal/circuitbreaker"
	"github.com/moviemend/moviemend/internal/errors"
	"github.com/moviemend/moviemend/internal/models"
	"github.com/moviemend/moviemend/internal/retry"
)

const defaultTimeout = 10 * time.Second

// Client talks to the movie catalog proxy functions. The proxy performs no
// caching or retry of its own, so this client carries bounded retry for
// transient failures and a circuit breaker, and the query layer above handles
// caching.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	retryConfig retry.Config
	circuitBrk  *circuitbreaker.CircuitBreaker
}

// Config holds catalog client configuration
type Config struct {
	BaseURL       string
	APIKey        string
	Timeout       time.Duration
	RetryAttempts int
}

// New creates a new catalog proxy client
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	retryCfg := retry.DefaultConfig()
	if cfg.RetryAttempts > 0 {
		retryCfg.MaxAttempts = cfg.RetryAttempts
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		retryConfig: retryCfg,
		circuitBrk: circuitbreaker.New(circuitbreaker.Config{
			MaxFailures: 5,
			Cooldown:    60 * time.Second,
		}),
	}
}

// MovieDetails retrieves the full denormalized detail payload for a movie:
// base details plus credits and videos, assembled by the proxy.
func (c *Client) MovieDetails(ctx context.Context, movieID int) (*models.MovieDetail, error) {
	params := url.Values{}
	params.Set("id", strconv.Itoa(movieID))

	var detail models.MovieDetail
	if err := c.makeRequest(ctx, "/tmdb-details", params, &detail); err != nil {
		return nil, err
	}
	if detail.ID == 0 {
		return nil, errors.NotFoundError("movie", strconv.Itoa(movieID))
	}
	return &detail, nil
}

// SearchMovies searches the catalog by title
func (c *Client) SearchMovies(ctx context.Context, query string) (*models.MovieList, error) {
	params := url.Values{}
	params.Set("query", query)

	var list models.MovieList
	if err := c.makeRequest(ctx, "/tmdb-search", params, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// TrendingMovies retrieves the current trending listing
func (c *Client) TrendingMovies(ctx context.Context) (*models.MovieList, error) {
	var list models.MovieList
	if err := c.makeRequest(ctx, "/tmdb-trending", url.Values{}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// makeRequest performs a proxy request with circuit breaker and retry
func (c *Client) makeRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	operation := func() (struct{}, error) {
		err := c.circuitBrk.Execute(func() error {
			return c.fetch(ctx, requestURL, result)
		})
		if err == circuitbreaker.ErrOpenState {
			return struct{}{}, errors.Unreachable("catalog proxy circuit open", err)
		}
		return struct{}{}, err
	}

	_, err := retry.DoWithResult(ctx, c.retryConfig, operation, errors.IsRetryable)
	return err
}

func (c *Client) fetch(ctx context.Context, requestURL string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to build catalog request")
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Unreachable("catalog proxy request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return errors.New(errors.CodeRateLimited, "catalog proxy rate limit exceeded")

	case resp.StatusCode == http.StatusNotFound:
		return errors.NotFoundError("catalog resource", requestURL)

	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(resp.Body)
		return errors.Remote("", fmt.Sprintf("catalog proxy error (status %d): %s", resp.StatusCode, string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return errors.Wrap(err, errors.CodeRemote, "failed to decode catalog response")
	}

	return nil
}
