package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/moviemend/moviemend/internal/errors"
	"github.com/moviemend/moviemend/internal/models"
	"github.com/moviemend/moviemend/internal/session"
)

const defaultTimeout = 10 * time.Second

// Client talks to the managed watchlist store. Each call is a single
// idempotent read or mutating write; retries, if any, are the caller's
// responsibility.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Config holds store client configuration
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// storeError is the error payload the managed store returns on rejection
type storeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// New creates a new watchlist store client
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// FetchWatchlist retrieves the authoritative watchlist for the session's
// user, most recently added first.
func (c *Client) FetchWatchlist(ctx context.Context, sess session.Session) ([]models.WatchlistEntry, error) {
	params := url.Values{}
	params.Set("user_id", "eq."+sess.UserID)
	params.Set("order", "added_at.desc")

	var entries []models.WatchlistEntry
	if err := c.do(ctx, sess, http.MethodGet, "/rest/v1/watchlist", params, nil, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.WatchlistEntry{}
	}
	return entries, nil
}

// InsertEntry creates a new watchlist entry for the session's user. The store
// enforces uniqueness on (user, movie); a duplicate insert surfaces as the
// distinct duplicate condition.
func (c *Client) InsertEntry(ctx context.Context, sess session.Session, add models.WatchlistAdd) error {
	row := map[string]interface{}{
		"user_id":      sess.UserID,
		"movie_id":     add.MovieID,
		"movie_title":  add.Title,
		"movie_poster": add.PosterPath,
		"status":       models.StatusWantToWatch,
	}

	return c.do(ctx, sess, http.MethodPost, "/rest/v1/watchlist", nil, row, nil)
}

// DeleteEntry removes the entry for (session user, movie)
func (c *Client) DeleteEntry(ctx context.Context, sess session.Session, movieID int) error {
	params := url.Values{}
	params.Set("user_id", "eq."+sess.UserID)
	params.Set("movie_id", fmt.Sprintf("eq.%d", movieID))

	return c.do(ctx, sess, http.MethodDelete, "/rest/v1/watchlist", params, nil, nil)
}

// UpdateEntry applies a partial update to the entry for (session user, movie)
func (c *Client) UpdateEntry(ctx context.Context, sess session.Session, movieID int, update models.WatchlistUpdate) error {
	params := url.Values{}
	params.Set("user_id", "eq."+sess.UserID)
	params.Set("movie_id", fmt.Sprintf("eq.%d", movieID))

	return c.do(ctx, sess, http.MethodPatch, "/rest/v1/watchlist", params, update, nil)
}

func (c *Client) do(ctx context.Context, sess session.Session, method, endpoint string, params url.Values, body, result interface{}) error {
	if sess.UserID == "" {
		return errors.Unauthenticated("no active session")
	}

	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, errors.CodeInternal, "failed to encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to build store request")
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Unreachable("store request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errors.Unauthenticated("store rejected session")

	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		raw, _ := io.ReadAll(resp.Body)
		var rejection storeError
		if err := json.Unmarshal(raw, &rejection); err == nil && rejection.Code != "" {
			return errors.Remote(rejection.Code, rejection.Message)
		}
		return errors.Remote("", fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(raw)))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return errors.Wrap(err, errors.CodeRemote, "failed to decode store response")
		}
	}

	return nil
}
