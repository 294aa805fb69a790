package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/moviemend/moviemend/internal/errors"
	"github.com/moviemend/moviemend/internal/retry"
)

func fastClient(baseURL string) *Client {
	c := New(Config{BaseURL: baseURL, APIKey: "anon-key"})
	c.retryConfig = retry.Config{
		MaxAttempts:       3,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
	return c
}

func TestMovieDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tmdb-details" {
			t.Errorf("expected path '/tmdb-details', got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("id"); got != "27205" {
			t.Errorf("expected id '27205', got %s", got)
		}
		if got := r.Header.Get("apikey"); got != "anon-key" {
			t.Errorf("expected apikey header, got %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 27205,
			"title": "Inception",
			"overview": "A thief who steals corporate secrets.",
			"runtime": 148,
			"genres": [{"id": 28, "name": "Action"}],
			"credits": {
				"cast": [{"id": 6193, "name": "Leonardo DiCaprio", "character": "Cobb", "order": 0}],
				"crew": [{"id": 525, "name": "Christopher Nolan", "job": "Director", "department": "Directing"}]
			},
			"videos": {"results": [{"id": "v1", "key": "YoHD9XEInc0", "site": "YouTube", "type": "Trailer", "official": true}]}
		}`))
	}))
	defer server.Close()

	detail, err := fastClient(server.URL).MovieDetails(context.Background(), 27205)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if detail.Title != "Inception" || detail.Runtime != 148 {
		t.Errorf("unexpected detail: %+v", detail)
	}
	if detail.Credits == nil || len(detail.Credits.Cast) != 1 {
		t.Errorf("expected credits in payload, got %+v", detail.Credits)
	}
	if detail.Videos == nil || len(detail.Videos.Results) != 1 {
		t.Errorf("expected videos in payload, got %+v", detail.Videos)
	}
}

func TestMovieDetails_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := fastClient(server.URL).MovieDetails(context.Background(), 999999999)
	if errors.GetErrorCode(err) != errors.CodeNotFound {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestMakeRequest_RetriesTransientFailures(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"page": 1, "results": [], "total_pages": 1, "total_results": 0}`))
	}))
	defer server.Close()

	_, err := fastClient(server.URL).TrendingMovies(context.Background())
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestMakeRequest_NoRetryOnRemoteRejection(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "Movie ID is required"}`))
	}))
	defer server.Close()

	_, err := fastClient(server.URL).MovieDetails(context.Background(), 27205)
	if errors.GetErrorCode(err) != errors.CodeRemote {
		t.Errorf("expected remote error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected no retries on a remote rejection, got %d attempts", attempts)
	}
}

func TestTransportFailureIsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := fastClient(server.URL).MovieDetails(context.Background(), 27205)
	if !errors.IsUnreachable(err) {
		t.Errorf("expected unreachable error, got %v", err)
	}
}

func TestSearchMovies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tmdb-search" {
			t.Errorf("expected path '/tmdb-search', got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "The Matrix" {
			t.Errorf("expected query 'The Matrix', got %s", got)
		}
		w.Write([]byte(`{"page": 1, "results": [{"id": 603, "title": "The Matrix"}], "total_pages": 1, "total_results": 1}`))
	}))
	defer server.Close()

	list, err := fastClient(server.URL).SearchMovies(context.Background(), "The Matrix")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(list.Results) != 1 || list.Results[0].ID != 603 {
		t.Errorf("unexpected results: %+v", list.Results)
	}
}
