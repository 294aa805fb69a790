package api

import "github.com/moviemend/moviemend/internal/models"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Offline bool   `json:"offline,omitempty"`
}

// WatchlistResponse wraps the watchlist payload
type WatchlistResponse struct {
	Entries []models.WatchlistEntry `json:"entries"`
	Count   int                     `json:"count"`
}

// AddToWatchlistRequest represents an add request
type AddToWatchlistRequest struct {
	MovieID    int    `json:"movie_id" binding:"required"`
	Title      string `json:"title" binding:"required"`
	PosterPath string `json:"poster_path"`
}

// UpdateWatchlistRequest represents a partial update to an entry. Watched
// takes precedence over a raw status value when both are sent.
type UpdateWatchlistRequest struct {
	Watched *bool   `json:"watched,omitempty"`
	Rating  *int    `json:"rating,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

// ConnectivityRequest reports a runtime connectivity change
type ConnectivityRequest struct {
	Online *bool `json:"online" binding:"required"`
}

// ConnectivityResponse represents the current connectivity state
type ConnectivityResponse struct {
	Online bool `json:"online"`
}
