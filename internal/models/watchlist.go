package models

import "time"

// WatchlistStatus represents the lifecycle status of a watchlist entry
type WatchlistStatus string

const (
	StatusWantToWatch WatchlistStatus = "want_to_watch"
	StatusWatched     WatchlistStatus = "watched"
)

// Valid reports whether the status is one of the known values
func (s WatchlistStatus) Valid() bool {
	return s == StatusWantToWatch || s == StatusWatched
}

// WatchlistEntry represents a user's saved record for one movie. At most one
// entry exists per (user, movie) pair; uniqueness is enforced by the remote
// store, not locally.
type WatchlistEntry struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	MovieID     int             `json:"movie_id"`
	MovieTitle  string          `json:"movie_title"`
	MoviePoster *string         `json:"movie_poster"`
	Status      WatchlistStatus `json:"status"`
	AddedAt     time.Time       `json:"added_at"`
	WatchedAt   *time.Time      `json:"watched_at"`
	Rating      *int            `json:"rating"`
	Notes       *string         `json:"notes"`
}

// PosterURL resolves the stored relative poster path against the image host
func (e WatchlistEntry) PosterURL() string {
	if e.MoviePoster == nil {
		return ""
	}
	return PosterImageURL(*e.MoviePoster)
}

// WatchlistAdd captures the data required to create a new watchlist entry
type WatchlistAdd struct {
	MovieID    int     `json:"movie_id"`
	Title      string  `json:"title"`
	PosterPath *string `json:"poster_path"`
}

// WatchlistUpdate captures a partial update to an existing entry. Nil fields
// are left untouched by the remote store.
type WatchlistUpdate struct {
	Status    *WatchlistStatus `json:"status,omitempty"`
	WatchedAt *time.Time       `json:"watched_at,omitempty"`
	Rating    *int             `json:"rating,omitempty"`
	Notes     *string          `json:"notes,omitempty"`
}
