package sync

import (
	"context"

	"github.com/moviemend/moviemend/internal/cache"
	"github.com/moviemend/moviemend/internal/errors"
	"github.com/moviemend/moviemend/internal/models"
	"github.com/moviemend/moviemend/internal/session"
)

// Add creates a new watchlist entry. A duplicate insert for the same movie
// surfaces the distinct duplicate condition rather than a generic failure.
func (s *Service) Add(ctx context.Context, add models.WatchlistAdd) error {
	if add.MovieID <= 0 {
		return errors.ValidationError("movie id is required")
	}
	if add.Title == "" {
		return errors.ValidationError("movie title is required")
	}

	sess, err := s.beginMutation(ctx)
	if err != nil {
		return err
	}

	if err := s.store.InsertEntry(ctx, sess, add); err != nil {
		return err
	}

	s.refreshCollection(ctx, sess)
	return nil
}

// Remove deletes the entry for the given movie
func (s *Service) Remove(ctx context.Context, movieID int) error {
	sess, err := s.beginMutation(ctx)
	if err != nil {
		return err
	}

	if err := s.store.DeleteEntry(ctx, sess, movieID); err != nil {
		return err
	}

	s.refreshCollection(ctx, sess)
	return nil
}

// MarkWatched transitions an entry to watched, stamping the watched time.
// The transition is one-way; marking an already watched entry again just
// refreshes the timestamp.
func (s *Service) MarkWatched(ctx context.Context, movieID int) error {
	sess, err := s.beginMutation(ctx)
	if err != nil {
		return err
	}

	status := models.StatusWatched
	watchedAt := s.now().UTC()
	update := models.WatchlistUpdate{
		Status:    &status,
		WatchedAt: &watchedAt,
	}

	if err := s.store.UpdateEntry(ctx, sess, movieID, update); err != nil {
		return err
	}

	s.refreshCollection(ctx, sess)
	return nil
}

// Rate records a 1-5 rating on an entry
func (s *Service) Rate(ctx context.Context, movieID, rating int) error {
	if rating < 1 || rating > 5 {
		return errors.ValidationError("rating must be between 1 and 5")
	}

	sess, err := s.beginMutation(ctx)
	if err != nil {
		return err
	}

	update := models.WatchlistUpdate{Rating: &rating}
	if err := s.store.UpdateEntry(ctx, sess, movieID, update); err != nil {
		return err
	}

	s.refreshCollection(ctx, sess)
	return nil
}

// UpdateNotes replaces the free-text note on an entry
func (s *Service) UpdateNotes(ctx context.Context, movieID int, notes string) error {
	sess, err := s.beginMutation(ctx)
	if err != nil {
		return err
	}

	update := models.WatchlistUpdate{Notes: &notes}
	if err := s.store.UpdateEntry(ctx, sess, movieID, update); err != nil {
		return err
	}

	s.refreshCollection(ctx, sess)
	return nil
}

// beginMutation enforces the online-first write policy: there is no offline
// mutation queue, so mutations attempted while offline fail immediately.
func (s *Service) beginMutation(ctx context.Context) (session.Session, error) {
	if !s.monitor.IsOnline() {
		return session.Session{}, errors.OfflineUnavailable("watchlist mutation")
	}

	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return session.Session{}, err
	}
	s.rememberSession(sess)
	return sess, nil
}

// refreshCollection refetches the watchlist after a successful remote write
// so the cached snapshot reflects the mutation. If the refetch fails, the
// stale snapshot is invalidated instead, forcing the next read to go remote.
func (s *Service) refreshCollection(ctx context.Context, sess session.Session) {
	if _, err := s.fetchWatchlist(ctx, sess); err != nil {
		s.log.Warn("Watchlist refresh after mutation failed, invalidating cached collection")
		s.cache.Clear(cache.NamespaceWatchlist)
	}
}
