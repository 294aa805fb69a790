package sync

import (
	"context"
	"strconv"
	gosync "sync"
	"time"

	"github.com/moviemend/moviemend/internal/cache"
	"github.com/moviemend/moviemend/internal/connectivity"
	"github.com/moviemend/moviemend/internal/errors"
	"github.com/moviemend/moviemend/internal/logger"
	"github.com/moviemend/moviemend/internal/models"
	"github.com/moviemend/moviemend/internal/session"
	"golang.org/x/sync/singleflight"
)

const watchlistKey = "watchlist"

// WatchlistGateway is the remote store surface the query layer depends on
type WatchlistGateway interface {
	FetchWatchlist(ctx context.Context, sess session.Session) ([]models.WatchlistEntry, error)
	InsertEntry(ctx context.Context, sess session.Session, add models.WatchlistAdd) error
	DeleteEntry(ctx context.Context, sess session.Session, movieID int) error
	UpdateEntry(ctx context.Context, sess session.Session, movieID int, update models.WatchlistUpdate) error
}

// CatalogGateway is the catalog proxy surface the query layer depends on
type CatalogGateway interface {
	MovieDetails(ctx context.Context, movieID int) (*models.MovieDetail, error)
	SearchMovies(ctx context.Context, query string) (*models.MovieList, error)
	TrendingMovies(ctx context.Context) (*models.MovieList, error)
}

// Service is the cache-aware query layer. Reads prefer the network while
// online and fall back to the local cache only when genuinely offline or when
// the remote side is unreachable; every successful online read is written
// through to the cache. The service holds no persistent state of its own.
type Service struct {
	monitor  *connectivity.Monitor
	cache    *cache.Store
	store    WatchlistGateway
	catalog  CatalogGateway
	sessions session.Provider
	log      *logger.Logger

	freshTTL time.Duration
	maxAge   time.Duration

	group singleflight.Group
	now   func() time.Time

	mu          gosync.Mutex
	lastSession *session.Session

	bg          gosync.WaitGroup
	unsubscribe func()
}

// Config holds the service's collaborators and tuning knobs
type Config struct {
	Monitor  *connectivity.Monitor
	Cache    *cache.Store
	Store    WatchlistGateway
	Catalog  CatalogGateway
	Sessions session.Provider
	Logger   *logger.Logger

	// DetailFreshTTL is the window inside which a cached movie detail
	// short-circuits the network call even while online
	DetailFreshTTL time.Duration
	// DetailMaxAge is the window inside which a stale cached detail is still
	// served while a background refresh runs
	DetailMaxAge time.Duration
}

// NewService creates the query layer. Call Start to hook it up to
// connectivity transitions.
func NewService(cfg Config) *Service {
	log := cfg.Logger
	if log == nil {
		log = logger.AppLogger()
	}
	if cfg.DetailFreshTTL == 0 {
		cfg.DetailFreshTTL = time.Hour
	}
	if cfg.DetailMaxAge == 0 {
		cfg.DetailMaxAge = 24 * time.Hour
	}

	return &Service{
		monitor:  cfg.Monitor,
		cache:    cfg.Cache,
		store:    cfg.Store,
		catalog:  cfg.Catalog,
		sessions: cfg.Sessions,
		log:      log,
		freshTTL: cfg.DetailFreshTTL,
		maxAge:   cfg.DetailMaxAge,
		now:      time.Now,
	}
}

// Start subscribes the service to connectivity transitions
func (s *Service) Start() {
	s.unsubscribe = s.monitor.Subscribe(s.handleTransition)
}

// Stop unsubscribes from connectivity transitions and waits for any running
// background refresh to finish
func (s *Service) Stop() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.bg.Wait()
}

// Watchlist returns the user's watchlist: from the remote store while online
// (written through to the cache), from the cache while offline.
func (s *Service) Watchlist(ctx context.Context) ([]models.WatchlistEntry, error) {
	if !s.monitor.IsOnline() {
		var entries []models.WatchlistEntry
		if s.cache.ReadCollection(cache.NamespaceWatchlist, &entries) {
			return entries, nil
		}
		return nil, errors.OfflineUnavailable("watchlist")
	}

	sess, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	s.rememberSession(sess)

	entries, err := s.fetchWatchlist(ctx, sess)
	if err != nil {
		if errors.IsUnreachable(err) {
			var cached []models.WatchlistEntry
			if s.cache.ReadCollection(cache.NamespaceWatchlist, &cached) {
				s.log.Warn("Store unreachable, serving cached watchlist")
				return cached, nil
			}
		}
		return nil, err
	}
	return entries, nil
}

// InWatchlist reports whether the given movie is on the user's watchlist
func (s *Service) InWatchlist(ctx context.Context, movieID int) (bool, error) {
	entries, err := s.Watchlist(ctx)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.MovieID == movieID {
			return true, nil
		}
	}
	return false, nil
}

// MovieDetail returns the full detail payload for one movie. Catalog metadata
// changes rarely, so unlike the watchlist a sufficiently fresh cached copy
// short-circuits the network call even while online.
func (s *Service) MovieDetail(ctx context.Context, movieID int) (*models.MovieDetail, error) {
	key := strconv.Itoa(movieID)

	var cached models.MovieDetail
	hit, fetchedAt := s.cache.ReadEntity(cache.NamespaceMovieDetails, key, &cached)

	if !s.monitor.IsOnline() {
		if hit {
			return &cached, nil
		}
		return nil, errors.OfflineUnavailable("movie detail")
	}

	if hit {
		age := s.now().Sub(fetchedAt)
		if age <= s.freshTTL {
			return &cached, nil
		}
		if age <= s.maxAge {
			s.refreshDetailInBackground(movieID)
			return &cached, nil
		}
	}

	detail, err := s.fetchDetail(ctx, movieID)
	if err != nil {
		if errors.IsUnreachable(err) && hit {
			s.log.WithFields(map[string]interface{}{
				"movie_id": movieID,
			}).Warn("Catalog unreachable, serving cached movie detail")
			return &cached, nil
		}
		return nil, err
	}
	return detail, nil
}

// Search performs an online-only catalog search; results are not cached
func (s *Service) Search(ctx context.Context, query string) (*models.MovieList, error) {
	if query == "" {
		return nil, errors.ValidationError("search query is required")
	}
	if !s.monitor.IsOnline() {
		return nil, errors.OfflineUnavailable("catalog search")
	}
	return s.catalog.SearchMovies(ctx, query)
}

// Trending returns the online-only trending listing
func (s *Service) Trending(ctx context.Context) (*models.MovieList, error) {
	if !s.monitor.IsOnline() {
		return nil, errors.OfflineUnavailable("trending movies")
	}
	return s.catalog.TrendingMovies(ctx)
}

// ClearCache wipes the given cache namespaces, or everything when none are
// given
func (s *Service) ClearCache(namespaces ...string) {
	s.cache.Clear(namespaces...)
}

// fetchWatchlist collapses concurrent watchlist fetches into one remote call
// and writes the result through to the cache.
func (s *Service) fetchWatchlist(ctx context.Context, sess session.Session) ([]models.WatchlistEntry, error) {
	v, err, _ := s.group.Do(watchlistKey, func() (interface{}, error) {
		entries, err := s.store.FetchWatchlist(ctx, sess)
		if err != nil {
			return nil, err
		}
		s.cache.WriteCollection(cache.NamespaceWatchlist, entries)
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.WatchlistEntry), nil
}

// fetchDetail collapses concurrent detail fetches for one movie into a single
// catalog call and writes the result through to the cache.
func (s *Service) fetchDetail(ctx context.Context, movieID int) (*models.MovieDetail, error) {
	key := strconv.Itoa(movieID)
	v, err, _ := s.group.Do("detail:"+key, func() (interface{}, error) {
		detail, err := s.catalog.MovieDetails(ctx, movieID)
		if err != nil {
			return nil, err
		}
		s.cache.WriteEntity(cache.NamespaceMovieDetails, key, detail)
		return detail, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.MovieDetail), nil
}

// refreshDetailInBackground refreshes one movie's cached detail without
// blocking the caller. Failures only log; the caller already has a usable
// stale copy.
func (s *Service) refreshDetailInBackground(movieID int) {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		if _, err := s.fetchDetail(context.Background(), movieID); err != nil {
			s.log.WithFields(map[string]interface{}{
				"movie_id": movieID,
			}).Warn("Background movie detail refresh failed")
		}
	}()
}

func (s *Service) rememberSession(sess session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSession = &sess
}

func (s *Service) rememberedSession() (session.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSession == nil {
		return session.Session{}, false
	}
	return *s.lastSession, true
}
