package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/moviemend/moviemend/internal/cache"
	"github.com/moviemend/moviemend/internal/database"
	"github.com/moviemend/moviemend/internal/errors"
	"github.com/moviemend/moviemend/internal/models"
)

func (s *Server) healthCheck(c *gin.Context) {
	if err := database.HealthCheck(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"online": s.monitor.IsOnline(),
	})
}

func (s *Server) getWatchlist(c *gin.Context) {
	entries, err := s.service.Watchlist(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, WatchlistResponse{
		Entries: entries,
		Count:   len(entries),
	})
}

func (s *Server) addToWatchlist(c *gin.Context) {
	var req AddToWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.ValidationError("movie_id and title are required"))
		return
	}

	// An absent poster is stored as null, not as an empty string
	var poster *string
	if req.PosterPath != "" {
		poster = &req.PosterPath
	}

	err := s.service.Add(c.Request.Context(), models.WatchlistAdd{
		MovieID:    req.MovieID,
		Title:      req.Title,
		PosterPath: poster,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "added to watchlist"})
}

func (s *Server) removeFromWatchlist(c *gin.Context) {
	movieID, ok := movieIDParam(c, "movieId")
	if !ok {
		return
	}

	if err := s.service.Remove(c.Request.Context(), movieID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "removed from watchlist"})
}

func (s *Server) updateWatchlistEntry(c *gin.Context) {
	movieID, ok := movieIDParam(c, "movieId")
	if !ok {
		return
	}

	var req UpdateWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.ValidationError("invalid update payload"))
		return
	}
	if req.Watched == nil && req.Rating == nil && req.Notes == nil {
		respondError(c, errors.ValidationError("at least one of watched, rating or notes is required"))
		return
	}

	ctx := c.Request.Context()
	if req.Watched != nil && *req.Watched {
		if err := s.service.MarkWatched(ctx, movieID); err != nil {
			respondError(c, err)
			return
		}
	}
	if req.Rating != nil {
		if err := s.service.Rate(ctx, movieID, *req.Rating); err != nil {
			respondError(c, err)
			return
		}
	}
	if req.Notes != nil {
		if err := s.service.UpdateNotes(ctx, movieID, *req.Notes); err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "watchlist entry updated"})
}

func (s *Server) getMovieDetail(c *gin.Context) {
	movieID, ok := movieIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := s.service.MovieDetail(c.Request.Context(), movieID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (s *Server) searchMovies(c *gin.Context) {
	query := c.Query("query")

	results, err := s.service.Search(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

func (s *Server) trendingMovies(c *gin.Context) {
	results, err := s.service.Trending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

func (s *Server) getConnectivity(c *gin.Context) {
	c.JSON(http.StatusOK, ConnectivityResponse{Online: s.monitor.IsOnline()})
}

func (s *Server) setConnectivity(c *gin.Context) {
	var req ConnectivityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Online == nil {
		respondError(c, errors.ValidationError("online flag is required"))
		return
	}

	s.monitor.SetOnline(*req.Online)

	c.JSON(http.StatusOK, ConnectivityResponse{Online: s.monitor.IsOnline()})
}

func (s *Server) clearCache(c *gin.Context) {
	if namespace := c.Query("namespace"); namespace != "" {
		if namespace != cache.NamespaceWatchlist && namespace != cache.NamespaceMovieDetails {
			respondError(c, errors.ValidationError("unknown cache namespace"))
			return
		}
		s.service.ClearCache(namespace)
	} else {
		s.service.ClearCache()
	}

	c.JSON(http.StatusOK, gin.H{"message": "cache cleared"})
}

func movieIDParam(c *gin.Context, name string) (int, bool) {
	movieID, err := strconv.Atoi(c.Param(name))
	if err != nil || movieID <= 0 {
		respondError(c, errors.ValidationError("movie id must be a positive integer"))
		return 0, false
	}
	return movieID, true
}

// respondError maps application error codes to HTTP statuses
func respondError(c *gin.Context, err error) {
	code := errors.GetErrorCode(err)

	status := http.StatusInternalServerError
	offline := false

	switch code {
	case errors.CodeUnauthenticated:
		status = http.StatusUnauthorized
	case errors.CodeDuplicate:
		status = http.StatusConflict
	case errors.CodeOfflineUnavailable:
		status = http.StatusServiceUnavailable
		offline = true
	case errors.CodeValidation:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeUnreachable, errors.CodeRemote, errors.CodeRateLimited:
		status = http.StatusBadGateway
	}

	c.JSON(status, ErrorResponse{
		Error:   string(code),
		Message: err.Error(),
		Offline: offline,
	})
	c.Abort()
}
