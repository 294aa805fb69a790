package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/moviemend/moviemend/internal/connectivity"
	"github.com/moviemend/moviemend/internal/sync"
)

// Server exposes the cache-aware query layer over HTTP
type Server struct {
	router  *gin.Engine
	http    *http.Server
	service *sync.Service
	monitor *connectivity.Monitor
}

// Config holds the server's collaborators
type Config struct {
	Service     *sync.Service
	Monitor     *connectivity.Monitor
	CORSOrigins []string
}

// NewServer creates the API server and wires up its routes
func NewServer(cfg Config) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(errorHandlerMiddleware())

	if len(cfg.CORSOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = cfg.CORSOrigins
		corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-User-ID", "X-Request-ID")
		corsCfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
		router.Use(cors.New(corsCfg))
	}

	s := &Server{
		router:  router,
		service: cfg.Service,
		monitor: cfg.Monitor,
	}

	s.setupRoutes()

	return s
}

// Run starts the API server on the specified port and blocks until the
// listener stops
func (s *Server) Run(port int) error {
	s.http = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts the listener down, draining in-flight requests
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Handler returns the underlying HTTP handler, mainly for tests
func (s *Server) Handler() *gin.Engine {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)

	v1 := s.router.Group("/api/v1")
	{
		watchlist := v1.Group("/watchlist", sessionMiddleware())
		{
			watchlist.GET("", s.getWatchlist)
			watchlist.POST("", s.addToWatchlist)
			watchlist.DELETE("/:movieId", s.removeFromWatchlist)
			watchlist.PATCH("/:movieId", s.updateWatchlistEntry)
		}

		movies := v1.Group("/movies")
		{
			movies.GET("/search", s.searchMovies)
			movies.GET("/trending", s.trendingMovies)
			movies.GET("/:id", s.getMovieDetail)
		}

		v1.GET("/connectivity", s.getConnectivity)
		v1.POST("/connectivity", s.setConnectivity)

		v1.DELETE("/cache", s.clearCache)
	}
}
