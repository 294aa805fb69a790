package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/moviemend/moviemend/internal/logger"
	"github.com/moviemend/moviemend/internal/session"
)

// requestIDMiddleware adds a unique request ID to each request
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// errorHandlerMiddleware handles panics and errors
func errorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Error:   "internal server error",
					Message: "an unexpected error occurred",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// sessionMiddleware extracts the caller's session from the Authorization and
// X-User-ID headers and attaches it to the request context. Requests without
// credentials pass through; the query layer rejects them when a session is
// actually required.
func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		userID := c.GetHeader("X-User-ID")

		if token != "" && userID != "" {
			ctx := session.WithSession(c.Request.Context(), session.Session{
				UserID: userID,
				Token:  token,
			})
			ctx = logger.ContextWithUserID(ctx, userID)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}
