package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/shelf/internal/services"
)

const (
	SessionCookie = "session_id"
	SessionKey    = "session"
)

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		requestID, _ := c.Get("request_id")

		logger.Info("HTTP Request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// ErrorHandler provides centralized error handling
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			requestID, _ := c.Get("request_id")

			logger.Error("Request error",
				"request_id", requestID,
				"error", err.Error(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)

			if !c.Writer.Written() {
				// Don't return error details to the client
				c.JSON(500, gin.H{
					"success":    false,
					"error":      "Internal server error",
					"request_id": requestID,
				})
			}
		}
	}
}

// Session attaches the caller's screen session, issuing a session_id cookie
// when the request carries none or an unparsable one.
func Session(sessions *services.SessionService, ttl time.Duration, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil {
			id = ""
		}
		if _, perr := uuid.Parse(id); perr != nil {
			id = uuid.New().String()
		}

		c.SetCookie(SessionCookie, id, int(ttl.Seconds()), "/", "", secure, true)
		c.Set(SessionKey, sessions.Get(id))
		c.Next()
	}
}
