package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abhisek/timestables/internal/auth"
	"github.com/abhisek/timestables/internal/logger"
	"github.com/abhisek/timestables/internal/store"
)

const (
	ctxUserKey  = "auth.user"
	ctxTokenKey = "auth.token"
)

// RequireAuth resolves the bearer token and stashes the user on the
// request context. Requests without a valid token stop here.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorEnvelope{
				Error: APIError{Message: "missing bearer token", Code: "unauthorized"},
			})
			return
		}

		user, err := h.auth.Authenticate(c.Request.Context(), token)
		if errors.Is(err, auth.ErrInvalidToken) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorEnvelope{
				Error: APIError{Message: "invalid or expired token", Code: "unauthorized"},
			})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorEnvelope{
				Error: APIError{Message: err.Error(), Code: "auth_failed"},
			})
			return
		}

		c.Set(ctxUserKey, user)
		c.Set(ctxTokenKey, token)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// currentUser returns the user RequireAuth stored. Only valid on
// routes behind RequireAuth.
func currentUser(c *gin.Context) *store.User {
	v, _ := c.Get(ctxUserKey)
	user, _ := v.(*store.User)
	return user
}

func currentToken(c *gin.Context) string {
	v, _ := c.Get(ctxTokenKey)
	token, _ := v.(string)
	return token
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		switch {
		case status >= 500:
			log.Error("http request", fields...)
		case status >= 400:
			log.Warn("http request", fields...)
		default:
			log.Info("http request", fields...)
		}
	}
}
