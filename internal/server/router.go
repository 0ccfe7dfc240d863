package server

import (
	"github.com/gin-gonic/gin"

	"github.com/abhisek/timestables/internal/logger"
)

// NewRouter assembles the gin engine: recovery, request logging, CORS,
// and the practice API routes.
func NewRouter(cfg Config, h *Handler, log *logger.Logger) *gin.Engine {
	gin.SetMode(cfg.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(corsMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
	}

	protected := api.Group("/")
	protected.Use(h.RequireAuth())
	{
		protected.POST("/logout", h.Logout)
		protected.GET("/state", h.State)
		protected.POST("/answer", h.Answer)
		protected.POST("/reset", h.Reset)
		protected.GET("/history", h.History)
	}

	return r
}
