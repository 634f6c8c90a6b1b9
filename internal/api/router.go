package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hacklingo-backend/internal/config"
	"github.com/hacklingo-backend/internal/graphql"
	"github.com/hacklingo-backend/internal/metrics"
	"github.com/hacklingo-backend/internal/service"
	"github.com/rs/zerolog"
)

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Options carries the optional pieces of the router. Nil fields disable
// the matching endpoint or instrumentation.
type Options struct {
	Metrics *metrics.Metrics
	Health  HealthChecker
}

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger, opts Options) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.MaxMultipartMemory = cfg.Storage.MaxUploadSize

	// Middleware
	router.Use(requestIDMiddleware())
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware(cfg.Auth.IdentityHeader))
	if opts.Metrics != nil {
		router.Use(metricsMiddleware(opts.Metrics))
	}

	base := handler{services: services, cfg: cfg, metrics: opts.Metrics}
	users := NewUserHandler(base, log)
	forums := NewForumHandler(base, log)
	posts := NewPostHandler(base, log)
	comments := NewCommentHandler(base, log)
	gql := graphql.NewHandler(services, cfg.Auth.IdentityHeader, opts.Metrics, log)

	// Health check
	router.GET("/health", healthCheck(opts.Health))
	if opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	userRoutes := router.Group("/users")
	{
		userRoutes.POST("/register", users.Register)
		userRoutes.POST("/login", users.Login)
		userRoutes.GET("", users.Find)
		userRoutes.GET("/:id", users.GetByID)
		userRoutes.PUT("/:id", users.Update)
		userRoutes.DELETE("/:id", users.Delete)
	}

	forumRoutes := router.Group("/forums")
	{
		forumRoutes.POST("", forums.InsertMany)
		forumRoutes.GET("", forums.List)
		forumRoutes.GET("/:id", forums.GetByID)
		forumRoutes.DELETE("/:id", forums.Delete)
	}

	postRoutes := router.Group("/posts")
	{
		postRoutes.POST("", posts.Create)
		postRoutes.GET("/:id", posts.GetByID)
		postRoutes.PUT("/:id", posts.Update)
		postRoutes.DELETE("/:id", posts.Delete)
	}

	commentRoutes := router.Group("/comments")
	{
		commentRoutes.POST("", comments.Create)
		commentRoutes.GET("/:id", comments.GetByID)
		commentRoutes.PUT("/:id", comments.Update)
		commentRoutes.DELETE("/:id", comments.Delete)
	}

	router.POST("/graphql", gql.Serve)

	return router
}

// healthCheck returns the health status, pinging the database when one is
// configured
func healthCheck(db HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		checks := gin.H{}

		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.HealthCheck(ctx); err != nil {
				status, code = "unhealthy", http.StatusServiceUnavailable
				checks["database"] = err.Error()
			} else {
				checks["database"] = "ok"
			}
		}

		c.JSON(code, gin.H{
			"status":    status,
			"checks":    checks,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "hacklingo",
		})
	}
}

// requestIDMiddleware tags each request with an id, reusing the caller's
// X-Request-ID when present
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("request_id", c.GetString("request_id")).
					Msg("Panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"message": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// metricsMiddleware records request counts and latency by route template
func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// corsMiddleware handles CORS
func corsMiddleware(identityHeader string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID, "+identityHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
