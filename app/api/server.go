package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, apiAccessKey string, debug bool) *gin.Engine {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
		SkipPaths: []string{"/health"},
	}))

	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-API-Key")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	setupRoutes(r, handler, apiAccessKey)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, apiAccessKey string) {
	r.GET("/", handler.GetRoot)
	r.GET("/health", handler.GetHealth)

	api := r.Group("/api")
	if apiAccessKey != "" {
		api.Use(authMiddleware(apiAccessKey))
		slog.Info("API authentication enabled")
	} else {
		slog.Warn("API authentication disabled (API_ACCESS_KEY not set)")
	}

	articles := api.Group("/articles")
	{
		articles.GET("", handler.ListArticles)
		articles.GET("/summary", handler.GetSummary)
		articles.POST("/fetch", handler.FetchArticles)
		articles.GET("/:id", handler.GetArticle)
	}

	sources := api.Group("/sources")
	{
		sources.GET("", handler.ListSources)
		sources.POST("", handler.CreateSource)
		sources.POST("/test", handler.TestSource)
		sources.GET("/:id", handler.GetSource)
		sources.PUT("/:id", handler.UpdateSource)
		sources.DELETE("/:id", handler.DeleteSource)
	}

	filters := api.Group("/filters")
	{
		filters.GET("", handler.ListFilters)
		filters.POST("", handler.CreateFilter)
		filters.GET("/:id", handler.GetFilter)
		filters.PUT("/:id", handler.UpdateFilter)
		filters.DELETE("/:id", handler.DeleteFilter)
		filters.GET("/:id/articles", handler.GetFilterArticles)
		filters.GET("/:id/rss", handler.GetFilterRSS)
	}

	users := api.Group("/users")
	{
		users.GET("", handler.ListUsers)
		users.POST("", handler.CreateUser)
		users.GET("/:id", handler.GetUser)
		users.PUT("/:id", handler.UpdateUser)
		users.DELETE("/:id", handler.DeleteUser)
		users.POST("/:id/approve", handler.ApproveUser)
		users.POST("/:id/api-key", handler.GenerateAPIKey)
	}

	webhooks := api.Group("/webhooks")
	{
		webhooks.GET("", handler.ListWebhooks)
		webhooks.POST("", handler.CreateWebhook)
		webhooks.GET("/:id", handler.GetWebhook)
		webhooks.PUT("/:id", handler.UpdateWebhook)
		webhooks.DELETE("/:id", handler.DeleteWebhook)
		webhooks.POST("/:id/test", handler.TestWebhook)
	}
}

func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-API-Key")

		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"message": "Provide API key in X-API-Key header or Authorization: Bearer <key>",
			})
			return
		}

		if providedKey != apiAccessKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid API key",
				"message": "The provided API key is not valid",
			})
			return
		}

		c.Next()
	}
}
