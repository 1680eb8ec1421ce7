package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/rss-desk/app/database"
	"github.com/lysyi3m/rss-desk/app/feed"
)

func NewHandler(repos Repositories, ingestor IngestorInterface, inspector InspectorInterface,
	tester WebhookTesterInterface, version string) *Handler {
	return &Handler{
		articleRepo: repos.Articles,
		sourceRepo:  repos.Sources,
		filterRepo:  repos.Filters,
		userRepo:    repos.Users,
		webhookRepo: repos.Webhooks,
		ingestor:    ingestor,
		inspector:   inspector,
		tester:      tester,
		filterer:    feed.NewFilterer(),
		generator:   feed.NewGenerator(version),
		version:     version,
	}
}

func (h *Handler) GetRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     "RSS Desk",
		"version":     h.version,
		"description": "RSS news aggregation admin console backend",
		"endpoints": map[string]string{
			"health":   "/health",
			"articles": "/api/articles",
			"sources":  "/api/sources",
			"filters":  "/api/filters",
			"users":    "/api/users",
			"webhooks": "/api/webhooks",
		},
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if articles, err := h.articleRepo.List(); err == nil {
		health["articles"] = len(articles)
	}
	if sources, err := h.sourceRepo.List(); err == nil {
		health["sources"] = len(sources)
	}

	c.JSON(http.StatusOK, health)
}

// respondError maps domain errors onto HTTP statuses
func respondError(c *gin.Context, operation string, err error) {
	var fetchErr *feed.FetchError

	switch {
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, database.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &fetchErr):
		slog.Warn("Upstream fetch failed", "operation", operation, "url", fetchErr.URL, "error", fetchErr.Err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		slog.Error("Request failed", "operation", operation, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id parameter"})
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, target any) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return false
	}
	return true
}
