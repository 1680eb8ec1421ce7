package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/rss-desk/app/database"
)

func (h *Handler) ListArticles(c *gin.Context) {
	query := database.ArticleQuery{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	if source := c.Query("source"); source != "" {
		id, err := strconv.Atoi(source)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source parameter"})
			return
		}
		query.SourceID = id
	}

	articles, err := h.articleRepo.GetAll(query)
	if err != nil {
		respondError(c, "list_articles", err)
		return
	}

	c.JSON(http.StatusOK, articles)
}

func (h *Handler) GetArticle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	article, err := h.articleRepo.GetByID(id)
	if err != nil {
		respondError(c, "get_article", err)
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *Handler) GetSummary(c *gin.Context) {
	summary, err := h.articleRepo.Summary(time.Now())
	if err != nil {
		respondError(c, "article_summary", err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// FetchArticles runs one ingestion pass over the active sources
func (h *Handler) FetchArticles(c *gin.Context) {
	report, err := h.ingestor.IngestActive(c.Request.Context())
	if err != nil {
		respondError(c, "fetch_articles", err)
		return
	}

	c.JSON(http.StatusOK, fetchResponse{
		Fetched:       len(report.Articles),
		Articles:      report.Articles,
		Errors:        report.Messages(),
		FailedSources: report.Errors,
	})
}
