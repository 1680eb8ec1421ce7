package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/rss-desk/app/database"
)

func (h *Handler) ListFilters(c *gin.Context) {
	filters, err := h.filterRepo.List()
	if err != nil {
		respondError(c, "list_filters", err)
		return
	}
	c.JSON(http.StatusOK, filters)
}

func (h *Handler) GetFilter(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	filter, err := h.filterRepo.GetByID(id)
	if err != nil {
		respondError(c, "get_filter", err)
		return
	}
	c.JSON(http.StatusOK, filter)
}

func (h *Handler) CreateFilter(c *gin.Context) {
	var req filterRequest
	if !bindJSON(c, &req) {
		return
	}

	filter, err := h.filterRepo.Create(database.Filter{
		Name:        req.Name,
		Description: req.Description,
		Rules:       req.Rules,
	})
	if err != nil {
		respondError(c, "create_filter", err)
		return
	}
	c.JSON(http.StatusCreated, filter)
}

func (h *Handler) UpdateFilter(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var patch database.FilterPatch
	if !bindJSON(c, &patch) {
		return
	}

	filter, err := h.filterRepo.Update(id, patch)
	if err != nil {
		respondError(c, "update_filter", err)
		return
	}
	c.JSON(http.StatusOK, filter)
}

func (h *Handler) DeleteFilter(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.filterRepo.Delete(id); err != nil {
		respondError(c, "delete_filter", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetFilterArticles applies the filter's rules to the stored articles
func (h *Handler) GetFilterArticles(c *gin.Context) {
	_, articles, ok := h.filteredArticles(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, articles)
}

// GetFilterRSS serves the filter's matching articles as an RSS feed
func (h *Handler) GetFilterRSS(c *gin.Context) {
	filter, articles, ok := h.filteredArticles(c)
	if !ok {
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	selfLink := fmt.Sprintf("%s://%s%s", scheme, c.Request.Host, c.Request.URL.Path)

	rss, err := h.generator.Run(*filter, articles, selfLink)
	if err != nil {
		slog.Error("RSS generation error", "filter_id", filter.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(articles)))
	c.String(http.StatusOK, rss)
}

func (h *Handler) filteredArticles(c *gin.Context) (*database.Filter, []database.Article, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, nil, false
	}

	filter, err := h.filterRepo.GetByID(id)
	if err != nil {
		respondError(c, "get_filter", err)
		return nil, nil, false
	}

	articles, err := h.articleRepo.GetAll(database.ArticleQuery{})
	if err != nil {
		respondError(c, "list_articles", err)
		return nil, nil, false
	}

	return filter, h.filterer.Run(articles, filter.Rules), true
}
