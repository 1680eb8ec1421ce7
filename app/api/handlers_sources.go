package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/rss-desk/app/database"
)

func (h *Handler) ListSources(c *gin.Context) {
	sources, err := h.sourceRepo.List()
	if err != nil {
		respondError(c, "list_sources", err)
		return
	}
	c.JSON(http.StatusOK, sources)
}

func (h *Handler) GetSource(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	source, err := h.sourceRepo.GetByID(id)
	if err != nil {
		respondError(c, "get_source", err)
		return
	}
	c.JSON(http.StatusOK, source)
}

func (h *Handler) CreateSource(c *gin.Context) {
	var req sourceRequest
	if !bindJSON(c, &req) {
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	source, err := h.sourceRepo.Create(database.Source{
		Name:          req.Name,
		URL:           req.URL,
		FetchInterval: req.FetchInterval,
		IsActive:      isActive,
	})
	if err != nil {
		respondError(c, "create_source", err)
		return
	}
	c.JSON(http.StatusCreated, source)
}

func (h *Handler) UpdateSource(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var patch database.SourcePatch
	if !bindJSON(c, &patch) {
		return
	}

	source, err := h.sourceRepo.Update(id, patch)
	if err != nil {
		respondError(c, "update_source", err)
		return
	}
	c.JSON(http.StatusOK, source)
}

func (h *Handler) DeleteSource(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.sourceRepo.Delete(id); err != nil {
		respondError(c, "delete_source", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// TestSource probes a feed URL without registering it
func (h *Handler) TestSource(c *gin.Context) {
	var req testFeedRequest
	if !bindJSON(c, &req) {
		return
	}

	inspection, err := h.inspector.Inspect(c.Request.Context(), req.URL)
	if err != nil {
		respondError(c, "test_source", err)
		return
	}
	c.JSON(http.StatusOK, inspection)
}
