package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/rss-desk/app/database"
)

func (h *Handler) ListWebhooks(c *gin.Context) {
	webhooks, err := h.webhookRepo.List()
	if err != nil {
		respondError(c, "list_webhooks", err)
		return
	}
	c.JSON(http.StatusOK, webhooks)
}

func (h *Handler) GetWebhook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	hook, err := h.webhookRepo.GetByID(id)
	if err != nil {
		respondError(c, "get_webhook", err)
		return
	}
	c.JSON(http.StatusOK, hook)
}

func (h *Handler) CreateWebhook(c *gin.Context) {
	var req webhookRequest
	if !bindJSON(c, &req) {
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	hook, err := h.webhookRepo.Create(database.Webhook{
		Name:     req.Name,
		URL:      req.URL,
		Events:   req.Events,
		IsActive: isActive,
	})
	if err != nil {
		respondError(c, "create_webhook", err)
		return
	}
	c.JSON(http.StatusCreated, hook)
}

func (h *Handler) UpdateWebhook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var patch database.WebhookPatch
	if !bindJSON(c, &patch) {
		return
	}

	hook, err := h.webhookRepo.Update(id, patch)
	if err != nil {
		respondError(c, "update_webhook", err)
		return
	}
	c.JSON(http.StatusOK, hook)
}

func (h *Handler) DeleteWebhook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.webhookRepo.Delete(id); err != nil {
		respondError(c, "delete_webhook", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// TestWebhook sends a ping; delivery failures come back as success=false with 200
func (h *Handler) TestWebhook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.tester.Test(c.Request.Context(), id)
	if err != nil {
		respondError(c, "test_webhook", err)
		return
	}
	c.JSON(http.StatusOK, result)
}
