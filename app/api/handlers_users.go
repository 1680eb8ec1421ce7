package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/rss-desk/app/database"
)

func (h *Handler) ListUsers(c *gin.Context) {
	status := c.Query("status")
	if status != "" && status != "pending" && status != "approved" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be pending or approved"})
		return
	}

	users, err := h.userRepo.List(database.UserQuery{
		Status: status,
		Search: c.Query("search"),
	})
	if err != nil {
		respondError(c, "list_users", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.userRepo.GetByID(id)
	if err != nil {
		respondError(c, "get_user", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req userRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userRepo.Create(database.User{Name: req.Name, Email: req.Email})
	if err != nil {
		respondError(c, "create_user", err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var patch database.UserPatch
	if !bindJSON(c, &patch) {
		return
	}

	user, err := h.userRepo.Update(id, patch)
	if err != nil {
		respondError(c, "update_user", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.userRepo.Delete(id); err != nil {
		respondError(c, "delete_user", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ApproveUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.userRepo.Approve(id)
	if err != nil {
		respondError(c, "approve_user", err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) GenerateAPIKey(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.userRepo.GenerateAPIKey(id)
	if err != nil {
		respondError(c, "generate_api_key", err)
		return
	}
	c.JSON(http.StatusOK, user)
}
