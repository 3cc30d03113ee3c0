package handler

import (
	"net/http"

	"notifyhub/internal/middleware"
	"notifyhub/internal/service"

	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	svc *service.ItemService
}

func NewItemHandler(svc *service.ItemService) *ItemHandler {
	return &ItemHandler{svc: svc}
}

type CreateItemRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdateItemRequest leaves omitted fields unchanged.
type UpdateItemRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

func (h *ItemHandler) Create(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	it, err := h.svc.Create(c.Request.Context(), middleware.CurrentUser(c), req.Title, req.Description)
	if err != nil {
		respondError(c, "item", err)
		return
	}
	c.JSON(http.StatusCreated, it)
}

func (h *ItemHandler) List(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	page, err := h.svc.List(c.Request.Context(), middleware.CurrentUser(c), q.Skip, q.Limit)
	if err != nil {
		respondError(c, "item", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *ItemHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	it, err := h.svc.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, "item", err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *ItemHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	it, err := h.svc.Update(c.Request.Context(), middleware.CurrentUser(c), id, req.Title, req.Description)
	if err != nil {
		respondError(c, "item", err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *ItemHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, "item", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

// Like handles POST /items/:id/like. Repeating a like is a no-op.
func (h *ItemHandler) Like(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	count, err := h.svc.Like(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, "item", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item_id": id, "likes": count})
}
