package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	itemService service.ItemService
}

func NewItemHandler(itemService service.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

func (h *ItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff)
	manager := middleware.RequireRole(model.RoleAdmin, model.RoleManager)

	items := router.Group("/items")
	{
		items.GET("", anyRole, h.List)
		items.GET("/low-stock", anyRole, h.ListLowStock)
		items.GET("/:id", anyRole, h.Get)
		items.POST("", manager, h.Create)
		items.PUT("/:id", manager, h.Update)
		items.DELETE("/:id", manager, h.Delete)
	}
}

// List returns items with optional category and search filters
// @Summary      List items
// @Tags         items
// @Security     BearerAuth
// @Produce      json
// @Param        category  query  string  false  "Filter by category"
// @Param        search    query  string  false  "Search name or SKU"
// @Success      200  {object}  response.Response
// @Router       /items [get]
func (h *ItemHandler) List(c *gin.Context) {
	p := pagination.Parse(c)

	items, total, err := h.itemService.List(c.Request.Context(), c.Query("category"), c.Query("search"), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   items,
		"total":  total,
		"page":   p.Page,
		"limit":  p.Limit,
	})
}

// ListLowStock returns items at or below their minimum level
func (h *ItemHandler) ListLowStock(c *gin.Context) {
	items, err := h.itemService.ListLowStock(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

func (h *ItemHandler) Get(c *gin.Context) {
	item, err := h.itemService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

func (h *ItemHandler) Create(c *gin.Context) {
	var req service.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid_body", err.Error()))
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), middleware.GetActor(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

func (h *ItemHandler) Update(c *gin.Context) {
	var req service.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid_body", err.Error()))
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), middleware.GetActor(c), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

func (h *ItemHandler) Delete(c *gin.Context) {
	if err := h.itemService.Delete(c.Request.Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
