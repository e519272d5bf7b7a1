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

// FarmHandler serves the livestock and feed CRUD surfaces.
type FarmHandler struct {
	livestockService service.LivestockService
	feedService      service.FeedService
}

func NewFarmHandler(livestockService service.LivestockService, feedService service.FeedService) *FarmHandler {
	return &FarmHandler{livestockService: livestockService, feedService: feedService}
}

func (h *FarmHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff)
	manager := middleware.RequireRole(model.RoleAdmin, model.RoleManager)

	livestock := router.Group("/livestock")
	{
		livestock.GET("", anyRole, h.ListLivestock)
		livestock.GET("/:id", anyRole, h.GetLivestock)
		livestock.POST("", anyRole, h.CreateLivestock)
		livestock.PUT("/:id", anyRole, h.UpdateLivestock)
		livestock.DELETE("/:id", manager, h.DeleteLivestock)
	}

	feeds := router.Group("/feeds")
	{
		feeds.GET("", anyRole, h.ListFeeds)
		feeds.GET("/:id", anyRole, h.GetFeed)
		feeds.POST("", anyRole, h.CreateFeed)
		feeds.PUT("/:id", anyRole, h.UpdateFeed)
		feeds.DELETE("/:id", manager, h.DeleteFeed)
	}
}

func (h *FarmHandler) ListLivestock(c *gin.Context) {
	p := pagination.Parse(c)
	livestock, total, err := h.livestockService.List(c.Request.Context(), c.Query("species"), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "data": livestock, "total": total, "page": p.Page, "limit": p.Limit})
}

func (h *FarmHandler) GetLivestock(c *gin.Context) {
	l, err := h.livestockService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, l))
}

func (h *FarmHandler) CreateLivestock(c *gin.Context) {
	var input service.LivestockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid_body", err.Error()))
		return
	}
	l, err := h.livestockService.Create(c.Request.Context(), middleware.GetActor(c), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, l))
}

func (h *FarmHandler) UpdateLivestock(c *gin.Context) {
	var input service.LivestockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid_body", err.Error()))
		return
	}
	l, err := h.livestockService.Update(c.Request.Context(), middleware.GetActor(c), c.Param("id"), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, l))
}

func (h *FarmHandler) DeleteLivestock(c *gin.Context) {
	if err := h.livestockService.Delete(c.Request.Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

func (h *FarmHandler) ListFeeds(c *gin.Context) {
	p := pagination.Parse(c)
	feeds, total, err := h.feedService.List(c.Request.Context(), c.Query("feed_type"), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "data": feeds, "total": total, "page": p.Page, "limit": p.Limit})
}

func (h *FarmHandler) GetFeed(c *gin.Context) {
	f, err := h.feedService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, f))
}

func (h *FarmHandler) CreateFeed(c *gin.Context) {
	var input service.FeedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid_body", err.Error()))
		return
	}
	f, err := h.feedService.Create(c.Request.Context(), middleware.GetActor(c), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, f))
}

func (h *FarmHandler) UpdateFeed(c *gin.Context) {
	var input service.FeedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid_body", err.Error()))
		return
	}
	f, err := h.feedService.Update(c.Request.Context(), middleware.GetActor(c), c.Param("id"), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, f))
}

func (h *FarmHandler) DeleteFeed(c *gin.Context) {
	if err := h.feedService.Delete(c.Request.Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
