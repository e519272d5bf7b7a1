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

type AdjustmentHandler struct {
	adjustmentService service.AdjustmentService
}

func NewAdjustmentHandler(adjustmentService service.AdjustmentService) *AdjustmentHandler {
	return &AdjustmentHandler{adjustmentService: adjustmentService}
}

func (h *AdjustmentHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff)
	decider := middleware.RequireRole(model.RoleAdmin, model.RoleManager)

	adjustments := router.Group("/stock-adjustments")
	{
		adjustments.GET("", anyRole, h.List)
		adjustments.GET("/stats", anyRole, h.Stats)
		adjustments.POST("", anyRole, h.Create)
		adjustments.POST("/:id/approve", decider, h.Approve)
		adjustments.POST("/:id/reject", decider, h.Reject)
		adjustments.DELETE("/:id", decider, h.Delete)
	}
}

// List returns stock adjustments, optionally filtered by status
// @Summary      List stock adjustments
// @Tags         stock-adjustments
// @Security     BearerAuth
// @Produce      json
// @Param        status  query  string  false  "pending, approved or rejected"
// @Success      200  {object}  response.Response
// @Router       /stock-adjustments [get]
func (h *AdjustmentHandler) List(c *gin.Context) {
	p := pagination.Parse(c)

	adjustments, total, err := h.adjustmentService.List(c.Request.Context(), c.Query("status"), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   adjustments,
		"total":  total,
		"page":   p.Page,
		"limit":  p.Limit,
	})
}

// Stats returns aggregate adjustment counters computed on demand
// @Summary      Stock adjustment statistics
// @Tags         stock-adjustments
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /stock-adjustments/stats [get]
func (h *AdjustmentHandler) Stats(c *gin.Context) {
	stats, err := h.adjustmentService.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// Create registers a pending stock adjustment; no quantity effect yet
// @Summary      Create stock adjustment
// @Tags         stock-adjustments
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body  service.CreateAdjustmentInput  true  "Adjustment fields"
// @Success      201  {object}  response.Response
// @Router       /stock-adjustments [post]
func (h *AdjustmentHandler) Create(c *gin.Context) {
	var input service.CreateAdjustmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid_body", err.Error()))
		return
	}

	result, err := h.adjustmentService.Create(c.Request.Context(), middleware.GetActor(c), input)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// Approve applies the quantity delta to the item and finalizes the adjustment
// @Summary      Approve stock adjustment
// @Tags         stock-adjustments
// @Security     BearerAuth
// @Param        id  path  string  true  "Adjustment id"
// @Success      200  {object}  response.Response
// @Router       /stock-adjustments/{id}/approve [post]
func (h *AdjustmentHandler) Approve(c *gin.Context) {
	result, err := h.adjustmentService.Approve(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Reject finalizes the adjustment with no quantity effect
func (h *AdjustmentHandler) Reject(c *gin.Context) {
	result, err := h.adjustmentService.Reject(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Delete removes the record; an already-applied delta is not reversed
func (h *AdjustmentHandler) Delete(c *gin.Context) {
	if err := h.adjustmentService.Delete(c.Request.Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
