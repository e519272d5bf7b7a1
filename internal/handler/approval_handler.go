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

type ApprovalHandler struct {
	approvalService service.ApprovalService
}

func NewApprovalHandler(approvalService service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService}
}

func (h *ApprovalHandler) RegisterRoutes(router *gin.RouterGroup) {
	approvals := router.Group("/approvals")
	{
		approvals.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff), h.ListAll)
		approvals.GET("/pending", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.ListPending)
		approvals.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff), h.Create)
		approvals.PATCH("/:id/approve", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.Approve)
		approvals.PATCH("/:id/reject", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.Reject)
		approvals.DELETE("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.Delete)
	}
}

// ListAll returns every approval request, most recent first
// @Summary      List approval requests
// @Tags         approvals
// @Security     BearerAuth
// @Produce      json
// @Param        page   query  int  false  "Page number (default 1)"
// @Param        limit  query  int  false  "Items per page (default 20)"
// @Success      200  {object}  response.Response
// @Router       /approvals [get]
func (h *ApprovalHandler) ListAll(c *gin.Context) {
	p := pagination.Parse(c)

	approvals, total, err := h.approvalService.ListAll(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   approvals,
		"total":  total,
		"page":   p.Page,
		"limit":  p.Limit,
	})
}

// ListPending returns pending requests oldest first (FIFO triage order)
// @Summary      List pending approval requests
// @Tags         approvals
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /approvals/pending [get]
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	p := pagination.Parse(c)

	approvals, total, err := h.approvalService.ListPending(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"data":   approvals,
		"total":  total,
		"page":   p.Page,
		"limit":  p.Limit,
	})
}

// Create registers a new approval request for the authenticated user
// @Summary      Create approval request
// @Tags         approvals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body  service.CreateApprovalRequestInput  true  "Request fields"
// @Success      201  {object}  response.Response
// @Router       /approvals [post]
func (h *ApprovalHandler) Create(c *gin.Context) {
	var input service.CreateApprovalRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid_body", err.Error()))
		return
	}

	result, err := h.approvalService.Create(c.Request.Context(), middleware.GetActor(c), input)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

type decisionBody struct {
	DecisionNotes string `json:"decision_notes"`
}

// Approve approves a pending approval request
// @Summary      Approve request
// @Tags         approvals
// @Security     BearerAuth
// @Param        id  path  string  true  "Approval request id"
// @Success      200  {object}  response.Response
// @Router       /approvals/{id}/approve [patch]
func (h *ApprovalHandler) Approve(c *gin.Context) {
	var body decisionBody
	// Empty body is fine — notes are optional on approve
	_ = c.ShouldBindJSON(&body)

	result, err := h.approvalService.Approve(c.Request.Context(), middleware.GetActor(c), c.Param("id"), body.DecisionNotes)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Reject rejects a pending approval request; decision_notes is required
// @Summary      Reject request
// @Tags         approvals
// @Security     BearerAuth
// @Param        id  path  string  true  "Approval request id"
// @Success      200  {object}  response.Response
// @Router       /approvals/{id}/reject [patch]
func (h *ApprovalHandler) Reject(c *gin.Context) {
	var body decisionBody
	_ = c.ShouldBindJSON(&body)

	result, err := h.approvalService.Reject(c.Request.Context(), middleware.GetActor(c), c.Param("id"), body.DecisionNotes)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// Delete removes an approval request in any status
func (h *ApprovalHandler) Delete(c *gin.Context) {
	if err := h.approvalService.Delete(c.Request.Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
