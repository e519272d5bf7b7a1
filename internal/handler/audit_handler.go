package handler

import (
	"net/http"
	"strconv"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/audit")
	group.Use(middleware.RequireRole(model.RoleAdmin)) // Protect history logs
	{
		group.GET("", h.Query)
		group.GET("/stats", h.Stats)
	}
}

// Query retrieves audit entries newest-first with optional filters
// @Summary      Query audit log
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        action       query  string  false  "Filter by action"
// @Param        entity_type  query  string  false  "Filter by entity type"
// @Param        limit        query  int     false  "Max entries (default 50)"
// @Success      200  {object}  response.Response
// @Router       /audit [get]
func (h *AuditHandler) Query(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	logs, err := h.auditService.Query(c.Request.Context(), service.AuditQuery{
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
		Limit:      limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"logs":  logs,
		"count": len(logs),
	}))
}

// Stats aggregates audit activity over a trailing day window
// @Summary      Audit statistics
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        days  query  int  false  "Window in days (default 30)"
// @Success      200  {object}  response.Response
// @Router       /audit/stats [get]
func (h *AuditHandler) Stats(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	stats, err := h.auditService.Stats(c.Request.Context(), days)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
