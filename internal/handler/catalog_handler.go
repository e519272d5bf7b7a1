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

// CatalogHandler serves the location and supplier CRUD surfaces.
type CatalogHandler struct {
	locationService service.LocationService
	supplierService service.SupplierService
}

func NewCatalogHandler(locationService service.LocationService, supplierService service.SupplierService) *CatalogHandler {
	return &CatalogHandler{locationService: locationService, supplierService: supplierService}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff)
	manager := middleware.RequireRole(model.RoleAdmin, model.RoleManager)

	locations := router.Group("/locations")
	{
		locations.GET("", anyRole, h.ListLocations)
		locations.GET("/:id", anyRole, h.GetLocation)
		locations.POST("", manager, h.CreateLocation)
		locations.PUT("/:id", manager, h.UpdateLocation)
		locations.DELETE("/:id", manager, h.DeleteLocation)
	}

	suppliers := router.Group("/suppliers")
	{
		suppliers.GET("", anyRole, h.ListSuppliers)
		suppliers.GET("/:id", anyRole, h.GetSupplier)
		suppliers.POST("", manager, h.CreateSupplier)
		suppliers.PUT("/:id", manager, h.UpdateSupplier)
		suppliers.DELETE("/:id", manager, h.DeleteSupplier)
	}
}

func (h *CatalogHandler) ListLocations(c *gin.Context) {
	p := pagination.Parse(c)
	locations, total, err := h.locationService.List(c.Request.Context(), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "data": locations, "total": total, "page": p.Page, "limit": p.Limit})
}

func (h *CatalogHandler) GetLocation(c *gin.Context) {
	loc, err := h.locationService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, loc))
}

func (h *CatalogHandler) CreateLocation(c *gin.Context) {
	var input service.LocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid_body", err.Error()))
		return
	}
	loc, err := h.locationService.Create(c.Request.Context(), middleware.GetActor(c), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, loc))
}

func (h *CatalogHandler) UpdateLocation(c *gin.Context) {
	var input service.LocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid_body", err.Error()))
		return
	}
	loc, err := h.locationService.Update(c.Request.Context(), middleware.GetActor(c), c.Param("id"), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, loc))
}

func (h *CatalogHandler) DeleteLocation(c *gin.Context) {
	if err := h.locationService.Delete(c.Request.Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

func (h *CatalogHandler) ListSuppliers(c *gin.Context) {
	p := pagination.Parse(c)
	suppliers, total, err := h.supplierService.List(c.Request.Context(), c.Query("search"), p.Page, p.Limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "data": suppliers, "total": total, "page": p.Page, "limit": p.Limit})
}

func (h *CatalogHandler) GetSupplier(c *gin.Context) {
	sup, err := h.supplierService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sup))
}

func (h *CatalogHandler) CreateSupplier(c *gin.Context) {
	var input service.SupplierInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid_body", err.Error()))
		return
	}
	sup, err := h.supplierService.Create(c.Request.Context(), middleware.GetActor(c), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, sup))
}

func (h *CatalogHandler) UpdateSupplier(c *gin.Context) {
	var input service.SupplierInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid_body", err.Error()))
		return
	}
	sup, err := h.supplierService.Update(c.Request.Context(), middleware.GetActor(c), c.Param("id"), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sup))
}

func (h *CatalogHandler) DeleteSupplier(c *gin.Context) {
	if err := h.supplierService.Delete(c.Request.Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
