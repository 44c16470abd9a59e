package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bikerental/internal/middleware"
	"bikerental/internal/pkg/response"
	"bikerental/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public read endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/shops", h.ListShops)
	rg.GET("/shops/:id", h.GetShop)
	rg.GET("/shops/:id/vehicles", h.ListShopVehicles)
	rg.GET("/vehicles/:id", h.GetVehicle)
	rg.GET("/vehicles/search", h.SearchVehicles)
}

// RegisterProtectedRoutes mounts the owner-scoped management endpoints.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	owner := middleware.RequireRole("shop_owner")

	rg.POST("/shops", owner, h.CreateShop)
	rg.GET("/shops/mine", owner, h.ListMyShops)
	rg.PUT("/shops/:id", owner, h.UpdateShop)
	rg.POST("/vehicles", owner, h.CreateVehicle)
	rg.PUT("/vehicles/:id", owner, h.UpdateVehicle)
	rg.DELETE("/vehicles/:id", owner, h.DeleteVehicle)
}

func (h *Handler) CreateShop(c *gin.Context) {
	var req CreateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	shop, err := h.service.CreateShop(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"shop": shop})
}

func (h *Handler) GetShop(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	shop, err := h.service.GetShop(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"shop": shop})
}

func (h *Handler) ListShops(c *gin.Context) {
	limit, offset := pagination(c)
	shops, err := h.service.ListShops(c.Request.Context(), c.Query("city"), limit, offset)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"shops": shops})
}

func (h *Handler) ListMyShops(c *gin.Context) {
	shops, err := h.service.ListMyShops(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"shops": shops})
}

func (h *Handler) UpdateShop(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	shop, err := h.service.UpdateShop(c.Request.Context(), c.GetInt64("user_id"), id, req)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"shop": shop})
}

func (h *Handler) CreateVehicle(c *gin.Context) {
	var req CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	v, err := h.service.CreateVehicle(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"vehicle": v})
}

func (h *Handler) GetVehicle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	v, err := h.service.GetVehicle(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"vehicle": v})
}

func (h *Handler) ListShopVehicles(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	vehicles, err := h.service.ListShopVehicles(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"vehicles": vehicles})
}

func (h *Handler) UpdateVehicle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	v, err := h.service.UpdateVehicle(c.Request.Context(), c.GetInt64("user_id"), id, req)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"vehicle": v})
}

func (h *Handler) DeleteVehicle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteVehicle(c.Request.Context(), c.GetInt64("user_id"), id); err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) SearchVehicles(c *gin.Context) {
	limit, offset := pagination(c)

	var maxHour int64
	if raw := c.Query("max_price_per_hour_cents"); raw != "" {
		maxHour, _ = strconv.ParseInt(raw, 10, 64)
	}

	f := repository.SearchFilter{
		City:         c.Query("city"),
		Type:         c.Query("type"),
		MaxHourCents: maxHour,
		OnlyListed:   c.DefaultQuery("only_available", "true") == "true",
	}

	vehicles, err := h.service.SearchVehicles(c.Request.Context(), f, limit, offset)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"vehicles": vehicles})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func respondCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Shop or vehicle not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You can only manage your own shop")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}
