package inventory

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bikerental/internal/middleware"
	"bikerental/internal/pkg/response"
	"bikerental/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the advisory read endpoints; they are public and
// may serve a slightly stale snapshot.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/inventory/vehicle/:id", h.GetForVehicle)
	rg.GET("/inventory/shop/:id", h.GetForShop)
	rg.GET("/inventory/availability/timerange", h.RangeAvailability)
}

// RegisterProtectedRoutes mounts the owner-scoped mutations.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	owner := middleware.RequireRole("shop_owner")

	rg.POST("/inventory", owner, h.Create)
	rg.PUT("/inventory/vehicle/:id", owner, h.SetCapacity)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid inventory input", errs)
		return
	}

	rec, err := h.service.CreateRecord(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		respondInventoryError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"inventory": rec})
}

func (h *Handler) SetCapacity(c *gin.Context) {
	vehicleID, ok := pathID(c)
	if !ok {
		return
	}

	var req SetCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Total == nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	rec, err := h.service.SetCapacity(c.Request.Context(), c.GetInt64("user_id"), vehicleID, *req.Total)
	if err != nil {
		respondInventoryError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"inventory": rec})
}

func (h *Handler) GetForVehicle(c *gin.Context) {
	vehicleID, ok := pathID(c)
	if !ok {
		return
	}

	rec, err := h.service.GetAvailability(c.Request.Context(), vehicleID)
	if err != nil {
		respondInventoryError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"vehicle_id":   rec.VehicleID,
		"is_available": rec.Available > 0,
		"available":    rec.Available,
		"total":        rec.Total,
	})
}

func (h *Handler) GetForShop(c *gin.Context) {
	shopID, ok := pathID(c)
	if !ok {
		return
	}

	recs, err := h.service.ListShopInventory(c.Request.Context(), shopID)
	if err != nil {
		respondInventoryError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"inventory": recs})
}

func (h *Handler) RangeAvailability(c *gin.Context) {
	shopID, err := strconv.ParseInt(c.Query("shop_id"), 10, 64)
	if err != nil || shopID <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid shop_id")
		return
	}
	start, err := time.Parse(time.RFC3339, c.Query("start_time"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid start_time")
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end_time"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid end_time")
		return
	}

	items, err := h.service.RangeAvailability(c.Request.Context(), shopID, start, end)
	if err != nil {
		respondInventoryError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"availability": items})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id")
		return 0, false
	}
	return id, true
}

func respondInventoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid inventory input")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Vehicle or inventory record not found")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "INVENTORY_CONFLICT", "Inventory conflict")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You can only manage inventory for your own shop")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}
