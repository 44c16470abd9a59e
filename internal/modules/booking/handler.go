package booking

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bikerental/internal/domain"
	"bikerental/internal/middleware"
	"bikerental/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects the group to run behind the JWT auth middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	customer := middleware.RequireRole("customer")
	owner := middleware.RequireRole("shop_owner")

	rg.POST("/bookings", customer, h.Create)
	rg.GET("/bookings", customer, h.ListMine)
	rg.GET("/bookings/:id", h.Get)
	rg.PUT("/bookings/:id", customer, h.Reschedule)
	rg.POST("/bookings/:id/cancel", customer, h.Cancel)
	rg.DELETE("/bookings/:id", customer, h.Cancel) // legacy delete path, same semantics as cancel
	rg.POST("/bookings/:id/confirm", owner, h.Confirm)
	rg.POST("/bookings/:id/reject", owner, h.Reject)
	rg.POST("/bookings/:id/complete", owner, h.Complete)
	rg.GET("/shops/:id/bookings", owner, h.ListForShop)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	req.CustomerID = c.GetInt64("user_id")

	b, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	b, err := h.service.GetBooking(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) ListMine(c *gin.Context) {
	limit, offset := pagination(c)
	bookings, err := h.service.ListMyBookings(c.Request.Context(), c.GetInt64("user_id"), limit, offset)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) ListForShop(c *gin.Context) {
	shopID, ok := pathID(c)
	if !ok {
		return
	}

	bookings, err := h.service.ListShopBookings(c.Request.Context(), shopID, c.GetInt64("user_id"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) Reschedule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.RescheduleBooking(c.Request.Context(), id, c.GetInt64("user_id"), req)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.CancelBooking(c.Request.Context(), id, c.GetInt64("user_id")); err != nil {
		respondBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cancelled": true})
}

func (h *Handler) Confirm(c *gin.Context)  { h.transition(c, h.service.ConfirmBooking) }
func (h *Handler) Reject(c *gin.Context)   { h.transition(c, h.service.RejectBooking) }
func (h *Handler) Complete(c *gin.Context) { h.transition(c, h.service.CompleteBooking) }

func (h *Handler) transition(c *gin.Context, op func(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	b, err := op(c.Request.Context(), id, c.GetInt64("user_id"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
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

func respondBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking time range")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking or vehicle not found")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", "Vehicle is not available for the selected time")
	case errors.Is(err, ErrInvalidState):
		response.Error(c, http.StatusConflict, "INVALID_STATE", "Transition not allowed from the current booking status")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You are not allowed to perform this operation")
	case errors.Is(err, ErrLockTimeout):
		response.Error(c, http.StatusServiceUnavailable, "BUSY", "Vehicle is busy, try again")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}
