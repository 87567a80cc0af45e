package booking

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tutorhub/internal/middleware"
	"tutorhub/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", middleware.StudentOnly(), h.Create)
	rg.GET("/bookings", h.List)
	rg.PATCH("/bookings/:id/status", middleware.TutorOnly(), h.UpdateStatus)
	rg.DELETE("/bookings/:id", middleware.StudentOnly(), h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "ScheduleId is required")
		return
	}

	b, err := h.service.Create(c.Request.Context(), c.GetInt64("user_id"), c.GetString("role"), req.ScheduleID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Booking created successfully", b)
}

func (h *Handler) List(c *gin.Context) {
	bookings, err := h.service.List(c.Request.Context(), c.GetInt64("user_id"), c.GetString("role"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	message := "Bookings retrieved successfully"
	if len(bookings) == 0 {
		message = "No bookings found"
	}
	response.Success(c, http.StatusOK, message, bookings)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid booking id")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "status is required")
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role"), req.Status)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Booking status updated successfully", b)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid booking id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, c.GetInt64("user_id"), c.GetString("role")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Booking deleted successfully", nil)
}
