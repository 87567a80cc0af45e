package schedule

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
	rg.POST("/schedules", middleware.TutorOnly(), h.Create)
	rg.GET("/schedules", h.List)
	rg.PUT("/schedules/:id", middleware.TutorOnly(), h.Update)
	rg.DELETE("/schedules/:id", middleware.TutorOnly(), h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "date, time and fee are required")
		return
	}

	sched, err := h.service.Create(c.Request.Context(), c.GetInt64("user_id"), c.GetString("role"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Schedule created successfully", sched)
}

func (h *Handler) List(c *gin.Context) {
	schedules, err := h.service.List(c.Request.Context(), c.GetInt64("user_id"), c.GetString("role"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	message := "Schedules retrieved successfully"
	if len(schedules) == 0 {
		message = "No schedules found"
	}
	response.Success(c, http.StatusOK, message, schedules)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid schedule id")
		return
	}

	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "date, time and fee are required")
		return
	}

	sched, err := h.service.Update(c.Request.Context(), c.GetInt64("user_id"), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Schedule updated successfully", sched)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid schedule id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.GetInt64("user_id"), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Schedule deleted successfully", nil)
}
