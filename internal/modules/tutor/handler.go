package tutor

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

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/pub/tutors", h.ListTutors)
	rg.GET("/pub/tutors/:id", h.GetTutor)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/tutors", middleware.TutorOnly(), h.CreateProfile)
	rg.PUT("/tutors", middleware.TutorOnly(), h.UpdateProfile)
	rg.GET("/tutors", h.GetOwnProfile)
}

func (h *Handler) ListTutors(c *gin.Context) {
	tutors, err := h.service.ListPublic(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Tutors retrieved successfully", tutors)
}

func (h *Handler) GetTutor(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid tutor id")
		return
	}

	t, err := h.service.GetPublic(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Tutor retrieved successfully", t)
}

func (h *Handler) CreateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "subjects, style and photoUrl are required")
		return
	}

	t, err := h.service.CreateProfile(c.Request.Context(), c.GetInt64("user_id"), c.GetString("role"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Tutor profile created successfully", t)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "subjects, style and photoUrl are required")
		return
	}

	t, err := h.service.UpdateProfile(c.Request.Context(), c.GetInt64("user_id"), c.GetString("role"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Tutor profile updated successfully", t)
}

func (h *Handler) GetOwnProfile(c *gin.Context) {
	t, err := h.service.GetOwnProfile(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Tutor profile retrieved successfully", t)
}
