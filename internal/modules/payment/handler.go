package payment

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tutorhub/internal/pkg/response"
)

type Handler struct {
	service *Service
	loggerf func(format string, args ...interface{})
}

func NewHandler(service *Service, loggerf func(format string, args ...interface{})) *Handler {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Handler{service: service, loggerf: loggerf}
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/:bookingId", h.CreatePayment)
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/notification", h.Notification)
}

func (h *Handler) CreatePayment(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid booking id")
		return
	}

	resp, err := h.service.CreatePayment(c.Request.Context(), bookingID, c.GetInt64("user_id"))
	if err != nil {
		h.loggerf("level=error msg=create payment failed booking_id=%d err=%v", bookingID, err)
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Notification is the gateway-facing webhook. It acknowledges with 200 no
// matter what: an error status would make the gateway retry indefinitely.
func (h *Handler) Notification(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"message": "OK"})
		return
	}

	var payload NotificationPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		h.loggerf("level=warn msg=unparseable payment notification err=%v", err)
		c.JSON(http.StatusOK, gin.H{"message": "OK"})
		return
	}

	h.service.HandleNotification(c.Request.Context(), payload, string(rawBody))
	c.JSON(http.StatusOK, gin.H{"message": "OK"})
}
