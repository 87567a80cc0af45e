package assistant

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"tutorhub/internal/pkg/apperr"
	"tutorhub/internal/pkg/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the CORS middleware on the HTTP side; the
	// upgrade itself accepts any origin.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ai/chat", h.Chat)
	rg.GET("/ai/ws", h.WebSocket)
}

func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Messages array is required")
		return
	}

	resp, err := h.service.Recommend(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// WebSocket runs the same recommendation exchange over a socket. Each frame
// carries the full message history, so no conversation state lives on the
// server.
func (h *Handler) WebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.loggerf("level=error msg=websocket upgrade failed user_id=%d err=%v", c.GetInt64("user_id"), err)
		return
	}
	defer conn.Close()

	for {
		var req ChatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.loggerf("level=warn msg=websocket read failed user_id=%d err=%v", c.GetInt64("user_id"), err)
			}
			return
		}

		resp, err := h.service.Recommend(c.Request.Context(), req)
		if err != nil {
			if werr := conn.WriteJSON(gin.H{"error": apperr.MessageOf(err)}); werr != nil {
				return
			}
			continue
		}
		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}
