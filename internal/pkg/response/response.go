package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tutorhub/internal/pkg/apperr"
)

func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	if data == nil {
		c.JSON(statusCode, gin.H{"message": message})
		return
	}
	c.JSON(statusCode, gin.H{
		"message": message,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"message": message})
}

// FromError is the single translator from the apperr taxonomy to HTTP.
func FromError(c *gin.Context, err error) {
	status := statusOf(apperr.KindOf(err))
	if status == http.StatusInternalServerError {
		// keep the real error in the gin error list for the logger middleware
		_ = c.Error(err)
	}
	Error(c, status, apperr.MessageOf(err))
}

func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
