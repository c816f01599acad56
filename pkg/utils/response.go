package utils

import (
	"github.com/gin-gonic/gin"
)

type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func SuccessResponse(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Response{
		Success: false,
		Message: message,
	})
}

// ValidationErrorResponse reports field-level problems so clients can show
// them next to the offending input.
func ValidationErrorResponse(c *gin.Context, code int, message string, fields map[string]string) {
	c.AbortWithStatusJSON(code, Response{
		Success: false,
		Message: message,
		Errors:  fields,
	})
}
