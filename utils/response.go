package utils

import (
	"github.com/gin-gonic/gin"
)

// envelope is the body shape shared by every API response
func envelope(status int, message, key string, value any) gin.H {
	return gin.H{
		"status":  status,
		"message": message,
		key:       value,
	}
}

// JSONResponse sends a structured JSON response with the payload under "data"
func JSONResponse(c *gin.Context, status int, data any, message string) {
	c.JSON(status, envelope(status, message, "data", data))
}

// JSONError sends a structured error response
func JSONError(c *gin.Context, status int, err error, message string) {
	c.JSON(status, envelope(status, message, "error", err.Error()))
}

// AbortJSONError is JSONError for middleware; it stops the handler chain
func AbortJSONError(c *gin.Context, status int, err error, message string) {
	c.AbortWithStatusJSON(status, envelope(status, message, "error", err.Error()))
}
