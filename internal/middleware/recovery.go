package middleware

import (
	"fmt"

	"anoa.com/moviecatalog/pkg/response"
	"github.com/gin-gonic/gin"
)

// Recovery turns a handler panic into the standard 500 envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		response.ResponseError(c, fmt.Errorf("panic: %v", recovered))
	})
}
