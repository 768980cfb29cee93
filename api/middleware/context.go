package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/pawtrail/mailroom/internal/utils"
)

// CustomContextMiddleware adds the caller's identity to the request context
func CustomContextMiddleware(appSource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := utils.WithCustomContextFromGinRequest(c, appSource)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
