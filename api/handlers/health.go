package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pawtrail/mailroom/internal/utils"
)

// HealthCheck provides a simple health check endpoint
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Status reports service identity and clock, used by uptime probes
func Status() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "mailroom",
			"time":    utils.Now(),
		})
	}
}
