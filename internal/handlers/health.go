package handlers

import (
	"time"

	"github.com/beacondev/beacon/internal/services"
	"github.com/gin-gonic/gin"
)

// Notifier dispatches notification emails; wired once at startup. Handlers
// nil-check it so tests can run without a mailer.
var Notifier *services.NotificationService

func HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":    "ok",
		"message":   "Beacon is running",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
