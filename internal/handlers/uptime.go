package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/beacondev/beacon/db"
	"github.com/beacondev/beacon/internal/models"
	"github.com/beacondev/beacon/internal/types"
	"github.com/beacondev/beacon/internal/uptime"
	"github.com/beacondev/beacon/internal/utils"
	"github.com/gin-gonic/gin"
)

// GetServiceMetrics lists rolled-up uptime metrics for a service, newest
// window of `days` days, one period kind at a time.
func GetServiceMetrics(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	service, ok := requireService(ctx, userID)

	if !ok {
		return
	}

	period := ctx.DefaultQuery("period", types.PeriodDaily)

	if period != types.PeriodDaily && period != types.PeriodWeekly && period != types.PeriodMonthly {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period"})
		return
	}

	days, err := strconv.Atoi(ctx.DefaultQuery("days", "30"))

	if err != nil || days <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days"})
		return
	}

	since := time.Now().AddDate(0, 0, -days)

	var metrics []models.UptimeMetric

	if err := db.DB.Where("service_id = ? AND period = ? AND end_date >= ?", service.ID, period, since).
		Order("start_date ASC").
		Find(&metrics).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve metrics"})
		return
	}

	ctx.JSON(http.StatusOK, metrics)
}

// GetCurrentUptime summarises the last 24 hours of checks for live display.
func GetCurrentUptime(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	service, ok := requireService(ctx, userID)

	if !ok {
		return
	}

	since := time.Now().Add(-24 * time.Hour)

	var checks []models.UptimeCheck

	if err := db.DB.Where("service_id = ? AND checked_at >= ?", service.ID, since).
		Order("checked_at ASC").
		Find(&checks).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve checks"})
		return
	}

	if len(checks) == 0 {
		ctx.JSON(http.StatusOK, gin.H{"uptime": nil, "checks_count": 0})
		return
	}

	upChecks := 0

	for _, check := range checks {
		if check.Status == types.CheckUp {
			upChecks++
		}
	}

	last := checks[len(checks)-1]

	ctx.JSON(http.StatusOK, gin.H{
		"uptime":         float64(upChecks) / float64(len(checks)) * 100,
		"checks_count":   len(checks),
		"last_check":     last.CheckedAt,
		"current_status": last.Status,
	})
}

// GetServiceChecks returns the recent raw check history.
func GetServiceChecks(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	service, ok := requireService(ctx, userID)

	if !ok {
		return
	}

	var checks []models.UptimeCheck

	if err := db.DB.Where("service_id = ?", service.ID).
		Order("checked_at DESC").
		Limit(50).
		Find(&checks).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve checks"})
		return
	}

	ctx.JSON(http.StatusOK, checks)
}

// TriggerServiceCheck runs one out-of-band check for a service.
func TriggerServiceCheck(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	service, ok := requireService(ctx, userID)

	if !ok {
		return
	}

	if service.Endpoint == nil || *service.Endpoint == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Service has no endpoint configured"})
		return
	}

	go uptime.TriggerCheck(uptime.ServiceInfo{
		ID:       service.ID,
		Name:     service.Name,
		Endpoint: *service.Endpoint,
		Status:   service.Status,
	})

	ctx.JSON(http.StatusAccepted, gin.H{"message": "Check triggered"})
}
