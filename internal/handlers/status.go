package handlers

import (
	"net/http"
	"time"

	"github.com/beacondev/beacon/db"
	"github.com/beacondev/beacon/internal/models"
	"github.com/beacondev/beacon/internal/types"
	"github.com/gin-gonic/gin"
)

type PublicService struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type PublicIncident struct {
	ID               uint            `json:"id"`
	Title            string          `json:"title"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	AffectedServices []PublicService `json:"affected_services"`
}

// OverallStatus rolls service statuses up into a single page-level value:
// operational only when every service is operational.
func OverallStatus(services []models.Service) string {
	for _, service := range services {
		if service.Status != types.StatusOperational {
			return types.StatusDegraded
		}
	}

	return types.StatusOperational
}

// PublicStatus serves the API-key-authenticated status snapshot consumed by
// embedded widgets and external consumers.
func PublicStatus(ctx *gin.Context) {
	key := ctx.GetHeader("X-API-Key")

	if key == "" {
		key = ctx.Query("api_key")
	}

	if key == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "API key is required"})
		return
	}

	var apiKey models.APIKey

	if err := db.DB.Where("key = ?", key).First(&apiKey).Error; err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
		return
	}

	var services []models.Service

	if err := db.DB.Where("organization_id = ?", apiKey.OrganizationID).Find(&services).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve services"})
		return
	}

	var incidents []models.Incident

	if err := db.DB.Preload("Services").
		Where("organization_id = ? AND status != ?", apiKey.OrganizationID, types.IncidentResolved).
		Order("created_at DESC").
		Find(&incidents).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve incidents"})
		return
	}

	publicServices := make([]PublicService, 0, len(services))

	for _, service := range services {
		publicServices = append(publicServices, PublicService{
			ID:     service.ID,
			Name:   service.Name,
			Status: service.Status,
		})
	}

	publicIncidents := make([]PublicIncident, 0, len(incidents))

	for _, incident := range incidents {
		affected := make([]PublicService, 0, len(incident.Services))

		for _, service := range incident.Services {
			affected = append(affected, PublicService{
				ID:     service.ID,
				Name:   service.Name,
				Status: service.Status,
			})
		}

		publicIncidents = append(publicIncidents, PublicIncident{
			ID:               incident.ID,
			Title:            incident.Title,
			Status:           incident.Status,
			CreatedAt:        incident.CreatedAt,
			AffectedServices: affected,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":     OverallStatus(services),
		"updated_at": time.Now().Format(time.RFC3339),
		"services":   publicServices,
		"incidents":  publicIncidents,
	})
}
