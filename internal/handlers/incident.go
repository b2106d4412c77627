package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/beacondev/beacon/db"
	"github.com/beacondev/beacon/internal/models"
	"github.com/beacondev/beacon/internal/types"
	"github.com/beacondev/beacon/internal/utils"
	"github.com/beacondev/beacon/internal/ws"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateIncidentRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"required"`
	ServiceIDs  []uint `json:"service_ids" binding:"required"`

	// ServiceStatus optionally cascades a status onto the affected services
	// (e.g. "major_outage" for an incident under investigation).
	ServiceStatus string `json:"service_status"`
}

type UpdateIncidentRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Status        *string `json:"status"`
	ServiceIDs    []uint  `json:"service_ids"`
	ServiceStatus *string `json:"service_status"`
}

func requireIncident(ctx *gin.Context, userID uint) (*models.Incident, bool) {
	incidentID, err := utils.GetIncidentID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	var incident models.Incident

	if err := db.DB.Preload("Services").Preload("Updates").First(&incident, incidentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Incident not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve incident"})
		}
		return nil, false
	}

	var membership models.OrganizationMembership

	if err := db.DB.Where("user_id = ? AND organization_id = ?", userID, incident.OrganizationID).First(&membership).Error; err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this organization"})
		return nil, false
	}

	return &incident, true
}

// cascadeIncidentStatus pushes a status onto an incident's affected services,
// notifying on each change. Services already at that status are left alone.
// Statuses outside the service vocabulary never cascade; the probe reconciler
// recovers services once the incident is resolved.
func cascadeIncidentStatus(services []models.Service, status string) {
	if !types.IsValidServiceStatus(status) {
		return
	}

	for _, service := range services {
		if service.Status == status {
			continue
		}

		if err := db.DB.Model(&models.Service{}).Where("id = ?", service.ID).Update("status", status).Error; err != nil {
			log.Printf("Failed to cascade status to service %d: %v", service.ID, err)
			continue
		}

		if Notifier != nil {
			go Notifier.NotifyStatusChange(service.ID, service.Status, status)
		}
	}
}

func CreateIncident(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if currentUser.OrganizationID == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No current organization"})
		return
	}

	var req CreateIncidentRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ServiceStatus != "" && !types.IsValidServiceStatus(req.ServiceStatus) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service status"})
		return
	}

	var services []models.Service

	if err := db.DB.Where("id IN ? AND organization_id = ?", req.ServiceIDs, *currentUser.OrganizationID).Find(&services).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve services"})
		return
	}

	if len(services) != len(req.ServiceIDs) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "One or more services not found"})
		return
	}

	incident := models.Incident{
		OrganizationID: *currentUser.OrganizationID,
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Services:       services,
	}

	if err := db.DB.Create(&incident).Error; err != nil {
		log.Printf("Failed to create incident: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create incident"})
		return
	}

	// The explicit service_status wins; otherwise the incident status cascades
	// as-is and only takes effect when it is also a valid service status.
	cascadeStatus := req.Status
	if req.ServiceStatus != "" {
		cascadeStatus = req.ServiceStatus
	}
	cascadeIncidentStatus(services, cascadeStatus)

	if Notifier != nil {
		go Notifier.NotifyNewIncident(incident.ID)
	}

	ws.DefaultHub.Publish(types.EventIncidentCreated, map[string]interface{}{
		"id":          incident.ID,
		"title":       incident.Title,
		"status":      incident.Status,
		"service_ids": req.ServiceIDs,
	})

	ctx.JSON(http.StatusCreated, incident)
}

func ListIncidents(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if currentUser.OrganizationID == nil {
		ctx.JSON(http.StatusOK, []models.Incident{})
		return
	}

	query := db.DB.Preload("Services").Preload("Updates").Where("organization_id = ?", *currentUser.OrganizationID)

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var incidents []models.Incident

	if err := query.Order("created_at DESC").Find(&incidents).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve incidents"})
		return
	}

	ctx.JSON(http.StatusOK, incidents)
}

func GetIncident(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	incident, ok := requireIncident(ctx, userID)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, incident)
}

func UpdateIncident(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	incident, ok := requireIncident(ctx, userID)

	if !ok {
		return
	}

	var req UpdateIncidentRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ServiceStatus != nil && !types.IsValidServiceStatus(*req.ServiceStatus) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service status"})
		return
	}

	oldStatus := incident.Status
	updates := make(map[string]interface{})

	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Status != nil {
		updates["status"] = *req.Status

		if *req.Status == types.IncidentResolved && oldStatus != types.IncidentResolved {
			now := time.Now()
			updates["resolved_at"] = &now
		}
	}

	if len(updates) > 0 {
		if err := db.DB.Model(incident).Updates(updates).Error; err != nil {
			log.Printf("Failed to update incident %d: %v", incident.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update incident"})
			return
		}
	}

	affectedServices := incident.Services

	if req.ServiceIDs != nil {
		var services []models.Service

		if err := db.DB.Where("id IN ? AND organization_id = ?", req.ServiceIDs, incident.OrganizationID).Find(&services).Error; err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve services"})
			return
		}

		if err := db.DB.Model(incident).Association("Services").Replace(services); err != nil {
			log.Printf("Failed to update incident %d services: %v", incident.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update incident services"})
			return
		}

		affectedServices = services
	}

	switch {
	case req.ServiceStatus != nil:
		cascadeIncidentStatus(affectedServices, *req.ServiceStatus)
	case req.Status != nil:
		cascadeIncidentStatus(affectedServices, *req.Status)
	}

	if req.Status != nil && *req.Status == types.IncidentResolved && oldStatus != types.IncidentResolved {
		if Notifier != nil {
			go Notifier.NotifyIncidentResolved(incident.ID)
		}
	}

	ws.DefaultHub.Publish(types.EventIncidentUpdated, map[string]interface{}{
		"id":          incident.ID,
		"title":       incident.Title,
		"status":      incident.Status,
		"service_ids": req.ServiceIDs,
	})

	ctx.JSON(http.StatusOK, incident)
}

func DeleteIncident(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	incident, ok := requireIncident(ctx, userID)

	if !ok {
		return
	}

	if err := db.DB.Delete(incident).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete incident"})
		return
	}

	ws.DefaultHub.Publish(types.EventIncidentDeleted, map[string]interface{}{
		"id": incident.ID,
	})

	ctx.Status(http.StatusNoContent)
}
