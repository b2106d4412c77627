package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/beacondev/beacon/db"
	"github.com/beacondev/beacon/internal/models"
	"github.com/beacondev/beacon/internal/types"
	"github.com/beacondev/beacon/internal/utils"
	"github.com/beacondev/beacon/internal/ws"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CreateServiceRequest struct {
	Name        string         `json:"name" binding:"required"`
	Description string         `json:"description"`
	Endpoint    *string        `json:"endpoint"`
	Status      string         `json:"status"`
	Metadata    datatypes.JSON `json:"metadata"`
}

type UpdateServiceRequest struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Endpoint    *string        `json:"endpoint"`
	Status      *string        `json:"status"`
	Metadata    datatypes.JSON `json:"metadata"`
}

// requireMembership loads the service and checks the user belongs to its
// organization.
func requireService(ctx *gin.Context, userID uint) (*models.Service, bool) {
	serviceID, err := utils.GetServiceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	var service models.Service

	if err := db.DB.First(&service, serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve service"})
		}
		return nil, false
	}

	var membership models.OrganizationMembership

	if err := db.DB.Where("user_id = ? AND organization_id = ?", userID, service.OrganizationID).First(&membership).Error; err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this organization"})
		return nil, false
	}

	return &service, true
}

func CreateService(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if currentUser.OrganizationID == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No current organization"})
		return
	}

	var req CreateServiceRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Status == "" {
		req.Status = types.StatusOperational
	}

	if !types.IsValidServiceStatus(req.Status) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service status"})
		return
	}

	service := models.Service{
		OrganizationID: *currentUser.OrganizationID,
		Name:           req.Name,
		Description:    req.Description,
		Endpoint:       req.Endpoint,
		Status:         req.Status,
		Metadata:       req.Metadata,
	}

	if err := db.DB.Create(&service).Error; err != nil {
		log.Printf("Failed to create service: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create service"})
		return
	}

	ws.DefaultHub.Publish(types.EventServiceCreated, map[string]interface{}{
		"id":     service.ID,
		"name":   service.Name,
		"status": service.Status,
	})

	ctx.JSON(http.StatusCreated, service)
}

func ListServices(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if currentUser.OrganizationID == nil {
		ctx.JSON(http.StatusOK, []models.Service{})
		return
	}

	var services []models.Service

	if err := db.DB.Where("organization_id = ?", *currentUser.OrganizationID).Find(&services).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve services"})
		return
	}

	ctx.JSON(http.StatusOK, services)
}

func GetService(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	service, ok := requireService(ctx, userID)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, service)
}

func UpdateService(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	service, ok := requireService(ctx, userID)

	if !ok {
		return
	}

	var req UpdateServiceRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	oldStatus := service.Status
	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Endpoint != nil {
		updates["endpoint"] = *req.Endpoint
	}
	if req.Metadata != nil {
		updates["metadata"] = req.Metadata
	}
	if req.Status != nil {
		if !types.IsValidServiceStatus(*req.Status) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service status"})
			return
		}
		updates["status"] = *req.Status
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	if err := db.DB.Model(service).Updates(updates).Error; err != nil {
		log.Printf("Failed to update service %d: %v", service.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update service"})
		return
	}

	if req.Status != nil && *req.Status != oldStatus {
		if Notifier != nil {
			go Notifier.NotifyStatusChange(service.ID, oldStatus, *req.Status)
		}

		ws.DefaultHub.Publish(types.EventServiceUpdated, map[string]interface{}{
			"id":     service.ID,
			"name":   service.Name,
			"status": *req.Status,
		})
	}

	ctx.JSON(http.StatusOK, service)
}

func DeleteService(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	service, ok := requireService(ctx, userID)

	if !ok {
		return
	}

	if err := db.DB.Delete(service).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete service"})
		return
	}

	ws.DefaultHub.Publish(types.EventServiceDeleted, map[string]interface{}{
		"id": service.ID,
	})

	ctx.Status(http.StatusNoContent)
}
