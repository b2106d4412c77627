package handlers

import (
	"log"
	"net/http"

	"github.com/beacondev/beacon/db"
	"github.com/beacondev/beacon/internal/models"
	"github.com/beacondev/beacon/internal/types"
	"github.com/beacondev/beacon/internal/utils"
	"github.com/beacondev/beacon/internal/ws"
	"github.com/gin-gonic/gin"
)

type CreateUpdateRequest struct {
	Message string `json:"message" binding:"required"`
}

func CreateIncidentUpdate(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	incident, ok := requireIncident(ctx, userID)

	if !ok {
		return
	}

	var req CreateUpdateRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := models.IncidentUpdate{
		IncidentID: incident.ID,
		Message:    req.Message,
		CreatedBy:  userID,
	}

	if err := db.DB.Create(&update).Error; err != nil {
		log.Printf("Failed to create incident update: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create update"})
		return
	}

	if Notifier != nil {
		go Notifier.NotifyIncidentUpdate(update.ID)
	}

	ws.DefaultHub.Publish(types.EventUpdateCreated, map[string]interface{}{
		"id":          update.ID,
		"message":     update.Message,
		"incident_id": incident.ID,
		"created_by":  userID,
	})

	ctx.JSON(http.StatusCreated, update)
}

func ListIncidentUpdates(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	incident, ok := requireIncident(ctx, userID)

	if !ok {
		return
	}

	var updates []models.IncidentUpdate

	if err := db.DB.Where("incident_id = ?", incident.ID).Order("created_at ASC").Find(&updates).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve updates"})
		return
	}

	ctx.JSON(http.StatusOK, updates)
}
