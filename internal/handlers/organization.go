package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/beacondev/beacon/db"
	"github.com/beacondev/beacon/internal/models"
	"github.com/beacondev/beacon/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"`
}

type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role"`
}

type OrganizationSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Role string `json:"role"`
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	return slug
}

func CreateOrganization(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateOrganizationRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Slug == "" {
		req.Slug = slugify(req.Name)
	}

	organization := models.Organization{
		Name: req.Name,
		Slug: req.Slug,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&organization).Error; err != nil {
			return err
		}

		membership := models.OrganizationMembership{
			UserID:         userID,
			OrganizationID: organization.ID,
			Role:           "admin",
		}

		if err := tx.Create(&membership).Error; err != nil {
			return err
		}

		// The new organization becomes the user's current one.
		return tx.Model(&models.User{}).Where("id = ?", userID).Update("organization_id", organization.ID).Error
	})

	if err != nil {
		log.Printf("Failed to create organization: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create organization"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":         "Organization created successfully",
		"organization_id": organization.ID,
	})
}

func ListOrganizations(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var memberships []models.OrganizationMembership

	if err := db.DB.Preload("Organization").Where("user_id = ?", userID).Find(&memberships).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve organizations"})
		return
	}

	summaries := make([]OrganizationSummary, 0, len(memberships))

	for _, membership := range memberships {
		summaries = append(summaries, OrganizationSummary{
			ID:   membership.Organization.ID,
			Name: membership.Organization.Name,
			Slug: membership.Organization.Slug,
			Role: membership.Role,
		})
	}

	ctx.JSON(http.StatusOK, summaries)
}

func AddOrganizationMember(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	organizationID, err := utils.GetOrganizationID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Only admins can add members.
	var membership models.OrganizationMembership

	if err := db.DB.Where("user_id = ? AND organization_id = ? AND role = ?", userID, organizationID, "admin").
		First(&membership).Error; err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var req AddMemberRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Role == "" {
		req.Role = "member"
	}

	var user models.User

	if err := db.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		}
		return
	}

	newMembership := models.OrganizationMembership{
		UserID:         user.ID,
		OrganizationID: uint(organizationID),
		Role:           req.Role,
	}

	if err := db.DB.Create(&newMembership).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Member added successfully"})
}

type SwitchOrganizationRequest struct {
	OrganizationID uint `json:"organization_id" binding:"required"`
}

func SwitchOrganization(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req SwitchOrganizationRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var membership models.OrganizationMembership

	if err := db.DB.Where("user_id = ? AND organization_id = ?", userID, req.OrganizationID).First(&membership).Error; err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this organization"})
		return
	}

	if err := db.DB.Model(&models.User{}).Where("id = ?", userID).Update("organization_id", req.OrganizationID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to switch organization"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Organization switched"})
}

func CreateAPIKey(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	organizationID, err := utils.GetOrganizationID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var membership models.OrganizationMembership

	if err := db.DB.Where("user_id = ? AND organization_id = ? AND role = ?", userID, organizationID, "admin").
		First(&membership).Error; err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	apiKey := models.APIKey{
		OrganizationID: uint(organizationID),
		Name:           req.Name,
	}

	if err := db.DB.Create(&apiKey).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create API key"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"id":   apiKey.ID,
		"name": apiKey.Name,
		"key":  apiKey.Key,
	})
}
