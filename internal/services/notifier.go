package services

import (
	"fmt"
	"log"

	"github.com/beacondev/beacon/internal/models"
	"gorm.io/gorm"
)

// NotificationService sends status-page emails to organization members,
// filtered by each user's notification preferences. Send failures are logged
// and swallowed; notification delivery never affects the caller.
type NotificationService struct {
	db     *gorm.DB
	mailer *Mailer
}

func NewNotificationService(db *gorm.DB, mailer *Mailer) *NotificationService {
	return &NotificationService{db: db, mailer: mailer}
}

// recipients returns the emails of organization members whose preference
// column (e.g. "service_status_changes") is enabled.
func (n *NotificationService) recipients(organizationID uint, preferenceColumn string) []string {
	var emails []string

	err := n.db.Model(&models.User{}).
		Joins("JOIN notification_preferences ON notification_preferences.user_id = users.id").
		Joins("JOIN organization_memberships ON organization_memberships.user_id = users.id").
		Where("organization_memberships.organization_id = ?", organizationID).
		Where(fmt.Sprintf("notification_preferences.%s = ?", preferenceColumn), true).
		Pluck("users.email", &emails).Error

	if err != nil {
		log.Printf("Failed to load notification recipients for organization %d: %v", organizationID, err)
		return nil
	}

	return emails
}

// NotifyStatusChange emails members about a service status transition. It also
// satisfies the monitoring engine's Notifier interface.
func (n *NotificationService) NotifyStatusChange(serviceID uint, oldStatus, newStatus string) {
	var service models.Service

	if err := n.db.Preload("Organization").First(&service, serviceID).Error; err != nil {
		log.Printf("Failed to load service %d for notification: %v", serviceID, err)
		return
	}

	recipients := n.recipients(service.OrganizationID, "service_status_changes")

	if len(recipients) == 0 {
		return
	}

	html := renderStatusChangeEmail(service.Name, oldStatus, newStatus, service.Organization.Name)

	if err := n.mailer.Send(recipients, fmt.Sprintf("Service Status Change: %s", service.Name), html); err != nil {
		log.Printf("Failed to send status change email for service %d: %v", serviceID, err)
	}
}

func (n *NotificationService) NotifyNewIncident(incidentID uint) {
	var incident models.Incident

	if err := n.db.Preload("Organization").Preload("Services").First(&incident, incidentID).Error; err != nil {
		log.Printf("Failed to load incident %d for notification: %v", incidentID, err)
		return
	}

	recipients := n.recipients(incident.OrganizationID, "new_incidents")

	if len(recipients) == 0 {
		return
	}

	serviceNames := make([]string, 0, len(incident.Services))

	for _, service := range incident.Services {
		serviceNames = append(serviceNames, service.Name)
	}

	html := renderNewIncidentEmail(incident.Title, incident.Description, incident.Status, incident.Organization.Name, serviceNames)

	if err := n.mailer.Send(recipients, fmt.Sprintf("New Incident: %s", incident.Title), html); err != nil {
		log.Printf("Failed to send new incident email for incident %d: %v", incidentID, err)
	}
}

func (n *NotificationService) NotifyIncidentUpdate(updateID uint) {
	var update models.IncidentUpdate

	if err := n.db.Preload("Incident").Preload("Incident.Organization").First(&update, updateID).Error; err != nil {
		log.Printf("Failed to load incident update %d for notification: %v", updateID, err)
		return
	}

	recipients := n.recipients(update.Incident.OrganizationID, "incident_updates")

	if len(recipients) == 0 {
		return
	}

	html := renderIncidentUpdateEmail(update.Incident.Title, update.Message, update.Incident.Organization.Name)

	if err := n.mailer.Send(recipients, fmt.Sprintf("Incident Update: %s", update.Incident.Title), html); err != nil {
		log.Printf("Failed to send incident update email for update %d: %v", updateID, err)
	}
}

func (n *NotificationService) NotifyIncidentResolved(incidentID uint) {
	var incident models.Incident

	if err := n.db.Preload("Organization").First(&incident, incidentID).Error; err != nil {
		log.Printf("Failed to load incident %d for notification: %v", incidentID, err)
		return
	}

	recipients := n.recipients(incident.OrganizationID, "incident_resolved")

	if len(recipients) == 0 {
		return
	}

	html := renderIncidentResolvedEmail(incident.Title, incident.Organization.Name)

	if err := n.mailer.Send(recipients, fmt.Sprintf("Incident Resolved: %s", incident.Title), html); err != nil {
		log.Printf("Failed to send incident resolved email for incident %d: %v", incidentID, err)
	}
}
