package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// Service statuses. Only StatusOperational and StatusPartialOutage are ever
// written by the monitor; the rest are set by humans.
const (
	StatusOperational   = "operational"
	StatusDegraded      = "degraded"
	StatusPartialOutage = "partial_outage"
	StatusMajorOutage   = "major_outage"
	StatusMaintenance   = "maintenance"
)

// Incident statuses. "resolved" is terminal; anything else counts as active.
const (
	IncidentInvestigating = "investigating"
	IncidentIdentified    = "identified"
	IncidentMonitoring    = "monitoring"
	IncidentResolved      = "resolved"
)

// Check outcomes stored on UptimeCheck rows.
const (
	CheckUp   = "up"
	CheckDown = "down"
)

// Metric periods.
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// WebSocket event types pushed to connected clients.
const (
	EventServiceCreated  = "service_created"
	EventServiceUpdated  = "service_updated"
	EventServiceDeleted  = "service_deleted"
	EventIncidentCreated = "incident_created"
	EventIncidentUpdated = "incident_updated"
	EventIncidentDeleted = "incident_deleted"
	EventUpdateCreated   = "update_created"
)

var serviceStatuses = map[string]bool{
	StatusOperational:   true,
	StatusDegraded:      true,
	StatusPartialOutage: true,
	StatusMajorOutage:   true,
	StatusMaintenance:   true,
}

func IsValidServiceStatus(status string) bool {
	return serviceStatuses[status]
}

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
