package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	gorm.Model

	OrganizationID uint    `gorm:"not null;index"`
	Name           string  `gorm:"not null"`
	Description    string
	Status         string         `gorm:"not null;default:operational"`
	Endpoint       *string        // health-check URL; nil disables monitoring
	Metadata       datatypes.JSON `gorm:"type:jsonb"`

	// Relationships
	Organization  Organization  `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	UptimeChecks  []UptimeCheck `gorm:"foreignKey:ServiceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	UptimeMetrics []UptimeMetric `gorm:"foreignKey:ServiceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Incidents     []Incident    `gorm:"many2many:incident_services"`
}
