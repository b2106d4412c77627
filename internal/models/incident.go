package models

import (
	"time"

	"gorm.io/gorm"
)

type Incident struct {
	gorm.Model

	OrganizationID uint   `gorm:"not null;index"`
	Title          string `gorm:"not null"`
	Description    string
	Status         string `gorm:"not null"` // "investigating", "identified", "monitoring", "resolved"
	ResolvedAt     *time.Time

	// Relationships
	Organization Organization     `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Services     []Service        `gorm:"many2many:incident_services"`
	Updates      []IncidentUpdate `gorm:"foreignKey:IncidentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
