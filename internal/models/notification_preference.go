package models

import "gorm.io/gorm"

// NotificationPreference holds per-user email toggles. A missing row means
// the user receives nothing.
type NotificationPreference struct {
	gorm.Model

	UserID               uint `gorm:"not null;uniqueIndex"`
	ServiceStatusChanges bool `gorm:"default:true"`
	NewIncidents         bool `gorm:"default:true"`
	IncidentUpdates      bool `gorm:"default:true"`
	IncidentResolved     bool `gorm:"default:true"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
