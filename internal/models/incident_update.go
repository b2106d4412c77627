package models

import "gorm.io/gorm"

type IncidentUpdate struct {
	gorm.Model

	IncidentID uint   `gorm:"not null;index"`
	Message    string `gorm:"not null"`
	CreatedBy  uint   `gorm:"index"`

	// Relationships
	Incident Incident `gorm:"foreignKey:IncidentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
