package models

import "gorm.io/gorm"

type Organization struct {
	gorm.Model

	Name string `gorm:"not null"`
	Slug string `gorm:"uniqueIndex"`

	// Relationships
	Memberships []OrganizationMembership `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Services    []Service                `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Incidents   []Incident               `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	APIKeys     []APIKey                 `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
