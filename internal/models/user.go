package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	Name           string `gorm:"not null"`
	Email          string `gorm:"uniqueIndex;not null"`
	PasswordHash   string `gorm:"not null"`
	OrganizationID *uint  `gorm:"index"` // current organization, nil until the user creates or joins one

	// Relationships
	Memberships            []OrganizationMembership `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	NotificationPreference *NotificationPreference  `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
