package models

import "gorm.io/gorm"

type OrganizationMembership struct {
	gorm.Model

	UserID         uint   `gorm:"not null;uniqueIndex:idx_user_organization"`
	OrganizationID uint   `gorm:"not null;uniqueIndex:idx_user_organization"`
	Role           string `gorm:"not null"` // "admin", "member"

	// Relationships
	User         User         `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Organization Organization `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
