package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// APIKey grants read access to the public status endpoint for one organization.
type APIKey struct {
	gorm.Model

	OrganizationID uint   `gorm:"not null;index"`
	Name           string `gorm:"not null"`
	Key            string `gorm:"uniqueIndex;not null"`

	// Relationships
	Organization Organization `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func (k *APIKey) BeforeCreate(tx *gorm.DB) error {
	if k.Key == "" {
		k.Key = uuid.New().String()
	}
	return nil
}
