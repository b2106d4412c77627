package models

import (
	"time"

	"gorm.io/gorm"
)

// UptimeCheck is one probe outcome. Rows are written once per service per
// monitoring cycle and never updated; all metric aggregation reads from here.
type UptimeCheck struct {
	gorm.Model

	ServiceID    uint      `gorm:"not null;index"`
	Status       string    `gorm:"not null"` // "up" or "down"
	ResponseTime *int      // milliseconds; nil when no response was received
	CheckedAt    time.Time `gorm:"not null;index"`

	// Relationships
	Service Service `gorm:"foreignKey:ServiceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
