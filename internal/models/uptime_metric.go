package models

import (
	"time"

	"gorm.io/gorm"
)

// UptimeMetric is one rolled-up period per service. The composite unique index
// enforces at most one row per (service, period, start, end); the aggregator
// updates the row in place on re-runs.
type UptimeMetric struct {
	gorm.Model

	ServiceID       uint      `gorm:"not null;uniqueIndex:idx_service_period_window"`
	Period          string    `gorm:"not null;uniqueIndex:idx_service_period_window"` // "daily", "weekly", "monthly"
	StartDate       time.Time `gorm:"not null;uniqueIndex:idx_service_period_window"`
	EndDate         time.Time `gorm:"not null;uniqueIndex:idx_service_period_window"`
	Uptime          float64   `gorm:"not null"` // percentage, 0-100
	AvgResponseTime *int      // milliseconds; nil when no check in the window had a latency
	ChecksCount     int       `gorm:"not null"`
	DowntimeMinutes int       `gorm:"not null"`

	// Relationships
	Service Service `gorm:"foreignKey:ServiceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
