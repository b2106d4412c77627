package uptime

import "time"

// ServiceInfo is the slice of a Service the monitor cares about.
type ServiceInfo struct {
	ID       uint
	Name     string
	Endpoint string
	Status   string
}

// Check is one probe outcome bound for persistence.
type Check struct {
	ServiceID    uint
	Up           bool
	ResponseTime *int // milliseconds; nil when no response was received
	CheckedAt    time.Time
}

// Metric is one rolled-up period for a service.
type Metric struct {
	ID              uint
	ServiceID       uint
	Period          string
	StartDate       time.Time
	EndDate         time.Time
	Uptime          float64
	AvgResponseTime *int
	ChecksCount     int
	DowntimeMinutes int
}

// Store is the persistence surface the monitor consumes. The production
// implementation is backed by gorm (internal/store); tests use an in-memory one.
type Store interface {
	// MonitoredServices returns every service with a configured endpoint.
	MonitoredServices() ([]ServiceInfo, error)

	CreateCheck(check Check) error
	ChecksInRange(serviceID uint, start, end time.Time) ([]Check, error)

	ServiceStatus(serviceID uint) (string, error)
	UpdateServiceStatus(serviceID uint, status string) error

	// ActiveIncidentCount counts incidents touching the service whose status
	// is not "resolved".
	ActiveIncidentCount(serviceID uint) (int64, error)

	FindMetric(serviceID uint, period string, start, end time.Time) (*Metric, error)
	CreateMetric(metric Metric) error
	UpdateMetric(metric Metric) error
}

// Notifier receives status transitions decided by the monitor.
type Notifier interface {
	NotifyStatusChange(serviceID uint, oldStatus, newStatus string)
}

// Broadcaster pushes events to live observers. Fire-and-forget; failures must
// not affect monitoring.
type Broadcaster interface {
	Publish(event string, data interface{})
}
