package store

import (
	"errors"
	"time"

	"github.com/beacondev/beacon/internal/models"
	"github.com/beacondev/beacon/internal/types"
	"github.com/beacondev/beacon/internal/uptime"
	"gorm.io/gorm"
)

// GormStore backs the monitoring engine with the application database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) MonitoredServices() ([]uptime.ServiceInfo, error) {
	var services []models.Service

	if err := s.db.Where("endpoint IS NOT NULL AND endpoint != ''").Find(&services).Error; err != nil {
		return nil, err
	}

	infos := make([]uptime.ServiceInfo, 0, len(services))

	for _, service := range services {
		endpoint := ""

		if service.Endpoint != nil {
			endpoint = *service.Endpoint
		}

		infos = append(infos, uptime.ServiceInfo{
			ID:       service.ID,
			Name:     service.Name,
			Endpoint: endpoint,
			Status:   service.Status,
		})
	}

	return infos, nil
}

func (s *GormStore) CreateCheck(check uptime.Check) error {
	status := types.CheckDown

	if check.Up {
		status = types.CheckUp
	}

	row := models.UptimeCheck{
		ServiceID:    check.ServiceID,
		Status:       status,
		ResponseTime: check.ResponseTime,
		CheckedAt:    check.CheckedAt,
	}

	return s.db.Create(&row).Error
}

func (s *GormStore) ChecksInRange(serviceID uint, start, end time.Time) ([]uptime.Check, error) {
	var rows []models.UptimeCheck

	if err := s.db.Where("service_id = ? AND checked_at >= ? AND checked_at < ?", serviceID, start, end).
		Order("checked_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	checks := make([]uptime.Check, 0, len(rows))

	for _, row := range rows {
		checks = append(checks, uptime.Check{
			ServiceID:    row.ServiceID,
			Up:           row.Status == types.CheckUp,
			ResponseTime: row.ResponseTime,
			CheckedAt:    row.CheckedAt,
		})
	}

	return checks, nil
}

func (s *GormStore) ServiceStatus(serviceID uint) (string, error) {
	var service models.Service

	if err := s.db.Select("status").First(&service, serviceID).Error; err != nil {
		return "", err
	}

	return service.Status, nil
}

func (s *GormStore) UpdateServiceStatus(serviceID uint, status string) error {
	return s.db.Model(&models.Service{}).Where("id = ?", serviceID).Update("status", status).Error
}

func (s *GormStore) ActiveIncidentCount(serviceID uint) (int64, error) {
	var count int64

	err := s.db.Model(&models.Incident{}).
		Joins("JOIN incident_services ON incident_services.incident_id = incidents.id").
		Where("incident_services.service_id = ? AND incidents.status != ?", serviceID, types.IncidentResolved).
		Count(&count).Error

	return count, err
}

func (s *GormStore) FindMetric(serviceID uint, period string, start, end time.Time) (*uptime.Metric, error) {
	var row models.UptimeMetric

	err := s.db.Where("service_id = ? AND period = ? AND start_date = ? AND end_date = ?", serviceID, period, start, end).
		First(&row).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	metric := metricFromRow(row)

	return &metric, nil
}

func (s *GormStore) CreateMetric(metric uptime.Metric) error {
	row := models.UptimeMetric{
		ServiceID:       metric.ServiceID,
		Period:          metric.Period,
		StartDate:       metric.StartDate,
		EndDate:         metric.EndDate,
		Uptime:          metric.Uptime,
		AvgResponseTime: metric.AvgResponseTime,
		ChecksCount:     metric.ChecksCount,
		DowntimeMinutes: metric.DowntimeMinutes,
	}

	return s.db.Create(&row).Error
}

func (s *GormStore) UpdateMetric(metric uptime.Metric) error {
	return s.db.Model(&models.UptimeMetric{}).
		Where("id = ?", metric.ID).
		Updates(map[string]interface{}{
			"uptime":            metric.Uptime,
			"avg_response_time": metric.AvgResponseTime,
			"checks_count":      metric.ChecksCount,
			"downtime_minutes":  metric.DowntimeMinutes,
		}).Error
}

func metricFromRow(row models.UptimeMetric) uptime.Metric {
	return uptime.Metric{
		ID:              row.ID,
		ServiceID:       row.ServiceID,
		Period:          row.Period,
		StartDate:       row.StartDate,
		EndDate:         row.EndDate,
		Uptime:          row.Uptime,
		AvgResponseTime: row.AvgResponseTime,
		ChecksCount:     row.ChecksCount,
		DowntimeMinutes: row.DowntimeMinutes,
	}
}
