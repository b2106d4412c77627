package uptime

import (
	"sync"
	"time"
)

// memStore is an in-memory Store for exercising the engine without a
// database. All methods are safe for concurrent use because checks run in
// parallel across services.
type memStore struct {
	mu sync.Mutex

	services  []ServiceInfo
	statuses  map[uint]string
	incidents map[uint]int64
	checks    []Check
	metrics   []Metric

	nextMetricID uint

	failCreateCheck   error
	failChecksInRange error
}

func newMemStore() *memStore {
	return &memStore{
		statuses:  make(map[uint]string),
		incidents: make(map[uint]int64),
	}
}

func (m *memStore) addService(service ServiceInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.services = append(m.services, service)
	m.statuses[service.ID] = service.Status
}

func (m *memStore) addCheck(check Check) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.checks = append(m.checks, check)
}

func (m *memStore) checksFor(serviceID uint) []Check {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []Check

	for _, check := range m.checks {
		if check.ServiceID == serviceID {
			out = append(out, check)
		}
	}

	return out
}

func (m *memStore) allMetrics() []Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Metric, len(m.metrics))
	copy(out, m.metrics)

	return out
}

func (m *memStore) MonitoredServices() ([]ServiceInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ServiceInfo, len(m.services))
	copy(out, m.services)

	return out, nil
}

func (m *memStore) CreateCheck(check Check) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failCreateCheck != nil {
		return m.failCreateCheck
	}

	m.checks = append(m.checks, check)

	return nil
}

func (m *memStore) ChecksInRange(serviceID uint, start, end time.Time) ([]Check, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failChecksInRange != nil {
		return nil, m.failChecksInRange
	}

	var out []Check

	for _, check := range m.checks {
		if check.ServiceID != serviceID {
			continue
		}

		if check.CheckedAt.Before(start) || !check.CheckedAt.Before(end) {
			continue
		}

		out = append(out, check)
	}

	return out, nil
}

func (m *memStore) ServiceStatus(serviceID uint) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.statuses[serviceID], nil
}

func (m *memStore) UpdateServiceStatus(serviceID uint, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.statuses[serviceID] = status

	return nil
}

func (m *memStore) ActiveIncidentCount(serviceID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.incidents[serviceID], nil
}

func (m *memStore) FindMetric(serviceID uint, period string, start, end time.Time) (*Metric, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.metrics {
		metric := m.metrics[i]

		if metric.ServiceID == serviceID && metric.Period == period &&
			metric.StartDate.Equal(start) && metric.EndDate.Equal(end) {
			found := metric
			return &found, nil
		}
	}

	return nil, nil
}

func (m *memStore) CreateMetric(metric Metric) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextMetricID++
	metric.ID = m.nextMetricID
	m.metrics = append(m.metrics, metric)

	return nil
}

func (m *memStore) UpdateMetric(metric Metric) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.metrics {
		if m.metrics[i].ID == metric.ID {
			m.metrics[i] = metric
			return nil
		}
	}

	return nil
}
