package uptime

import (
	"log"
	"time"

	"github.com/beacondev/beacon/internal/types"
)

var periods = []string{types.PeriodDaily, types.PeriodWeekly, types.PeriodMonthly}

// Aggregator rolls raw checks up into daily, weekly and monthly metrics. Each
// period kind tracks its own next fire time, computed from calendar boundaries
// and advanced only after a successful rollup, so a cycle that lands late
// (or a rollup that fails) is retried on the next cycle instead of the period
// being skipped.
type Aggregator struct {
	store Store
	next  map[string]time.Time
}

func NewAggregator(store Store, now time.Time) *Aggregator {
	return &Aggregator{
		store: store,
		next: map[string]time.Time{
			types.PeriodDaily:   nextDailyBoundary(now),
			types.PeriodWeekly:  nextWeeklyBoundary(now),
			types.PeriodMonthly: nextMonthlyBoundary(now),
		},
	}
}

// RunDue executes every rollup whose boundary has passed.
func (a *Aggregator) RunDue(now time.Time) {
	for _, period := range periods {
		for !now.Before(a.next[period]) {
			boundary := a.next[period]
			start, end, days := periodWindow(period, boundary)

			if err := a.rollup(period, start, end, days); err != nil {
				log.Printf("Rollup %s for window ending %s failed, will retry: %v", period, end.Format(time.RFC3339), err)
				break
			}

			a.next[period] = advanceBoundary(period, boundary)
		}
	}
}

// NextFire reports the pending boundary for a period kind.
func (a *Aggregator) NextFire(period string) time.Time {
	return a.next[period]
}

// rollup computes and upserts one metric row per monitored service for the
// window [start, end). Services with zero checks in the window are skipped
// entirely. A failure on one service does not stop the others; the first
// error is returned so the caller retries the whole window (the upsert keying
// makes re-runs idempotent).
func (a *Aggregator) rollup(period string, start, end time.Time, days int) error {
	services, err := a.store.MonitoredServices()

	if err != nil {
		return err
	}

	var firstErr error

	for _, service := range services {
		if err := a.rollupService(service, period, start, end, days); err != nil {
			log.Printf("Failed to aggregate %s metrics for service %d (%s): %v", period, service.ID, service.Name, err)

			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

func (a *Aggregator) rollupService(service ServiceInfo, period string, start, end time.Time, days int) error {
	checks, err := a.store.ChecksInRange(service.ID, start, end)

	if err != nil {
		return err
	}

	if len(checks) == 0 {
		return nil
	}

	totalChecks := len(checks)
	upChecks := 0
	latencySum := 0
	latencyCount := 0

	for _, check := range checks {
		if check.Up {
			upChecks++
		}

		if check.ResponseTime != nil {
			latencySum += *check.ResponseTime
			latencyCount++
		}
	}

	uptimePercentage := float64(upChecks) / float64(totalChecks) * 100

	var avgResponseTime *int

	if latencyCount > 0 {
		avg := latencySum / latencyCount
		avgResponseTime = &avg
	}

	// Downtime assumes checks are evenly distributed across the window, each
	// standing for the status until the next check. It is an estimate, not a
	// reconstruction of outage intervals.
	minutesPerCheck := float64(days*24*60) / float64(totalChecks)
	downtimeMinutes := int(float64(totalChecks-upChecks) * minutesPerCheck)

	existing, err := a.store.FindMetric(service.ID, period, start, end)

	if err != nil {
		return err
	}

	if existing != nil {
		existing.Uptime = uptimePercentage
		existing.AvgResponseTime = avgResponseTime
		existing.ChecksCount = totalChecks
		existing.DowntimeMinutes = downtimeMinutes

		return a.store.UpdateMetric(*existing)
	}

	return a.store.CreateMetric(Metric{
		ServiceID:       service.ID,
		Period:          period,
		StartDate:       start,
		EndDate:         end,
		Uptime:          uptimePercentage,
		AvgResponseTime: avgResponseTime,
		ChecksCount:     totalChecks,
		DowntimeMinutes: downtimeMinutes,
	})
}

// periodWindow returns the lookback window ending at the given midnight
// boundary, plus the window length in days used by the downtime estimate.
func periodWindow(period string, boundary time.Time) (start, end time.Time, days int) {
	end = boundary

	switch period {
	case types.PeriodWeekly:
		start = end.AddDate(0, 0, -7)
		days = 7
	case types.PeriodMonthly:
		start = end.AddDate(0, -1, 0)
		days = end.AddDate(0, 0, -1).Day() // days in the previous month
	default:
		start = end.AddDate(0, 0, -1)
		days = 1
	}

	return start, end, days
}

func advanceBoundary(period string, boundary time.Time) time.Time {
	switch period {
	case types.PeriodWeekly:
		return boundary.AddDate(0, 0, 7)
	case types.PeriodMonthly:
		return boundary.AddDate(0, 1, 0)
	default:
		return boundary.AddDate(0, 0, 1)
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// nextDailyBoundary returns the first midnight at or after t.
func nextDailyBoundary(t time.Time) time.Time {
	boundary := midnight(t)

	if boundary.Before(t) {
		boundary = boundary.AddDate(0, 0, 1)
	}

	return boundary
}

// nextWeeklyBoundary returns the first Sunday midnight at or after t, so a
// weekly window covers Sunday through Saturday of the preceding week.
func nextWeeklyBoundary(t time.Time) time.Time {
	boundary := nextDailyBoundary(t)

	for boundary.Weekday() != time.Sunday {
		boundary = boundary.AddDate(0, 0, 1)
	}

	return boundary
}

// nextMonthlyBoundary returns the first first-of-month midnight at or after t.
func nextMonthlyBoundary(t time.Time) time.Time {
	boundary := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())

	if boundary.Before(t) {
		boundary = boundary.AddDate(0, 1, 0)
	}

	return boundary
}
