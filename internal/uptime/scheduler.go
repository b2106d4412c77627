package uptime

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/beacondev/beacon/internal/types"
)

const DefaultCheckInterval = 60 * time.Second

// Scheduler drives the monitoring loop: every interval it probes all services
// with an endpoint, records the results, reconciles service statuses and asks
// the aggregator whether any rollups are due. One broken cycle never kills the
// loop.
type Scheduler struct {
	store       Store
	prober      *Prober
	aggregator  *Aggregator
	notifier    Notifier
	broadcaster Broadcaster
	interval    time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(store Store, notifier Notifier, broadcaster Broadcaster, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultCheckInterval
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		store:       store,
		prober:      NewProber(DefaultProbeTimeout),
		aggregator:  NewAggregator(store, time.Now()),
		notifier:    notifier,
		broadcaster: broadcaster,
		interval:    interval,
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
}

// Start launches the monitoring loop in a goroutine.
func (s *Scheduler) Start() {
	log.Printf("Starting uptime monitoring (interval %s)", s.interval)
	go s.run()
}

// Stop cancels the loop and waits for the current cycle to finish.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.done
	log.Println("Uptime monitoring stopped")
}

func (s *Scheduler) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.runCycle()

		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// runCycle executes one monitoring cycle. Panics are recovered so the loop is
// self-healing.
func (s *Scheduler) runCycle() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Monitoring cycle panicked: %v", r)
		}
	}()

	s.CheckAllServices(s.ctx)
	s.aggregator.RunDue(time.Now())
}

// CheckAllServices probes every monitored service once. Checks run
// concurrently; each service's probe-record-reconcile sequence is independent
// and a failure in one does not touch the others.
func (s *Scheduler) CheckAllServices(ctx context.Context) {
	services, err := s.store.MonitoredServices()

	if err != nil {
		log.Printf("Failed to load monitored services: %v", err)
		return
	}

	var wg sync.WaitGroup

	for _, service := range services {
		if service.Endpoint == "" {
			continue
		}

		wg.Add(1)

		go func(service ServiceInfo) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("Check for service %d (%s) panicked: %v", service.ID, service.Name, r)
				}
			}()
			s.CheckService(ctx, service)
		}(service)
	}

	wg.Wait()
}

// CheckService runs one probe-record-reconcile sequence for a single service.
func (s *Scheduler) CheckService(ctx context.Context, service ServiceInfo) {
	result := s.prober.Probe(ctx, service.Endpoint)

	check := Check{
		ServiceID:    service.ID,
		Up:           result.Up,
		ResponseTime: result.ResponseTime,
		CheckedAt:    time.Now(),
	}

	if err := s.store.CreateCheck(check); err != nil {
		log.Printf("Failed to record check for service %d (%s): %v", service.ID, service.Name, err)
		return
	}

	transition, err := Reconcile(s.store, service.ID, result.Up)

	if err != nil {
		log.Printf("Failed to reconcile status for service %d (%s): %v", service.ID, service.Name, err)
		return
	}

	if transition == nil {
		return
	}

	log.Printf("Service %d (%s) transitioned %s -> %s", service.ID, service.Name, transition.OldStatus, transition.NewStatus)

	if s.notifier != nil {
		s.notifier.NotifyStatusChange(transition.ServiceID, transition.OldStatus, transition.NewStatus)
	}

	if s.broadcaster != nil {
		s.broadcaster.Publish(types.EventServiceUpdated, map[string]interface{}{
			"id":     service.ID,
			"name":   service.Name,
			"status": transition.NewStatus,
		})
	}
}

// Global scheduler instance
var globalScheduler *Scheduler

// Initialize creates and starts the global scheduler.
func Initialize(store Store, notifier Notifier, broadcaster Broadcaster, interval time.Duration) {
	globalScheduler = NewScheduler(store, notifier, broadcaster, interval)
	globalScheduler.Start()
}

// Shutdown stops the global scheduler.
func Shutdown() {
	if globalScheduler != nil {
		globalScheduler.Stop()
	}
}

// TriggerCheck runs an out-of-band check for one service, outside the regular
// cycle cadence.
func TriggerCheck(service ServiceInfo) {
	if globalScheduler != nil {
		globalScheduler.CheckService(globalScheduler.ctx, service)
	}
}
