package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/seasonal-baseline/internal/weather"
)

// Monitor is the part of the service the scheduler drives.
type Monitor interface {
	Monitor(ctx context.Context, datasetID, city string) error
}

// Scheduler periodically checks live temperatures of configured cities
// against the baseline dataset and records the verdicts.
type Scheduler struct {
	scheduler *gocron.Scheduler
	monitor   Monitor
	datasetID string
	cities    []string
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler.
func New(cities []string, interval time.Duration, datasetID string, monitor Monitor) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		monitor:   monitor,
		datasetID: datasetID,
		cities:    cities,
		interval:  interval,
		timeout:   30 * time.Second,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.cities) == 0 || s.datasetID == "" {
		log.Println("scheduler: no cities or baseline dataset configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(s.runOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) runOnce() {
	log.Println("scheduler: running live check job")

	var wg sync.WaitGroup
	for _, city := range s.cities {
		city := city
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			defer cancel()

			if err := s.monitor.Monitor(ctx, s.datasetID, city); err != nil {
				log.Printf("scheduler: live check failed for %s: %v", city, err)
			}
		}()
	}
	wg.Wait()
	log.Println("scheduler: completed live check job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

var _ Monitor = (*weather.Service)(nil)
