package session

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Sweeper is implemented by stores that need periodic expiry (the memory
// driver; Redis expires keys on its own).
type Sweeper interface {
	Sweep() int
	Len() int
}

// Janitor periodically evicts expired sessions from a Sweeper.
type Janitor struct {
	scheduler *gocron.Scheduler
	store     Sweeper
	interval  time.Duration
}

// NewJanitor creates a Janitor sweeping store every interval.
func NewJanitor(store Sweeper, interval time.Duration) *Janitor {
	return &Janitor{
		scheduler: gocron.NewScheduler(time.UTC),
		store:     store,
		interval:  interval,
	}
}

// Start schedules the periodic sweep and starts the underlying scheduler.
func (j *Janitor) Start() error {
	minutes := int(j.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := j.scheduler.Every(minutes).Minutes().Do(func() {
		removed := j.store.Sweep()
		if removed > 0 {
			log.Printf("session janitor: evicted %d expired sessions, %d remain", removed, j.store.Len())
		}
	})
	if err != nil {
		return err
	}

	j.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future sweeps.
func (j *Janitor) Stop() {
	if j.scheduler != nil {
		j.scheduler.Stop()
	}
}
