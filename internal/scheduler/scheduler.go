package scheduler

import (
	"log"
	"sync"

	cron "github.com/robfig/cron/v3"
)

// Job is a unit of periodic maintenance work.
type Job interface {
	Execute() error
	Name() string
}

// CronScheduler runs registered jobs on cron schedules.
type CronScheduler struct {
	cron    *cron.Cron
	jobs    map[string]cron.EntryID
	mutex   sync.Mutex
	running bool
}

// NewCronScheduler creates an idle scheduler.
func NewCronScheduler() *CronScheduler {
	return &CronScheduler{
		cron: cron.New(),
		jobs: make(map[string]cron.EntryID),
	}
}

// AddJob registers job under the given cron schedule, replacing any
// previous registration with the same name.
func (s *CronScheduler) AddJob(schedule string, job Job) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if entryID, exists := s.jobs[job.Name()]; exists {
		s.cron.Remove(entryID)
	}

	entryID, err := s.cron.AddFunc(schedule, func() {
		if err := job.Execute(); err != nil {
			log.Printf("job %s failed: %v", job.Name(), err)
		}
	})
	if err != nil {
		return err
	}

	s.jobs[job.Name()] = entryID
	return nil
}

// Start begins dispatching jobs. Calling Start twice is a no-op.
func (s *CronScheduler) Start() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.running {
		return
	}
	s.cron.Start()
	s.running = true
}

// Stop halts dispatching; running jobs finish on their own.
func (s *CronScheduler) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.running {
		return
	}
	s.cron.Stop()
	s.running = false
}
