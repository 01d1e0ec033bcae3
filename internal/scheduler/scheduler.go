// Package scheduler runs the background maintenance jobs of the server,
// such as refreshing the cached card catalog.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
)

// JobStatus represents the status of a job.
type JobStatus string

const (
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusScheduled JobStatus = "scheduled"
)

// JobInfo describes a scheduled job.
type JobInfo struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Schedule          string    `json:"schedule"`
	Status            JobStatus `json:"status"`
	LastRun           time.Time `json:"lastRun,omitzero"`
	NextRun           time.Time `json:"nextRun,omitzero"`
	Enabled           bool      `json:"enabled"`
	RunCount          int       `json:"runCount"`
	ErrorCount        int       `json:"errorCount"`
	LastError         string    `json:"lastError,omitempty"`
	InstantAfterStart bool      `json:"instantAfterStart,omitempty"`

	job gocron.Job
}

// JobFunc is the work of a job.
type JobFunc func(ctx context.Context) error

// Scheduler wraps gocron and keeps run statistics per job.
type Scheduler struct {
	gocron gocron.Scheduler
	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.RWMutex
	jobs map[string]*JobInfo
}

// New creates a new scheduler.
func New() (*Scheduler, error) {
	gocronScheduler, err := gocron.NewScheduler(gocron.WithLogger(newLogger()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		gocron: gocronScheduler,
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]*JobInfo),
	}, nil
}

// Start starts the scheduler and runs the jobs flagged to run right away.
func (s *Scheduler) Start() {
	log.Info("Starting job scheduler")
	s.gocron.Start()

	var instant []string
	s.mu.Lock()
	for id, info := range s.jobs {
		if nextRun, err := info.job.NextRun(); err == nil {
			info.NextRun = nextRun
		} else {
			log.Warn("Failed to get next run time for job", "id", id, "error", err)
		}
		if info.InstantAfterStart {
			instant = append(instant, id)
		}
	}
	s.mu.Unlock()

	for _, id := range instant {
		log.Info("Running job immediately after start", "id", id)
		if err := s.RunJobNow(id); err != nil {
			log.Error("Failed to run job immediately after start", "id", id, "error", err)
		}
	}
}

// Run starts the scheduler and blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.Start()
	<-ctx.Done()
	return s.Stop()
}

// Stop cancels running jobs and shuts the scheduler down.
func (s *Scheduler) Stop() error {
	log.Info("Stopping job scheduler")
	s.cancel()
	return s.gocron.Shutdown()
}

// AddSingletonJob adds a job of which only one instance runs at a time.
// Runs that come due while the job is still busy are rescheduled.
func (s *Scheduler) AddSingletonJob(id, name, schedule string, def gocron.JobDefinition, fn JobFunc, instantAfterStart bool) error {
	info := &JobInfo{
		ID:                id,
		Name:              name,
		Schedule:          schedule,
		Status:            JobStatusScheduled,
		Enabled:           true,
		InstantAfterStart: instantAfterStart,
	}

	job, err := s.gocron.NewJob(def,
		gocron.NewTask(s.wrapJobFunc(id, fn)),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("failed to create job %s: %w", id, err)
	}
	info.job = job

	s.mu.Lock()
	s.jobs[id] = info
	s.mu.Unlock()

	log.Info("Added job to scheduler", "id", id, "name", name, "schedule", schedule)
	return nil
}

// RunJobNow triggers a job immediately.
func (s *Scheduler) RunJobNow(id string) error {
	s.mu.RLock()
	info, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %s not found", id)
	}

	log.Info("Manually triggering job", "id", id, "name", info.Name)
	if err := info.job.RunNow(); err != nil {
		return fmt.Errorf("failed to trigger job %s: %w", id, err)
	}
	return nil
}

// SetEnabled enables or disables a job. Disabled jobs stay scheduled but skip their runs.
func (s *Scheduler) SetEnabled(id string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	info, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("job %s not found", id)
	}
	info.Enabled = enabled
	log.Info("Changed job state", "id", id, "enabled", enabled)
	return nil
}

// Job returns a copy of the information about a job.
func (s *Scheduler) Job(id string) (JobInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.jobs[id]
	if !ok {
		return JobInfo{}, false
	}
	return *info, true
}

// Jobs returns a copy of the information about every job.
func (s *Scheduler) Jobs() map[string]JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]JobInfo, len(s.jobs))
	for id, info := range s.jobs {
		out[id] = *info
	}
	return out
}

// wrapJobFunc wraps a job function to keep the job statistics up to date.
func (s *Scheduler) wrapJobFunc(id string, fn JobFunc) func() {
	return func() {
		s.mu.Lock()
		info := s.jobs[id]
		if info == nil || !info.Enabled {
			s.mu.Unlock()
			log.Debug("Job is disabled or unknown, skipping", "id", id)
			return
		}
		info.Status = JobStatusRunning
		info.LastRun = time.Now()
		info.RunCount++
		if nextRun, err := info.job.NextRun(); err == nil {
			info.NextRun = nextRun
		}
		name := info.Name
		s.mu.Unlock()

		log.Info("Starting job", "id", id, "name", name)
		err := fn(s.ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			log.Error("Job failed", "id", id, "name", name, "error", err)
			info.Status = JobStatusFailed
			info.ErrorCount++
			info.LastError = err.Error()
			return
		}
		log.Info("Job completed successfully", "id", id, "name", name)
		info.Status = JobStatusCompleted
		info.LastError = ""
	}
}
