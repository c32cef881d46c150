// Package scheduler runs maintenance sweeps at fixed wall-clock hours.
package scheduler

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultJobTimeout = 5 * time.Minute

var maintenanceRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "maintenance_runs_total",
	Help: "Maintenance sweep runs by job and result.",
}, []string{"job", "result"})

// Runner executes one named sweep.
type Runner interface {
	Run(ctx context.Context, name string) (int64, error)
}

// Job runs daily at Hour:00 in the scheduler's location.
type Job struct {
	Name string
	Hour int
}

type Scheduler struct {
	runner  Runner
	jobs    []Job
	loc     *time.Location
	timeout time.Duration

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

func New(runner Runner, loc *time.Location, jobs ...Job) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		runner:  runner,
		jobs:    jobs,
		loc:     loc,
		timeout: defaultJobTimeout,
		now:     time.Now,
		after:   time.After,
	}
}

// NextRun returns the first hour:00 in loc strictly after now.
func NextRun(now time.Time, hour int, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, hour, 0, 0, 0, loc)
	}
	return next
}

// due returns the earliest upcoming run time and every job scheduled for it,
// in registration order.
func (s *Scheduler) due(now time.Time) (time.Time, []Job) {
	var at time.Time
	var jobs []Job
	for _, job := range s.jobs {
		next := NextRun(now, job.Hour, s.loc)
		switch {
		case at.IsZero() || next.Before(at):
			at, jobs = next, []Job{job}
		case next.Equal(at):
			jobs = append(jobs, job)
		}
	}
	return at, jobs
}

// Start runs the scheduler in the background until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	if len(s.jobs) == 0 {
		return
	}
	go s.Run(ctx)
}

// Run blocks, executing due jobs one at a time, until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		now := s.now()
		at, jobs := s.due(now)
		if len(jobs) == 0 {
			return
		}
		slog.Debug("next maintenance run", "at", at, "jobs", len(jobs))

		select {
		case <-ctx.Done():
			return
		case <-s.after(at.Sub(now)):
		}

		for _, job := range jobs {
			if ctx.Err() != nil {
				return
			}
			s.runJob(ctx, job)
		}
	}
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.runner.Run(runCtx, job.Name)
	if err != nil {
		maintenanceRuns.WithLabelValues(job.Name, "error").Inc()
		slog.Error("scheduled maintenance failed", "job", job.Name, "error", err)
		return
	}
	maintenanceRuns.WithLabelValues(job.Name, "ok").Inc()
	slog.Info("scheduled maintenance done", "job", job.Name, "affected", n)
}

// JobNames lists the configured job names sorted by run hour.
func (s *Scheduler) JobNames() []string {
	jobs := make([]Job, len(s.jobs))
	copy(jobs, s.jobs)
	sort.SliceStable(jobs, func(i, j int) bool { return jobs[i].Hour < jobs[j].Hour })
	names := make([]string, len(jobs))
	for i, job := range jobs {
		names[i] = job.Name
	}
	return names
}
