// Package scheduler runs the background jobs of the wealth server: the
// monthly snapshot, the maturity watch and the mirror sync.
package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is a unit of background work on the portfolio.
type Job interface {
	Run() error
	Name() string
}

// Scheduler runs jobs on cron schedules.
type Scheduler struct {
	cron    *cron.Cron
	log     zerolog.Logger
	entries map[string]cron.EntryID // by job name
	atStart []Job
}

// New returns a Scheduler logging to log. A job still running when its
// next tick comes is skipped, and a panicking job is logged, not fatal.
func New(log zerolog.Logger) *Scheduler {
	log = log.With().Str("component", "scheduler").Logger()
	l := cronLogger{log}
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(l), cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l))),
		log:     log,
		entries: make(map[string]cron.EntryID),
	}
}

// AddJob registers job with a standard five fields cron schedule or a
// descriptor like "@monthly" or "@every 1h". When atStart is true the job
// also runs once on Start, so that a snapshot or a maturity missed while the
// server was down is caught up.
func (s *Scheduler) AddJob(schedule string, job Job, atStart bool) error {
	id, err := s.cron.AddFunc(schedule, func() { s.run(job) })
	if err != nil {
		return err
	}
	s.entries[job.Name()] = id
	if atStart {
		s.atStart = append(s.atStart, job)
	}
	s.log.Info().Str("schedule", schedule).Str("job", job.Name()).Bool("at_start", atStart).Msg("Job registered")
	return nil
}

// Next returns the next run time of the job named name, or the zero time
// before Start or for an unknown job.
func (s *Scheduler) Next(name string) time.Time {
	id, ok := s.entries[name]
	if !ok {
		return time.Time{}
	}
	return s.cron.Entry(id).Next
}

// Start runs the catch-up jobs, then starts the schedules. It returns the
// number of catch-up jobs that failed.
func (s *Scheduler) Start() int {
	failed := 0
	for _, job := range s.atStart {
		if !s.run(job) {
			failed++
		}
	}
	s.cron.Start()
	for name := range s.entries {
		s.log.Info().Str("job", name).Time("next", s.Next(name)).Msg("Job scheduled")
	}
	return failed
}

// Stop stops the schedules and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) run(job Job) bool {
	s.log.Debug().Str("job", job.Name()).Msg("Running job")
	if err := job.Run(); err != nil {
		s.log.Error().Err(err).Str("job", job.Name()).Msg("Job failed")
		return false
	}
	s.log.Debug().Str("job", job.Name()).Msg("Job completed")
	return true
}

// cronLogger routes cron's own messages to zerolog.
type cronLogger struct{ log zerolog.Logger }

func (l cronLogger) Info(msg string, kv ...interface{}) {
	l.log.Debug().Fields(kv).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, kv ...interface{}) {
	l.log.Error().Err(err).Fields(kv).Msg(msg)
}
