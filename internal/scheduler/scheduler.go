package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"mailtriage/internal/config"
)

// Job identities are stable keys derived from mode and slot, so a
// repeated Start replaces jobs instead of duplicating them.
const (
	JobInterval = "email_processor"
	JobMorning  = "email_processor_morning"
	JobEvening  = "email_processor_evening"
)

type job struct {
	id      string
	name    string
	trigger string
	entryID cron.EntryID
}

// JobStatus describes one active job for the status endpoint.
type JobStatus struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	NextRun string `json:"next_run,omitempty"`
	Trigger string `json:"trigger"`
}

// Status reports the controller configuration and active job set.
type Status struct {
	Enabled         bool        `json:"enabled"`
	Running         bool        `json:"running"`
	Mode            string      `json:"mode"`
	MorningTime     string      `json:"morning_time"`
	EveningTime     string      `json:"evening_time"`
	IntervalMinutes int         `json:"interval_minutes"`
	Jobs            []JobStatus `json:"jobs"`
}

// Controller owns the recurring invocation of the processing pipeline.
// All state transitions are serialized by one mutex.
type Controller struct {
	cfg config.SchedulerConfig
	run func()
	log *zap.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	jobs    []job
	running bool
}

// New validates the configuration and returns a stopped controller.
// run is invoked on every fire; overlap is prevented by the pipeline's
// own single-flight guard, not here.
func New(cfg config.SchedulerConfig, run func(), log *zap.Logger) (*Controller, error) {
	switch cfg.Mode {
	case "interval":
		if cfg.IntervalMinutes < 1 {
			return nil, fmt.Errorf("interval_minutes must be positive, got %d", cfg.IntervalMinutes)
		}
	case "time":
		if _, _, err := parseClock(cfg.MorningTime); err != nil {
			return nil, fmt.Errorf("invalid morning_time: %w", err)
		}
		if _, _, err := parseClock(cfg.EveningTime); err != nil {
			return nil, fmt.Errorf("invalid evening_time: %w", err)
		}
	default:
		return nil, fmt.Errorf("scheduler mode must be \"time\" or \"interval\", got %q", cfg.Mode)
	}

	return &Controller{cfg: cfg, run: run, log: log}, nil
}

// Start builds and activates the job set for the configured mode.
// Calling Start while running replaces the existing jobs. A registration
// failure leaves the controller stopped.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.cfg.Enabled {
		c.log.Info("scheduler is disabled")
		return nil
	}

	c.stopLocked()

	cr := cron.New()
	var jobs []job

	switch c.cfg.Mode {
	case "interval":
		spec := fmt.Sprintf("@every %dm", c.cfg.IntervalMinutes)
		entryID, err := cr.AddFunc(spec, c.run)
		if err != nil {
			return fmt.Errorf("registering interval job: %w", err)
		}
		jobs = append(jobs, job{
			id:      JobInterval,
			name:    "Process new emails (Interval)",
			trigger: spec,
			entryID: entryID,
		})
		c.log.Info("interval scheduler started",
			zap.Int("interval_minutes", c.cfg.IntervalMinutes))

	case "time":
		slots := []struct {
			id, label, clock string
		}{
			{JobMorning, "Morning", c.cfg.MorningTime},
			{JobEvening, "Evening", c.cfg.EveningTime},
		}
		for _, slot := range slots {
			hour, minute, err := parseClock(slot.clock)
			if err != nil {
				return fmt.Errorf("registering %s job: %w", slot.label, err)
			}
			spec := fmt.Sprintf("%d %d * * *", minute, hour)
			entryID, err := cr.AddFunc(spec, c.run)
			if err != nil {
				return fmt.Errorf("registering %s job: %w", slot.label, err)
			}
			jobs = append(jobs, job{
				id:      slot.id,
				name:    fmt.Sprintf("Process new emails (%s - %s)", slot.label, slot.clock),
				trigger: spec,
				entryID: entryID,
			})
		}
		c.log.Info("time-based scheduler started",
			zap.String("morning", c.cfg.MorningTime),
			zap.String("evening", c.cfg.EveningTime))
	}

	cr.Start()
	c.cron = cr
	c.jobs = jobs
	c.running = true
	return nil
}

// Stop deactivates and removes all jobs. Idempotent.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		c.log.Info("scheduler stopped")
	}
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	if c.cron != nil {
		c.cron.Stop()
	}
	c.cron = nil
	c.jobs = nil
	c.running = false
}

// Restart stops and starts the controller.
func (c *Controller) Restart() error {
	c.Stop()
	return c.Start()
}

// Running reports whether the job set is active.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Status reports the configuration and, while running, each job's next
// fire time.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Status{
		Enabled:         c.cfg.Enabled,
		Running:         c.running,
		Mode:            c.cfg.Mode,
		MorningTime:     c.cfg.MorningTime,
		EveningTime:     c.cfg.EveningTime,
		IntervalMinutes: c.cfg.IntervalMinutes,
		Jobs:            []JobStatus{},
	}

	for _, j := range c.jobs {
		js := JobStatus{ID: j.id, Name: j.name, Trigger: j.trigger}
		if c.running && c.cron != nil {
			if next := c.cron.Entry(j.entryID).Next; !next.IsZero() {
				js.NextRun = next.Format(time.RFC3339)
			}
		}
		st.Jobs = append(st.Jobs, js)
	}

	return st
}

// parseClock parses "HH:MM" into hour and minute.
func parseClock(s string) (int, int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("time %q must be in HH:MM format", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("time %q has an invalid hour", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q has an invalid minute", s)
	}
	return hour, minute, nil
}
