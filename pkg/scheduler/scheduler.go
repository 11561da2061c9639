// Package scheduler runs registered workflows on cron schedules through the
// manager, so scheduled runs carry the same environment policy as manual
// ones.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pinkflow/pinkflow/pkg/manager"
	"github.com/pinkflow/pinkflow/pkg/models"
)

var ErrScheduleExists = errors.New("schedule already exists")

// Schedule binds a workflow to a cron expression.
type Schedule struct {
	WorkflowID string
	CronExpr   string
	Timezone   string

	// Initial is cloned into each scheduled run's starting context.
	Initial models.Context
}

// Validate checks the schedule is well formed without touching the registry:
// the workflow only has to exist by the time the schedule fires.
func (s Schedule) Validate() error {
	if s.WorkflowID == "" {
		return errors.New("schedule workflow id is required")
	}

	if s.CronExpr == "" {
		return errors.New("schedule cron expression is required")
	}

	if _, err := cron.ParseStandard(s.CronExpr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", s.CronExpr, err)
	}

	if s.Timezone != "" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", s.Timezone, err)
		}
	}

	return nil
}

// Scheduler owns one cron runner and a set of workflow schedules.
type Scheduler struct {
	logger  *slog.Logger
	manager *manager.Manager
	cron    *cron.Cron

	mutex   sync.Mutex
	entries map[string]cron.EntryID
	started bool
}

// NewScheduler creates a stopped scheduler. Schedules can be added before or
// after Start.
func NewScheduler(logger *slog.Logger, mgr *manager.Manager) *Scheduler {
	return &Scheduler{
		logger:  logger.With("module", "scheduler"),
		manager: mgr,
		cron:    cron.New(),
		entries: make(map[string]cron.EntryID),
	}
}

// Add registers a schedule keyed by workflow ID. One schedule per workflow;
// replace by removing first.
func (s *Scheduler) Add(schedule Schedule) error {
	if err := schedule.Validate(); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.entries[schedule.WorkflowID]; exists {
		return fmt.Errorf("workflow %s: %w", schedule.WorkflowID, ErrScheduleExists)
	}

	spec := schedule.CronExpr
	if schedule.Timezone != "" {
		spec = "CRON_TZ=" + schedule.Timezone + " " + spec
	}

	entryID, err := s.cron.AddFunc(spec, func() {
		s.fire(schedule)
	})
	if err != nil {
		return fmt.Errorf("cannot schedule workflow %s: %w", schedule.WorkflowID, err)
	}

	s.entries[schedule.WorkflowID] = entryID

	s.logger.Info("Schedule added",
		"workflow_id", schedule.WorkflowID,
		"cron", schedule.CronExpr)

	return nil
}

// Remove drops the schedule for a workflow. Removing an unknown workflow is
// a no-op.
func (s *Scheduler) Remove(workflowID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if entryID, exists := s.entries[workflowID]; exists {
		s.cron.Remove(entryID)
		delete(s.entries, workflowID)

		s.logger.Info("Schedule removed", "workflow_id", workflowID)
	}
}

// Count returns the number of active schedules.
func (s *Scheduler) Count() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return len(s.entries)
}

// Start begins firing schedules. Idempotent.
func (s *Scheduler) Start() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.started {
		return
	}

	s.cron.Start()
	s.started = true

	s.logger.Info("Scheduler started", "schedules", len(s.entries))
}

// Stop halts the cron runner and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.started {
		return
	}

	<-s.cron.Stop().Done()
	s.started = false

	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) fire(schedule Schedule) {
	initial := models.Context{}
	if schedule.Initial != nil {
		initial = schedule.Initial.Clone()
	}

	initial["scheduled"] = true
	initial["scheduled_at"] = time.Now().UTC().Format(time.RFC3339)

	result, err := s.manager.ExecuteWorkflow(context.Background(), schedule.WorkflowID, initial, "")
	if err != nil {
		s.logger.Error("Scheduled execution failed",
			"workflow_id", schedule.WorkflowID,
			"error", err)

		return
	}

	s.logger.Info("Scheduled execution finished",
		"workflow_id", schedule.WorkflowID,
		"status", result[models.ContextKeyExecutionStatus])
}
