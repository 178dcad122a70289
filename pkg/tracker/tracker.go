// Package tracker exposes project and task operations with simulated
// storage latency and task-completion notifications.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"project-pulse/pkg/eventgraph"
	"project-pulse/pkg/task"
)

const (
	DefaultLoadDelay   = 2 * time.Second
	DefaultUpdateDelay = 1 * time.Second

	// EventTaskCompleted is emitted after a task reaches StatusCompleted.
	EventTaskCompleted = "task.completed"

	source = "tracker"
)

var (
	ErrStoreNil = errors.New("project store is nil")
	ErrBusNil   = errors.New("event bus is nil")
)

// Options tunes the simulated latency.
type Options struct {
	LoadDelay   time.Duration
	UpdateDelay time.Duration
}

// Tracker loads projects and updates task statuses after a fixed artificial
// delay measured on an injected clock.
type Tracker struct {
	store  task.Store
	bus    *eventgraph.Bus
	clock  clockwork.Clock
	opts   Options
	logger zerolog.Logger
}

// New creates a Tracker. A nil clock means the real clock; zero delays in
// opts fall back to the defaults.
func New(store task.Store, bus *eventgraph.Bus, clock clockwork.Clock, opts Options, logger zerolog.Logger) (*Tracker, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	if bus == nil {
		return nil, ErrBusNil
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if opts.LoadDelay <= 0 {
		opts.LoadDelay = DefaultLoadDelay
	}
	if opts.UpdateDelay <= 0 {
		opts.UpdateDelay = DefaultUpdateDelay
	}

	return &Tracker{
		store:  store,
		bus:    bus,
		clock:  clock,
		opts:   opts,
		logger: logger,
	}, nil
}

// Now returns the tracker clock's current time, the reference point for
// remaining-time and critical-task queries.
func (t *Tracker) Now() time.Time {
	return t.clock.Now()
}

// LoadProject returns the project with the given id after LoadDelay.
func (t *Tracker) LoadProject(ctx context.Context, id int) (*task.Project, error) {
	if err := t.wait(ctx, t.opts.LoadDelay); err != nil {
		return nil, err
	}

	p, err := t.store.Get(ctx, id)
	if err != nil {
		t.logger.Warn().
			Err(err).
			Int("project_id", id).
			Msg("load project failed")
		return nil, err
	}

	t.logger.Debug().
		Int("project_id", id).
		Int("tasks", len(p.Tasks)).
		Msg("loaded project")
	return p, nil
}

// UpdateTaskStatus sets the status of the first task with taskID in p after
// UpdateDelay. The status is validated before waiting. It does not emit any
// notification; callers announce completions with NotifyCompleted.
func (t *Tracker) UpdateTaskStatus(ctx context.Context, p *task.Project, taskID int, status task.Status) error {
	if !status.Valid() {
		return fmt.Errorf("update task %d: %w: %q", taskID, task.ErrInvalidStatus, status)
	}

	if err := t.wait(ctx, t.opts.UpdateDelay); err != nil {
		return err
	}

	tk := p.Task(taskID)
	if tk == nil {
		t.logger.Warn().
			Int("project_id", p.ID).
			Int("task_id", taskID).
			Msg("update status: task not found")
		return fmt.Errorf("update task %d: %w", taskID, task.ErrTaskNotFound)
	}

	prev := tk.Status
	tk.Status = status

	t.logger.Info().
		Int("project_id", p.ID).
		Int("task_id", taskID).
		Str("from", string(prev)).
		Str("to", string(status)).
		Msg("task status updated")
	return nil
}

// NotifyCompleted emits EventTaskCompleted for taskID. Subscriber failures
// are not reported back.
func (t *Tracker) NotifyCompleted(ctx context.Context, taskID int) (*eventgraph.Event, error) {
	e, err := t.bus.Append(ctx, EventTaskCompleted, source, map[string]any{"task_id": taskID})
	if err != nil {
		return nil, fmt.Errorf("emit %s: %w", EventTaskCompleted, err)
	}
	return e, nil
}

func (t *Tracker) wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.clock.After(d):
		return nil
	}
}
