package tracker

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"project-pulse/pkg/eventgraph"
	"project-pulse/pkg/task"
)

type fixture struct {
	tracker *Tracker
	store   *task.MemStore
	bus     *eventgraph.Bus
	clock   clockwork.FakeClock
	logs    *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := task.NewMemStore(task.DefaultSeed()...)
	if err != nil {
		t.Fatalf("NewMemStore() err = %v", err)
	}
	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	clock := clockwork.NewFakeClockAt(time.Date(2024, 11, 18, 0, 0, 0, 0, time.UTC))
	bus := eventgraph.NewBus(eventgraph.NewMemStore(clock), logger)

	tr, err := New(store, bus, clock, Options{}, logger)
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}
	return &fixture{tracker: tr, store: store, bus: bus, clock: clock, logs: &logs}
}

type loadResult struct {
	p   *task.Project
	err error
}

func (f *fixture) load(ctx context.Context, id int) <-chan loadResult {
	out := make(chan loadResult, 1)
	go func() {
		p, err := f.tracker.LoadProject(ctx, id)
		out <- loadResult{p, err}
	}()
	return out
}

func (f *fixture) update(ctx context.Context, p *task.Project, id int, s task.Status) <-chan error {
	out := make(chan error, 1)
	go func() {
		out <- f.tracker.UpdateTaskStatus(ctx, p, id, s)
	}()
	return out
}

func TestNew_NilDependencies(t *testing.T) {
	store, _ := task.NewMemStore()
	bus := eventgraph.NewBus(eventgraph.NewMemStore(nil), zerolog.Nop())

	if _, err := New(nil, bus, nil, Options{}, zerolog.Nop()); !errors.Is(err, ErrStoreNil) {
		t.Fatalf("New(nil store) err = %v, want %v", err, ErrStoreNil)
	}
	if _, err := New(store, nil, nil, Options{}, zerolog.Nop()); !errors.Is(err, ErrBusNil) {
		t.Fatalf("New(nil bus) err = %v, want %v", err, ErrBusNil)
	}

	tr, err := New(store, bus, nil, Options{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() err = %v", err)
	}
	if tr.opts.LoadDelay != DefaultLoadDelay || tr.opts.UpdateDelay != DefaultUpdateDelay {
		t.Fatalf("opts = %+v, want defaults", tr.opts)
	}
}

func TestLoadProjectWaitsForDelay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.load(ctx, 101)
	f.clock.BlockUntil(1)
	f.clock.Advance(DefaultLoadDelay - time.Millisecond)

	select {
	case r := <-res:
		t.Fatalf("LoadProject resolved before the delay: %+v", r)
	default:
	}

	f.clock.Advance(time.Millisecond)
	r := <-res
	if r.err != nil {
		t.Fatalf("LoadProject() err = %v", r.err)
	}
	if r.p.ID != 101 || len(r.p.Tasks) != 3 {
		t.Fatalf("LoadProject() = %+v", r.p)
	}
}

func TestLoadProjectNotFound(t *testing.T) {
	f := newFixture(t)

	res := f.load(context.Background(), 999)
	f.clock.BlockUntil(1)
	f.clock.Advance(DefaultLoadDelay)

	r := <-res
	if !errors.Is(r.err, task.ErrProjectNotFound) {
		t.Fatalf("LoadProject(999) err = %v, want %v", r.err, task.ErrProjectNotFound)
	}
	if !strings.Contains(r.err.Error(), "project not found") {
		t.Fatalf("error message = %q", r.err.Error())
	}
}

func TestLoadProjectCancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.tracker.LoadProject(ctx, 101)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("LoadProject() err = %v, want %v", err, context.Canceled)
	}
}

func TestUpdateTaskStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, _ := f.store.Get(ctx, 101)
	before := task.GenerateSummary(p)

	res := f.update(ctx, p, 2, task.StatusCompleted)
	f.clock.BlockUntil(1)
	f.clock.Advance(DefaultUpdateDelay)

	if err := <-res; err != nil {
		t.Fatalf("UpdateTaskStatus() err = %v", err)
	}

	after := task.GenerateSummary(p)
	if after[task.StatusCompleted] != before[task.StatusCompleted]+1 {
		t.Errorf("completed = %d, want %d", after[task.StatusCompleted], before[task.StatusCompleted]+1)
	}
	if after[task.StatusInProgress] != before[task.StatusInProgress]-1 {
		t.Errorf("in progress = %d, want %d", after[task.StatusInProgress], before[task.StatusInProgress]-1)
	}

	// the update is visible through the store
	again, _ := f.store.Get(ctx, 101)
	if again.Task(2).Status != task.StatusCompleted {
		t.Fatalf("reloaded status = %s, want %s", again.Task(2).Status, task.StatusCompleted)
	}
}

func TestUpdateTaskStatusTaskNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, _ := f.store.Get(ctx, 101)

	res := f.update(ctx, p, 42, task.StatusCompleted)
	f.clock.BlockUntil(1)
	f.clock.Advance(DefaultUpdateDelay)

	if err := <-res; !errors.Is(err, task.ErrTaskNotFound) {
		t.Fatalf("UpdateTaskStatus() err = %v, want %v", err, task.ErrTaskNotFound)
	}
}

func TestUpdateTaskStatusCancelledWhileWaiting(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p, _ := f.store.Get(ctx, 101)

	res := f.update(ctx, p, 2, task.StatusCompleted)
	f.clock.BlockUntil(1)
	f.clock.Advance(DefaultUpdateDelay / 2)
	cancel()

	if err := <-res; !errors.Is(err, context.Canceled) {
		t.Fatalf("UpdateTaskStatus() err = %v, want %v", err, context.Canceled)
	}

	// the pending timer must not apply the update later
	f.clock.Advance(DefaultUpdateDelay)
	if p.Task(2).Status != task.StatusInProgress {
		t.Fatalf("status = %s, want %s", p.Task(2).Status, task.StatusInProgress)
	}
}

func TestUpdateTaskStatusRejectsInvalidStatusImmediately(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, _ := f.store.Get(ctx, 101)

	// no clock advance: invalid input must fail without waiting
	err := f.tracker.UpdateTaskStatus(ctx, p, 2, task.Status("Completada"))
	if !errors.Is(err, task.ErrInvalidStatus) {
		t.Fatalf("UpdateTaskStatus() err = %v, want %v", err, task.ErrInvalidStatus)
	}
	if p.Task(2).Status != task.StatusInProgress {
		t.Fatalf("status changed to %s", p.Task(2).Status)
	}
}

func TestUpdateTaskStatusDoesNotNotify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, _ := f.store.Get(ctx, 101)

	res := f.update(ctx, p, 3, task.StatusCompleted)
	f.clock.BlockUntil(1)
	f.clock.Advance(DefaultUpdateDelay)
	if err := <-res; err != nil {
		t.Fatalf("UpdateTaskStatus() err = %v", err)
	}

	if n, _ := f.bus.Count(ctx); n != 0 {
		t.Fatalf("events after update = %d, want 0", n)
	}
}

func TestNotifyCompleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var logs bytes.Buffer
	f.bus.On(EventTaskCompleted, LogCompletions(zerolog.New(&logs)))

	e, err := f.tracker.NotifyCompleted(ctx, 2)
	if err != nil {
		t.Fatalf("NotifyCompleted() err = %v", err)
	}
	if e.Type != EventTaskCompleted {
		t.Fatalf("event type = %s, want %s", e.Type, EventTaskCompleted)
	}
	if id, _ := TaskID(e); id != 2 {
		t.Fatalf("event task id = %d, want 2", id)
	}
	if !strings.Contains(logs.String(), "task 2 has been completed") {
		t.Fatalf("subscriber output = %q", logs.String())
	}
	if err := f.bus.VerifyChain(ctx); err != nil {
		t.Fatalf("VerifyChain() err = %v", err)
	}
}

func TestNotifyCompletedIgnoresSubscriberErrors(t *testing.T) {
	f := newFixture(t)
	f.bus.On(EventTaskCompleted, func(context.Context, *eventgraph.Event) error {
		return errors.New("subscriber down")
	})

	if _, err := f.tracker.NotifyCompleted(context.Background(), 2); err != nil {
		t.Fatalf("NotifyCompleted() err = %v, want nil", err)
	}
	if !strings.Contains(f.logs.String(), "subscriber down") {
		t.Fatalf("subscriber failure not logged: %s", f.logs.String())
	}
}

func TestTaskIDMissing(t *testing.T) {
	if _, err := TaskID(&eventgraph.Event{ID: "x", Content: map[string]any{}}); err == nil {
		t.Fatalf("TaskID() err = nil, want non-nil")
	}
}
